package source

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
)

// Cue is one WebVTT cue
type Cue struct {
	ID    string
	Start float64
	End   float64
	Text  string
}

// ParseWebVTT reads the cues of a WebVTT track. NOTE, STYLE and REGION
// blocks are skipped, as are cue settings after the timing line.
func ParseWebVTT(r io.Reader) ([]Cue, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var blocks [][]string
	var block []string
	lineNum := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNum == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
			if !strings.HasPrefix(line, "WEBVTT") {
				return nil, fmt.Errorf("%w: missing WEBVTT header", domain.ErrUnsupportedSource)
			}
		}
		lineNum++

		if strings.TrimSpace(line) == "" {
			if len(block) > 0 {
				blocks = append(blocks, block)
				block = nil
			}
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read webvtt: %w", err)
	}
	if len(block) > 0 {
		blocks = append(blocks, block)
	}
	if lineNum == 0 {
		return nil, fmt.Errorf("%w: empty webvtt track", domain.ErrUnsupportedSource)
	}

	// First block is the header
	var cues []Cue
	for i, b := range blocks {
		if i == 0 {
			continue
		}
		cue, ok, err := parseCueBlock(b)
		if err != nil {
			return nil, err
		}
		if ok {
			cues = append(cues, cue)
		}
	}
	return cues, nil
}

func parseCueBlock(lines []string) (Cue, bool, error) {
	first := lines[0]
	if strings.HasPrefix(first, "NOTE") || first == "STYLE" || first == "REGION" {
		return Cue{}, false, nil
	}

	var cue Cue
	timing := 0
	if !strings.Contains(first, "-->") {
		cue.ID = strings.TrimSpace(first)
		timing = 1
	}
	if timing >= len(lines) || !strings.Contains(lines[timing], "-->") {
		return Cue{}, false, fmt.Errorf("cue %q: missing timing line", cue.ID)
	}

	parts := strings.SplitN(lines[timing], "-->", 2)
	start, err := parseTimestamp(parts[0])
	if err != nil {
		return Cue{}, false, fmt.Errorf("cue %q: %w", cue.ID, err)
	}
	// Settings may follow the end timestamp
	endField := strings.Fields(parts[1])
	if len(endField) == 0 {
		return Cue{}, false, fmt.Errorf("cue %q: missing end timestamp", cue.ID)
	}
	end, err := parseTimestamp(endField[0])
	if err != nil {
		return Cue{}, false, fmt.Errorf("cue %q: %w", cue.ID, err)
	}

	cue.Start = start
	cue.End = end
	cue.Text = strings.Join(lines[timing+1:], "\n")
	return cue, true, nil
}

// parseTimestamp parses [hh:]mm:ss.ttt into seconds
func parseTimestamp(s string) (float64, error) {
	s = strings.TrimSpace(s)
	fields := strings.Split(s, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	secs, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	mins, err := strconv.Atoi(fields[len(fields)-2])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	hours := 0
	if len(fields) == 3 {
		if hours, err = strconv.Atoi(fields[0]); err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
	}

	return float64(hours*3600+mins*60) + secs, nil
}

// CuesToRecords converts cues to records ordered by cue position.
// A cue without a usable end is closed by the next cue's start, or by
// trackEnd for the last cue. Cues without an id are keyed by their start.
func CuesToRecords(cues []Cue, trackEnd float64, titleFrom TitleField) []domain.Record {
	records := make([]domain.Record, len(cues))
	for i, cue := range cues {
		id := cue.ID
		if id == "" {
			id = strconv.FormatFloat(cue.Start, 'f', -1, 64)
		}

		title := cue.ID
		if titleFrom == TitleFromText || title == "" {
			title = firstLine(cue.Text)
		}

		r := domain.Record{
			ID:      id,
			Order:   domain.IntPtr(i),
			Start:   domain.FloatPtr(cue.Start),
			Title:   title,
			Content: cue.Text,
		}
		if cue.End > cue.Start {
			r.End = domain.FloatPtr(cue.End)
		}
		records[i] = r
	}

	deriveEnds(records, trackEnd)
	return records
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}
