package source

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
)

// recordsFile is the on-disk shape of a JSON chapter file
type recordsFile struct {
	Chapters []domain.Record `json:"chapters"`
}

// DecodeJSON reads {"chapters": [...]} or a bare array of records
func DecodeJSON(r io.Reader) ([]domain.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapter file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var records []domain.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse chapter list: %w", err)
		}
		return records, nil
	}

	var file recordsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse chapter file: %w", err)
	}
	return file.Chapters, nil
}

// EncodeJSON writes records in the {"chapters": [...]} shape
func EncodeJSON(w io.Writer, records []domain.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recordsFile{Chapters: records})
}

// ParseAttributes converts string attributes into a record.
// "ini" is accepted as an alias for "start". Values that do not parse as
// numbers are left unset, so validation reports them as missing.
func ParseAttributes(attrs map[string]string) domain.Record {
	r := domain.Record{
		ID:      strings.TrimSpace(attrs["id"]),
		Title:   attrs["title"],
		Content: attrs["content"],
	}

	if v, ok := attrs["order"]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			r.Order = &n
		}
	}

	start, ok := attrs["start"]
	if !ok {
		start, ok = attrs["ini"]
	}
	if ok {
		r.Start = parseSeconds(start)
	}
	if v, ok := attrs["end"]; ok {
		r.End = parseSeconds(v)
	}

	return r
}

func parseSeconds(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
