package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// ChapterMenu is the scrollable, filterable list of chapter entries.
// At most one entry is marked active: the selector's current chapter.
type ChapterMenu struct {
	chapters []domain.Chapter
	labels   []string
	activeID string

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filtered     []search.Match // nil when no filter is applied
}

// NewChapterMenu creates a menu over chapters in display order
func NewChapterMenu(title string, chapters []domain.Chapter) *ChapterMenu {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	labels := make([]string, len(chapters))
	for i, c := range chapters {
		labels[i] = c.MenuLabel()
	}

	return &ChapterMenu{
		chapters:    chapters,
		labels:      labels,
		title:       title,
		filterInput: ti,
		focused:     true,
	}
}

// Update handles navigation and filter typing
func (c *ChapterMenu) Update(msg tea.Msg) tea.Cmd {
	if !c.focused {
		return nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	// Typing mode: keys go to the filter input
	if c.filterActive && c.filterInput.Focused() {
		if isKey {
			switch {
			case key.Matches(keyMsg, MenuKeys.Escape):
				c.clearFilter()
				return nil
			case key.Matches(keyMsg, MenuKeys.Enter):
				// Accept filter, blur input to allow navigation
				c.filterInput.Blur()
				return nil
			case keyMsg.String() == "backspace" && c.filterInput.Value() == "":
				c.clearFilter()
				return nil
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return cmd
	}

	if !isKey {
		return nil
	}

	// Filter applied but blurred: navigation over the results
	if c.filterActive {
		switch {
		case key.Matches(keyMsg, MenuKeys.Escape):
			c.clearFilter()
			return nil
		case key.Matches(keyMsg, MenuKeys.Filter):
			c.filterInput.Focus()
			return nil
		}
	}

	count := c.ItemCount()
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, MenuKeys.Down):
		c.moveCursor(1)
	case key.Matches(keyMsg, MenuKeys.Up):
		c.moveCursor(-1)
	case key.Matches(keyMsg, MenuKeys.Home):
		c.cursor = 0
		c.offset = 0
	case key.Matches(keyMsg, MenuKeys.End):
		c.cursor = count - 1
		c.ensureVisible()
	case key.Matches(keyMsg, MenuKeys.HalfDown):
		c.moveCursor(max(c.maxVisible/2, 1))
	case key.Matches(keyMsg, MenuKeys.HalfUp):
		c.moveCursor(-max(c.maxVisible/2, 1))
	case key.Matches(keyMsg, MenuKeys.PageDown):
		c.moveCursor(c.maxVisible)
	case key.Matches(keyMsg, MenuKeys.PageUp):
		c.moveCursor(-c.maxVisible)
	}

	return nil
}

func (c *ChapterMenu) moveCursor(delta int) {
	count := c.ItemCount()
	c.cursor = min(max(c.cursor+delta, 0), count-1)
	c.ensureVisible()
}

func (c *ChapterMenu) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	content := c.renderContent()

	// Subtract frame (border) size so total rendered size equals c.width x c.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(c.width - frameW).
		Height(c.height - frameH).
		Render(content)
}

func (c *ChapterMenu) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible() // Scroll to show selected item now that we know the size
}

func (c *ChapterMenu) SetFocused(focused bool) {
	c.focused = focused
}

func (c *ChapterMenu) Focused() bool {
	return c.focused
}

// MarkActive highlights the entry with the given id and clears any other.
// Outside of filtering the cursor follows the active entry.
func (c *ChapterMenu) MarkActive(id string) {
	c.activeID = id
	if c.filterActive {
		return
	}
	for i, ch := range c.chapters {
		if ch.ID == id {
			c.cursor = i
			c.ensureVisible()
			return
		}
	}
}

// ActiveID returns the id of the highlighted entry, empty when none
func (c *ChapterMenu) ActiveID() string {
	return c.activeID
}

// SelectedChapter returns the chapter under the cursor
func (c *ChapterMenu) SelectedChapter() (domain.Chapter, bool) {
	if c.cursor < 0 || c.cursor >= c.ItemCount() {
		return domain.Chapter{}, false
	}
	return c.chapters[c.mapIndex(c.cursor)], true
}

// ItemCount returns the number of entries after filtering
func (c *ChapterMenu) ItemCount() int {
	if c.filtered != nil {
		return len(c.filtered)
	}
	return len(c.chapters)
}

// ToggleFilter activates the filter input
func (c *ChapterMenu) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *ChapterMenu) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *ChapterMenu) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all entries
func (c *ChapterMenu) ClearFilter() {
	c.clearFilter()
}

// Internal methods

func (c *ChapterMenu) recalcMaxVisible() {
	// Interior height = total - border, minus title line and scroll indicators
	interiorHeight := c.height - BorderHeight
	c.maxVisible = interiorHeight - ScrollIndicatorLines - 1
	// Reserve space for filter bar when active
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ChapterMenu) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ChapterMenu) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filtered = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
	if c.activeID != "" {
		c.MarkActive(c.activeID)
	}
}

func (c *ChapterMenu) applyFilter() {
	query := c.filterInput.Value()
	c.filterQuery = query

	if query == "" {
		c.filtered = nil
		return
	}

	c.filtered = search.Filter(c.labels, query)
	if c.filtered == nil {
		c.filtered = []search.Match{}
	}

	// Reset cursor to first match
	c.cursor = 0
	c.offset = 0
}

func (c *ChapterMenu) mapIndex(i int) int {
	if c.filtered != nil && i < len(c.filtered) {
		return c.filtered[i].Index
	}
	return i
}

func (c *ChapterMenu) matchedIndexes(i int) map[int]bool {
	if c.filtered == nil || i >= len(c.filtered) {
		return nil
	}
	set := make(map[int]bool, len(c.filtered[i].MatchedIndexes))
	for _, idx := range c.filtered[i].MatchedIndexes {
		set[idx] = true
	}
	return set
}

// Rendering

func (c *ChapterMenu) renderContent() string {
	itemWidth := c.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	count := c.ItemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render("No chapters")
		if c.filterActive && c.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := titleLine + "\n" + " " + "\n" + emptyMsg + "\n" + " "
		if c.filterActive {
			content += "\n" + c.filterInput.View()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)

	var lines []string
	for i := c.offset; i < end; i++ {
		idx := c.mapIndex(i)
		lines = append(lines, c.renderItem(c.chapters[idx], c.labels[idx], c.matchedIndexes(i), i == c.cursor, itemWidth))
	}

	// Always reserve header and footer lines to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if c.filterActive {
		content += "\n" + c.filterInput.View()
	}
	return content
}

// markerWidth is the cell width of the active marker column
const markerWidth = 2

func (c *ChapterMenu) renderItem(ch domain.Chapter, label string, matched map[int]bool, selected bool, width int) string {
	amber := styles.ReelAmber
	start := domain.FormatSeconds(ch.Start)

	marker := "  "
	if ch.ID == c.activeID {
		marker = styles.ActiveChar + " "
	}

	// marker + label + space + start, minus row margins
	labelWidth := width - 2 - markerWidth - len(start) - 1
	if labelWidth < 3 {
		labelWidth = 3
	}
	full := len([]rune(label))
	label = styles.Truncate(label, labelWidth)
	shown := len([]rune(label))
	pad := labelWidth - shown

	// Characters hidden behind the ellipsis are never highlighted
	highlightable := shown
	if shown < full && labelWidth > 3 {
		highlightable = shown - 3
	}

	parts := []styles.RowPart{{Text: marker, Foreground: &amber}}
	if ch.ID == c.activeID {
		parts[0].Bold = true
	}

	if matched == nil {
		parts = append(parts, styles.RowPart{Text: label, Bold: ch.ID == c.activeID})
	} else {
		// Highlight fuzzy-matched characters; indexes are rune positions in the label
		for i, r := range []rune(label) {
			part := styles.RowPart{Text: string(r)}
			if i < highlightable && matched[i] {
				part.Foreground = &amber
				part.Bold = true
			}
			parts = append(parts, part)
		}
	}

	dim := styles.DimGray
	parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", max(pad, 0)+1) + start, Foreground: &dim})

	return styles.RenderListRow(parts, selected, width)
}
