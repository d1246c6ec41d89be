package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Introduction", 20, "Introduction"},
		{"Introduction", 8, "Intro..."},
		{"Introduction", 3, "Int"},
		{"Introduction", 0, ""},
		{"Año nuevo en la montaña", 10, "Año nue..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
	}
}

func TestRenderListRow_FillsWidth(t *testing.T) {
	row := RenderListRow([]RowPart{{Text: "1. Intro"}, {Text: " 0:00"}}, true, 30)
	assert.Equal(t, 30, lipgloss.Width(row))
}

func TestRenderProgressBar(t *testing.T) {
	assert.Empty(t, RenderProgressBar(50, 2))
	assert.Equal(t, 10, lipgloss.Width(RenderProgressBar(50, 10)))
	assert.Equal(t, 10, lipgloss.Width(RenderProgressBar(150, 10)))
}
