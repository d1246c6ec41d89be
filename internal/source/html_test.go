package source

import (
	"strings"
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sequencesPage = `<!DOCTYPE html>
<html><body>
<div id="player-wrapper"></div>
<div id="sequences-data" hidden>
  <div id="seq-1" order="1" ini="0" end="35">
    <span id="sequence-data-title">  Llegada
      al valle </span>
    <div id="sequence-data-content"><p>Una <strong>mañana</strong> de invierno.</p></div>
  </div>
  <div id="seq-2" order="2" ini="35" end="80">
    <span class="label sequence-data-title">Cosecha</span>
    <div name="sequence-data-content">Texto plano</div>
  </div>
  <div id="seq-3" order="tres" ini="80" end="95"></div>
</div>
</body></html>`

func TestParseHTML(t *testing.T) {
	records, err := ParseHTML(strings.NewReader(sequencesPage), DefaultContainerID)
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "seq-1", first.ID)
	assert.Equal(t, 1, *first.Order)
	assert.Equal(t, 0.0, *first.Start)
	assert.Equal(t, 35.0, *first.End)
	assert.Equal(t, "Llegada al valle", first.Title)
	assert.Contains(t, first.Content, "**mañana**")

	second := records[1]
	assert.Equal(t, "Cosecha", second.Title)
	assert.Equal(t, "Texto plano", second.Content)

	assert.Nil(t, records[2].Order, "non-numeric order is left unset")
}

func TestParseHTML_MissingContainer(t *testing.T) {
	_, err := ParseHTML(strings.NewReader(sequencesPage), "chapters-menu")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedSource)
}

func TestParseHTML_CustomContainer(t *testing.T) {
	page := `<section id="secuencias"><a id="x" order="0" ini="1" end="2">ignored</a></section>`

	records, err := ParseHTML(strings.NewReader(page), "secuencias")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "x", records[0].ID)
	assert.Empty(t, records[0].Title)
}
