package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"genesearch/models"
)

const ptgResultsPage = `
<html><body>
<div id="ptgSearchResults">
<div class="ptg-search-row"><span class="name">Jan Nowak</span> <span class="year">1881</span> <span class="parish">Gda&#324;sk &#347;w. Miko&#322;aja</span></div>
<div class="ptg-search-row"><span class="name">Anna Nowak</span> <span class="year">1883</span> <span class="parish">Sopot</span></div>
<div class="ptg-search-row"></div>
</div>
</body></html>`

func TestPTGParsePage(t *testing.T) {
	p := &PTG{logger: zap.NewNop()}

	rows := p.parsePage(ptgResultsPage)
	require.Len(t, rows, 2, "the empty row div is dropped")

	first, ok := rows[0].(*models.BirthRow)
	require.True(t, ok)
	assert.Equal(t, "1881", first.Year)
	assert.Equal(t, "Gdańsk św. Mikołaja", first.Parish, "entities must be decoded")
	assert.Equal(t, "Jan Nowak", first.Raw)

	// One combined name field only: the row can never be a confirmed match.
	assert.Empty(t, first.GivenName)
	assert.Empty(t, first.Surname)

	second := rows[1].(*models.BirthRow)
	assert.Equal(t, "Anna Nowak", second.Raw)
	assert.Equal(t, "Sopot", second.Parish)
}

func TestPTGParsePageNoResults(t *testing.T) {
	p := &PTG{logger: zap.NewNop()}

	assert.Empty(t, p.parsePage("<html><body>Brak wyników</body></html>"))
	assert.Empty(t, p.parsePage(`<div id="ptgSearchResults"></div>`))
}
