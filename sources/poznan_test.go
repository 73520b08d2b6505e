package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"genesearch/models"
)

const poznanResultsPage = `
<html><body>
<table id="results">
<tr><th>Groom</th><th>Bride</th><th>Year</th><th>Parish</th></tr>
<tr><td><a href="/entry/77">Jan Nowak</a></td><td>Marianna Kowalska</td><td>1905</td><td>Ostr&oacute;w</td></tr>
<tr><td>truncated row</td></tr>
</table>
</body></html>`

func TestPoznanParsePage(t *testing.T) {
	p := &Poznan{logger: zap.NewNop()}

	rows := p.parsePage(poznanResultsPage)
	require.Len(t, rows, 1, "rows missing columns are dropped")

	marriage, ok := rows[0].(*models.MarriageRow)
	require.True(t, ok)
	assert.Equal(t, models.RecordMarriage, marriage.RecordType())
	assert.Equal(t, "1905", marriage.Year)
	assert.Equal(t, "Ostrów", marriage.Parish, "entities must be decoded")
	assert.Equal(t, "/entry/77", marriage.Link)
	assert.Equal(t, "groom: Jan Nowak, bride: Marianna Kowalska", marriage.Raw)

	// Groom and bride come as combined full names, so the row stays
	// audit-only.
	assert.Empty(t, marriage.GivenName)
	assert.Empty(t, marriage.Surname)
}

func TestPoznanParsePageMissingTable(t *testing.T) {
	p := &Poznan{logger: zap.NewNop()}
	assert.Empty(t, p.parsePage("<html><body>No results found</body></html>"))
}
