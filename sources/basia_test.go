package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"genesearch/models"
)

const basiaResultsPage = `
<html><body>
<table class="results sortable">
<tr><th>Name</th><th>Year</th><th>Place</th><th>Document</th></tr>
<tr><td><a href="/scan/9">Jan Nowak</a></td><td>1881</td><td>Swarz&#281;dz</td><td>birth certificate</td></tr>
<tr><td>Anna Nowak</td><td>1890</td></tr>
</table>
</body></html>`

func TestBaSIAParsePage(t *testing.T) {
	b := &BaSIA{logger: zap.NewNop()}

	rows := b.parsePage(basiaResultsPage)
	require.Len(t, rows, 1, "rows missing columns are dropped")

	row, ok := rows[0].(*models.BirthRow)
	require.True(t, ok)
	assert.Equal(t, "1881", row.Year)
	assert.Equal(t, "Swarzędz", row.Locality, "entities must be decoded")
	assert.Equal(t, "/scan/9", row.Link)
	assert.Equal(t, "Jan Nowak (birth certificate)", row.Raw)

	// One combined name field only: the row stays audit-only.
	assert.Empty(t, row.GivenName)
	assert.Empty(t, row.Surname)
}

func TestBaSIAParsePageMissingTable(t *testing.T) {
	b := &BaSIA{logger: zap.NewNop()}
	assert.Empty(t, b.parsePage("<html><body>Nic nie znaleziono</body></html>"))
}
