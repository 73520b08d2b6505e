package sources

import (
	"html"
	"regexp"
	"strings"
)

// The sites render classic server-side HTML tables. The handful of patterns
// below is all the structure the drivers rely on; anything fancier belongs
// to the site, not to us.
var (
	rowRegex  = regexp.MustCompile(`(?s)<tr[^>]*>(.*?)</tr>`)
	cellRegex = regexp.MustCompile(`(?s)<td[^>]*>(.*?)</td>`)
	tagRegex  = regexp.MustCompile(`<[^>]+>`)
	hrefRegex = regexp.MustCompile(`href="([^"]+)"`)
)

// tableByID cuts the <table id="..."> ... </table> block out of a page.
// Empty when the table is absent, which the drivers treat as "no results".
func tableByID(page, id string) string {
	re := regexp.MustCompile(`(?s)<table[^>]*id="` + regexp.QuoteMeta(id) + `"[^>]*>(.*?)</table>`)
	m := re.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	return m[1]
}

// tableByClass works like tableByID but keys on the class attribute.
func tableByClass(page, class string) string {
	re := regexp.MustCompile(`(?s)<table[^>]*class="[^"]*` + regexp.QuoteMeta(class) + `[^"]*"[^>]*>(.*?)</table>`)
	m := re.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	return m[1]
}

// tableRows returns the <td> cell texts of every data row, header skipped.
// The raw cell markup is returned alongside for link extraction.
func tableRows(table string) (cells [][]string, rawRows []string) {
	rows := rowRegex.FindAllStringSubmatch(table, -1)
	for i, row := range rows {
		if i == 0 {
			// header row
			continue
		}
		cols := cellRegex.FindAllStringSubmatch(row[1], -1)
		if len(cols) == 0 {
			continue
		}
		var texts []string
		for _, col := range cols {
			texts = append(texts, cellText(col[1]))
		}
		cells = append(cells, texts)
		rawRows = append(rawRows, row[1])
	}
	return cells, rawRows
}

// cellText strips markup and entities from a table cell.
func cellText(cell string) string {
	return strings.TrimSpace(html.UnescapeString(tagRegex.ReplaceAllString(cell, " ")))
}

// firstLink returns the first href in a chunk of markup, or "".
func firstLink(markup string) string {
	m := hrefRegex.FindStringSubmatch(markup)
	if m == nil {
		return ""
	}
	return html.UnescapeString(m[1])
}
