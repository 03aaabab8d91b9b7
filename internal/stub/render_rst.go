package stub

import (
	"strings"

	"git.home.luguber.info/inful/fitsdoc/internal/fitsmeta"
)

// RSTRenderer lays out the page as reStructuredText.
type RSTRenderer struct{}

func (RSTRenderer) Name() string      { return FormatRST }
func (RSTRenderer) Extension() string { return ".rst" }

// Render emits the title block, the contents table and one section per HDU.
func (RSTRenderer) Render(doc Document) (string, error) {
	var lines []string

	rule := strings.Repeat("=", len(doc.Model))
	lines = append(lines, rule, doc.Model, rule, "")
	lines = append(lines,
		":Summary: "+summaryPlaceholder,
		":Naming Convention: ``"+doc.Source+"``, where "+namingPlaceholder,
		":Regex: ``"+doc.SourceRegex()+"`` "+regexPlaceholder,
		":File Type: "+doc.FileType(),
		"",
	)

	lines = append(lines, rstHeading("Contents", '=')...)
	lines = append(lines, rstSimpleTable(contentsHeader, contentsRows(doc))...)
	lines = append(lines, "")

	lines = append(lines, rstHeading("FITS Header Units", '=')...)
	for _, rec := range doc.Records {
		lines = append(lines, rstSection(rec)...)
	}

	return strings.Join(lines, "\n"), nil
}

// rstSection returns the lines documenting one HDU, ending with a blank line.
func rstSection(rec fitsmeta.HDURecord) []string {
	lines := rstHeading(rec.Name, '-')
	lines = append(lines, hduSummaryPlaceholder, "")
	if len(rec.Keywords) == 0 {
		lines = append(lines, noKeywordsSentence)
	} else {
		lines = append(lines, rstSimpleTable(keywordsHeader, keywordRows(rec))...)
	}
	lines = append(lines, "", rec.Format, "")
	return lines
}

func rstHeading(title string, mark byte) []string {
	return []string{title, strings.Repeat(string(mark), len(title)), ""}
}

// rstSimpleTable renders a simple table. Columns are as wide as their longest
// cell; an empty cell in the first column would end the table, so it is
// replaced by an escaped space.
func rstSimpleTable(header []string, rows [][]string) []string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	border := make([]string, len(widths))
	for i, w := range widths {
		border[i] = strings.Repeat("=", w)
	}
	rule := strings.Join(border, " ")

	out := []string{rule, rstRow(header, widths), rule}
	for _, row := range rows {
		if row[0] == "" {
			row = append([]string{`\`}, row[1:]...)
		}
		out = append(out, rstRow(row, widths))
	}
	return append(out, rule)
}

func rstRow(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
	}
	return strings.TrimRight(b.String(), " ")
}
