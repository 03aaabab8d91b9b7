package stub

import (
	"bytes"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/fitsdoc/internal/fitsmeta"
)

// MarkdownRenderer lays out the page as GitHub flavoured Markdown with YAML
// front matter.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Name() string      { return FormatMarkdown }
func (MarkdownRenderer) Extension() string { return ".md" }

type frontMatter struct {
	Title       string `yaml:"title"`
	Source      string `yaml:"source"`
	HDUs        int    `yaml:"hdus"`
	Fingerprint string `yaml:"fingerprint,omitempty"`
}

// Render emits front matter followed by the Markdown body. The fingerprint
// covers the front matter without the fingerprint field plus the body.
func (MarkdownRenderer) Render(doc Document) (string, error) {
	body := markdownBody(doc)

	fm := frontMatter{Title: doc.Model, Source: doc.Source, HDUs: len(doc.Records)}
	unsigned, err := encodeFrontMatter(fm)
	if err != nil {
		return "", err
	}
	fm.Fingerprint = mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(unsigned, "\n"), body)

	signed, err := encodeFrontMatter(fm)
	if err != nil {
		return "", err
	}
	return "---\n" + signed + "---\n" + body, nil
}

func encodeFrontMatter(fm frontMatter) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		_ = enc.Close()
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func markdownBody(doc Document) string {
	lines := []string{
		"# " + doc.Model,
		"",
		"- **Summary:** " + summaryPlaceholder,
		"- **Naming Convention:** `" + doc.Source + "`, where " + namingPlaceholder,
		"- **Regex:** `" + doc.SourceRegex() + "` " + regexPlaceholder,
		"- **File Type:** " + doc.FileType(),
		"",
		"## Contents",
		"",
	}
	lines = append(lines, markdownTable(contentsHeader, contentsRows(doc))...)
	lines = append(lines, "", "## FITS Header Units", "")
	for _, rec := range doc.Records {
		lines = append(lines, markdownSection(rec)...)
	}
	return strings.Join(lines, "\n")
}

func markdownSection(rec fitsmeta.HDURecord) []string {
	lines := []string{"### " + rec.Name, "", hduSummaryPlaceholder, ""}
	if len(rec.Keywords) == 0 {
		lines = append(lines, noKeywordsSentence)
	} else {
		lines = append(lines, markdownTable(keywordsHeader, keywordRows(rec))...)
	}
	return append(lines, "", rec.Format, "")
}

var pipeEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func markdownTable(header []string, rows [][]string) []string {
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	out := []string{markdownRow(header), markdownRow(sep)}
	for _, row := range rows {
		out = append(out, markdownRow(row))
	}
	return out
}

func markdownRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = pipeEscaper.Replace(c)
	}
	return "| " + strings.Join(escaped, " | ") + " |"
}
