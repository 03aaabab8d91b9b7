package stub

import (
	"strings"
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRendererFor(t *testing.T) {
	tests := []struct {
		format string
		name   string
		ext    string
	}{
		{"rst", FormatRST, ".rst"},
		{"", FormatRST, ".rst"},
		{"md", FormatMarkdown, ".md"},
		{"Markdown", FormatMarkdown, ".md"},
		{" html ", FormatHTML, ".html"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, err := RendererFor(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.name, r.Name())
			assert.Equal(t, tt.ext, r.Extension())
		})
	}

	_, err := RendererFor("latex")
	require.ErrorIs(t, err, ErrUnknownRenderer)
}

func TestRSTSimpleTable_EmptyFirstCell(t *testing.T) {
	lines := rstSimpleTable([]string{"A", "B"}, [][]string{{"", "x"}})
	assert.Equal(t, []string{
		"= =",
		"A B",
		"= =",
		`\ x`,
		"= =",
	}, lines)
}

func renderMarkdown(t *testing.T) string {
	t.Helper()
	s := New(threeHDUs(), WithSource("data/fits_file.fits"), WithFileSize(3*2880), WithRenderer(MarkdownRenderer{}))
	out, err := s.Render()
	require.NoError(t, err)
	return out
}

func TestMarkdownRenderer_FrontMatter(t *testing.T) {
	out := renderMarkdown(t)
	require.True(t, strings.HasPrefix(out, "---\n"))

	parts := strings.SplitN(out, "---\n", 3)
	require.Len(t, parts, 3)

	var fm frontMatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "fits_file", fm.Title)
	assert.Equal(t, "fits_file.fits", fm.Source)
	assert.Equal(t, 3, fm.HDUs)
	require.NotEmpty(t, fm.Fingerprint)

	unsigned := fm
	unsigned.Fingerprint = ""
	raw, err := encodeFrontMatter(unsigned)
	require.NoError(t, err)
	want := mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(raw, "\n"), parts[2])
	assert.Equal(t, want, fm.Fingerprint)
}

func TestMarkdownRenderer_Deterministic(t *testing.T) {
	assert.Equal(t, renderMarkdown(t), renderMarkdown(t))
}

func TestMarkdownRenderer_Body(t *testing.T) {
	out := renderMarkdown(t)

	assert.Contains(t, out, "# fits_file\n")
	assert.Contains(t, out, "- **File Type:** FITS, 8.4 KB\n")
	assert.Contains(t, out, "| Number | EXTNAME | Type | Contents |\n| --- | --- | --- | --- |\n")
	assert.Contains(t, out, "| HDU2 | FLUX | IMAGE | *Brief Description* |\n")
	assert.Contains(t, out, "### FLUX\n\n*Summarize the contents of this HDU.*\n\n")
	assert.Contains(t, out, "| EXP\\_TIME | 900.0 | float | This is the comment on EXP_TIME. |\n")
	assert.Contains(t, out, "### HDU3\n\n*Summarize the contents of this HDU.*\n\nThis HDU has no non-standard required keywords.\n\nUnknown extension type: TABLE.\n")
}

func TestMarkdownRow_EscapesPipes(t *testing.T) {
	assert.Equal(t, `| a\|b | c |`, markdownRow([]string{"a|b", "c"}))
}

func TestHTMLRenderer(t *testing.T) {
	s := New(threeHDUs(), WithSource("fits_file.fits"), WithRenderer(HTMLRenderer{}))
	out, err := s.Render()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>\n"))
	assert.Contains(t, out, "<title>fits_file</title>")
	assert.Contains(t, out, "<h1>fits_file</h1>")
	assert.Contains(t, out, "<h3>FLUX</h3>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>BUNIT</td>")
	assert.Contains(t, out, "<p>Data: FITS image [float32, 10x10]</p>")
	assert.NotContains(t, out, "fingerprint")
}
