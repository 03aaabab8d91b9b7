package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outputFormat string

const (
	formatRST      outputFormat = "rst"
	formatMarkdown outputFormat = "md"
	formatHTML     outputFormat = "html"
)

func formats() map[string]outputFormat {
	return map[string]outputFormat{
		"rst":      formatRST,
		"md":       formatMarkdown,
		"markdown": formatMarkdown,
		"HTML":     formatHTML,
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(formats(), formatRST)

	tests := []struct {
		name     string
		input    string
		expected outputFormat
	}{
		{"exact match", "md", formatMarkdown},
		{"alias", "markdown", formatMarkdown},
		{"case insensitive", "RST", formatRST},
		{"key case folded", "html", formatHTML},
		{"with spaces", "  html  ", formatHTML},
		{"unknown falls back", "latex", formatRST},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := NewNormalizer(formats(), formatRST)

	got, err := n.NormalizeWithError(" MD ")
	require.NoError(t, err)
	assert.Equal(t, formatMarkdown, got)

	got, err = n.NormalizeWithError("")
	require.NoError(t, err)
	assert.Equal(t, formatRST, got)

	_, err = n.NormalizeWithError("latex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"latex"`)
	assert.Contains(t, err.Error(), "html, markdown, md, rst")
}

func TestNormalizer_ValidKeys(t *testing.T) {
	n := NewNormalizer(formats(), formatRST)
	keys := n.ValidKeys()
	assert.Equal(t, []string{"html", "markdown", "md", "rst"}, keys)

	keys[0] = "changed"
	assert.Equal(t, "html", n.ValidKeys()[0])
}

func TestEnumNormalizer_Validate(t *testing.T) {
	e := NewEnumNormalizer("output.format", formats(), formatRST)
	assert.Equal(t, "output.format", e.Name())

	got, err := e.Validate("Markdown")
	require.NoError(t, err)
	assert.Equal(t, formatMarkdown, got)

	_, err = e.Validate("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output.format")
	assert.Equal(t, formatRST, e.Normalize("pdf"))
}
