package config

import "git.home.luguber.info/inful/fitsdoc/internal/foundation/normalization"

// OutputFormat selects the page renderer.
type OutputFormat string

const (
	FormatRST      OutputFormat = "rst"
	FormatMarkdown OutputFormat = "md"
	FormatHTML     OutputFormat = "html"
)

var outputFormatNormalizer = normalization.NewEnumNormalizer("output format", map[string]OutputFormat{
	"rst":              FormatRST,
	"restructuredtext": FormatRST,
	"md":               FormatMarkdown,
	"markdown":         FormatMarkdown,
	"html":             FormatHTML,
}, FormatRST)

// NormalizeOutputFormat maps user spellings onto a format, reporting unknown ones.
func NormalizeOutputFormat(raw string) (OutputFormat, error) {
	return outputFormatNormalizer.Validate(raw)
}

// OutputConfig controls where and how pages are written.
type OutputConfig struct {
	Directory string       `yaml:"directory"` // "-" writes to stdout
	Format    OutputFormat `yaml:"format"`
	Overwrite bool         `yaml:"overwrite"`
}
