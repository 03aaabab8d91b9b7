package stub

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/fitsdoc/internal/fitsmeta"
)

// Output formats understood by RendererFor.
const (
	FormatRST      = "rst"
	FormatMarkdown = "md"
	FormatHTML     = "html"
)

// Placeholder text the author of a data model is expected to replace.
const (
	summaryPlaceholder    = "*This section should be filled in by hand.*"
	hduSummaryPlaceholder = "*Summarize the contents of this HDU.*"
	namingPlaceholder     = "*Give an example of the file name and describe any variable parts.*"
	regexPlaceholder      = "*Give a regular expression for this filename.*"
	contentsPlaceholder   = "*Brief Description*"
	noKeywordsSentence    = "This HDU has no non-standard required keywords."
)

// Document is everything a renderer needs to lay out one page.
type Document struct {
	Model   string
	Source  string
	Size    int64 // negative when unknown
	Width   int
	Records []fitsmeta.HDURecord
}

// FileType is the ":File Type:" value, e.g. "FITS, 2 KB".
func (d Document) FileType() string {
	if d.Size < 0 {
		return "FITS"
	}
	return "FITS, " + fitsmeta.FormatSize(d.Size)
}

// SourceRegex is an anchored-free literal pattern for the source file name.
func (d Document) SourceRegex() string {
	return regexp.QuoteMeta(d.Source)
}

// Renderer lays out a Document in one markup language.
type Renderer interface {
	Name() string
	Extension() string
	Render(doc Document) (string, error)
}

// RendererFor returns the renderer registered for format.
func RendererFor(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatRST, "":
		return RSTRenderer{}, nil
	case FormatMarkdown, "markdown":
		return MarkdownRenderer{}, nil
	case FormatHTML:
		return HTMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, format)
	}
}

func contentsRows(doc Document) [][]string {
	rows := make([][]string, 0, len(doc.Records))
	for _, rec := range doc.Records {
		rows = append(rows, []string{
			fitsmeta.HDUNumber(rec.Index, doc.Width),
			rec.Name,
			rec.Kind.String(),
			contentsPlaceholder,
		})
	}
	return rows
}

func keywordRows(rec fitsmeta.HDURecord) [][]string {
	rows := make([][]string, 0, len(rec.Keywords))
	for _, kw := range rec.Keywords {
		rows = append(rows, []string{kw.Keyword, kw.Value, kw.Type, kw.Comment})
	}
	return rows
}

var (
	contentsHeader = []string{"Number", "EXTNAME", "Type", "Contents"}
	keywordsHeader = []string{"KEY", "Example Value", "Type", "Comment"}
)
