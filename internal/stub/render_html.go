package stub

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLRenderer converts the Markdown layout into a standalone HTML page.
type HTMLRenderer struct{}

func (HTMLRenderer) Name() string      { return FormatHTML }
func (HTMLRenderer) Extension() string { return ".html" }

var htmlMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func (HTMLRenderer) Render(doc Document) (string, error) {
	var body bytes.Buffer
	if err := htmlMarkdown.Convert([]byte(markdownBody(doc)), &body); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(doc.Model))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}
