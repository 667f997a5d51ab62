package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/receiptly/receiptly/web"
)

// Renderer executes the receipt document template. The produced HTML is a
// complete standalone page, ready for the browser or the capture service.
type Renderer struct {
	tpl *template.Template
}

// NewRenderer parses the embedded receipt template.
func NewRenderer() (*Renderer, error) {
	tpl, err := template.New("receipt_document.html").ParseFS(web.Templates, "templates/receipt_document.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tpl: tpl}, nil
}

// Render lays out a document as HTML.
func (r *Renderer) Render(doc Document) (string, error) {
	if r == nil || r.tpl == nil {
		return "", fmt.Errorf("render: renderer not initialised")
	}
	buf := &bytes.Buffer{}
	if err := r.tpl.Execute(buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
