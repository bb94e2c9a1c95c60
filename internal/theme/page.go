package theme

import (
	"context"
	"fmt"
	"html/template"
	"io"
)

const singleTmpl = `<article class="post post-{{.Post.ID}} type-{{.Post.Type}}">
<h1 class="entry-title">{{.Post.Title}}</h1>
{{- if has_featured_image_caption .}}
<figure class="featured-image">
<figcaption>{{featured_image_caption .}}</figcaption>
</figure>
{{- end}}
</article>
`

// Page renders a single post through the caption template functions.
type Page struct {
	funcs *Functions
	tmpl  *template.Template
}

// NewPage parses the single-post template. A non-empty src replaces the
// built-in one.
func NewPage(funcs *Functions, src string) (*Page, error) {
	if src == "" {
		src = singleTmpl
	}
	tmpl, err := template.New("single").Funcs(funcs.FuncMap(context.Background())).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("theme: parse template: %w", err)
	}
	return &Page{funcs: funcs, tmpl: tmpl}, nil
}

// Render writes loop's post to w.
func (p *Page) Render(ctx context.Context, w io.Writer, loop Loop) error {
	t, err := p.tmpl.Clone()
	if err != nil {
		return fmt.Errorf("theme: clone template: %w", err)
	}
	return t.Funcs(p.funcs.FuncMap(ctx)).Execute(w, loop)
}
