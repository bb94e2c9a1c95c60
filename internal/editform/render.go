package editform

import (
	"html/template"
	"io"
)

var metaboxTmpl = template.Must(template.New("metabox").Parse(
	`<div class="postbox" id="{{.ID}}-box">` +
		`<h2 class="hndle">{{.Title}}</h2>` +
		`<input type="hidden" id="{{.TokenField}}" name="{{.TokenField}}" value="{{.Token}}">` +
		`<textarea style="width: 100%; max-width: 100%;" id="{{.ID}}" name="{{.ID}}">{{.Value}}</textarea>` +
		`</div>`))

// Render writes the caption meta box markup for f.
func Render(w io.Writer, f Field) error {
	return metaboxTmpl.Execute(w, f)
}
