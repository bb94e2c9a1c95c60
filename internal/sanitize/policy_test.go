package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostContent_KeepsAllowedMarkup(t *testing.T) {
	p := PostContent()
	cases := []string{
		"A sunset.",
		"A <em>sunset</em> over the <strong>bay</strong>.",
		`Photo by <a href="https://example.com/jane">Jane</a>`,
		"Line one<br/>line two",
		`<span class="credit">Staff</span>`,
		`<img src="https://example.com/a.jpg" alt="A">`,
		"<ul><li>one</li><li>two</li></ul>",
	}
	for _, in := range cases {
		assert.Equal(t, in, p.Sanitize(in))
	}
}

func TestPostContent_StripsScripts(t *testing.T) {
	p := PostContent()
	out := p.Sanitize(`A sunset.<script>alert("x")</script>`)
	assert.Equal(t, "A sunset.", out)
	assert.NotContains(t, out, "script")
}

func TestPostContent_StripsHandlersAndUnsafeURLs(t *testing.T) {
	p := PostContent()

	out := p.Sanitize(`<em onclick="steal()">hi</em>`)
	assert.Equal(t, "<em>hi</em>", out)

	out = p.Sanitize(`<a href="javascript:alert(1)">click</a>`)
	assert.NotContains(t, out, "javascript")
	assert.Contains(t, out, "click")
}

func TestPostContent_DropsUnknownElements(t *testing.T) {
	p := PostContent()
	assert.Equal(t, "framed", p.Sanitize(`<iframe src="https://evil.test"></iframe>framed`))
	assert.Equal(t, "styled", p.Sanitize(`<style>body{}</style>styled`))
}

func TestPostContent_Empty(t *testing.T) {
	assert.Equal(t, "", PostContent().Sanitize(""))
}

func TestPostContent_TextAsTyped(t *testing.T) {
	p := PostContent()
	cases := []string{
		"Tom's sunset",
		`He said "hi"`,
		"Fish & chips",
		"5 > 3 and 2 < 4",
		`<em>Tom's</em> "best" shot`,
		"Caf\u00e9 \u2014 d\u00e9j\u00e0 vu",
		"line one\r\nline two",
	}
	for _, in := range cases {
		assert.Equal(t, in, p.Sanitize(in))
	}
}

func TestPostContent_TextThatReadsAsMarkup(t *testing.T) {
	p := PostContent()

	// Typed entities keep their meaning; only the '<' that would open a
	// tag stays escaped.
	assert.Equal(t, "&lt;b> is bold", p.Sanitize("&lt;b&gt; is bold"))
	assert.Equal(t, "&amp;copy", p.Sanitize("&amp;copy"))
	assert.Equal(t, "\u00a9 2024", p.Sanitize("&copy; 2024"))
}

func TestPostContent_ImageWithoutHandlers(t *testing.T) {
	out := PostContent().Sanitize(`<img src="x.jpg" onerror="alert(1)">`)
	assert.Equal(t, `<img src="x.jpg">`, out)
}
