// Package sanitize filters caption markup down to a safe post-content
// allowlist.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Sanitizer strips markup that is not allowed in stored content.
type Sanitizer interface {
	Sanitize(raw string) string
}

// Policy is a Sanitizer backed by a bluemonday policy.
type Policy struct {
	p *bluemonday.Policy
}

var classRe = regexp.MustCompile(`^[A-Za-z0-9_\- ]+$`)

// PostContent returns the allowlist used for post content: the user
// generated content set (formatting, links, images, lists, headings,
// figures, tables) without forced rel="nofollow". Scripts, styles, event
// handler attributes and URL schemes other than http, https and mailto
// are removed.
func PostContent() *Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowURLSchemes("http", "https", "mailto")

	p.AllowElements("span", "small", "u", "s", "strike", "figure", "figcaption")
	p.AllowAttrs("title").OnElements("abbr", "acronym", "a", "span")
	p.AllowAttrs("class").Matching(classRe).OnElements("span", "p", "code", "figure", "img")

	return &Policy{p: p}
}

// Sanitize returns raw with every disallowed element and attribute removed.
// Text keeps its characters as typed; only what would otherwise read as
// markup is escaped.
func (p *Policy) Sanitize(raw string) string {
	return relaxText(p.p.Sanitize(raw))
}

// relaxText rewrites the text nodes of sanitized markup with minimal
// escaping. Tags pass through unchanged.
func relaxText(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	b.Grow(len(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			escapeText(&b, html.UnescapeString(string(z.Raw())))
		default:
			b.Write(z.Raw())
		}
	}
}

// escapeText writes text so that it parses back to exactly text. A '<'
// is escaped only where it would open a tag, and a '&' only where it
// could start a character reference.
func escapeText(b *strings.Builder, text string) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		var next byte
		if i+1 < len(text) {
			next = text[i+1]
		}
		switch {
		case c == '<' && opensMarkup(next):
			b.WriteString("&lt;")
		case c == '&' && startsReference(next):
			b.WriteString("&amp;")
		default:
			b.WriteByte(c)
		}
	}
}

func opensMarkup(c byte) bool {
	return isASCIILetter(c) || c == '/' || c == '!' || c == '?'
}

func startsReference(c byte) bool {
	return isASCIILetter(c) || (c >= '0' && c <= '9') || c == '#'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
