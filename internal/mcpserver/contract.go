package mcpserver

// TemplateFunctions documents the caption functions available to
// presentation templates.
const TemplateFunctions = `# Featured Image Caption Template Functions

Templates receive the post being rendered as their context value (` + "`" + `.` + "`" + `).
Every function takes that value and resolves the post from it.

| Function | Result |
|----------|--------|
| ` + "`" + `featured_image_caption .` + "`" + ` | ` + "`" + `<span class="cc-featured-image-caption">TEXT</span>` + "`" + `, or nothing when no caption is set |
| ` + "`" + `featured_image_caption_text .` + "`" + ` | the caption text, or ` + "`" + `false` + "`" + ` when no caption is set |
| ` + "`" + `has_featured_image_caption .` + "`" + ` | ` + "`" + `true` + "`" + ` when a non-empty caption is set |

## Rules

1. Caption text is sanitized on save with the post-content allowlist. Markup that
   survives sanitization is printed as is.
2. An empty caption is treated the same as a missing one.
3. Calling a function outside a post context is a template error.

## Example

` + "```" + `html
{{if has_featured_image_caption .}}
<figure>
  <figcaption>{{featured_image_caption .}}</figcaption>
</figure>
{{end}}
` + "```" + `
`
