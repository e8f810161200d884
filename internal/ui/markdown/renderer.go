// Package markdown renders a document for the preview pane: light markdown
// styling with every work item reference highlighted and annotated.
package markdown

import (
	"regexp"
	"strings"

	"github.com/johanforsgren/vsoitems/internal/scanner"
)

// Annotator returns the text shown after a reference, or "" for none.
type Annotator func(id int) string

type Renderer struct {
	styles   Styles
	width    int
	annotate Annotator
}

func NewRenderer(styles Styles) *Renderer {
	return &Renderer{
		styles: styles,
		width:  80,
	}
}

func (r *Renderer) SetWidth(width int) {
	r.width = width
}

func (r *Renderer) SetAnnotator(annotate Annotator) {
	r.annotate = annotate
}

func (r *Renderer) Render(text string) string {
	if text == "" {
		return ""
	}

	var result []string
	inCodeBlock := false

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			result = append(result, r.styles.CodeBlock.Render(line))
			continue
		}
		result = append(result, r.renderLine(line))
	}

	return strings.Join(result, "\n")
}

var (
	headingRegex  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletRegex   = regexp.MustCompile(`^(\s*)[-*+]\s+(.*)$`)
	hRuleRegex    = regexp.MustCompile(`^\s*(?:(?:-\s*){3,}|(?:\*\s*){3,}|(?:_\s*){3,})$`)
	boldRegex     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	codeSpanRegex = regexp.MustCompile("`([^`]+)`")
	linkRegex     = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
)

func (r *Renderer) renderLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return ""
	}

	if hRuleRegex.MatchString(line) {
		return r.styles.HRule.Render(strings.Repeat("─", max(3, r.width-8)))
	}

	if m := headingRegex.FindStringSubmatch(line); m != nil {
		style := r.styles.Subheading
		if len(m[1]) <= 2 {
			style = r.styles.Heading
		}
		return style.Render(r.renderInline(m[2]))
	}

	if strings.HasPrefix(strings.TrimSpace(line), "> ") {
		content := strings.TrimPrefix(strings.TrimSpace(line), "> ")
		return r.styles.Blockquote.Render("│ ") + r.renderInline(content)
	}

	if m := bulletRegex.FindStringSubmatch(line); m != nil {
		return m[1] + r.styles.ListBullet.Render("•") + " " + r.renderInline(m[2])
	}

	return r.renderInline(line)
}

// renderInline styles bold, code spans and links, then references. References
// go last so their annotations are not restyled.
func (r *Renderer) renderInline(text string) string {
	text = boldRegex.ReplaceAllStringFunc(text, func(match string) string {
		return r.styles.Bold.Render(boldRegex.FindStringSubmatch(match)[1])
	})
	text = codeSpanRegex.ReplaceAllStringFunc(text, func(match string) string {
		return r.styles.Code.Render(codeSpanRegex.FindStringSubmatch(match)[1])
	})
	text = linkRegex.ReplaceAllStringFunc(text, func(match string) string {
		return r.styles.Link.Render(linkRegex.FindStringSubmatch(match)[1])
	})

	return scanner.Replace(text, func(ref string, id int) string {
		rendered := r.styles.Reference.Render(ref)
		if r.annotate != nil {
			if note := r.annotate(id); note != "" {
				rendered += " " + r.styles.Annotation.Render("‹"+note+"›")
			}
		}
		return rendered
	})
}
