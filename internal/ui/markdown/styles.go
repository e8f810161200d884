package markdown

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Heading    lipgloss.Style
	Subheading lipgloss.Style
	Bold       lipgloss.Style
	Code       lipgloss.Style
	CodeBlock  lipgloss.Style
	Link       lipgloss.Style
	ListBullet lipgloss.Style
	HRule      lipgloss.Style
	Blockquote lipgloss.Style
	Reference  lipgloss.Style
	Annotation lipgloss.Style
}

func DefaultStyles() Styles {
	purple := lipgloss.Color("#7C3AED")
	cyan := lipgloss.Color("#06B6D4")
	gray := lipgloss.Color("#6B7280")
	lightGray := lipgloss.Color("#F9FAFB")
	orange := lipgloss.Color("#F59E0B")
	green := lipgloss.Color("#10B981")

	return Styles{
		Heading: lipgloss.NewStyle().
			Foreground(purple).
			Bold(true),

		Subheading: lipgloss.NewStyle().
			Foreground(purple),

		Bold: lipgloss.NewStyle().
			Foreground(lightGray).
			Bold(true),

		Code: lipgloss.NewStyle().
			Foreground(orange),

		CodeBlock: lipgloss.NewStyle().
			Foreground(orange).
			PaddingLeft(2),

		Link: lipgloss.NewStyle().
			Foreground(cyan).
			Underline(true),

		ListBullet: lipgloss.NewStyle().
			Foreground(green),

		HRule: lipgloss.NewStyle().
			Foreground(gray),

		Blockquote: lipgloss.NewStyle().
			Foreground(gray).
			Italic(true),

		Reference: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111827")).
			Background(orange).
			Bold(true),

		Annotation: lipgloss.NewStyle().
			Foreground(gray).
			Italic(true),
	}
}
