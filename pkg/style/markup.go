package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MarkupParser renders [tag]text[/tag] markup with lipgloss styles
type MarkupParser struct {
	styles   map[string]lipgloss.Style
	patterns map[string]*regexp.Regexp
}

// NewMarkupParser creates a parser with the default tags
func NewMarkupParser() *MarkupParser {
	p := &MarkupParser{
		styles:   make(map[string]lipgloss.Style),
		patterns: make(map[string]*regexp.Regexp),
	}
	for tag, style := range map[string]lipgloss.Style{
		"title":    TitleStyle,
		"subtitle": SubtitleStyle,
		"success":  SuccessStyle,
		"error":    ErrorStyle,
		"warning":  WarningStyle,
		"info":     InfoStyle,
		"pending":  PendingStyle,
		"code":     CodeStyle,
		"path":     PathStyle,
		"muted":    MutedStyle,
		"bold":     lipgloss.NewStyle().Bold(true),
		"italic":   lipgloss.NewStyle().Italic(true),
	} {
		p.AddStyle(tag, style)
	}
	return p
}

// Render replaces known tags with styled text until no tag is left.
// Unknown tags are left as written.
func (p *MarkupParser) Render(text string) string {
	for {
		before := text
		for tag, pattern := range p.patterns {
			style := p.styles[tag]
			text = pattern.ReplaceAllStringFunc(text, func(match string) string {
				return style.Render(pattern.FindStringSubmatch(match)[1])
			})
		}
		if text == before {
			return text
		}
	}
}

// AddStyle registers or replaces a tag
func (p *MarkupParser) AddStyle(tag string, style lipgloss.Style) {
	p.styles[tag] = style
	p.patterns[tag] = regexp.MustCompile(`(?s)\[` + regexp.QuoteMeta(tag) + `\](.*?)\[/` + regexp.QuoteMeta(tag) + `\]`)
}

// RenderTemplate substitutes {{name}} variables and then renders markup
func (p *MarkupParser) RenderTemplate(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return p.Render(result)
}

var defaultParser = NewMarkupParser()

// Render uses the default parser
func Render(text string) string {
	return defaultParser.Render(text)
}

// RenderTemplate uses the default parser
func RenderTemplate(template string, vars map[string]string) string {
	return defaultParser.RenderTemplate(template, vars)
}
