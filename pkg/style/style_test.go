package style

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestSetup_NonTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer

	profile := Setup(&buf, false)
	assert.Equal(t, termenv.Ascii, profile)
	assert.Equal(t, "hello", SuccessStyle.Render("hello"))
}

func TestMarkupRender(t *testing.T) {
	Setup(&bytes.Buffer{}, true)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text", input: "nothing here", want: "nothing here"},
		{name: "single tag", input: "[success]done[/success]", want: "done"},
		{name: "nested tags", input: "[bold]a [error]b[/error] c[/bold]", want: "a b c"},
		{name: "unknown tag kept", input: "[sparkle]x[/sparkle]", want: "[sparkle]x[/sparkle]"},
		{name: "adjacent tags", input: "[info]1[/info] and [muted]2[/muted]", want: "1 and 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.input))
		})
	}
}

func TestRenderTemplate(t *testing.T) {
	Setup(&bytes.Buffer{}, true)

	got := RenderTemplate("[bold]{{count}}[/bold] task(s) failed", map[string]string{"count": "2"})
	assert.Equal(t, "2 task(s) failed", got)
}

func TestAddStyle(t *testing.T) {
	Setup(&bytes.Buffer{}, true)

	p := NewMarkupParser()
	p.AddStyle("task", lipgloss.NewStyle().Bold(true))
	assert.Equal(t, "packages", p.Render("[task]packages[/task]"))
}

func TestIndent(t *testing.T) {
	Setup(&bytes.Buffer{}, true)

	assert.Equal(t, "    x", Indent("x", 2))
	assert.True(t, strings.HasPrefix(Indent("x", 1), "  "))
}
