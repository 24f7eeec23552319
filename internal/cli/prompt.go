package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	promptActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Width(14)
	promptHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// promptField is one line of a PromptModel form.
type promptField struct {
	Label       string
	Placeholder string
	Value       string
	Validate    func(string) error
}

// PromptModel is a bubbletea form that asks for one value per field.
// Enter validates the current field and moves on; the form finishes after
// the last field validates.
type PromptModel struct {
	Title  string
	Fields []promptField
	Cursor int
	Err    error

	Done      bool
	Cancelled bool
}

func newPromptModel(title string, fields ...promptField) PromptModel {
	return PromptModel{Title: title, Fields: fields}
}

// Values returns the entered value of every field, in order.
func (m PromptModel) Values() []string {
	out := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		out[i] = strings.TrimSpace(f.Value)
	}
	return out
}

func (m PromptModel) Init() tea.Cmd {
	return nil
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	// Fields are copied so the previous model value stays untouched.
	m.Fields = append([]promptField(nil), m.Fields...)
	field := &m.Fields[m.Cursor]

	switch key.String() {
	case "ctrl+c", "esc":
		m.Cancelled = true
		return m, tea.Quit
	case "enter":
		if field.Validate != nil {
			if err := field.Validate(strings.TrimSpace(field.Value)); err != nil {
				m.Err = err
				return m, nil
			}
		}
		m.Err = nil
		if m.Cursor == len(m.Fields)-1 {
			m.Done = true
			return m, tea.Quit
		}
		m.Cursor++
	case "tab", "down":
		m.Cursor = (m.Cursor + 1) % len(m.Fields)
		m.Err = nil
	case "shift+tab", "up":
		m.Cursor = (m.Cursor + len(m.Fields) - 1) % len(m.Fields)
		m.Err = nil
	case "backspace":
		if r := []rune(field.Value); len(r) > 0 {
			field.Value = string(r[:len(r)-1])
		}
	default:
		if key.Type == tea.KeyRunes || key.Type == tea.KeySpace {
			field.Value += string(key.Runes)
		}
	}
	return m, nil
}

func (m PromptModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(promptHelpStyle.Render("⏎ next  tab/↑/↓ move  esc cancel"))
	b.WriteString("\n\n")

	for i, f := range m.Fields {
		label := promptLabelStyle.Render(f.Label)
		cursor := "  "
		if i == m.Cursor {
			label = promptActiveStyle.Render(f.Label)
			cursor = "▸ "
		}
		value := StyleValue.Render(f.Value)
		if f.Value == "" {
			value = StyleDim.Render(f.Placeholder)
		}
		if i == m.Cursor {
			value += "█"
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, label, value)
	}

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(StyleError.Render(m.Err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// runPrompt runs the form on stderr and returns the final model. A
// cancelled form returns context.Canceled so the process exits like an
// interrupt.
func runPrompt(ctx context.Context, m PromptModel) (PromptModel, error) {
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return m, err
	}
	fm, ok := final.(PromptModel)
	if !ok || fm.Cancelled || !fm.Done {
		return fm, fmt.Errorf("prompt: %w", context.Canceled)
	}
	return fm, nil
}
