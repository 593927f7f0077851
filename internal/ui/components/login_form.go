package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/ui/theme"
)

type LoginSubmitMsg struct {
	Username string
	Password string
}

type LoginCancelMsg struct{}

var formStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Lavender).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(1, 2)

// LoginForm collects a username and a masked password.
type LoginForm struct {
	inputs  []textinput.Model
	focus   int
	visible bool
	message string
}

func NewLoginForm() LoginForm {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 64
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	return LoginForm{inputs: []textinput.Model{user, pass}}
}

func (f LoginForm) Visible() bool { return f.visible }

// Open shows the form with an optional reason line.
func (f *LoginForm) Open(message string) tea.Cmd {
	f.visible = true
	f.message = message
	f.focus = 0
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	return f.inputs[0].Focus()
}

func (f *LoginForm) close() {
	f.visible = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f LoginForm) Update(msg tea.Msg) (LoginForm, tea.Cmd) {
	if !f.visible {
		return f, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			f.close()
			return f, func() tea.Msg { return LoginCancelMsg{} }
		case "tab", "shift+tab", "up", "down":
			f.inputs[f.focus].Blur()
			f.focus = (f.focus + 1) % len(f.inputs)
			return f, f.inputs[f.focus].Focus()
		case "enter":
			if f.focus == 0 {
				f.inputs[0].Blur()
				f.focus = 1
				return f, f.inputs[1].Focus()
			}
			submit := LoginSubmitMsg{
				Username: strings.TrimSpace(f.inputs[0].Value()),
				Password: f.inputs[1].Value(),
			}
			f.close()
			return f, func() tea.Msg { return submit }
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f LoginForm) View() string {
	if !f.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Sign in") + "\n")
	if f.message != "" {
		sb.WriteString(theme.Muted.Render(f.message) + "\n")
	}
	sb.WriteString("\n" + f.inputs[0].View() + "\n" + f.inputs[1].View() + "\n\n")
	sb.WriteString(theme.Muted.Render("enter: next/submit  tab: switch  esc: cancel"))
	return formStyle.Width(44).Render(sb.String())
}
