package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

// PaletteCommand is one entry in the palette. Name is what executePalette in
// app/model.go switches on.
type PaletteCommand struct {
	Name string
	Args string
	Help string
}

type paletteGroup struct {
	Title    string
	Commands []PaletteCommand
}

var paletteGroups = []paletteGroup{
	{Title: "Shop", Commands: []PaletteCommand{
		{Name: "search", Args: "<query>", Help: "search the catalog"},
		{Name: "category", Args: "<slug>", Help: "browse one category"},
		{Name: "products", Help: "show all products"},
		{Name: "page:next", Help: "next page"},
		{Name: "page:prev", Help: "previous page"},
		{Name: "cart:add", Args: "[qty]", Help: "add the selected product"},
		{Name: "buy", Args: "[qty]", Help: "buy the selected product now"},
	}},
	{Title: "Cart", Commands: []PaletteCommand{
		{Name: "cart:update", Args: "<qty>", Help: "set quantity of the selected line"},
		{Name: "cart:remove", Help: "remove the selected line"},
		{Name: "cart:clear", Help: "empty the cart"},
		{Name: "checkout", Help: "buy everything in the cart"},
	}},
	{Title: "Account", Commands: []PaletteCommand{
		{Name: "history:export", Help: "write markdown receipts"},
		{Name: "login", Help: "sign in"},
		{Name: "logout", Help: "sign out"},
	}},
}

const maxPaletteMatches = 8

// PaletteCommands lists every command in display order.
func PaletteCommands() []PaletteCommand {
	var out []PaletteCommand
	for _, g := range paletteGroups {
		out = append(out, g.Commands...)
	}
	return out
}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	groupStyle = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// Palette is a command overlay. Commands are grouped by tab and the group of
// the tab it was opened from is listed first.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	group   string
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "search mascara, cart:add 2, checkout…"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette for the tab named group and focuses the input.
func (p *Palette) Open(group string) tea.Cmd {
	p.visible = true
	p.group = group
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// Value returns the current input.
func (p Palette) Value() string { return p.input.Value() }

type paletteMatch struct {
	group string
	cmd   PaletteCommand
}

// matches lists commands whose name starts with the first word of the input,
// active group first.
func (p Palette) matches() []paletteMatch {
	prefix := strings.ToLower(strings.TrimSpace(p.input.Value()))
	if fields := strings.Fields(prefix); len(fields) > 0 {
		prefix = fields[0]
	}
	var out []paletteMatch
	for _, g := range p.orderedGroups() {
		for _, c := range g.Commands {
			if strings.HasPrefix(c.Name, prefix) {
				out = append(out, paletteMatch{group: g.Title, cmd: c})
			}
		}
	}
	return out
}

func (p Palette) orderedGroups() []paletteGroup {
	ordered := make([]paletteGroup, 0, len(paletteGroups))
	for _, g := range paletteGroups {
		if g.Title == p.group {
			ordered = append(ordered, g)
		}
	}
	for _, g := range paletteGroups {
		if g.Title != p.group {
			ordered = append(ordered, g)
		}
	}
	return ordered
}

// complete replaces a partial command name with the first match.
func (p *Palette) complete() {
	value := p.input.Value()
	if strings.Contains(strings.TrimSpace(value), " ") {
		return
	}
	found := p.matches()
	if len(found) == 0 {
		return
	}
	completed := found[0].cmd.Name
	if found[0].cmd.Args != "" {
		completed += " "
	}
	p.input.SetValue(completed)
	p.input.CursorEnd()
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			p.complete()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	found := p.matches()
	if len(found) > maxPaletteMatches {
		found = found[:maxPaletteMatches]
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	current := ""
	for _, m := range found {
		if m.group != current {
			current = m.group
			sb.WriteString("\n" + groupStyle.Render(current) + "\n")
		}
		usage := m.cmd.Name
		if m.cmd.Args != "" {
			usage += " " + m.cmd.Args
		}
		sb.WriteString(hintStyle.Render("  "+padRight(usage, 20)+m.cmd.Help) + "\n")
	}
	if len(found) == 0 {
		sb.WriteString("\n" + hintStyle.Render("  no matching command") + "\n")
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
