package account

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	cartdto "storefront/internal/modules/cart/dto"
	sessiondto "storefront/internal/modules/session/dto"
	"storefront/internal/platform/money"
	"storefront/internal/ui/theme"
)

type Model struct {
	view    viewport.Model
	state   sessiondto.StateOutput
	history cartdto.HistoryOutput
	symbol  string
	width   int
	height  int
}

func New(symbol string) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)
	return Model{view: vp, symbol: symbol}
}

func (m *Model) SetState(state sessiondto.StateOutput) {
	m.state = state
	m.view.SetContent(m.render())
}

func (m *Model) SetHistory(history cartdto.HistoryOutput) {
	m.history = history
	m.view.SetContent(m.render())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.view.Width = size.Width
		m.view.Height = size.Height
		m.view.SetContent(m.render())
		return m, nil
	}
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.view.View()
}

func (m Model) render() string {
	var sb strings.Builder
	if !m.state.Authenticated {
		sb.WriteString(theme.Title.Render("Not signed in") + "\n")
		sb.WriteString(theme.Muted.Render("L: sign in to buy") + "\n\n")
	} else {
		p := m.state.Profile
		sb.WriteString(theme.Title.Render(p.Name) + "\n")
		sb.WriteString(theme.Muted.Render("email:  ") + p.Email + "\n")
		sb.WriteString(theme.Muted.Render("phone:  ") + p.Phone + "\n")
		sb.WriteString(theme.Muted.Render("joined: ") + p.JoinDate + "\n")
		sb.WriteString(theme.Muted.Render("O: sign out") + "\n\n")
	}

	sb.WriteString(fmt.Sprintf("%s %d   %s %s\n\n",
		theme.Muted.Render("items purchased:"), m.history.TotalPurchases,
		theme.Muted.Render("total spent:"), theme.Price.Render(money.Format(m.symbol, m.history.TotalSpent))))

	sb.WriteString(theme.Title.Render("Purchase history") + "\n")
	if len(m.history.Records) == 0 {
		sb.WriteString(theme.Muted.Render("No purchases yet") + "\n")
		return sb.String()
	}
	for i := len(m.history.Records) - 1; i >= 0; i-- {
		r := m.history.Records[i]
		sb.WriteString(fmt.Sprintf("%s  %-32s x%-3d %s\n",
			theme.Muted.Render(displayDate(r.Date)), truncate(r.Title, 32), r.Quantity, money.Format(m.symbol, r.Total)))
	}
	return sb.String()
}

func displayDate(iso string) string {
	if len(iso) >= 16 {
		return strings.Replace(iso[:16], "T", " ", 1)
	}
	return iso
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
