package cart

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	cartdto "storefront/internal/modules/cart/dto"
	"storefront/internal/platform/money"
	"storefront/internal/ui/theme"
)

type Model struct {
	table  table.Model
	cart   cartdto.CartOutput
	symbol string
	width  int
	height int
}

func New(symbol string) Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Surface1).
		BorderBottom(true).
		Foreground(theme.Sapphire).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Lavender)
	t.SetStyles(styles)
	return Model{table: t, symbol: symbol}
}

func columns(width int) []table.Column {
	title := width - 8 - 16 - 5 - 16 - 10
	if title < 16 {
		title = 16
	}
	return []table.Column{
		{Title: "#", Width: 8},
		{Title: "Product", Width: title},
		{Title: "Price", Width: 16},
		{Title: "Qty", Width: 5},
		{Title: "Subtotal", Width: 16},
	}
}

// SetCart replaces the rows, keeping the cursor in range.
func (m *Model) SetCart(out cartdto.CartOutput) {
	m.cart = out
	rows := make([]table.Row, 0, len(out.Lines))
	for _, line := range out.Lines {
		rows = append(rows, table.Row{
			strconv.FormatInt(line.ProductID, 10),
			line.Title,
			money.Format(m.symbol, line.UnitPrice),
			strconv.Itoa(line.Quantity),
			money.Format(m.symbol, line.LineTotal),
		})
	}
	cursor := m.table.Cursor()
	m.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	m.table.SetCursor(cursor)
}

// Selected returns the product id and quantity under the cursor.
func (m Model) Selected() (int64, int, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.cart.Lines) {
		return 0, 0, false
	}
	line := m.cart.Lines[idx]
	return line.ProductID, line.Quantity, true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.table.SetColumns(columns(m.width - 2))
		m.table.SetWidth(m.width - 2)
		m.table.SetHeight(max(m.height-4, 3))
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.cart.Lines) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Your cart is empty. Press a on a product in the Shop tab."))
	}
	footer := fmt.Sprintf("%s %d items   %s %s",
		theme.Muted.Render("cart:"), m.cart.Items,
		theme.Muted.Render("total:"), theme.Price.Render(money.Format(m.symbol, m.cart.Total)))
	keys := theme.Muted.Render("+/-: quantity  d: remove  x: clear  c: checkout")
	return lipgloss.JoinVertical(lipgloss.Left, m.table.View(), "", footer, keys)
}
