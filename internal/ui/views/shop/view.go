package shop

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "storefront/internal/modules/catalog/dto"
	"storefront/internal/platform/money"
	"storefront/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type CatalogPort interface {
	ListProducts(ctx context.Context, limit, skip int, category, query string) (catalogdto.PageOutput, error)
	GetDetail(ctx context.Context, id int64) (catalogdto.DetailOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ProductsLoadedMsg struct {
	Page catalogdto.PageOutput
	Err  error
}

type DetailLoadedMsg struct {
	Detail catalogdto.DetailOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type productItem struct {
	product catalogdto.ProductOutput
	symbol  string
}

func (i productItem) Title() string { return i.product.Title }
func (i productItem) Description() string {
	return fmt.Sprintf("%s  %s", money.Format(i.symbol, i.product.DisplayPrice), i.product.Category)
}
func (i productItem) FilterValue() string { return i.product.Title + " " + i.product.Brand }

// ─── model ───────────────────────────────────────────────────────────────────

type query struct {
	limit    int
	skip     int
	category string
	search   string
}

type Model struct {
	port    CatalogPort
	symbol  string
	list    list.Model
	detail  catalogdto.DetailOutput
	preview viewport.Model
	spinner spinner.Model
	query   query
	total   int
	loading bool
	width   int
	height  int
}

func New(port CatalogPort, symbol string, pageSize int) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Products"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		symbol:  symbol,
		list:    l,
		preview: vp,
		spinner: sp,
		query:   query{limit: pageSize},
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadProductsCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ProductsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Products: " + msg.Err.Error()
			return m, nil
		}
		m.total = msg.Page.Total
		m.list.Title = m.title()
		items := make([]list.Item, len(msg.Page.Products))
		for i, p := range msg.Page.Products {
			items[i] = productItem{product: p, symbol: m.symbol}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.list.Select(0)
		if len(msg.Page.Products) > 0 {
			cmds = append(cmds, m.loadDetailCmd(msg.Page.Products[0].ID))
		} else {
			m.detail = catalogdto.DetailOutput{}
			m.preview.SetContent(m.renderDetail())
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
			m.preview.GotoTop()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(productItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.product.ID))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading products…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Search lists products matching text; an empty string clears the search.
func (m *Model) Search(text string) tea.Cmd {
	m.query.search = strings.TrimSpace(text)
	m.query.category = ""
	m.query.skip = 0
	m.loading = true
	return m.loadProductsCmd()
}

// Category narrows the listing to one category slug.
func (m *Model) Category(slug string) tea.Cmd {
	m.query.category = strings.TrimSpace(slug)
	m.query.search = ""
	m.query.skip = 0
	m.loading = true
	return m.loadProductsCmd()
}

func (m *Model) NextPage() tea.Cmd {
	if m.paged() && m.query.skip+m.query.limit < m.total {
		m.query.skip += m.query.limit
		return m.loadProductsCmd()
	}
	return nil
}

func (m *Model) PrevPage() tea.Cmd {
	if m.paged() && m.query.skip > 0 {
		m.query.skip -= m.query.limit
		if m.query.skip < 0 {
			m.query.skip = 0
		}
		return m.loadProductsCmd()
	}
	return nil
}

// SelectedProductID returns the highlighted product, if any.
func (m Model) SelectedProductID() (int64, bool) {
	if item, ok := m.list.SelectedItem().(productItem); ok {
		return item.product.ID, true
	}
	return 0, false
}

func (m Model) SelectedProductTitle() string {
	if item, ok := m.list.SelectedItem().(productItem); ok {
		return item.product.Title
	}
	return ""
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) paged() bool {
	return m.query.search == "" && m.query.category == ""
}

func (m Model) title() string {
	switch {
	case m.query.search != "":
		return fmt.Sprintf("Search: %s", m.query.search)
	case m.query.category != "":
		return fmt.Sprintf("Category: %s", m.query.category)
	case m.query.limit > 0 && m.total > 0:
		page := m.query.skip/m.query.limit + 1
		pages := (m.total + m.query.limit - 1) / m.query.limit
		return fmt.Sprintf("Products %d/%d", page, pages)
	default:
		return "Products"
	}
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	p := m.detail.Product
	if p.ID == 0 {
		return theme.Muted.Render("Select a product to see details")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(p.Title) + "\n")
	if p.Brand != "" {
		sb.WriteString(theme.Muted.Render(p.Brand) + "\n")
	}
	sb.WriteString("\n")
	if p.DiscountPercentage > 0 {
		sb.WriteString(theme.Price.Render(money.Format(m.symbol, p.DiscountedPrice)) + "  ")
		sb.WriteString(theme.Strike.Render(money.Format(m.symbol, p.DisplayPrice)) + "  ")
		sb.WriteString(theme.Discount.Render(fmt.Sprintf("-%.0f%%", p.DiscountPercentage)) + "\n")
	} else {
		sb.WriteString(theme.Price.Render(money.Format(m.symbol, p.DisplayPrice)) + "\n")
	}
	sb.WriteString(fmt.Sprintf("%s%.1f   %s%d\n",
		theme.Muted.Render("rating: "), p.Rating, theme.Muted.Render("stock: "), p.Stock))
	sb.WriteString(theme.Muted.Render("category: ") + p.Category + "\n")
	if p.Description != "" {
		sb.WriteString("\n" + p.Description + "\n")
	}
	if len(m.detail.Recommendations) > 0 {
		sb.WriteString("\n" + theme.Title.Render("You might also like") + "\n")
		for _, r := range m.detail.Recommendations {
			sb.WriteString(fmt.Sprintf("  %s  %s\n", r.Title, theme.Muted.Render(money.Format(m.symbol, r.DisplayPrice))))
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("a: add to cart  b: buy now  n/p: page"))
	return sb.String()
}

func (m Model) loadProductsCmd() tea.Cmd {
	q := m.query
	return func() tea.Msg {
		page, err := m.port.ListProducts(context.Background(), q.limit, q.skip, q.category, q.search)
		return ProductsLoadedMsg{Page: page, Err: err}
	}
}

func (m Model) loadDetailCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.GetDetail(context.Background(), id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
