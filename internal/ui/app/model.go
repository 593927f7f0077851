package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "storefront/internal/modules/auth/dto"
	cartdto "storefront/internal/modules/cart/dto"
	catalogdto "storefront/internal/modules/catalog/dto"
	sessiondto "storefront/internal/modules/session/dto"
	apperrors "storefront/internal/platform/errors"
	"storefront/internal/platform/money"
	"storefront/internal/ui/components"
	"storefront/internal/ui/theme"
	accountview "storefront/internal/ui/views/account"
	cartview "storefront/internal/ui/views/cart"
	shopview "storefront/internal/ui/views/shop"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type catalogPort interface {
	ListProducts(ctx context.Context, limit, skip int, category, query string) (catalogdto.PageOutput, error)
	GetDetail(ctx context.Context, id int64) (catalogdto.DetailOutput, error)
}

type cartPort interface {
	Add(ctx context.Context, productID int64, quantity int) (cartdto.CartOutput, error)
	Remove(ctx context.Context, productID int64) (cartdto.CartOutput, error)
	Update(ctx context.Context, productID int64, quantity int) (cartdto.CartOutput, error)
	Clear(ctx context.Context) (cartdto.CartOutput, error)
	List(ctx context.Context) cartdto.CartOutput
	Checkout(ctx context.Context) (cartdto.OutcomeOutput, error)
	BuyNow(ctx context.Context, productID int64, quantity int) (cartdto.OutcomeOutput, error)
	History(ctx context.Context) cartdto.HistoryOutput
	Export(ctx context.Context) (cartdto.ExportOutput, error)
}

type authPort interface {
	Login(ctx context.Context, username, password string) (authdto.StatusOutput, error)
	Logout(ctx context.Context) (authdto.StatusOutput, error)
}

type sessionPort interface {
	Snapshot(ctx context.Context) sessiondto.StateOutput
	Resize(ctx context.Context, width, height int) error
	SetModalOpen(ctx context.Context, open bool)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabShop tabID = iota
	tabCart
	tabAccount
	tabCount
)

var tabLabels = [tabCount]string{"Shop", "Cart", "Account"}

// ─── messages ────────────────────────────────────────────────────────────────

// StateMsg carries a session snapshot pushed by the store subscription.
type StateMsg struct {
	State sessiondto.StateOutput
}

// NavigateMsg asks the model to show another surface.
type NavigateMsg struct {
	Route string
}

const RouteLogin = "/login"

type cartChangedMsg struct {
	cart   cartdto.CartOutput
	status string
	err    error
}

type outcomeMsg struct {
	label string
	out   cartdto.OutcomeOutput
	err   error
}

type historyMsg struct {
	history cartdto.HistoryOutput
}

type authMsg struct {
	status string
	err    error
}

type exportMsg struct {
	out cartdto.ExportOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Add      key.Binding
	Buy      key.Binding
	Page     key.Binding
	Qty      key.Binding
	Remove   key.Binding
	Checkout key.Binding
	Login    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to cart")),
		Buy:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "buy now")),
		Page:     key.NewBinding(key.WithKeys("n", "p"), key.WithHelp("n/p", "next/prev page")),
		Qty:      key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "quantity")),
		Remove:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove line")),
		Checkout: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "checkout")),
		Login:    key.NewBinding(key.WithKeys("L", "O"), key.WithHelp("L/O", "sign in/out")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Add, k.Buy, k.Page},
		{k.Qty, k.Remove, k.Checkout, k.Login},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay,
// the command palette and the login form. Business logic goes through the
// ports; rendering is delegated to sub-views.
type Model struct {
	catalog catalogPort
	cart    cartPort
	auth    authPort
	session sessionPort
	symbol  string

	shopView    shopview.Model
	cartView    cartview.Model
	accountView accountview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	login     components.LoginForm
	state     sessiondto.StateOutput
	status    string
	width     int
	height    int
}

func NewModel(catalog catalogPort, cart cartPort, auth authPort, session sessionPort, symbol string, pageSize int) Model {
	return Model{
		catalog:     catalog,
		cart:        cart,
		auth:        auth,
		session:     session,
		symbol:      symbol,
		shopView:    shopview.New(catalog, symbol, pageSize),
		cartView:    cartview.New(symbol),
		accountView: accountview.New(symbol),
		activeTab:   tabShop,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		login:       components.NewLoginForm(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.shopView.Init(),
		m.snapshotCmd(),
		m.refreshCartCmd(""),
		m.historyCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Overlays intercept all key input while open.
	if _, isKey := msg.(tea.KeyMsg); isKey {
		if m.login.Visible() {
			var cmd tea.Cmd
			m.login, cmd = m.login.Update(msg)
			return m, cmd
		}
		if m.palette.Visible() {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, m.resizeCmd(msg.Width, msg.Height)

	case StateMsg:
		m.state = msg.State
		m.accountView.SetState(msg.State)
		return m, tea.Batch(m.refreshCartCmd(""), m.historyCmd())

	case NavigateMsg:
		if msg.Route == RouteLogin {
			return m, m.openLogin("Sign in to complete your purchase")
		}
		m.status = "unknown route: " + msg.Route
		return m, nil

	case cartChangedMsg:
		if msg.err != nil {
			m.status = "cart: " + msg.err.Error()
			return m, nil
		}
		m.cartView.SetCart(msg.cart)
		if msg.status != "" {
			m.status = msg.status
		}
		return m, nil

	case outcomeMsg:
		return m.handleOutcome(msg)

	case historyMsg:
		m.accountView.SetHistory(msg.history)
		return m, nil

	case authMsg:
		if msg.err != nil {
			if errors.Is(msg.err, apperrors.ErrInvalidCredentials) {
				return m, m.openLogin("Invalid username or password")
			}
			m.status = "auth: " + msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.status = "export: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("exported %d receipts", len(msg.out.Paths))
		}
		return m, nil

	case components.LoginSubmitMsg:
		return m, tea.Batch(m.loginCmd(msg.Username, msg.Password), m.modalCmd(false))

	case components.LoginCancelMsg:
		m.status = "sign-in cancelled"
		return m, m.modalCmd(false)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the shop list while its filter is open.
		if m.activeTab == tabShop && m.shopView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open(tabLabels[m.activeTab])
		case "L":
			return m, m.openLogin("")
		case "O":
			return m, m.logoutCmd()
		}

		if cmd, handled := m.handleTabKey(msg.String()); handled {
			return m, cmd
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabShop:
		m.shopView, tabCmd = m.shopView.Update(msg)
	case tabCart:
		m.cartView, tabCmd = m.cartView.Update(msg)
	case tabAccount:
		m.accountView, tabCmd = m.accountView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleTabKey(k string) (tea.Cmd, bool) {
	switch m.activeTab {
	case tabShop:
		id, ok := m.shopView.SelectedProductID()
		switch k {
		case "a", "enter":
			if !ok {
				return nil, true
			}
			return m.addCmd(id, 1, m.shopView.SelectedProductTitle()), true
		case "b":
			if !ok {
				return nil, true
			}
			return m.buyNowCmd(id, 1), true
		case "n":
			return m.shopView.NextPage(), true
		case "p":
			return m.shopView.PrevPage(), true
		}
	case tabCart:
		id, qty, ok := m.cartView.Selected()
		switch k {
		case "+", "=":
			if ok {
				return m.updateCmd(id, qty+1), true
			}
			return nil, true
		case "-":
			if ok {
				return m.updateCmd(id, qty-1), true
			}
			return nil, true
		case "d", "delete":
			if ok {
				return m.removeCmd(id), true
			}
			return nil, true
		case "x":
			return m.clearCmd(), true
		case "c":
			return m.checkoutCmd(), true
		}
	}
	return nil, false
}

func (m Model) handleOutcome(msg outcomeMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = msg.label + ": " + msg.err.Error()
		return m, nil
	}
	switch {
	case msg.out.Completed:
		total := 0.0
		for _, r := range msg.out.Records {
			total += r.Total
		}
		m.status = fmt.Sprintf("%s: %d item(s), %s", msg.label, len(msg.out.Records), money.Format(m.symbol, total))
		m.activeTab = tabAccount
	case msg.out.Reason == "empty_cart":
		m.status = msg.label + ": cart is empty"
	case msg.out.Reason == "unauthenticated":
		m.status = msg.label + ": sign in required"
	default:
		m.status = msg.label + ": not completed"
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.login.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.login.View())
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabShop:
		return m.shopView.View()
	case tabCart:
		return m.cartView.View()
	case tabAccount:
		return m.accountView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == tabCart && m.state.CartItems > 0 {
			label = fmt.Sprintf("%s (%d)", label, m.state.CartItems)
		}
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "storefront  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.state.Authenticated {
		left = theme.Hot.Render("● "+m.state.Profile.Name) + "  " + left
	} else {
		left = theme.Muted.Render("○ guest") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	arg := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
	selected, hasSelected := m.shopView.SelectedProductID()
	line, lineQty, hasLine := m.cartView.Selected()

	switch parts[0] {
	case "search":
		m.activeTab = tabShop
		return m, m.shopView.Search(arg)

	case "category":
		if arg == "" {
			m.status = "usage: category <slug>"
			return m, nil
		}
		m.activeTab = tabShop
		return m, m.shopView.Category(arg)

	case "products":
		m.activeTab = tabShop
		return m, m.shopView.Search("")

	case "page:next":
		return m, m.shopView.NextPage()

	case "page:prev":
		return m, m.shopView.PrevPage()

	case "cart:add", "buy":
		if !hasSelected {
			m.status = "no product selected"
			return m, nil
		}
		qty, ok := parseQty(arg, 1)
		if !ok {
			m.status = "invalid quantity: " + arg
			return m, nil
		}
		if parts[0] == "buy" {
			return m, m.buyNowCmd(selected, qty)
		}
		return m, m.addCmd(selected, qty, m.shopView.SelectedProductTitle())

	case "cart:update":
		if !hasLine {
			m.status = "no cart line selected"
			return m, nil
		}
		qty, ok := parseQty(arg, lineQty)
		if !ok || arg == "" {
			m.status = "usage: cart:update <qty>"
			return m, nil
		}
		return m, m.updateCmd(line, qty)

	case "cart:remove":
		if !hasLine {
			m.status = "no cart line selected"
			return m, nil
		}
		return m, m.removeCmd(line)

	case "cart:clear":
		return m, m.clearCmd()

	case "checkout":
		return m, m.checkoutCmd()

	case "history:export":
		return m, m.exportCmd()

	case "login":
		return m, m.openLogin("")

	case "logout":
		return m, m.logoutCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

func parseQty(arg string, fallback int) (int, bool) {
	if arg == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.shopView, _ = m.shopView.Update(sz)
	m.cartView, _ = m.cartView.Update(sz)
	m.accountView, _ = m.accountView.Update(sz)
}

func (m *Model) openLogin(message string) tea.Cmd {
	return tea.Batch(m.login.Open(message), m.modalCmd(true))
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) snapshotCmd() tea.Cmd {
	return func() tea.Msg {
		return StateMsg{State: m.session.Snapshot(context.Background())}
	}
}

func (m Model) resizeCmd(width, height int) tea.Cmd {
	return func() tea.Msg {
		_ = m.session.Resize(context.Background(), width, height)
		return nil
	}
}

func (m Model) modalCmd(open bool) tea.Cmd {
	return func() tea.Msg {
		m.session.SetModalOpen(context.Background(), open)
		return nil
	}
}

func (m Model) refreshCartCmd(status string) tea.Cmd {
	return func() tea.Msg {
		return cartChangedMsg{cart: m.cart.List(context.Background()), status: status}
	}
}

func (m Model) historyCmd() tea.Cmd {
	return func() tea.Msg {
		return historyMsg{history: m.cart.History(context.Background())}
	}
}

func (m Model) addCmd(productID int64, qty int, title string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.cart.Add(context.Background(), productID, qty)
		return cartChangedMsg{cart: out, err: err, status: fmt.Sprintf("added %d × %s", qty, title)}
	}
}

func (m Model) updateCmd(productID int64, qty int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.cart.Update(context.Background(), productID, qty)
		return cartChangedMsg{cart: out, err: err, status: "cart updated"}
	}
}

func (m Model) removeCmd(productID int64) tea.Cmd {
	return func() tea.Msg {
		out, err := m.cart.Remove(context.Background(), productID)
		return cartChangedMsg{cart: out, err: err, status: "removed from cart"}
	}
}

func (m Model) clearCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.cart.Clear(context.Background())
		return cartChangedMsg{cart: out, err: err, status: "cart cleared"}
	}
}

func (m Model) checkoutCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.cart.Checkout(context.Background())
		return outcomeMsg{label: "checkout", out: out, err: err}
	}
}

func (m Model) buyNowCmd(productID int64, qty int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.cart.BuyNow(context.Background(), productID, qty)
		return outcomeMsg{label: "buy now", out: out, err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.cart.Export(context.Background())
		return exportMsg{out: out, err: err}
	}
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		status, err := m.auth.Login(context.Background(), username, password)
		if err != nil {
			return authMsg{err: err}
		}
		if !status.Authenticated {
			return authMsg{err: fmt.Errorf("sign-in did not stick")}
		}
		return authMsg{status: "signed in as " + username}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.auth.Logout(context.Background()); err != nil {
			return authMsg{err: err}
		}
		return authMsg{status: "signed out"}
	}
}
