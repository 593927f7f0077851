package app

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	authdto "storefront/internal/modules/auth/dto"
	cartdto "storefront/internal/modules/cart/dto"
	catalogdto "storefront/internal/modules/catalog/dto"
	sessiondto "storefront/internal/modules/session/dto"
	apperrors "storefront/internal/platform/errors"
	"storefront/internal/ui/components"
)

type stubCatalog struct{}

func (stubCatalog) ListProducts(context.Context, int, int, string, string) (catalogdto.PageOutput, error) {
	return catalogdto.PageOutput{}, nil
}
func (stubCatalog) GetDetail(context.Context, int64) (catalogdto.DetailOutput, error) {
	return catalogdto.DetailOutput{}, nil
}

type stubCart struct {
	checkouts int
	cleared   int
}

func (s *stubCart) Add(context.Context, int64, int) (cartdto.CartOutput, error) {
	return cartdto.CartOutput{}, nil
}
func (s *stubCart) Remove(context.Context, int64) (cartdto.CartOutput, error) {
	return cartdto.CartOutput{}, nil
}
func (s *stubCart) Update(context.Context, int64, int) (cartdto.CartOutput, error) {
	return cartdto.CartOutput{}, nil
}
func (s *stubCart) Clear(context.Context) (cartdto.CartOutput, error) {
	s.cleared++
	return cartdto.CartOutput{}, nil
}
func (s *stubCart) List(context.Context) cartdto.CartOutput { return cartdto.CartOutput{} }
func (s *stubCart) Checkout(context.Context) (cartdto.OutcomeOutput, error) {
	s.checkouts++
	return cartdto.OutcomeOutput{Reason: "unauthenticated"}, nil
}
func (s *stubCart) BuyNow(context.Context, int64, int) (cartdto.OutcomeOutput, error) {
	return cartdto.OutcomeOutput{}, nil
}
func (s *stubCart) History(context.Context) cartdto.HistoryOutput { return cartdto.HistoryOutput{} }
func (s *stubCart) Export(context.Context) (cartdto.ExportOutput, error) {
	return cartdto.ExportOutput{}, nil
}

type stubAuth struct{ err error }

func (a stubAuth) Login(context.Context, string, string) (authdto.StatusOutput, error) {
	return authdto.StatusOutput{Authenticated: a.err == nil}, a.err
}
func (a stubAuth) Logout(context.Context) (authdto.StatusOutput, error) {
	return authdto.StatusOutput{}, nil
}

type stubSession struct{ modal []bool }

func (s *stubSession) Snapshot(context.Context) sessiondto.StateOutput { return sessiondto.StateOutput{} }
func (s *stubSession) Resize(context.Context, int, int) error          { return nil }
func (s *stubSession) SetModalOpen(_ context.Context, open bool)        { s.modal = append(s.modal, open) }

func newTestModel(auth stubAuth) (Model, *stubCart, *stubSession) {
	cart := &stubCart{}
	session := &stubSession{}
	return NewModel(stubCatalog{}, cart, auth, session, "Rp", 10), cart, session
}

func TestNavigateToLoginOpensForm(t *testing.T) {
	t.Parallel()
	m, _, session := newTestModel(stubAuth{})
	next, cmd := m.Update(NavigateMsg{Route: RouteLogin})
	model := next.(Model)
	if !model.login.Visible() {
		t.Fatalf("login form must be visible after navigation")
	}
	drain(cmd)
	if len(session.modal) != 1 || !session.modal[0] {
		t.Fatalf("expected modal open to be recorded, got %v", session.modal)
	}
}

func TestPaletteRoutesCartCommands(t *testing.T) {
	t.Parallel()
	m, cart, _ := newTestModel(stubAuth{})
	next, cmd := m.Update(components.PaletteSubmitMsg{Input: "checkout"})
	drain(cmd)
	if cart.checkouts != 1 {
		t.Fatalf("expected checkout call, got %d", cart.checkouts)
	}
	next, cmd = next.(Model).Update(components.PaletteSubmitMsg{Input: "cart:clear"})
	drain(cmd)
	if cart.cleared != 1 {
		t.Fatalf("expected clear call, got %d", cart.cleared)
	}
	next, _ = next.(Model).Update(components.PaletteSubmitMsg{Input: "bogus"})
	if got := next.(Model).status; got != "unknown command: bogus" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestEveryPaletteCommandIsHandled(t *testing.T) {
	t.Parallel()
	for _, c := range components.PaletteCommands() {
		m, _, _ := newTestModel(stubAuth{})
		next, _ := m.Update(components.PaletteSubmitMsg{Input: c.Name + " 1"})
		if got := next.(Model).status; strings.HasPrefix(got, "unknown command") {
			t.Fatalf("palette command %q is not handled: %q", c.Name, got)
		}
	}
}

func TestOutcomeStatus(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(stubAuth{})
	next, _ := m.Update(outcomeMsg{label: "checkout", out: cartdto.OutcomeOutput{
		Completed: true,
		Records:   []cartdto.PurchaseOutput{{Total: 320000}},
	}})
	model := next.(Model)
	if model.status != "checkout: 1 item(s), Rp 320.000" {
		t.Fatalf("unexpected status %q", model.status)
	}
	if model.activeTab != tabAccount {
		t.Fatalf("completed purchase should switch to account tab")
	}
}

func TestInvalidCredentialsReopensForm(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(stubAuth{err: apperrors.ErrInvalidCredentials})
	next, _ := m.Update(authMsg{err: apperrors.ErrInvalidCredentials})
	if !next.(Model).login.Visible() {
		t.Fatalf("login form should reopen after bad credentials")
	}
}

// drain runs cmd and any batched children synchronously.
func drain(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(c)
		}
	}
}
