package components_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/ui/components"
)

func typeInto(p components.Palette, text string) components.Palette {
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return p
}

func TestPaletteTabCompletesCommand(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	p.Open("Cart")

	p = typeInto(p, "chec")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := p.Value(); got != "checkout" {
		t.Fatalf("expected completion to checkout, got %q", got)
	}

	p.Open("Shop")
	p = typeInto(p, "cart:a")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := p.Value(); got != "cart:add " {
		t.Fatalf("expected completion with argument space, got %q", got)
	}
}

func TestPaletteListsActiveGroupFirst(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	p.Open("Account")
	view := p.View()
	account := strings.Index(view, "Account")
	shop := strings.Index(view, "Shop")
	if account < 0 || shop < 0 || account > shop {
		t.Fatalf("expected Account group before Shop:\n%s", view)
	}
	if !strings.Contains(view, "history:export") {
		t.Fatalf("expected account commands in view:\n%s", view)
	}
}

func TestPaletteSubmitTrimsInput(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	p.Open("Shop")
	p = typeInto(p, "  search mascara ")
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() {
		t.Fatalf("palette must close on enter")
	}
	msg, ok := cmd().(components.PaletteSubmitMsg)
	if !ok || msg.Input != "search mascara" {
		t.Fatalf("unexpected submit %#v", msg)
	}
}
