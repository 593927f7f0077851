package bootstrap

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	cartoutadapter "storefront/internal/modules/cart/adapter/out"
	"storefront/internal/platform/config"
	"storefront/internal/platform/logging"
)

func TestNewWiresEveryStorageDriver(t *testing.T) {
	t.Parallel()
	for _, driver := range []string{config.DriverSQLite, config.DriverFile, config.DriverMemory} {
		cfg := config.Default(t.TempDir())
		cfg.Storage.Driver = driver
		app, err := New(context.Background(), cfg, logging.Discard())
		if err != nil {
			t.Fatalf("%s: new app: %v", driver, err)
		}
		if app.SessionTUI.Snapshot(context.Background()).StoreID == "" {
			t.Fatalf("%s: store id must be set", driver)
		}
		if err := app.Close(); err != nil {
			t.Fatalf("%s: close: %v", driver, err)
		}
	}
}

func TestUnknownDriverFails(t *testing.T) {
	t.Parallel()
	cfg := config.Default(t.TempDir())
	cfg.Storage.Driver = "redis"
	if _, err := New(context.Background(), cfg, logging.Discard()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestLoggedOutCheckoutPrintsHintAndKeepsCart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"title":"Essence Mascara","price":10,"category":"beauty","stock":5}`))
	}))
	defer server.Close()

	cfg := config.Default(t.TempDir())
	cfg.Storage.Driver = config.DriverFile
	cfg.Catalog.BaseURL = server.URL
	var hints bytes.Buffer
	app, err := NewWithNavigator(ctx, cfg, logging.Discard(), cartoutadapter.NewWriterNavigator(&hints, LoginHint))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer app.Close()

	empty, err := app.CartCLI.Checkout(ctx)
	if err != nil || empty.Completed || empty.Reason != "empty_cart" || hints.Len() != 0 {
		t.Fatalf("empty checkout must fail quietly: %+v %v %q", empty, err, hints.String())
	}

	if _, err := app.CartCLI.Add(ctx, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := app.CartCLI.Checkout(ctx)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if out.Completed || out.Reason != "unauthenticated" {
		t.Fatalf("expected unauthenticated outcome, got %+v", out)
	}
	if strings.Count(hints.String(), LoginHint) != 1 {
		t.Fatalf("expected exactly one login hint, got %q", hints.String())
	}
	if cart := app.CartCLI.List(ctx); len(cart.Lines) != 1 || cart.Items != 2 {
		t.Fatalf("cart must be untouched: %+v", cart)
	}

	if _, err := app.AuthCLI.Login(ctx, "admin", "admin"); err != nil {
		t.Fatalf("login: %v", err)
	}
	out, err = app.CartCLI.Checkout(ctx)
	if err != nil || !out.Completed || out.Records[0].Total != 320000 {
		t.Fatalf("checkout after login: %+v %v", out, err)
	}
}

func TestLoginPersistsAcrossRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	cfg := config.Default(dir)
	cfg.DBPath = filepath.Join(dir, "state.db")

	first, err := New(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if _, err := first.AuthCLI.Login(ctx, "admin", "admin"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !first.SessionTUI.Snapshot(ctx).Authenticated {
		t.Fatalf("login must seed the profile")
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := New(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("reopen app: %v", err)
	}
	defer second.Close()
	state := second.SessionTUI.Snapshot(ctx)
	if !state.Authenticated || state.Profile.Email != "john.doe@example.com" {
		t.Fatalf("expected restored session, got %+v", state)
	}
}

func TestRouterPrefersActiveNavigator(t *testing.T) {
	t.Parallel()
	var fallback bytes.Buffer
	r := &router{fallback: cartoutadapter.NewWriterNavigator(&fallback, "")}
	var routes []string
	r.set(cartoutadapter.FuncNavigator(func(route string) { routes = append(routes, route) }))
	r.Navigate(context.Background(), "/login")
	r.set(nil)
	r.Navigate(context.Background(), "/login")
	if len(routes) != 1 || fallback.String() != "navigate: /login\n" {
		t.Fatalf("unexpected routing: routes=%v fallback=%q", routes, fallback.String())
	}
}
