package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	authinadapter "storefront/internal/modules/auth/adapter/in"
	authdomain "storefront/internal/modules/auth/domain"
	authservice "storefront/internal/modules/auth/service"
	authusecase "storefront/internal/modules/auth/usecase"
	cartinadapter "storefront/internal/modules/cart/adapter/in"
	cartoutadapter "storefront/internal/modules/cart/adapter/out"
	cartout "storefront/internal/modules/cart/port/out"
	cartservice "storefront/internal/modules/cart/service"
	cartusecase "storefront/internal/modules/cart/usecase"
	cataloginadapter "storefront/internal/modules/catalog/adapter/in"
	catalogoutadapter "storefront/internal/modules/catalog/adapter/out"
	catalogdomain "storefront/internal/modules/catalog/domain"
	catalogservice "storefront/internal/modules/catalog/service"
	catalogusecase "storefront/internal/modules/catalog/usecase"
	sessioninadapter "storefront/internal/modules/session/adapter/in"
	sessionoutadapter "storefront/internal/modules/session/adapter/out"
	sessiondto "storefront/internal/modules/session/dto"
	sessionout "storefront/internal/modules/session/port/out"
	sessionservice "storefront/internal/modules/session/service"
	sessionusecase "storefront/internal/modules/session/usecase"
	"storefront/internal/platform/clock"
	"storefront/internal/platform/config"
	"storefront/internal/platform/id"
	uiapp "storefront/internal/ui/app"
)

// LoginHint is printed when a CLI purchase needs an authenticated session.
const LoginHint = "sign in first: storefront login --username <user> --password <pass>"

type App struct {
	Config     config.Config
	Logger     *slog.Logger
	CatalogCLI cataloginadapter.CLIHandler
	CartCLI    cartinadapter.CLIHandler
	AuthCLI    authinadapter.CLIHandler
	SessionTUI sessioninadapter.TUIHandler

	router  *router
	closers []io.Closer
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	return NewWithNavigator(ctx, cfg, logger, cartoutadapter.NewWriterNavigator(os.Stderr, LoginHint))
}

// NewWithNavigator wires the application with fallback as the navigation
// target outside the TUI.
func NewWithNavigator(ctx context.Context, cfg config.Config, logger *slog.Logger, fallback cartout.Navigator) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	clk := clock.SystemClock{}

	blobs, closer, err := openBlobStore(cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger, router: &router{fallback: fallback}}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	gateway := catalogoutadapter.NewCachedGateway(
		catalogoutadapter.NewHTTPGateway(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, logger),
		cfg.Catalog.CacheSize,
		cfg.Catalog.CacheTTL,
	)
	catalogUC := catalogusecase.NewInteractor(catalogservice.NewCatalogService(gateway), cfg.Currency.Rate)

	authSvc := authservice.NewAuthService(blobs, authdomain.Credentials{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
	}, logger)
	store := sessionservice.NewStore(ctx, blobs, authSvc, id.UUID{}, logger)
	authUC := authusecase.NewInteractor(authSvc, store)

	seq := id.NewMillisSequence(clk)
	seq.Observe(store.GetState().MaxID())
	cartSvc := cartservice.NewCartService(store, app.router, seq, clk, cfg.Currency.Rate, logger)
	cartUC := cartusecase.NewInteractor(
		cartSvc,
		catalogUC,
		cartoutadapter.NewMarkdownReceiptWriter(cfg.ReceiptsDir),
		cartusecase.Currency{Code: cfg.Currency.Code, Symbol: cfg.Currency.Symbol},
	)

	app.CatalogCLI = cataloginadapter.NewCLIHandler(catalogUC)
	app.CartCLI = cartinadapter.NewCLIHandler(cartUC)
	app.AuthCLI = authinadapter.NewCLIHandler(authUC)
	app.SessionTUI = sessioninadapter.NewTUIHandler(sessionusecase.NewInteractor(store))
	logger.Debug("storefront wired",
		"driver", cfg.Storage.Driver,
		"profile", cfg.Profile,
		"catalog", cfg.Catalog.BaseURL)
	return app, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func openBlobStore(cfg config.Config) (sessionout.BlobStore, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		store, err := sessionoutadapter.NewSQLiteBlobStore(cfg.DBPath, cfg.Profile)
		if err != nil {
			return nil, nil, fmt.Errorf("open session store: %w", err)
		}
		return store, store, nil
	case config.DriverFile:
		return sessionoutadapter.NewFileBlobStore(cfg.DataDir, cfg.Profile), nil, nil
	case config.DriverMemory:
		return sessionoutadapter.NewMemoryBlobStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(app.CatalogCLI, app.CartCLI, app.AuthCLI, app.SessionTUI,
		app.Config.Currency.Symbol, catalogdomain.DefaultPageLimit)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	stopWatch := app.SessionTUI.Watch(func(state sessiondto.StateOutput) {
		program.Send(uiapp.StateMsg{State: state})
	})
	defer stopWatch()
	app.router.set(cartoutadapter.FuncNavigator(func(route string) {
		program.Send(uiapp.NavigateMsg{Route: route})
	}))
	defer app.router.set(nil)

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// router forwards navigation to the TUI while it runs and to fallback
// otherwise.
type router struct {
	mu       sync.Mutex
	fallback cartout.Navigator
	active   cartout.Navigator
}

func (r *router) set(nav cartout.Navigator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = nav
}

func (r *router) Navigate(ctx context.Context, route string) {
	r.mu.Lock()
	nav := r.active
	if nav == nil {
		nav = r.fallback
	}
	r.mu.Unlock()
	if nav != nil {
		nav.Navigate(ctx, route)
	}
}
