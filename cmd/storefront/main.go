package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"storefront/internal/bootstrap"
	cartdto "storefront/internal/modules/cart/dto"
	"storefront/internal/platform/config"
	apperrors "storefront/internal/platform/errors"
	"storefront/internal/platform/logging"
	"storefront/internal/platform/money"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	config.Options
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Terminal storefront: browse products, manage a cart, check out",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.DataDir, "data-dir", config.DefaultDataDir, "directory for session data, receipts and config.yaml")
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default <data-dir>/config.yaml)")
	flags.StringVar(&opts.Profile, "profile", "", "session profile name")
	flags.StringVar(&opts.Driver, "storage", "", "session storage driver: sqlite|file|memory")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level: debug|info|warn|error")
	flags.BoolVar(&opts.Ephemeral, "ephemeral", false, "keep session state in memory only")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newProductsCmd(opts))
	root.AddCommand(newCartCmd(opts))
	root.AddCommand(newCheckoutCmd(opts))
	root.AddCommand(newBuyCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newLoginCmd(opts))
	root.AddCommand(newLogoutCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	return root
}

// withApp loads config, wires the application, runs fn and releases the
// session store.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := config.New(opts.Options)
	if err != nil {
		return err
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	app, err := bootstrap.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(cmd.Context(), app)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the storefront terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(opts.Options)
			if err != nil {
				return err
			}
			logPath := cfg.Log.File
			if logPath == "" {
				logPath = filepath.Join(cfg.DataDir, "storefront.log")
			}
			logger, closer, err := logging.NewFile(logPath, cfg.Log.Level)
			if err != nil {
				return err
			}
			defer closer.Close()

			app, err := bootstrap.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(cmd.Context(), app)
		},
	}
}

func newProductsCmd(opts *rootOptions) *cobra.Command {
	products := &cobra.Command{Use: "products", Short: "Browse the catalog"}

	var limit, skip int
	var category, query string
	var asJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally by category or search text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				page, err := app.CatalogCLI.ListProducts(ctx, limit, skip, category, query)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), page)
				}
				if len(page.Products) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no products")
					return nil
				}
				symbol := app.Config.Currency.Symbol
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, p := range page.Products {
					_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Title, money.Format(symbol, p.DisplayPrice), p.Category)
				}
				_ = tw.Flush()
				_, _ = dimColor.Fprintf(cmd.OutOrStdout(), "%d of %d\n", len(page.Products), page.Total)
				return nil
			})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 10, "page size")
	listCmd.Flags().IntVar(&skip, "skip", 0, "products to skip")
	listCmd.Flags().StringVar(&category, "category", "", "category slug")
	listCmd.Flags().StringVar(&query, "search", "", "search text")
	listCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	var showJSON bool
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a product with recommendations from its category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				detail, err := app.CatalogCLI.GetDetail(ctx, productID)
				if err != nil {
					return err
				}
				if showJSON {
					return writeJSON(cmd.OutOrStdout(), detail)
				}
				symbol := app.Config.Currency.Symbol
				w := cmd.OutOrStdout()
				p := detail.Product
				_, _ = fmt.Fprintf(w, "%s (%d)\n", p.Title, p.ID)
				if p.Brand != "" {
					_, _ = fmt.Fprintf(w, "brand:    %s\n", p.Brand)
				}
				_, _ = fmt.Fprintf(w, "price:    %s\n", money.Format(symbol, p.DisplayPrice))
				if p.DiscountPercentage > 0 {
					_, _ = fmt.Fprintf(w, "discount: %s (-%.0f%%)\n", money.Format(symbol, p.DiscountedPrice), p.DiscountPercentage)
				}
				_, _ = fmt.Fprintf(w, "stock:    %d\nrating:   %.1f\ncategory: %s\n", p.Stock, p.Rating, p.Category)
				if p.Description != "" {
					_, _ = fmt.Fprintf(w, "\n%s\n", p.Description)
				}
				if len(detail.Recommendations) > 0 {
					_, _ = fmt.Fprintln(w, "\nrecommended:")
					for _, r := range detail.Recommendations {
						_, _ = fmt.Fprintf(w, "  %d  %s  %s\n", r.ID, r.Title, money.Format(symbol, r.DisplayPrice))
					}
				}
				return nil
			})
		},
	}
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")

	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				categories, err := app.CatalogCLI.ListCategories(ctx)
				if err != nil {
					return err
				}
				for _, c := range categories {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Slug, c.Name)
				}
				return nil
			})
		},
	}

	products.AddCommand(listCmd, showCmd, categoriesCmd)
	return products
}

func newCartCmd(opts *rootOptions) *cobra.Command {
	cart := &cobra.Command{Use: "cart", Short: "Manage the cart"}

	cart.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show cart contents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				printCart(cmd.OutOrStdout(), app.Config.Currency.Symbol, app.CartCLI.List(ctx))
				return nil
			})
		},
	})

	var addQty int
	addCmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.CartCLI.Add(ctx, productID, addQty)
				if err != nil {
					return err
				}
				_, _ = okColor.Fprintf(cmd.OutOrStdout(), "added %d × product %d\n", addQty, productID)
				printCart(cmd.OutOrStdout(), app.Config.Currency.Symbol, out)
				return nil
			})
		},
	}
	addCmd.Flags().IntVarP(&addQty, "quantity", "n", 1, "quantity to add")

	cart.AddCommand(addCmd, &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.CartCLI.Remove(ctx, productID)
				if err != nil {
					return err
				}
				printCart(cmd.OutOrStdout(), app.Config.Currency.Symbol, out)
				return nil
			})
		},
	}, &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set a line's quantity; zero or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q: %w", args[1], apperrors.ErrInvalidInput)
			}
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.CartCLI.Update(ctx, productID, qty)
				if err != nil {
					return err
				}
				printCart(cmd.OutOrStdout(), app.Config.Currency.Symbol, out)
				return nil
			})
		},
	}, &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				if _, err := app.CartCLI.Clear(ctx); err != nil {
					return err
				}
				_, _ = okColor.Fprintln(cmd.OutOrStdout(), "cart cleared")
				return nil
			})
		},
	})
	return cart
}

func newCheckoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Buy everything in the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.CartCLI.Checkout(ctx)
				if err != nil {
					return err
				}
				printOutcome(cmd.OutOrStdout(), app.Config.Currency.Symbol, "checkout", out)
				return nil
			})
		},
	}
}

func newBuyCmd(opts *rootOptions) *cobra.Command {
	var qty int
	buy := &cobra.Command{
		Use:   "buy <product-id>",
		Short: "Buy a product immediately without touching the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.CartCLI.BuyNow(ctx, productID, qty)
				if err != nil {
					return err
				}
				printOutcome(cmd.OutOrStdout(), app.Config.Currency.Symbol, "buy", out)
				return nil
			})
		},
	}
	buy.Flags().IntVarP(&qty, "quantity", "n", 1, "quantity to buy")
	return buy
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	history := &cobra.Command{
		Use:   "history",
		Short: "Show purchase history and totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out := app.CartCLI.History(ctx)
				symbol := app.Config.Currency.Symbol
				w := cmd.OutOrStdout()
				if len(out.Records) == 0 {
					_, _ = fmt.Fprintln(w, "no purchases")
					return nil
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, r := range out.Records {
					_, _ = fmt.Fprintf(tw, "%s\t%s\tx%d\t%s\n", r.Date, r.Title, r.Quantity, money.Format(symbol, r.Total))
				}
				_ = tw.Flush()
				_, _ = fmt.Fprintf(w, "items purchased: %d  total spent: %s\n", out.TotalPurchases, money.Format(symbol, out.TotalSpent))
				return nil
			})
		},
	}
	history.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Write one markdown receipt per purchase",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.CartCLI.Export(ctx)
				if err != nil {
					return err
				}
				for _, path := range out.Paths {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
				}
				_, _ = okColor.Fprintf(cmd.OutOrStdout(), "exported %d receipts\n", len(out.Paths))
				return nil
			})
		},
	})
	return history
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var username, password string
	login := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				if _, err := app.AuthCLI.Login(ctx, username, password); err != nil {
					return err
				}
				_, _ = okColor.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", username)
				return nil
			})
		},
	}
	login.Flags().StringVarP(&username, "username", "u", "", "username")
	login.Flags().StringVarP(&password, "password", "p", "", "password")
	_ = login.MarkFlagRequired("username")
	_ = login.MarkFlagRequired("password")
	return login
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out of the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				if _, err := app.AuthCLI.Logout(ctx); err != nil {
					return err
				}
				_, _ = okColor.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sign-in state and cart summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				w := cmd.OutOrStdout()
				if app.AuthCLI.Status(ctx).Authenticated {
					_, _ = okColor.Fprintln(w, "signed in")
				} else {
					_, _ = warnColor.Fprintln(w, "signed out")
				}
				symbol := app.Config.Currency.Symbol
				cart := app.CartCLI.List(ctx)
				history := app.CartCLI.History(ctx)
				_, _ = fmt.Fprintf(w, "profile:   %s\n", app.Config.Profile)
				_, _ = fmt.Fprintf(w, "cart:      %d items, %s\n", cart.Items, money.Format(symbol, cart.Total))
				_, _ = fmt.Fprintf(w, "purchased: %d items, %s\n", history.TotalPurchases, money.Format(symbol, history.TotalSpent))
				return nil
			})
		},
	}
}

func parseID(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("product id %q: %w", raw, apperrors.ErrInvalidInput)
	}
	return v, nil
}

func printCart(w io.Writer, symbol string, out cartdto.CartOutput) {
	if len(out.Lines) == 0 {
		_, _ = fmt.Fprintln(w, "cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, line := range out.Lines {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\tx%d\t%s\n",
			line.ProductID, line.Title, money.Format(symbol, line.UnitPrice), line.Quantity, money.Format(symbol, line.LineTotal))
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintf(w, "%d items, total %s\n", out.Items, money.Format(symbol, out.Total))
}

func printOutcome(w io.Writer, symbol, label string, out cartdto.OutcomeOutput) {
	if !out.Completed {
		switch out.Reason {
		case "empty_cart":
			_, _ = warnColor.Fprintf(w, "%s: cart is empty\n", label)
		case "unauthenticated":
			_, _ = warnColor.Fprintf(w, "%s: sign in required, cart unchanged\n", label)
		default:
			_, _ = warnColor.Fprintf(w, "%s: not completed\n", label)
		}
		return
	}
	total := 0.0
	for _, r := range out.Records {
		total += r.Total
		_, _ = fmt.Fprintf(w, "  %d  %s x%d  %s\n", r.ID, r.Title, r.Quantity, money.Format(symbol, r.Total))
	}
	_, _ = okColor.Fprintf(w, "%s complete: %s\n", label, money.Format(symbol, total))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
