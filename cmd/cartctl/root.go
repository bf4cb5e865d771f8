package main

import (
	"context"
	"io"
	"os"
	"time"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/service"
	"storefront/internal/thumbnail"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// options holds the global flags.
type options struct {
	backendURL  string
	publicURL   string
	cartFile    string
	timeout     time.Duration
	concurrency int
	verbose     bool
	out         io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{out: out}

	defaultBackend := os.Getenv("BACKEND_URL")
	if defaultBackend == "" {
		defaultBackend = "http://localhost:4000"
	}

	root := &cobra.Command{
		Use:   "cartctl",
		Short: "Browse products and manage a local shopping cart",
		Long: `cartctl talks to the product backend and keeps a cart in a JSON file.

Every cart command prints the cart as reconciled against the backend's
current product records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.backendURL, "backend", defaultBackend, "product backend base URL")
	root.PersistentFlags().StringVar(&opts.publicURL, "public-url", "", "browser-facing backend URL for thumbnails (defaults to --backend)")
	root.PersistentFlags().StringVar(&opts.cartFile, "cart-file", "cart.json", "file holding the cart")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "backend request timeout")
	root.PersistentFlags().IntVar(&opts.concurrency, "concurrency", 0, "max concurrent product lookups (0 = unlimited)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newProductsCmd(opts), newProductCmd(opts), newCartCmd(opts))

	return root
}

func (o *options) logger() zerolog.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	return config.NewLoggerTo(os.Stderr, config.LoggerConfig{Level: level, Format: "console"})
}

func (o *options) client(logger zerolog.Logger) *backend.Client {
	return backend.NewClient(config.BackendConfig{BaseURL: o.backendURL, Timeout: o.timeout}, logger)
}

func (o *options) thumbnails() thumbnail.Resolver {
	if o.publicURL != "" {
		return thumbnail.NewBackendResolver(o.publicURL)
	}
	return thumbnail.NewBackendResolver(o.backendURL)
}

func (o *options) productService() service.ProductService {
	logger := o.logger()
	return service.NewProductService(o.client(logger), o.thumbnails(), logger)
}

func (o *options) cartService() (service.CartService, cart.Store) {
	logger := o.logger()
	reconciler := cart.NewReconciler(o.client(logger), o.concurrency, logger)
	return service.NewCartService(reconciler, o.thumbnails(), logger), cart.NewFileStore(o.cartFile, logger)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
