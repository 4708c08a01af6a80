package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bankdesk/bank-console/internal/config"
	"github.com/bankdesk/bank-console/internal/logger"
	"github.com/bankdesk/bank-console/internal/web"
	"github.com/bankdesk/bank-console/pkg/httpclient"
	"github.com/bankdesk/bank-console/pkg/transactions"
)

const shutdownTimeout = 10 * time.Second

// Console serves the route table backed by the shared transactions client.
type Console struct {
	cfg    *config.Config
	server *http.Server
	log    logger.Logger
}

// NewTransactionsClient builds the single shared HTTP client and the resource client on top of it.
func NewTransactionsClient(cfg *config.Config) *transactions.Client {
	hc := httpclient.New(httpclient.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
	})
	return transactions.NewClient(hc)
}

// NewConsole wires the list view, route table and HTTP server.
func NewConsole(cfg *config.Config, log logger.Logger) (*Console, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	client := NewTransactionsClient(cfg)
	router := web.NewRouter(web.Routes(web.NewListView(client, log)), log)

	return &Console{
		cfg: cfg,
		server: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}, nil
}

// Run serves until the context is cancelled, then shuts the server down gracefully.
func (c *Console) Run(ctx context.Context) error {
	if c == nil || c.server == nil {
		return fmt.Errorf("console is not initialized")
	}

	errCh := make(chan error, 1)
	go func() {
		c.log.InfoObj("console listening", "console_state", map[string]any{
			"listen_addr":        c.cfg.ListenAddr,
			"api_base_url":       c.cfg.APIBaseURL,
			"request_timeout_ms": c.cfg.RequestTimeout.Milliseconds(),
		})
		errCh <- c.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		c.log.InfoObj("console shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
