package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/raywall/stats-api/pkg/engine"
)

// StartHTTPServer escuta na porta configurada até receber SIGINT/SIGTERM.
func StartHTTPServer(svc *engine.ServiceEngine) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", svc.Config.Service.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("erro ao escutar em %s: %w", addr, err)
	}
	return Serve(ctx, svc, ln)
}

// Serve atende em ln até ctx ser cancelado e então encerra de forma graciosa,
// respeitando service.shutdown_timeout.
func Serve(ctx context.Context, svc *engine.ServiceEngine, ln net.Listener) error {
	router, err := NewRouter(svc)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	svc.Logger.Info().
		Str("event", "server_start").
		Str("addr", ln.Addr().String()).
		Str("route", svc.Config.Service.Route).
		Int("pokemonCount", svc.Count()).
		Msg("Servidor HTTP ouvindo")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("erro no servidor http: %w", err)
	case <-ctx.Done():
	}

	svc.Logger.Info().Str("event", "server_shutdown").Msg("Encerrando servidor HTTP")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), svc.Config.Service.GetShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("erro no shutdown http: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("erro no servidor http: %w", err)
	}
	return svc.Shutdown(shutdownCtx)
}
