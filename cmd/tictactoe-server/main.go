// tictactoe-server serves the browser frontend.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaminalder/tictactoe-history/internal/app"
	"github.com/jaminalder/tictactoe-history/internal/config"
	"github.com/jaminalder/tictactoe-history/internal/web"
)

// Command-line flags override the config file.
var (
	flagAddr       = flag.String("addr", "", "Listen address (default from config, :8080)")
	flagHeartbeat  = flag.Int("heartbeat", 0, "SSE heartbeat in seconds")
	flagDescending = flag.Bool("descending", false, "Show move lists newest first")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective config and exit")
)

func main() {
	flag.Parse()
	log.SetPrefix("tictactoe: ")

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatal(err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if *flagSaveConfig {
		if err := cfg.Save(); err != nil {
			log.Fatal(err)
		}
		return
	}

	svc := app.NewService(app.Options{
		Descending: cfg.Game.Descending,
		SendBuffer: cfg.Server.SendBuffer,
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           web.NewServer(svc, cfg.Server.Heartbeat()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweep(ctx, svc, cfg.Server.IdleTimeout())

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func applyFlags(cfg *config.Config) {
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagHeartbeat > 0 {
		cfg.Server.HeartbeatSeconds = *flagHeartbeat
	}
	if *flagDescending {
		cfg.Game.Descending = true
	}
}

// sweep drops idle sessions until ctx ends.
func sweep(ctx context.Context, svc *app.Service, maxIdle time.Duration) {
	ticker := time.NewTicker(maxIdle / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := svc.Sweep(maxIdle); n > 0 {
				log.Printf("swept %d idle games, %d left", n, svc.Len())
			}
		}
	}
}
