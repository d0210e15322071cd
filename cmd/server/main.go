package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kisaanlabs/kisaan-mitra/internal/agent"
	"github.com/kisaanlabs/kisaan-mitra/internal/bridge"
	"github.com/kisaanlabs/kisaan-mitra/internal/config"
	"github.com/kisaanlabs/kisaan-mitra/internal/httpserver"
	"github.com/kisaanlabs/kisaan-mitra/internal/live"
	"github.com/kisaanlabs/kisaan-mitra/internal/llm"
	"github.com/kisaanlabs/kisaan-mitra/internal/session"
	"github.com/kisaanlabs/kisaan-mitra/internal/tools"
	"github.com/kisaanlabs/kisaan-mitra/internal/transcode"
)

func main() {
	// Include sub-second precision in all log timestamps
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	cfg := config.Load()

	calendar := tools.NewCalendar()
	weather := tools.NewWeatherClient(cfg.GoogleAPIKey)
	mandi := tools.NewMandiClient(cfg.MandiBaseURL)

	jarvis := agent.NewJarvis(cfg.LiveModel, calendar, weather, mandi)
	kisaanInfo := agent.NewKisaanInfo(cfg.KisaanModel, weather)

	bootstrap := &session.Bootstrap{
		Store:  session.NewStore(),
		Runner: session.LiveRunner{Client: live.NewClient(cfg.GoogleAPIKey)},
		Agent:  jarvis,
	}
	bridgeHandler := &bridge.Handler{
		Bootstrap: bootstrap,
		Decoder:   &transcode.FFmpeg{Path: cfg.FFmpegPath},
	}

	e := httpserver.New()
	handlers := httpserver.NewHandlers(bridgeHandler, llm.NewGeminiClient(cfg.GoogleAPIKey), kisaanInfo, cfg.StaticDir)
	handlers.Register(e)

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", cfg.HTTPAddress)
		serverErrors <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("shutdown signal received: %v", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = server.Close()
	}
}
