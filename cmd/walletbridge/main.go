package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/walletbridge"
	"github.com/layer-3/walletbridge/config"
	"github.com/layer-3/walletbridge/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	showQR := flag.Bool("qr", true, "draw pairing QR codes on stdout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Bool("evm", cfg.EVM.Enabled()).
		Bool("cosmos", cfg.Cosmos.Enabled()).
		Str("store", cfg.Store.Kind).
		Msg("Starting wallet bridge")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pairingOut io.Writer
	if *showQR {
		pairingOut = os.Stdout
	}

	app, err := walletbridge.New(ctx, cfg, log, pairingOut)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to release resources")
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Server stopped")
		return
	}
	log.Info().Msg("Server exited")
}
