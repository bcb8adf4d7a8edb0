package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"frednet.dev/lzero/internal/monitoring"
	"frednet.dev/lzero/internal/observability"
	"frednet.dev/lzero/internal/server"
)

func main() {
	viper.SetEnvPrefix("lzero")
	viper.AutomaticEnv()
	viper.SetDefault("root", "/var/lib/lzero")
	viper.SetDefault("listen_addr", ":5000")
	viper.SetDefault("mon_addr", "localhost:3334")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("max_conns", 0)
	viper.SetDefault("proxy_protocol", false)

	level, err := zerolog.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	metrics := observability.NewMetrics()
	srv, err := server.New(&server.Config{
		Root:          viper.GetString("root"),
		ListenAddr:    viper.GetString("listen_addr"),
		MaxConns:      viper.GetInt("max_conns"),
		ProxyProtocol: viper.GetBool("proxy_protocol"),
	}, metrics, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid server configuration")
	}
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("unable to start server")
	}

	mon := monitoring.New(srv, &monitoring.Config{ListenAddr: viper.GetString("mon_addr")}, log.Logger)
	go func() {
		if err := mon.Run(); err != nil {
			log.Error().Err(err).Msg("monitoring server stopped")
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Info().Str("signal", sig.String()).Msg("signal received, stopping server")

	if err := srv.Stop(); err != nil {
		log.Error().Err(err).Msg("error stopping server")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mon.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error stopping monitoring server")
	}
}
