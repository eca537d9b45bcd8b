package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/insightseries/pivot-insight/internal/config"
	"github.com/insightseries/pivot-insight/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the classification API over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overrides the config file's http.addr")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	e, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	var cache *httpapi.Cache
	if cfg.Redis.Addr != "" {
		ttl, err := time.ParseDuration(cfg.Redis.TTL)
		if err != nil {
			return fmt.Errorf("pivotctl: parsing redis.ttl %q: %w", cfg.Redis.TTL, err)
		}
		cache = httpapi.NewCache(cfg.Redis.Addr, ttl)
	}

	addr := cfg.HTTP.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", httpapi.NewServer(e, cache).Handler())

	log.Info().Str("addr", addr).Bool("cache_enabled", cache != nil).Msg("pivotctl serve starting")
	return http.ListenAndServe(addr, mux)
}
