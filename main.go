package main

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/powerman/structlog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spencer-p/moondash/pkg/config"
	"github.com/spencer-p/moondash/pkg/data"
	"github.com/spencer-p/moondash/pkg/handlers"
	"github.com/spencer-p/moondash/pkg/metrics"
	"github.com/spencer-p/moondash/pkg/moonphase"
	"github.com/spencer-p/moondash/pkg/widget"
)

//go:embed static
var content embed.FS

var log = structlog.New()

func newRenderer(cfg config.Config) (*moonphase.Renderer, error) {
	opts := []moonphase.Option{
		moonphase.WithLogger(log.New(structlog.KeyUnit, "render")),
		moonphase.WithMaxPixels(cfg.MaxPixels),
	}
	if cfg.ShadowPath != "" {
		shadow, err := moonphase.LoadTexture(cfg.ShadowPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, moonphase.WithShadow(shadow))
	}

	if cfg.TexturePath == "" {
		return moonphase.NewRenderer(moonphase.DefaultTexture(cfg.TextureSize), opts...), nil
	}
	lit, err := moonphase.LoadTexture(cfg.TexturePath)
	if err != nil {
		return nil, err
	}
	return moonphase.NewRenderer(lit, opts...), nil
}

func main() {
	structlog.DefaultLogger.
		SetDefaultKeyvals(structlog.KeyApp, "moondash").
		SetPrefixKeys(structlog.KeyApp, structlog.KeyLevel, structlog.KeyUnit, structlog.KeyTime)
	log = structlog.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	renderer, err := newRenderer(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var users handlers.UserStore
	if dsn := cfg.PostgresDSN(); dsn != "" {
		db, err := data.Open(dsn)
		if err != nil {
			log.Fatal(err)
		}
		users = data.NewUsers(db)
	} else {
		log.Info("no database configured, preferences are cookie only")
	}

	var refresher *widget.Refresher
	srv, err := handlers.New(handlers.Options{
		Renderer:      renderer,
		Places:        cfg.Places,
		Users:         users,
		SessionKey:    cfg.SessionKey,
		EncryptionKey: cfg.EncryptionKey,
		CacheTTL:      cfg.CacheTTL,
		Timeline: func() []widget.Entry {
			return refresher.Entries()
		},
		TimelineEntries: cfg.TimelineEntries,
		Content:         content,
		Log:             log.New(structlog.KeyUnit, "http"),
	})
	if err != nil {
		log.Fatal(err)
	}

	refresher = widget.NewRefresher(cfg.Places[0], cfg.TimelineEntries, srv.Prewarm)
	if err := refresher.Start(cfg.RefreshSchedule); err != nil {
		log.Fatal(err)
	}
	defer refresher.Stop()

	r := mux.NewRouter().StrictSlash(true)
	r.Use(metrics.LatencyHandler)
	r.Handle("/metrics", promhttp.Handler())
	s := r.PathPrefix(cfg.Prefix).Subrouter()
	srv.Register(s, cfg.Prefix)

	httpSrv := &http.Server{
		Handler:      r,
		Addr:         "0.0.0.0:" + cfg.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.ErrIfFail(func() error { return httpSrv.Shutdown(shutdownCtx) })
	}()

	log.Info("listening", "addr", httpSrv.Addr, "prefix", cfg.Prefix, "place", cfg.Places[0].Name)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.PrintErr(err)
	}
}
