// Package server wires configuration, the snapshot provider chain, the
// change feed, the sync engine and the HTTP surface into one runnable unit.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"ringboard-service/internal/config"
	"ringboard-service/internal/engine"
	"ringboard-service/internal/feed"
	"ringboard-service/internal/feed/natsfeed"
	httpapi "ringboard-service/internal/http"
	"ringboard-service/internal/http/handlers"
	"ringboard-service/internal/logging"
	"ringboard-service/internal/metrics"
	"ringboard-service/internal/providers"
	"ringboard-service/internal/providers/pgstore"
	"ringboard-service/internal/transform"
	"ringboard-service/internal/ws"
)

var metricsSetup = metrics.Setup

// Server owns the lifecycle of every component for one tracked show.
type Server struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Recorder

	engine        *engine.Engine
	hub           *ws.Hub
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error

	closers     []func()
	unsubscribe func()
}

// New constructs a fully wired server. The Postgres pool connects lazily on
// first query; an unreachable NATS broker degrades the feed to polling
// instead of failing construction.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	s := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}

	provider, membership, err := s.buildProvider(ctx, cfg, recorder)
	if err != nil {
		return nil, err
	}
	sub := s.buildFeed(cfg, membership)

	s.engine = engine.New(engine.Config{
		ScopeKey:       cfg.ScopeKey,
		PollInterval:   cfg.PollInterval,
		StaleAfter:     cfg.StaleAfter,
		DebounceWindow: cfg.DebounceWindow,
	}, provider, transform.ForSchema(cfg.Schema), sub, nil, logger, recorder)

	s.hub = ws.NewHub(s.engine, logger)
	s.unsubscribe = s.engine.OnSnapshotChange(s.hub.BroadcastSnapshot)

	router := httpapi.NewRouter(handlers.NewHandler(s.engine, logger), s.hub, logger, recorder)
	s.httpServer = newBoardServer(":"+cfg.Port, router)
	return s, nil
}

func (s *Server) buildProvider(ctx context.Context, cfg config.Config, recorder *metrics.Recorder) (providers.SnapshotProvider, feed.MembershipFunc, error) {
	pg, err := pgstore.New(ctx, pgstore.Config{
		DSN:           cfg.Database.DSN,
		ScopeTTL:      cfg.Database.ScopeTTL,
		MembershipTTL: cfg.Database.MembershipTTL,
	}, s.logger)
	if err != nil {
		return nil, nil, err
	}
	s.closers = append(s.closers, pg.Close)

	provider := providers.NewRetryingProvider(
		providers.NewInstrumentedProvider(pg, s.logger, recorder),
		s.logger, 0, 0,
	)

	membership := func(entity feed.EntityType, id string) feed.Membership {
		set, err := pg.MembershipIDs(context.Background(), cfg.ScopeKey)
		if err != nil {
			return feed.MembershipUnknown
		}
		if set.Contains(string(entity), id) {
			return feed.MembershipMember
		}
		return feed.MembershipNotMember
	}
	return provider, membership, nil
}

func (s *Server) buildFeed(cfg config.Config, membership feed.MembershipFunc) feed.Subscriber {
	if cfg.Feed.URL == "" {
		logging.Warn(s.logger, "change feed disabled, relying on polling")
		return nil
	}

	feedCfg := natsfeed.DefaultConfig()
	feedCfg.URL = cfg.Feed.URL
	if cfg.Feed.SubjectPrefix != "" {
		feedCfg.SubjectPrefix = cfg.Feed.SubjectPrefix
	}

	sub, err := natsfeed.New(feedCfg, membership, s.logger)
	if err != nil {
		logging.Error(s.logger, "change feed connection failed, relying on polling", err)
		return nil
	}
	s.closers = append(s.closers, sub.Close)
	return sub
}

// Run starts every component and blocks until the context is canceled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	// The pipeline comes up before the listeners so the first request to
	// land already finds a started engine and hub.
	s.hub.Start()
	s.engine.Start(ctx)
	s.startMetrics()
	s.startServer(stop)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")
	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.engine.Stop()
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.hub.Stop()

	for _, closeFn := range s.closers {
		closeFn()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recorder, handler, shutdown, err := metricsSetup(context.Background(), metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && cfg.Metrics.Enabled {
		metricsSrv = newScrapeServer(":"+cfg.Metrics.Port, handler)
	}
	return recorder, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", "addr", srv.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}
