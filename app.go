package walletbridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/layer-3/walletbridge/adapters/events"
	"github.com/layer-3/walletbridge/adapters/presenter"
	"github.com/layer-3/walletbridge/adapters/store"
	"github.com/layer-3/walletbridge/adapters/tokenizer"
	"github.com/layer-3/walletbridge/config"
	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
	"github.com/layer-3/walletbridge/service"
	transport "github.com/layer-3/walletbridge/transport/http"
)

// App is the explicit application context: every component of one
// running manager, wired from a Config.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	Store       ports.SessionStore
	Connections *service.ConnectionManager
	Submitters  map[core.ChainFamily]*service.Submitter
	Dashboards  map[core.ChainFamily]*service.Dashboard
	Pairings    *presenter.QRPresenter
	Router      *gin.Engine

	closers []func() error
}

// New wires the application. pairingOut receives pairing QR codes drawn as
// text and may be nil.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, pairingOut io.Writer) (*App, error) {
	a := &App{
		cfg:        cfg,
		log:        log,
		Submitters: make(map[core.ChainFamily]*service.Submitter),
		Dashboards: make(map[core.ChainFamily]*service.Dashboard),
		Pairings:   presenter.NewQRPresenter(pairingOut, log),
	}
	if err := a.wire(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	var rdb *redis.Client
	if a.cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(a.cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to parse redis url: %w", err)
		}
		rdb = redis.NewClient(opts)
		a.closers = append(a.closers, rdb.Close)
	}

	sessionStore, err := a.newStore(rdb)
	if err != nil {
		return err
	}
	a.Store = sessionStore

	publisher, err := a.newPublisher(rdb)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, publisher.Close)

	a.Connections = service.NewConnectionManager(events.NewWatermillPublisher(publisher, a.cfg.Events.Topic), a.log)

	families, err := a.newFamilies(ctx)
	if err != nil {
		return err
	}

	for _, f := range families {
		for _, b := range f.backends {
			if err := a.Connections.Register(b); err != nil {
				return err
			}
		}

		dashboard := service.NewDashboard(f.family, f.chain, a.Connections, service.DashboardConfig{
			RefreshInterval: a.cfg.Dashboard.RefreshInterval,
			LaunchWindow:    a.cfg.Dashboard.LaunchWindow,
		}, a.log)
		submitter := service.NewSubmitter(f.family, a.Connections, f.chain, dashboard, service.SubmitterConfig{
			PollInterval:  a.cfg.Submitter.PollInterval,
			SettleTimeout: a.cfg.Submitter.SettleTimeout,
			Memo:          a.cfg.Submitter.Memo,
		}, a.log)
		submitter.OnSettled(func(ctx context.Context) { dashboard.Refresh(ctx) })

		a.Dashboards[f.family] = dashboard
		a.Submitters[f.family] = submitter
	}

	key, err := signingKey(a.cfg.Auth.SigningKey)
	if err != nil {
		return err
	}

	deps := transport.Deps{
		Connections: a.Connections,
		Submitters:  make(map[core.ChainFamily]transport.Submitter, len(a.Submitters)),
		Dashboards:  make(map[core.ChainFamily]transport.Dashboard, len(a.Dashboards)),
		Pairings:    a.Pairings,
		Tokenizer:   tokenizer.NewJWTTokenizer(key),
		TokenTTL:    a.cfg.Auth.TokenTTL,
	}
	for family, s := range a.Submitters {
		deps.Submitters[family] = s
	}
	for family, d := range a.Dashboards {
		deps.Dashboards[family] = d
	}
	a.Router = transport.SetupRouter(deps, a.log)
	return nil
}

func (a *App) newStore(rdb *redis.Client) (ports.SessionStore, error) {
	switch a.cfg.Store.Kind {
	case "redis":
		if rdb == nil {
			return nil, errors.New("redis store requires redis.url")
		}
		return store.NewRedisStore(rdb), nil
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return store.NewFileStore(a.cfg.Store.Dir)
	}
}

// newPublisher streams session events to redis when it is configured and
// keeps them in process otherwise.
func (a *App) newPublisher(rdb *redis.Client) (message.Publisher, error) {
	logger := events.NewZerologAdapter(a.log)
	if rdb == nil {
		return gochannel.NewGoChannel(gochannel.Config{}, logger), nil
	}
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{Client: rdb}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis publisher: %w", err)
	}
	return publisher, nil
}

// Run restores persisted sessions, keeps the dashboards fresh and serves
// the HTTP API until ctx ends.
func (a *App) Run(ctx context.Context) error {
	a.Connections.Restore(ctx)

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	for _, d := range a.Dashboards {
		wg.Add(1)
		go func(d *service.Dashboard) {
			defer wg.Done()
			d.Run(ctx)
		}(d)
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("Shutting down server...")
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
