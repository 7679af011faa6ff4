package app

import (
	"errors"
	"net/http"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
	"staff-console-go/internal/config"
	"staff-console-go/internal/db"
	"staff-console-go/internal/domain/avatars"
	"staff-console-go/internal/domain/dashboard"
	employeesdomain "staff-console-go/internal/domain/employees"
	teamsdomain "staff-console-go/internal/domain/teams"
	"staff-console-go/internal/notify"
	"staff-console-go/internal/repository/inmemory"
	employeesrepo "staff-console-go/internal/repository/postgres/employees"
	teamsrepo "staff-console-go/internal/repository/postgres/teams"
	"staff-console-go/internal/repository/rediscache"
	"staff-console-go/internal/repository/supabase"
	"staff-console-go/internal/resultset"
	"staff-console-go/internal/transport/httpserver"
	"staff-console-go/internal/transport/httpserver/handler"
	"staff-console-go/migrations"
	"staff-console-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	clock      clockwork.Clock
	db         *gorm.DB
	httpServer *http.Server

	employees *employeesdomain.Service
	teams     *teamsdomain.Service
	avatars   *avatars.Service
	dashboard *dashboard.Service
	store     resultset.Store
	notify    notify.Sink

	closers []func() error
}

type Option func(*options)

type options struct {
	sinks []notify.Sink
}

// WithNotify adds a sink that receives every record notification.
func WithNotify(sink notify.Sink) Option {
	return func(o *options) {
		o.sinks = append(o.sinks, sink)
	}
}

func New(log logger.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log, clock: clockwork.NewRealClock()}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	a.db = dbConn
	a.closers = append(a.closers, a.closeDB)

	if cfg.DB.AutoMigrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(dbConn, migrations.Files, log); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	log.Info("app: initializing result-set cache", "backend", cfg.Cache.Backend)
	store, err := a.newResultSetStore()
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.store = store

	sinks := append([]notify.Sink{notify.NewLogSink(log)}, o.sinks...)
	if cfg.Events.NATSURL != "" {
		natsSink, err := notify.NewNATSSink(cfg.Events.NATSURL, cfg.Events.SubjectPrefix, log)
		if err != nil {
			log.Warn("app: nats unavailable, record events not published", "err", err)
		} else {
			sinks = append(sinks, natsSink)
			a.closers = append(a.closers, natsSink.Close)
		}
	}
	a.notify = notify.Multi(sinks...)

	teamsRepo := teamsrepo.NewPostgres(dbConn)
	employeesRepo := employeesrepo.NewPostgres(dbConn)
	a.teams = teamsdomain.NewService(teamsRepo)
	a.employees = employeesdomain.NewService(employeesRepo, a.clock)
	a.avatars = avatars.NewService(supabase.NewStorageBucket(cfg.Supabase, cfg.Supabase.AvatarBucket))
	a.dashboard = dashboard.NewService(a.employees, a.teams)

	log.Info("app: initializing router")
	handlers := handler.New(handler.Deps{
		Employees: a.employees,
		Teams:     a.teams,
		Avatars:   a.avatars,
		Dashboard: a.dashboard,
		Store:     a.store,
		CacheTTL:  cfg.Cache.TTL,
		Notify:    a.notify,
	}, log)
	router := httpserver.NewRouter(cfg, handlers, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)

	return a, nil
}

func (a *App) newResultSetStore() (resultset.Store, error) {
	switch a.cfg.Cache.Backend {
	case "redis":
		store, err := rediscache.NewResultSetStore(a.cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	case "none":
		return resultset.Noop(), nil
	default:
		return inmemory.NewInMemoryResultSetStore(a.clock), nil
	}
}

func (a *App) closeDB() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (a *App) Config() config.Config {
	return a.cfg
}

func (a *App) Clock() clockwork.Clock {
	return a.clock
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Employees() *employeesdomain.Service {
	return a.employees
}

func (a *App) Teams() *teamsdomain.Service {
	return a.teams
}

func (a *App) Avatars() *avatars.Service {
	return a.avatars
}

func (a *App) Dashboard() *dashboard.Service {
	return a.dashboard
}

func (a *App) ResultSets() resultset.Store {
	return a.store
}

func (a *App) Notify() notify.Sink {
	return a.notify
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
