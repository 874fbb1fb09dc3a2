package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wgapi/config"
	"wgapi/internal/api"
	"wgapi/internal/db"
	"wgapi/internal/health"
	"wgapi/internal/logs"
	"wgapi/internal/metrics"
	"wgapi/internal/middleware"
	"wgapi/internal/models"
	"wgapi/internal/registry"
	"wgapi/internal/wg"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const Version = "0.3.0"

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server
	startedAt  time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg
	a.startedAt = time.Now()

	/* 1) Логи */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) Реестр пиров: JSON-файл или БД */
	var store registry.Store
	if drv := a.cfg.Database.Driver; drv != "" {
		d, err := db.Open(drv, a.cfg.Database.DSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		a.db = d
		if err := a.db.AutoMigrate(&models.RegistryPeer{}); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		store = registry.NewDBStore(a.db)
	} else {
		store = registry.NewFileStore(a.cfg.WireGuard.StoragePath)
	}

	/* 3) WireGuard-шлюз + восстановление пиров после рестарта */
	runner := wg.NewRunner()
	mgr := wg.NewCLI(a.cfg.WireGuard.Interface, runner, store)
	mgr.RestorePeers(context.Background())

	/* 4) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
		metrics.Middleware,
	)

	/* 5) Health + metrics — без авторизации */
	health.RegisterRoutes(a.Router, mgr, Version, a.startedAt)
	a.Router.Handle("/metrics", metrics.Handler(mgr)).Methods(http.MethodGet)

	/* 6) Peer API — под токеном */
	h := api.NewHandler(mgr, runner, api.Options{
		Token:           a.cfg.API.Token,
		ServerPublicKey: a.cfg.WireGuard.ServerPublicKey,
		ServerEndpoint:  a.cfg.WireGuard.ServerEndpoint,
	})
	api.RegisterRoutes(a.Router, h, a.cfg.API.Token)

	/* (необязательно) вывести известные маршруты в лог при старте */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Жёсткие таймауты — это важно для production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
