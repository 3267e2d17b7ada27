package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/oms-support/ticketdesk/internal/auth"
	"github.com/oms-support/ticketdesk/internal/config"
	"github.com/oms-support/ticketdesk/internal/database"
	"github.com/oms-support/ticketdesk/internal/handler"
	"github.com/oms-support/ticketdesk/internal/router"
	"github.com/oms-support/ticketdesk/internal/service"
	"github.com/oms-support/ticketdesk/internal/storage"
)

// API wires config, database, storage, services and the HTTP route table into
// one runnable server.
type API struct {
	cfg     *config.Config
	httpSrv *http.Server
}

func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	store, err := storage.NewFilesystem(cfg.StorageRoot, cfg.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	verifier, err := auth.NewVerifier(cfg.AdminUser, cfg.AdminPasswordHash, cfg.AdminPassword)
	if err != nil {
		return nil, err
	}
	jwtm := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)

	ticketSvc := service.NewTicketService(db)
	accepterSvc := service.NewAccepterService(db)
	dash := service.NewDashboard(ticketSvc, cfg.DashboardTTL)

	h := router.New(router.Deps{
		DB:          db,
		JWT:         jwtm,
		Tickets:     handler.NewTicketHandler(ticketSvc, dash, store),
		Accepters:   handler.NewAccepterHandler(accepterSvc),
		Auth:        handler.NewAuthHandler(verifier, jwtm),
		StorageRoot: store.Root(),
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &API{cfg: cfg, httpSrv: httpSrv}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Swagger spec:  %s/swagger/openapi.json", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	log.Printf("  API v1:        %s/api/v1/", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
