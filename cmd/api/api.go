package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/KAsare1/fintrack-server/cmd/config"
	"github.com/KAsare1/fintrack-server/cmd/logger"
	"github.com/KAsare1/fintrack-server/cmd/utils"
	"github.com/KAsare1/fintrack-server/service/category"
	"github.com/KAsare1/fintrack-server/service/dashboard"
	notification "github.com/KAsare1/fintrack-server/service/notifications"
	"github.com/KAsare1/fintrack-server/service/summary"
	"github.com/KAsare1/fintrack-server/service/transactions"
	"github.com/KAsare1/fintrack-server/service/user"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type APIServer struct {
	cfg       *config.Config
	db        *gorm.DB
	log       zerolog.Logger
	generator summary.Generator
	mailer    notification.Mailer
}

func NewApiServer(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *APIServer {
	return &APIServer{
		cfg:       cfg,
		db:        db,
		log:       log,
		generator: summary.NewOpenAIGenerator(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel),
		mailer:    notification.NewMailer(cfg),
	}
}

// Handler builds the full middleware chain around the /api/v1 router.
func (s *APIServer) Handler() http.Handler {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api/v1").Subrouter()

	tokens := utils.NewTokenService(s.cfg.JWTSecret, s.cfg.TokenTTL)
	auth := utils.AuthMiddleware(tokens)
	transactionStore := transactions.NewStore(s.db)

	subrouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	userHandler := user.NewHandler(user.NewStore(s.db), tokens, s.mailer)
	userHandler.RegisterRoutes(subrouter, auth)

	transactionHandler := transactions.NewTransactionHandler(transactionStore)
	transactionHandler.RegisterRoutes(subrouter, auth)

	category.NewExpenseHandler(transactionStore).RegisterRoutes(subrouter, auth)
	category.NewIncomeHandler(transactionStore).RegisterRoutes(subrouter, auth)

	summaryHandler := summary.NewHandler(transactionStore, s.generator, s.cfg.SummaryCurrency)
	summaryHandler.RegisterRoutes(subrouter, auth)

	dashboardHandler := dashboard.NewDashboardHandler(transactionStore)
	dashboardHandler.RegisterRoutes(subrouter, auth)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusNotFound, "Route not found")
	})

	var h http.Handler = router
	h = handlers.CORS(
		handlers.AllowedOrigins(s.cfg.CORSOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.ExposedHeaders([]string{"Content-Disposition"}),
	)(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{s.log}))(h)
	return logger.Middleware(s.log)(h)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *APIServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type recoveryLogger struct {
	log zerolog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error().Msg(fmt.Sprint(v...))
}
