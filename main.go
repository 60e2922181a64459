package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"Ampere/internal/auth"
	"Ampere/internal/calc/aircon"
	"Ampere/internal/calc/cable"
	"Ampere/internal/calc/demand"
	"Ampere/internal/calc/derating"
	"Ampere/internal/calc/heating"
	"Ampere/internal/calc/lighting"
	"Ampere/internal/calc/premium/autodesign"
	"Ampere/internal/calc/premium/batch"
	"Ampere/internal/calc/premium/importer"
	"Ampere/internal/calc/premium/recommend"
	"Ampere/internal/calc/report"
	"Ampere/internal/calc/waterheating"
	"Ampere/internal/config"
	"Ampere/internal/history"
	"Ampere/internal/logger"
	"Ampere/internal/metrics"
	"Ampere/internal/profile"
	"Ampere/internal/repo"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleList registers every route on router.
func HandleList(router *mux.Router, db *sql.DB, cfg config.Config, log *logger.Logger, m *metrics.Metrics) {
	store := repo.NewPostgresDB(db)
	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: store, Log: log}
	rec := &history.Recorder{Repo: store, Metrics: m, Log: log}
	limiter := auth.NewIPRateLimiter(5, 10)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)
	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)
	secureApi.HandleFunc("/history", rec.List).Methods("GET")
	profileH := &profile.ProfileHandler{Repo: store, Log: log}
	secureApi.HandleFunc("/profile", profileH.GetProfile).Methods("GET")

	p := cfg.Policy
	tools := map[string]http.HandlerFunc{
		"lighting":      (&lighting.Handler{Policy: p}).Calc,
		"heating":       (&heating.Handler{Policy: p}).Calc,
		"water-heating": (&waterheating.Handler{Policy: p}).Calc,
		"aircon":        (&aircon.Handler{Policy: p}).Calc,
		"demand":        (&demand.Handler{Policy: p}).Calc,
		"cable":         (&cable.Handler{Metrics: m}).Calc,
		"derating":      (&derating.Handler{}).Calc,
	}
	for name, h := range tools {
		secureApi.HandleFunc("/tools/"+name+"/calc", rec.Track(name, h)).Methods("POST")
	}
	reportH := &report.Handler{Policy: p, Log: log}
	secureApi.HandleFunc("/tools/report/pdf", rec.Track("report", reportH.Generate)).Methods("POST")

	premium := secureApi.PathPrefix("/premium").Subrouter()
	premium.Use(authEnv.PremiumMiddleware)
	premium.HandleFunc("/autodesign/circuit", rec.Track("autodesign", (&autodesign.Handler{}).Circuit)).Methods("POST")
	premium.HandleFunc("/recommend/device", rec.Track("recommend", (&recommend.Handler{}).Device)).Methods("POST")
	premium.HandleFunc("/batch/cable", rec.Track("batch", (&batch.Handler{}).Cable)).Methods("POST")
	premium.HandleFunc("/import/cable", rec.Track("import", (&importer.Handler{}).Cable)).Methods("POST")

	router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/main")))
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load("configs")
	log := logger.Get(cfg.LogLevel)
	if err != nil {
		log.Fatalw("error loading config", "err", err)
	}

	db, err := auth.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("failed to init postgres", "err", err)
	}
	defer db.Close()

	router := mux.NewRouter()
	HandleList(router, db, cfg, log, metrics.New(prometheus.DefaultRegisterer))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           CORS(router),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	go func() {
		log.Infow("starting server", "addr", cfg.Addr)
		if err := server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Infow("shutdown signal received, closing active connections")

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
	log.Infow("server stopped")
}
