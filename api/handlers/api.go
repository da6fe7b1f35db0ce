package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/festival-registration-api/api"
	"github.com/linesmerrill/festival-registration-api/api/scheduler"
	"github.com/linesmerrill/festival-registration-api/config"
	"github.com/linesmerrill/festival-registration-api/databases"
	"github.com/linesmerrill/festival-registration-api/flutterwave"
	"github.com/linesmerrill/festival-registration-api/mailer"
	"github.com/linesmerrill/festival-registration-api/models"
	"github.com/linesmerrill/festival-registration-api/qr"
	"github.com/linesmerrill/festival-registration-api/registration"
)

// RequestTimeout bounds every /api request except the websocket feed
const RequestTimeout = 30 * time.Second

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Service   *registration.Service
	Feed      *LiveFeed
	Auth      *api.AdminAuth
	Scheduler *scheduler.Scheduler
	client    databases.ClientHelper
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	if a.Auth == nil {
		a.Auth = api.NewAdminAuth(a.Config)
	}
	if a.Feed == nil {
		a.Feed = NewLiveFeed(a.Config.AllowedOrigins)
	}

	reg := Registration{Service: a.Service}
	wh := Webhook{Service: a.Service, HashKey: a.Config.FlutterwaveHashKey}

	r := mux.NewRouter()

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(api.TimeoutMiddleware(RequestTimeout))

	apiRouter.HandleFunc("/register", reg.RegisterHandler).Methods("POST")
	apiRouter.HandleFunc("/make-payment", reg.MakePaymentHandler).Methods("POST")
	apiRouter.HandleFunc("/payment/verify", reg.VerifyPaymentHandler).Methods("GET")
	apiRouter.HandleFunc("/payment/webhook", wh.WebhookHandler).Methods("POST")

	apiRouter.HandleFunc("/admin/login", a.Auth.Login).Methods("POST")
	apiRouter.Handle("/students", a.Auth.Middleware(http.HandlerFunc(reg.StudentsHandler))).Methods("GET")
	apiRouter.Handle("/ws/students", a.Auth.Middleware(a.Feed)).Methods("GET")

	return r
}

// Handler wraps the router with the middleware every request goes through
func (a *App) Handler() http.Handler {
	return api.CorsMiddleware(a.Config.AllowedOrigins)(api.RequestLogger(a.Router))
}

// Initialize connects to the database, makes sure the indexes exist and
// wires the services and routes
func (a *App) Initialize(ctx context.Context) error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}
	a.client = client

	if err := client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	if err := client.Ping(ctx); err != nil {
		zap.S().With(err).Error("failed to ping database")
		return err
	}
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("festival-registration-api has connected to the database")

	if err := databases.EnsureIndexes(ctx, a.dbHelper); err != nil {
		zap.S().With(err).Error("failed to create indexes")
		return err
	}

	a.initializeServices()
	a.initializeRoutes()
	return nil
}

func (a *App) initializeServices() {
	var notifier registration.Notifier = mailer.LogSender{}
	if a.Config.SendgridAPIKey != "" {
		notifier = mailer.New(a.Config.SendgridAPIKey, a.Config.EmailFromName, a.Config.EmailFrom)
	}
	if a.Config.FlutterwaveHashKey == "" {
		zap.S().Warn("FLW_HASH_SECRET not set, every webhook will be rejected")
	}

	a.Feed = NewLiveFeed(a.Config.AllowedOrigins)
	a.Service = registration.NewService(registration.Deps{
		Pending:     databases.NewPendingPaymentDatabase(a.dbHelper),
		Registrants: databases.NewRegistrantDatabase(a.dbHelper),
		Gateway:     flutterwave.NewClient(a.Config.FlutterwaveBaseURL, a.Config.FlutterwaveSecretKey, nil),
		QR:          qr.NewGenerator(),
		Notifier:    notifier,
		Publisher:   a.Feed,
	}, registration.Settings{
		BaseURL:     a.Config.BaseURL,
		FrontendURL: a.Config.FrontendURL,
	})
	a.Scheduler = scheduler.NewScheduler(a.Service, databases.NewSchedulerLockDatabase(a.dbHelper))
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// Close stops background work, waits for confirmation emails in flight and
// disconnects from the database
func (a *App) Close(ctx context.Context) error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Feed != nil {
		a.Feed.Close()
	}
	if a.Service != nil {
		a.Service.Wait()
	}
	if a.client != nil {
		return a.client.Disconnect(ctx)
	}
	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
