package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/rider-safety-api/api"
	"github.com/linesmerrill/rider-safety-api/assessment"
	"github.com/linesmerrill/rider-safety-api/config"
	"github.com/linesmerrill/rider-safety-api/databases"
	"github.com/linesmerrill/rider-safety-api/models"
)

// App stores the router and its dependencies, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Pipeline *assessment.Pipeline
	Sessions *api.Sessions
	Metrics  *api.MetricsCollector

	dbHelper databases.DatabaseHelper
}

// NewApp wires an App over an already connected database
func NewApp(conf *config.Config, db databases.DatabaseHelper, pipeline *assessment.Pipeline, sessions *api.Sessions, metrics *api.MetricsCollector) *App {
	a := &App{
		Config:   *conf,
		Pipeline: pipeline,
		Sessions: sessions,
		Metrics:  metrics,
		dbHelper: db,
	}
	a.initializeRoutes()
	return a
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()

	var rdb databases.RiderDatabase
	var idb databases.InstanceDatabase
	var cdb databases.ChallanDatabase
	if a.dbHelper != nil {
		rdb = databases.NewRiderDatabase(a.dbHelper)
		idb = databases.NewInstanceDatabase(a.dbHelper)
		cdb = databases.NewChallanDatabase(a.dbHelper)
	}

	auth := Auth{RDB: rdb, Sessions: a.Sessions}
	rider := Rider{RDB: rdb, IDB: idb, CDB: cdb, Pipeline: a.Pipeline, ClassifyTimeout: a.Config.Vision.Timeout}
	metrics := Metrics{Collector: a.Metrics}

	r.Use(api.RequestLogMiddleware(a.Metrics))

	// healthchex
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.HandleFunc("/metrics/routes", metrics.RoutesHandler).Methods("GET")

	authRoutes := r.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/register", auth.RegisterHandler).Methods("POST")
	authRoutes.HandleFunc("/login", auth.LoginHandler).Methods("POST")
	authRoutes.Handle("/logout", a.session(http.HandlerFunc(auth.LogoutHandler))).Methods("GET")
	authRoutes.HandleFunc("/checkAuth", auth.CheckAuthHandler).Methods("GET")

	userRoutes := r.PathPrefix("/user").Subrouter()
	userRoutes.HandleFunc("/detectLabels/{userUniqueKey}", rider.DetectLabelsHandler).Methods("POST")
	userRoutes.HandleFunc("/sensorData/{userUniqueKey}", rider.SensorDataHandler).Methods("POST")
	userRoutes.HandleFunc("/getAllInstances", rider.GetAllInstancesHandler).Methods("GET")
	userRoutes.HandleFunc("/getAllChallans", rider.GetAllChallansHandler).Methods("GET")
	userRoutes.HandleFunc("/userExists", rider.UserExistsHandler).Methods("GET")
	userRoutes.HandleFunc("/getEmergencyContacts", rider.EmergencyContactsHandler).Methods("POST")
	userRoutes.HandleFunc("/sensorSummary", rider.SensorSummaryHandler).Methods("GET")
	userRoutes.Handle("/me", a.session(http.HandlerFunc(rider.MeHandler))).Methods("GET")

	return r
}

func (a *App) session(next http.Handler) http.Handler {
	if a.Sessions == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, models.StatusResponse{Status: "failed", Message: "Unauthorized"})
		})
	}
	return a.Sessions.SessionMiddleware(next)
}

// Handler is the router wrapped with CORS handling. CORS sits outside the
// router so preflight requests reach it for every path.
func (a *App) Handler() http.Handler {
	return api.CORSMiddleware(a.Config.CORSOrigins)(a.Router)
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthCheckResponse{
		Alive: true,
	})
}
