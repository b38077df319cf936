package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// ForecastRoutes is implemented by handlers.ForecastHandler.
type ForecastRoutes interface {
	PostForecast(w http.ResponseWriter, r *http.Request)
	GetDashboard(w http.ResponseWriter, r *http.Request)
	GetChart(w http.ResponseWriter, r *http.Request)
	GetReport(w http.ResponseWriter, r *http.Request)
	Ping(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	forecastHandler ForecastRoutes
	router          *mux.Router
	middlewares     []mux.MiddlewareFunc
}

// NewRouter creates a router with the app's routes. Middlewares run in the given order.
func NewRouter(
	forecastHandler ForecastRoutes,
	router *mux.Router,
	middlewares ...mux.MiddlewareFunc) *Router {
	return &Router{
		forecastHandler: forecastHandler,
		router:          router,
		middlewares:     middlewares,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(r.middlewares...)

	// body: {"city": "<name>"}, city is optional
	r.router.HandleFunc("/v1/forecast", r.forecastHandler.PostForecast).Methods(http.MethodPost)

	// expects ?city={name} (optional)
	r.router.HandleFunc("/v1/forecast/chart", r.forecastHandler.GetChart).Methods(http.MethodGet)
	r.router.HandleFunc("/v1/forecast/report.xlsx", r.forecastHandler.GetReport).Methods(http.MethodGet)
	r.router.HandleFunc("/", r.forecastHandler.GetDashboard).Methods(http.MethodGet)

	r.router.HandleFunc("/ping", r.forecastHandler.Ping).Methods(http.MethodGet)
}
