package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cw-forecast/forecast"
	"cw-forecast/logger"
	"cw-forecast/models"
	services "cw-forecast/service"
	"cw-forecast/util"
)

const CITY_QUERY_ARG = "city"

// maxBodyBytes bounds the POST /v1/forecast body.
const maxBodyBytes = 1 << 16

// ForecastProvider is the part of services.ForecastService the handlers use.
type ForecastProvider interface {
	Forecast(ctx context.Context, city string) (*models.ForecastResponse, error)
	Cities() []string
}

type errorResponse struct {
	Error string `json:"error"`
}

type ForecastHandler struct {
	forecasts ForecastProvider
	log       logger.Logger
}

func NewForecastHandler(forecasts ForecastProvider, log logger.Logger) *ForecastHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &ForecastHandler{forecasts: forecasts, log: logger.Component(log, "forecast_handler")}
}

// PostForecast handles POST /v1/forecast with an optional {"city": "..."} body.
func (h *ForecastHandler) PostForecast(w http.ResponseWriter, r *http.Request) {
	var req models.ForecastRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	resp, ok := h.forecast(w, r, req.City)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetDashboard handles GET / with an optional ?city=.
func (h *ForecastHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.forecast(w, r, r.URL.Query().Get(CITY_QUERY_ARG))
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := util.RenderDashboard(w, resp, h.forecasts.Cities()); err != nil {
		h.log.WithError(err).Errorf("Error rendering dashboard")
	}
}

// GetChart handles GET /v1/forecast/chart.
func (h *ForecastHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.forecast(w, r, r.URL.Query().Get(CITY_QUERY_ARG))
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := util.RenderForecastChart(w, resp); err != nil {
		h.log.WithError(err).Errorf("Error rendering chart")
	}
}

// GetReport handles GET /v1/forecast/report.xlsx.
func (h *ForecastHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.forecast(w, r, r.URL.Query().Get(CITY_QUERY_ARG))
	if !ok {
		return
	}
	data, err := util.BuildForecastWorkbook(resp)
	if err != nil {
		h.log.WithError(err).Errorf("Error building report")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="forecast_%s.xlsx"`, resp.ForecastID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.WithError(err).Warnf("Error writing report")
	}
}

// Ping handles GET /ping.
func (h *ForecastHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}

func (h *ForecastHandler) forecast(w http.ResponseWriter, r *http.Request, city string) (*models.ForecastResponse, bool) {
	resp, err := h.forecasts.Forecast(r.Context(), city)
	if err != nil {
		status := StatusFor(err)
		log := h.log.WithField("city", city).WithError(err)
		if status >= http.StatusInternalServerError {
			log.Errorf("Forecast failed")
		} else {
			log.Infof("Forecast rejected")
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return nil, false
	}
	return resp, true
}

// StatusFor maps a forecast error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnknownCity):
		return http.StatusNotFound
	case errors.Is(err, forecast.ErrInsufficientHistory),
		errors.Is(err, forecast.ErrInsufficientWeather),
		errors.Is(err, forecast.ErrNonContiguousDate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrWeatherUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrHistoryUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
