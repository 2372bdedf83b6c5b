package routes

import (
	"net/http"

	"github.com/harborcare/opdflow/internal/api/handlers"
	"github.com/harborcare/opdflow/internal/api/middleware"
	"github.com/harborcare/opdflow/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	patientHandler *handlers.PatientHandler

	doctorHandler *handlers.DoctorHandler

	sseHandler *handlers.SSEHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router

func NewRouter(
	patientHandler *handlers.PatientHandler,
	doctorHandler *handlers.DoctorHandler,
	sseHandler *handlers.SSEHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		patientHandler: patientHandler,
		doctorHandler:  doctorHandler,
		sseHandler:     sseHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Patient endpoints

	r.mux.HandleFunc("POST /api/patients/checkin", r.patientHandler.CheckIn)

	r.mux.HandleFunc("GET /api/patients/queue-status/{queueId}", r.patientHandler.GetStatus)

	// Doctor queue endpoints

	r.mux.HandleFunc("GET /api/doctors/{id}/queue", r.doctorHandler.GetQueue)

	r.mux.HandleFunc("GET /api/doctors/{id}/current", r.doctorHandler.GetCurrent)

	r.mux.HandleFunc("POST /api/doctors/{id}/start-consultation", r.doctorHandler.StartConsultation)

	r.mux.HandleFunc("POST /api/doctors/{id}/end-consultation", r.doctorHandler.EndConsultation)

	// Real-time queue stream for doctor dashboards
	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /api/doctors/{id}/stream", r.sseHandler.StreamDoctorQueue)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so error responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	handler = middleware.CORSMiddleware(handler)

	return handler
}
