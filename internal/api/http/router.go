package http

import (
	"net/http"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter wires every route. Route names are the keys of
// config.RouteSecurityConfig; unnamed routes default to admin.
func NewRouter(h *Handler, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, AccessLog, Recover)

	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet).Name("Healthz")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(NewAuthMiddleware(tokens).Handler)

	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost).Name("Register")
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost).Name("Login")
	api.HandleFunc("/auth/me", h.Me).Methods(http.MethodGet).Name("Me")

	api.HandleFunc("/cars", h.ListCars).Methods(http.MethodGet).Name("ListCars")
	api.HandleFunc("/cars", h.CreateCar).Methods(http.MethodPost).Name("CreateCar")
	api.HandleFunc("/cars/available", h.ListAvailableCars).Methods(http.MethodGet).Name("ListAvailableCars")
	api.HandleFunc("/cars/nearby", h.ListNearbyCars).Methods(http.MethodGet).Name("ListNearbyCars")
	api.HandleFunc("/cars/{id:[0-9]+}", h.GetCar).Methods(http.MethodGet).Name("GetCar")
	api.HandleFunc("/cars/{id:[0-9]+}", h.UpdateCar).Methods(http.MethodPut).Name("UpdateCar")
	api.HandleFunc("/cars/{id:[0-9]+}", h.DeleteCar).Methods(http.MethodDelete).Name("DeleteCar")
	api.HandleFunc("/cars/{id:[0-9]+}/status", h.SetCarStatus).Methods(http.MethodPatch).Name("SetCarStatus")

	api.HandleFunc("/reservations", h.CreateReservation).Methods(http.MethodPost).Name("CreateReservation")
	api.HandleFunc("/reservations", h.ListReservations).Methods(http.MethodGet).Name("ListReservations")
	api.HandleFunc("/reservations/{id:[0-9]+}", h.GetReservation).Methods(http.MethodGet).Name("GetReservation")
	api.HandleFunc("/reservations/{id:[0-9]+}", h.DeleteReservation).Methods(http.MethodDelete).Name("DeleteReservation")
	api.HandleFunc("/reservations/{id:[0-9]+}/status", h.UpdateReservationStatus).Methods(http.MethodPatch).Name("UpdateReservationStatus")
	api.HandleFunc("/reservations/{id:[0-9]+}/cancel", h.CancelReservation).Methods(http.MethodPost).Name("CancelReservation")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: domain.KindNotFound.String(), Message: "route not found", State: stateUnchanged})
	})
	return r
}
