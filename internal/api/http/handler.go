package http

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Handler serves the REST API on top of the services.
type Handler struct {
	auth         service.AuthService
	cars         service.CarService
	reservations service.ReservationService
	validate     *validator.Validate
}

func NewHandler(auth service.AuthService, cars service.CarService, reservations service.ReservationService) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		auth:         auth,
		cars:         cars,
		reservations: reservations,
		validate:     v,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func pathID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", domain.ErrValidation)
	}
	return int32(id), nil
}

func queryInt32(r *http.Request, key string) (int32, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidQuery, key)
	}
	return int32(v), nil
}

func queryFloat(r *http.Request, key string) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidQuery, key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidQuery, key)
	}
	return v, nil
}
