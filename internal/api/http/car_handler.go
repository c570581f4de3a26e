package http

import (
	"net/http"

	"carrental-backend/internal/domain"
)

// ListCars accepts optional status and brand query filters.
func (h *Handler) ListCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CarFilter{
		Status: domain.CarStatus(q.Get("status")),
		Brand:  q.Get("brand"),
	}
	cars, err := h.cars.ListCars(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

func (h *Handler) ListAvailableCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.cars.ListAvailableCars(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

func (h *Handler) ListNearbyCars(w http.ResponseWriter, r *http.Request) {
	lat, err := queryFloat(r, "lat")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lng, err := queryFloat(r, "lng")
	if err != nil {
		writeError(w, r, err)
		return
	}
	maxKm, err := queryFloat(r, "max_distance_km")
	if err != nil {
		writeError(w, r, err)
		return
	}
	cars, err := h.cars.GetAvailableCarsNearby(r.Context(), lat, lng, maxKm)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

func (h *Handler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	car, err := h.cars.GetCar(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *Handler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req CarRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	car := req.toDomain(0)
	if err := h.cars.CreateCar(r.Context(), car); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (h *Handler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req CarRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	car, err := h.cars.UpdateCar(r.Context(), req.toDomain(id))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *Handler) SetCarStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req CarStatusRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	car, err := h.cars.SetCarStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *Handler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.cars.DeleteCar(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
