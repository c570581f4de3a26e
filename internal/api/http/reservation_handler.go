package http

import (
	"net/http"

	"carrental-backend/internal/domain"
)

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req CreateReservationRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.reservations.CreateReservation(r.Context(), caller, req.CarID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ListReservations returns the caller's own reservations. Admins see all of
// them and may filter by user_id, car_id and status.
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !caller.IsAdmin {
		list, err := h.reservations.ListMyReservations(r.Context(), caller)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	userID, err := queryInt32(r, "user_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	carID, err := queryInt32(r, "car_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter := domain.ReservationFilter{
		UserID: userID,
		CarID:  carID,
		Status: domain.ReservationStatus(r.URL.Query().Get("status")),
	}
	list, err := h.reservations.ListReservations(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.reservations.GetReservation(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req ReservationStatusRequest
	if err := decodeAndValidate(h.validate, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.reservations.UpdateReservationStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	res, ok := h.cancel(w, r)
	if ok {
		writeJSON(w, http.StatusOK, res)
	}
}

// DeleteReservation cancels like CancelReservation but answers without a body.
func (h *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.cancel(w, r); ok {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) (*domain.Reservation, bool) {
	caller, err := requireCaller(r)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	res, err := h.reservations.CancelReservation(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return res, true
}
