package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"carrental-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user"`
}

type LocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Address   string  `json:"address" validate:"max=500"`
}

// CarRequest is the body of car create and update. Status is ignored on update;
// RENTED is only reachable through the status endpoint.
type CarRequest struct {
	Brand            string           `json:"brand" validate:"required,max=100"`
	Model            string           `json:"model" validate:"required,max=100"`
	Year             int32            `json:"year" validate:"gte=1886,lte=3000"`
	PricePerDayCents int64            `json:"price_per_day_cents" validate:"gt=0,lte=100000000"`
	Status           domain.CarStatus `json:"status" validate:"omitempty,oneof=AVAILABLE MAINTENANCE"`
	Location         *LocationRequest `json:"location"`
}

func (req *CarRequest) toDomain(id int32) *domain.Car {
	car := &domain.Car{
		ID:               id,
		Brand:            req.Brand,
		Model:            req.Model,
		Year:             req.Year,
		PricePerDayCents: req.PricePerDayCents,
		Status:           req.Status,
	}
	if req.Location != nil {
		car.Location = &domain.Location{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
			Address:   req.Location.Address,
		}
	}
	return car
}

type CarStatusRequest struct {
	Status domain.CarStatus `json:"status" validate:"required"`
}

type CreateReservationRequest struct {
	CarID     int32     `json:"car_id" validate:"required,gt=0"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

type ReservationStatusRequest struct {
	Status domain.ReservationStatus `json:"status" validate:"required"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// Both failures are reported as domain.ErrValidation.
func decodeAndValidate(v *validator.Validate, r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrValidation, err)
	}
	if err := v.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Sprintf("field %s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("field %s failed %s", fe.Namespace(), fe.Tag())
}
