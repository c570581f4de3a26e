package service

import (
	"context"
	"fmt"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

type logNotifier struct{}

// NewLogNotifier records reservation events in the log only. It is used when
// SMTP is not configured.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) ReservationCreated(ctx context.Context, r *domain.Reservation, car *domain.Car) {
	logger.InfoContext(ctx, "Notify reservation created", "reservation_id", r.ID, "user_id", r.UserID, "car_id", car.ID)
}

func (logNotifier) ReservationCancelled(ctx context.Context, r *domain.Reservation) {
	logger.InfoContext(ctx, "Notify reservation cancelled", "reservation_id", r.ID, "user_id", r.UserID)
}

func (logNotifier) ReservationCompleted(ctx context.Context, r *domain.Reservation) {
	logger.InfoContext(ctx, "Notify reservation completed", "reservation_id", r.ID, "user_id", r.UserID)
}

type emailNotifier struct {
	users repository.UserRepository
	email EmailService
}

func NewEmailNotifier(users repository.UserRepository, email EmailService) Notifier {
	return &emailNotifier{users: users, email: email}
}

func (n *emailNotifier) ReservationCreated(ctx context.Context, r *domain.Reservation, car *domain.Car) {
	body := fmt.Sprintf("Your reservation #%d for the %d %s %s is pending.\n\nFrom: %s\nTo: %s\nTotal: %s",
		r.ID, car.Year, car.Brand, car.Model,
		r.StartDate.Format("2006-01-02 15:04 MST"), r.EndDate.Format("2006-01-02 15:04 MST"),
		formatCents(r.TotalPriceCents))
	n.send(ctx, r, fmt.Sprintf("Reservation #%d received", r.ID), body)
}

func (n *emailNotifier) ReservationCancelled(ctx context.Context, r *domain.Reservation) {
	n.send(ctx, r, fmt.Sprintf("Reservation #%d cancelled", r.ID),
		fmt.Sprintf("Your reservation #%d has been cancelled.", r.ID))
}

func (n *emailNotifier) ReservationCompleted(ctx context.Context, r *domain.Reservation) {
	n.send(ctx, r, fmt.Sprintf("Reservation #%d completed", r.ID),
		fmt.Sprintf("Your reservation #%d has ended. Thank you for renting with us.", r.ID))
}

func (n *emailNotifier) send(ctx context.Context, r *domain.Reservation, subject, body string) {
	user, err := n.users.GetByID(ctx, r.UserID)
	if err != nil {
		logger.WarnContext(ctx, "Skipping reservation email, user lookup failed", "reservation_id", r.ID, "user_id", r.UserID, "error", err)
		return
	}
	if err := n.email.Send(ctx, user.Email, subject, body); err != nil {
		logger.ErrorContext(ctx, "Failed to send reservation email", "reservation_id", r.ID, "user_id", r.UserID, "error", err)
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
