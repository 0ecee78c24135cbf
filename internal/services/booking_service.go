package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/stwalsh4118/estatehub/internal/models"
)

// BookingService records site visits paid for through the payment gateway.
type BookingService interface {
	// RecordBooking stores a scheduled booking once the gateway has
	// confirmed payment paymentRef. The property must be a live listing the
	// actor can see.
	RecordBooking(ctx context.Context, actorID, propertyID, paymentRef string) (*models.Booking, error)

	// ListBookings returns the actor's bookings, newest first.
	ListBookings(ctx context.Context, actorID string) ([]*models.Booking, error)
}

type bookingService struct {
	*Engine
}

// NewBookingService creates a BookingService on top of e.
func NewBookingService(e *Engine) BookingService {
	return &bookingService{Engine: e}
}

func (s *bookingService) RecordBooking(ctx context.Context, actorID, propertyID, paymentRef string) (*models.Booking, error) {
	var booking *models.Booking
	err := s.command(ctx, func() ([]models.Notification, error) {
		buyer, err := s.activeActor(actorID, models.ErrUnauthorized)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(paymentRef) == "" {
			return nil, models.FieldErrors{"paymentRef": "is required"}
		}
		p, err := s.visibleProperty(buyer.Actor(), propertyID)
		if err != nil {
			return nil, err
		}
		if !p.Verified {
			return nil, fmt.Errorf("%w: only live listings can be booked", models.ErrInvalidState)
		}

		b := &models.Booking{
			CreatedAt:     s.now(),
			ID:            s.newID(),
			PropertyID:    p.ID,
			PropertyTitle: p.Title,
			BuyerID:       buyer.ID,
			PaymentRef:    strings.TrimSpace(paymentRef),
			Status:        models.BookingScheduled,
			Price:         p.Price,
		}
		if err := s.store.InsertBooking(b); err != nil {
			return nil, err
		}
		booking = b
		return nil, nil
	})
	if err != nil {
		return nil, s.rejected("record_booking", actorID, err)
	}

	s.log.Info("Booking recorded", map[string]interface{}{
		"booking_id":  booking.ID,
		"property_id": booking.PropertyID,
		"buyer_id":    booking.BuyerID,
		"payment_ref": booking.PaymentRef,
	})
	return booking, nil
}

func (s *bookingService) ListBookings(_ context.Context, actorID string) ([]*models.Booking, error) {
	if _, ok := s.store.FindUser(actorID); !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrUnauthorized, actorID)
	}
	return s.store.ListBookings(actorID), nil
}
