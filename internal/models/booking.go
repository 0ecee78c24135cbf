package models

import "time"

// BookingScheduled is the status a booking gets once payment succeeded.
const BookingScheduled = "Scheduled"

// Booking records a visit paid for through the payment gateway.
// Title and price are snapshots taken when the booking was recorded.
type Booking struct {
	CreatedAt     time.Time `json:"createdAt"`
	ID            string    `json:"id"`
	PropertyID    string    `json:"propertyId"`
	PropertyTitle string    `json:"propertyTitle"`
	BuyerID       string    `json:"buyerId"`
	PaymentRef    string    `json:"paymentRef"`
	Status        string    `json:"status"`
	Price         int64     `json:"price"`
}
