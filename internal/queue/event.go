// Package queue defines message payloads exchanged over the message broker.
package queue

// Events share the booking.events queue and are told apart by the
// event field.

// BookingCreatedEvent is published after a booking row is stored.
type BookingCreatedEvent struct {
	Event        string  `json:"event"` // always "booking.created"
	BookingID    int64   `json:"booking_id"`
	PujaTypeID   int64   `json:"puja_type_id"`
	PujaTypeName string  `json:"puja_type_name"`
	CustomerID   string  `json:"customer_id"`
	PujaDate     string  `json:"puja_date"`
	TotalAmount  float64 `json:"total_amount"`
	Currency     string  `json:"currency"`
	CreatedAt    string  `json:"created_at"`
}

// BookingCancelledEvent is published after a booking is cancelled.
type BookingCancelledEvent struct {
	Event        string  `json:"event"` // always "booking.cancelled"
	BookingID    int64   `json:"booking_id"`
	PujaTypeID   int64   `json:"puja_type_id"`
	PujaTypeName string  `json:"puja_type_name"`
	CustomerID   string  `json:"customer_id"`
	PujaDate     string  `json:"puja_date"`
	TotalAmount  float64 `json:"total_amount"`
	Currency     string  `json:"currency"`
	CancelledAt  string  `json:"cancelled_at"`
}
