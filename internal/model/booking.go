package model

import "time"

// Booking statuses stored in puja_bookings.booking_status.
//
// The enforced lifecycle is Pending → {Confirmed, Cancelled},
// Confirmed → {Completed, Cancelled}; Completed and Cancelled are
// terminal for the cancel and full-update paths respectively.  Note that
// the narrow set-status operation deliberately does NOT enforce this
// graph: it accepts any of the four values unconditionally, mirroring
// the behavior of the system this service replaces.  The guards are
// per-operation, not a single unified state machine.
const (
    StatusPending   = "Pending"
    StatusConfirmed = "Confirmed"
    StatusCompleted = "Completed"
    StatusCancelled = "Cancelled"
)

// ValidStatus reports whether s is one of the four booking statuses.
func ValidStatus(s string) bool {
    switch s {
    case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
        return true
    }
    return false
}

// Booking modes: the channel through which a booking was placed.
const (
    ModeOnline  = "Online"
    ModeOffline = "Offline"
    ModePhone   = "Phone"
)

// ValidBookingMode reports whether m is a known booking mode.
func ValidBookingMode(m string) bool {
    return m == ModeOnline || m == ModeOffline || m == ModePhone
}

// Currencies accepted for a booking's total amount.
var validCurrencies = map[string]bool{
    "INR": true, "USD": true, "EUR": true, "GBP": true,
}

// ValidCurrency reports whether c is an accepted currency code.
func ValidCurrency(c string) bool { return validCurrencies[c] }

// PujaBooking mirrors the `puja_bookings` table.  A booking references
// exactly one PujaType and one Customer; both foreign keys use restrict
// semantics, so the referenced rows cannot be deleted while the booking
// exists.
//
// Fields:
//  BookingID     – auto-increment primary key.
//  PujaTypeID    – catalog item being booked.
//  CustomerID    – GUID of the booking customer.
//  BookingMode   – Online, Offline or Phone.
//  PujaDate      – calendar date of the ritual (date only, no zone).
//  PujaTime      – optional time of day, "HH:MM:SS".
//  PeopleCount   – attendees, 1–1000.
//  Note          – optional free text.
//  BookingStatus – Pending, Confirmed, Completed or Cancelled.
//  TotalAmount   – non-negative amount, DECIMAL(12,2).
//  Currency      – INR, USD, EUR or GBP.
//  IsPaid        – payment flag, default false.
//  CreatedDate   – timestamp of creation.
//  UpdatedDate   – timestamp of last update; doubles as the optimistic
//                  concurrency token on update paths.
type PujaBooking struct {
    BookingID     int64      // puja_bookings.booking_id
    PujaTypeID    int64      // puja_bookings.puja_type_id
    CustomerID    string     // puja_bookings.customer_id (CHAR(36) GUID)
    BookingMode   string     // puja_bookings.booking_mode
    PujaDate      string     // puja_bookings.puja_date (DATE, "2006-01-02")
    PujaTime      *string    // puja_bookings.puja_time (nullable TIME)
    PeopleCount   int        // puja_bookings.people_count
    Note          *string    // puja_bookings.note (nullable)
    BookingStatus string     // puja_bookings.booking_status
    TotalAmount   float64    // puja_bookings.total_amount (DECIMAL(12,2))
    Currency      string     // puja_bookings.currency
    IsPaid        bool       // puja_bookings.is_paid
    CreatedDate   time.Time  // puja_bookings.created_date
    UpdatedDate   *time.Time // puja_bookings.updated_date (nullable)
}
