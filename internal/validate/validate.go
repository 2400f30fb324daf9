// Package validate performs field validation for inbound DTOs.  Checks
// accumulate every violation into a single error rather than failing on
// the first one, so a client sees the complete list in one response.
package validate

import (
    "fmt"
    "net/mail"
    "strings"

    "github.com/poojapath/puja-booking/internal/model"
)

// Errors is the combined list of violations found in one pass.
type Errors []string

// Error joins all violations with "; " so the whole list travels as one
// message.
func (e Errors) Error() string { return strings.Join(e, "; ") }

// errOrNil returns nil when no violations were collected.
func errOrNil(e Errors) error {
    if len(e) == 0 {
        return nil
    }
    return e
}

// CustomerProfile is the shared shape validated for every DTO that
// carries customer identity fields (create, update and self-register all
// bind to this).  Optional fields are empty strings when absent.
type CustomerProfile struct {
    FirstName     string
    LastName      string
    ContactNumber string
    Email         string
    Country       string
    State         string
    District      string
}

// Customer checks a customer profile and returns every violation found.
// Required name fields must be 2–120 characters after trimming, the
// contact number 10–20, the email (when present) a parseable address of
// at most 320 characters, and the location fields at most 120 each.
func Customer(p CustomerProfile) error {
    var errs Errors

    errs = requireName(errs, "FirstName", p.FirstName)
    errs = requireName(errs, "LastName", p.LastName)

    contact := strings.TrimSpace(p.ContactNumber)
    switch {
    case contact == "":
        errs = append(errs, "ContactNumber is required and cannot be empty")
    case len(contact) > 20:
        errs = append(errs, "ContactNumber cannot exceed 20 characters")
    case len(contact) < 10:
        errs = append(errs, "ContactNumber must be at least 10 digits")
    }

    if p.Email != "" {
        if len(p.Email) > 320 {
            errs = append(errs, "Email cannot exceed 320 characters")
        } else if !validEmail(p.Email) {
            errs = append(errs, "Email format is invalid")
        }
    }

    errs = optionalText(errs, "Country", p.Country)
    errs = optionalText(errs, "State", p.State)
    errs = optionalText(errs, "District", p.District)

    return errOrNil(errs)
}

// PujaType checks catalog input: name required, 3–500 characters after
// trimming; price non-negative; image URL at most 500 characters.
func PujaType(name string, price float64, imageURL string) error {
    var errs Errors

    trimmed := strings.TrimSpace(name)
    switch {
    case trimmed == "":
        errs = append(errs, "PujaTypeName is required and cannot be empty")
    case len(trimmed) > 500:
        errs = append(errs, "PujaTypeName cannot exceed 500 characters")
    case len(trimmed) < 3:
        errs = append(errs, "PujaTypeName must be at least 3 characters")
    }

    if price < 0 {
        errs = append(errs, "Price must be greater than or equal to 0")
    }

    if imageURL != "" && len(imageURL) > 500 {
        errs = append(errs, "ImageUrl cannot exceed 500 characters")
    }

    return errOrNil(errs)
}

// BookingFields checks the request-shape rules every booking write
// shares: a known mode, a people count between 1 and 1000, a
// non-negative amount and an accepted currency.  Referential and
// temporal rules live in the booking handler because they need the
// store.
type BookingFields struct {
    BookingMode string
    PeopleCount int
    TotalAmount float64
    Currency    string
}

// Booking validates the shared booking fields, accumulating violations.
func Booking(f BookingFields) error {
    var errs Errors

    if !model.ValidBookingMode(strings.TrimSpace(f.BookingMode)) {
        errs = append(errs, "BookingMode must be Online, Offline, or Phone")
    }
    if f.PeopleCount < 1 || f.PeopleCount > 1000 {
        errs = append(errs, "PeopleCount must be between 1 and 1000")
    }
    if f.TotalAmount < 0 {
        errs = append(errs, "TotalAmount must be a valid amount")
    }
    if !model.ValidCurrency(f.Currency) {
        errs = append(errs, "Currency must be INR, USD, EUR, or GBP")
    }

    return errOrNil(errs)
}

func requireName(errs Errors, field, value string) Errors {
    trimmed := strings.TrimSpace(value)
    switch {
    case trimmed == "":
        errs = append(errs, fmt.Sprintf("%s is required and cannot be empty", field))
    case len(trimmed) > 120:
        errs = append(errs, fmt.Sprintf("%s cannot exceed 120 characters", field))
    case len(trimmed) < 2:
        errs = append(errs, fmt.Sprintf("%s must be at least 2 characters", field))
    }
    return errs
}

func optionalText(errs Errors, field, value string) Errors {
    if value != "" && len(value) > 120 {
        errs = append(errs, fmt.Sprintf("%s cannot exceed 120 characters", field))
    }
    return errs
}

// validEmail accepts an address only when it parses and round-trips
// unchanged, rejecting display-name forms like "Name <a@b.c>".
func validEmail(email string) bool {
    addr, err := mail.ParseAddress(email)
    return err == nil && addr.Address == email
}
