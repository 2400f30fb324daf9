package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/poojapath/puja-booking/internal/model"
)

// BookingRepo persists puja bookings.  Read endpoints mostly return the
// joined BookingDetail projection; the raw row is only needed where the
// concurrency token or guard fields are re-read before a write.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingColumns = "booking_id,puja_type_id,customer_id,booking_mode,puja_date,puja_time,people_count,note,booking_status,total_amount,currency,is_paid,created_date,updated_date"

// BookingDetail is the joined read model served by list and get
// endpoints.  The catalog and customer columns come from LEFT JOINs, so
// a vanished parent degrades to empty strings instead of breaking the
// listing.
type BookingDetail struct {
	BookingID       int64      `json:"bookingId"`
	PujaTypeID      int64      `json:"pujaTypeId"`
	PujaTypeName    string     `json:"pujaTypeName"`
	CustomerID      string     `json:"customerId"`
	CustomerName    string     `json:"customerName"`
	CustomerEmail   string     `json:"customerEmail"`
	CustomerContact string     `json:"customerContact"`
	BookingMode     string     `json:"bookingMode"`
	PujaDate        string     `json:"pujaDate"`
	PujaTime        *string    `json:"pujaTime"`
	PeopleCount     int        `json:"peopleCount"`
	Note            *string    `json:"note"`
	BookingStatus   string     `json:"bookingStatus"`
	TotalAmount     float64    `json:"totalAmount"`
	Currency        string     `json:"currency"`
	IsPaid          bool       `json:"isPaid"`
	CreatedDate     time.Time  `json:"createdDate"`
	UpdatedDate     *time.Time `json:"updatedDate"`
}

const bookingDetailQuery = `
SELECT b.booking_id, b.puja_type_id, COALESCE(pt.puja_type_name, ''),
       b.customer_id,
       COALESCE(CONCAT(c.first_name, ' ', c.last_name), ''),
       COALESCE(c.email, ''), COALESCE(c.contact_number, ''),
       b.booking_mode, b.puja_date, b.puja_time, b.people_count, b.note,
       b.booking_status, b.total_amount, b.currency, b.is_paid,
       b.created_date, b.updated_date
FROM puja_bookings b
LEFT JOIN puja_types pt ON pt.puja_type_id = b.puja_type_id
LEFT JOIN customers c ON c.customer_id = b.customer_id`

// Create inserts a booking and populates the generated ID.
func (r *BookingRepo) Create(ctx context.Context, b *model.PujaBooking) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO puja_bookings (puja_type_id, customer_id, booking_mode, puja_date, puja_time, people_count, note, booking_status, total_amount, currency, is_paid, created_date) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)",
		b.PujaTypeID, b.CustomerID, b.BookingMode, b.PujaDate, b.PujaTime, b.PeopleCount,
		b.Note, b.BookingStatus, b.TotalAmount, b.Currency, b.IsPaid, b.CreatedDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.BookingID = id
	return nil
}

// GetByID fetches the raw booking row, used before guarded writes.
func (r *BookingRepo) GetByID(ctx context.Context, id int64) (model.PujaBooking, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM puja_bookings WHERE booking_id=? LIMIT 1", id)

	var b model.PujaBooking
	var pujaDate time.Time
	var pujaTime sql.NullString
	var note sql.NullString
	var updated sql.NullTime
	err := row.Scan(&b.BookingID, &b.PujaTypeID, &b.CustomerID, &b.BookingMode,
		&pujaDate, &pujaTime, &b.PeopleCount, &note, &b.BookingStatus,
		&b.TotalAmount, &b.Currency, &b.IsPaid, &b.CreatedDate, &updated)
	if err != nil {
		return model.PujaBooking{}, err
	}
	b.PujaDate = pujaDate.Format("2006-01-02")
	if pujaTime.Valid {
		s := pujaTime.String
		b.PujaTime = &s
	}
	if note.Valid {
		s := note.String
		b.Note = &s
	}
	if updated.Valid {
		t := updated.Time
		b.UpdatedDate = &t
	}
	return b, nil
}

// GetDetailByID fetches the joined projection for a single booking.
func (r *BookingRepo) GetDetailByID(ctx context.Context, id int64) (BookingDetail, error) {
	rows, err := r.DB.QueryContext(ctx, bookingDetailQuery+" WHERE b.booking_id=? LIMIT 1", id)
	if err != nil {
		return BookingDetail{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return BookingDetail{}, err
		}
		return BookingDetail{}, sql.ErrNoRows
	}
	return scanDetail(rows)
}

// ListAll returns every booking, newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]BookingDetail, error) {
	return r.listDetail(ctx, bookingDetailQuery+" ORDER BY b.created_date DESC")
}

// ListByCustomer returns a customer's bookings, newest first.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]BookingDetail, error) {
	return r.listDetail(ctx, bookingDetailQuery+" WHERE b.customer_id=? ORDER BY b.created_date DESC", customerID)
}

// ListByPujaType returns bookings for one catalog entry, newest first.
func (r *BookingRepo) ListByPujaType(ctx context.Context, pujaTypeID int64) ([]BookingDetail, error) {
	return r.listDetail(ctx, bookingDetailQuery+" WHERE b.puja_type_id=? ORDER BY b.created_date DESC", pujaTypeID)
}

// ListByStatus returns bookings with the given status, newest first.
func (r *BookingRepo) ListByStatus(ctx context.Context, status string) ([]BookingDetail, error) {
	return r.listDetail(ctx, bookingDetailQuery+" WHERE b.booking_status=? ORDER BY b.created_date DESC", status)
}

// ListByDateRange returns bookings whose puja date falls within the
// inclusive range, soonest first.
func (r *BookingRepo) ListByDateRange(ctx context.Context, start, end string) ([]BookingDetail, error) {
	return r.listDetail(ctx, bookingDetailQuery+" WHERE b.puja_date>=? AND b.puja_date<=? ORDER BY b.puja_date ASC", start, end)
}

// ListPendingPayments returns unpaid bookings that have not been
// cancelled, newest first.
func (r *BookingRepo) ListPendingPayments(ctx context.Context) ([]BookingDetail, error) {
	return r.listDetail(ctx, bookingDetailQuery+" WHERE b.is_paid=0 AND b.booking_status<>? ORDER BY b.created_date DESC", model.StatusCancelled)
}

// Exists reports whether a booking row with the id is present.
func (r *BookingRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM puja_bookings WHERE booking_id=?", id).Scan(&n)
	return n > 0, err
}

// Update overwrites the mutable fields of a booking.  The previously
// read updated_date is the optimistic concurrency token, NULL-safe
// compared; a token mismatch on a still-present row is ErrStaleWrite.
func (r *BookingRepo) Update(ctx context.Context, b *model.PujaBooking, expectedUpdatedDate *time.Time) error {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE puja_bookings
		 SET puja_type_id=?, booking_mode=?, puja_date=?, puja_time=?, people_count=?, note=?, booking_status=?, total_amount=?, currency=?, is_paid=?, updated_date=?
		 WHERE booking_id=? AND updated_date <=> ?`,
		b.PujaTypeID, b.BookingMode, b.PujaDate, b.PujaTime, b.PeopleCount, b.Note,
		b.BookingStatus, b.TotalAmount, b.Currency, b.IsPaid, now,
		b.BookingID, expectedUpdatedDate)
	if err != nil {
		return err
	}
	if err := checkAffected(res, func() (bool, error) { return r.Exists(ctx, b.BookingID) }); err != nil {
		return err
	}
	b.UpdatedDate = &now
	return nil
}

// SetStatus stamps a new status unconditionally.  Transition guards, to
// the extent an endpoint applies any, live with the caller.
func (r *BookingRepo) SetStatus(ctx context.Context, id int64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE puja_bookings SET booking_status=?, updated_date=? WHERE booking_id=?",
		status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetPaid flips the payment flag.
func (r *BookingRepo) SetPaid(ctx context.Context, id int64, paid bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE puja_bookings SET is_paid=?, updated_date=? WHERE booking_id=?",
		paid, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a booking row outright.
func (r *BookingRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM puja_bookings WHERE booking_id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// TotalRevenue sums paid, non-cancelled bookings.
func (r *BookingRepo) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total_amount), 0) FROM puja_bookings WHERE is_paid=1 AND booking_status<>?",
		model.StatusCancelled).Scan(&total)
	return total, err
}

// CountActive counts bookings that have not been cancelled.
func (r *BookingRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM puja_bookings WHERE booking_status<>?",
		model.StatusCancelled).Scan(&n)
	return n, err
}

func (r *BookingRepo) listDetail(ctx context.Context, query string, args ...any) ([]BookingDetail, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDetail(rows *sql.Rows) (BookingDetail, error) {
	var d BookingDetail
	var pujaDate time.Time
	var pujaTime sql.NullString
	var note sql.NullString
	var updated sql.NullTime
	err := rows.Scan(&d.BookingID, &d.PujaTypeID, &d.PujaTypeName,
		&d.CustomerID, &d.CustomerName, &d.CustomerEmail, &d.CustomerContact,
		&d.BookingMode, &pujaDate, &pujaTime, &d.PeopleCount, &note,
		&d.BookingStatus, &d.TotalAmount, &d.Currency, &d.IsPaid,
		&d.CreatedDate, &updated)
	if err != nil {
		return BookingDetail{}, err
	}
	d.PujaDate = pujaDate.Format("2006-01-02")
	if pujaTime.Valid {
		s := pujaTime.String
		d.PujaTime = &s
	}
	if note.Valid {
		s := note.String
		d.Note = &s
	}
	if updated.Valid {
		t := updated.Time
		d.UpdatedDate = &t
	}
	return d, nil
}
