package repository

import (
	"context"
	"database/sql"

	"github.com/poojapath/puja-booking/internal/model"
)

// PujaTypeRepo persists catalog entries.
type PujaTypeRepo struct{ DB *sql.DB }

func NewPujaTypeRepo(db *sql.DB) *PujaTypeRepo { return &PujaTypeRepo{DB: db} }

const pujaTypeColumns = "puja_type_id,puja_type_name,description,price,image_url,benefit_of_pooja,pooja_duration,required_things,is_active,created_date"

// Create inserts a catalog entry and populates the generated ID.
func (r *PujaTypeRepo) Create(ctx context.Context, p *model.PujaType) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO puja_types (puja_type_name, description, price, image_url, benefit_of_pooja, pooja_duration, required_things, is_active, created_date) VALUES (?,?,?,?,?,?,?,?,?)",
		p.PujaTypeName, p.Description, p.Price, p.ImageURL, p.BenefitOfPooja, p.PoojaDuration, p.RequiredThings, p.IsActive, p.CreatedDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.PujaTypeID = id
	return nil
}

// GetByID fetches a catalog entry by id.
func (r *PujaTypeRepo) GetByID(ctx context.Context, id int64) (model.PujaType, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+pujaTypeColumns+" FROM puja_types WHERE puja_type_id=? LIMIT 1", id))
}

// ListAll returns the whole catalog.
func (r *PujaTypeRepo) ListAll(ctx context.Context) ([]model.PujaType, error) {
	return r.list(ctx, "SELECT "+pujaTypeColumns+" FROM puja_types")
}

// ListActive returns only entries customers may currently book.
func (r *PujaTypeRepo) ListActive(ctx context.Context) ([]model.PujaType, error) {
	return r.list(ctx, "SELECT "+pujaTypeColumns+" FROM puja_types WHERE is_active=1")
}

// Exists reports whether a catalog row with the id is present.
func (r *PujaTypeRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM puja_types WHERE puja_type_id=?", id).Scan(&n)
	return n > 0, err
}

// Update overwrites every mutable field of a catalog entry.
func (r *PujaTypeRepo) Update(ctx context.Context, p *model.PujaType) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE puja_types
		 SET puja_type_name=?, description=?, price=?, image_url=?, benefit_of_pooja=?, pooja_duration=?, required_things=?, is_active=?
		 WHERE puja_type_id=?`,
		p.PujaTypeName, p.Description, p.Price, p.ImageURL, p.BenefitOfPooja, p.PoojaDuration, p.RequiredThings, p.IsActive,
		p.PujaTypeID)
	if err != nil {
		return err
	}
	return checkAffected(res, func() (bool, error) { return r.Exists(ctx, p.PujaTypeID) })
}

// Deactivate flips the active flag off without deleting the row, so
// existing bookings keep a valid reference and the entry can be brought
// back later.
func (r *PujaTypeRepo) Deactivate(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE puja_types SET is_active=0 WHERE puja_type_id=?", id)
	if err != nil {
		return err
	}
	return checkAffected(res, func() (bool, error) { return r.Exists(ctx, id) })
}

// Delete removes a catalog entry outright.  Entries referenced by
// bookings are protected by the restrict FK and surface as ErrConflict;
// Deactivate is the alternative for those.
func (r *PujaTypeRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM puja_types WHERE puja_type_id=?", id)
	if err != nil {
		if isRestrictDelete(err) {
			return ErrConflict
		}
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

func (r *PujaTypeRepo) scanOne(row *sql.Row) (model.PujaType, error) {
	var p model.PujaType
	err := row.Scan(&p.PujaTypeID, &p.PujaTypeName, &p.Description, &p.Price,
		&p.ImageURL, &p.BenefitOfPooja, &p.PoojaDuration, &p.RequiredThings,
		&p.IsActive, &p.CreatedDate)
	return p, err
}

func (r *PujaTypeRepo) list(ctx context.Context, query string, args ...any) ([]model.PujaType, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PujaType, 0)
	for rows.Next() {
		var p model.PujaType
		if err := rows.Scan(&p.PujaTypeID, &p.PujaTypeName, &p.Description, &p.Price,
			&p.ImageURL, &p.BenefitOfPooja, &p.PoojaDuration, &p.RequiredThings,
			&p.IsActive, &p.CreatedDate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
