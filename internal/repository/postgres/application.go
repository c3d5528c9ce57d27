package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nestio-backend/internal/domain"
	"nestio-backend/internal/repository"

	"github.com/lib/pq"
)

// uniqueViolation is the postgres error code raised by the partial unique
// index on (property_id, applicant_identity) WHERE status = 'PENDING'.
const uniqueViolation = "23505"

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, slug, property_id, user_id, applicant_name, applicant_email, applicant_phone, applicant_identity, status, proposed_rent, move_in_date, COALESCE(landlord_notes, ''), created_on, updated_on`

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO applications (slug, property_id, user_id, applicant_name, applicant_email, applicant_phone, applicant_identity, status, proposed_rent, move_in_date, landlord_notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		app.Slug, app.PropertyID, app.UserID, app.ApplicantName, app.ApplicantEmail,
		app.ApplicantPhone, app.Identity, app.Status, app.ProposedRent, app.MoveInDate,
		app.LandlordNotes, now, now,
	).Scan(&app.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.ErrDuplicateApplication
		}
		return &domain.StoreError{Op: "application.Create", Err: err}
	}
	app.CreatedOn, app.UpdatedOn = now, now
	return nil
}

func (r *applicationRepository) GetBySlug(ctx context.Context, slug string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE slug = $1`
	app := &domain.Application{}
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&app.ID, &app.Slug, &app.PropertyID, &app.UserID, &app.ApplicantName,
		&app.ApplicantEmail, &app.ApplicantPhone, &app.Identity, &app.Status,
		&app.ProposedRent, &app.MoveInDate, &app.LandlordNotes, &app.CreatedOn, &app.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "application.GetBySlug", Err: err}
	}
	return app, nil
}

func (r *applicationRepository) HasPending(ctx context.Context, propertyID int64, identity string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM applications WHERE property_id = $1 AND applicant_identity = $2 AND status = $3)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, propertyID, identity, domain.ApplicationStatusPending).Scan(&exists)
	if err != nil {
		return false, &domain.StoreError{Op: "application.HasPending", Err: err}
	}
	return exists, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, notes *string) error {
	query := `UPDATE applications SET status=$1, landlord_notes=COALESCE($2, landlord_notes), updated_on=$3 WHERE id=$4`
	res, err := r.db.ExecContext(ctx, query, status, notes, time.Now(), id)
	if err != nil {
		return &domain.StoreError{Op: "application.UpdateStatus", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Accept applies the ACCEPTED status and the linked property's availability
// flip in one transaction. The property's is_active flag is deliberately
// left untouched; hiding an accepted listing is the owner's call.
func (r *applicationRepository) Accept(ctx context.Context, id, propertyID int64, notes *string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "application.Accept", Err: err}
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx,
		`UPDATE applications SET status=$1, landlord_notes=COALESCE($2, landlord_notes), updated_on=$3 WHERE id=$4 AND status=$5`,
		domain.ApplicationStatusAccepted, notes, now, id, domain.ApplicationStatusPending)
	if err != nil {
		return &domain.StoreError{Op: "application.Accept", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE properties SET availability=$1, updated_on=$2 WHERE id=$3 AND deleted_on IS NULL`,
		domain.AvailabilityRented, now, propertyID)
	if err != nil {
		return &domain.StoreError{Op: "application.Accept", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &domain.StoreError{Op: "application.Accept", Err: fmt.Errorf("property %d missing for accepted application %d", propertyID, id)}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "application.Accept", Err: err}
	}
	return nil
}

func (r *applicationRepository) UpdateDetails(ctx context.Context, app *domain.Application) error {
	query := `UPDATE applications SET proposed_rent=$1, move_in_date=$2, landlord_notes=$3, updated_on=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query, app.ProposedRent, app.MoveInDate, app.LandlordNotes, time.Now(), app.ID)
	if err != nil {
		return &domain.StoreError{Op: "application.UpdateDetails", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicationRepository) ListByProperty(ctx context.Context, propertyID int64, page, pageSize int64) ([]domain.Application, int64, error) {
	return r.list(ctx, "property_id", propertyID, page, pageSize)
}

func (r *applicationRepository) ListByApplicant(ctx context.Context, identity string, page, pageSize int64) ([]domain.Application, int64, error) {
	return r.list(ctx, "applicant_identity", identity, page, pageSize)
}

func (r *applicationRepository) list(ctx context.Context, column string, value interface{}, page, pageSize int64) ([]domain.Application, int64, error) {
	base := `SELECT ` + applicationColumns + ` FROM applications WHERE ` + column + ` = $1`

	var count int64
	countSQL := "SELECT count(*) FROM (" + base + ") as sub"
	if err := r.db.QueryRowContext(ctx, countSQL, value).Scan(&count); err != nil {
		return nil, 0, &domain.StoreError{Op: "application.list", Err: err}
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx, base+` ORDER BY created_on DESC LIMIT $2 OFFSET $3`, value, pageSize, offset)
	if err != nil {
		return nil, 0, &domain.StoreError{Op: "application.list", Err: err}
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(&app.ID, &app.Slug, &app.PropertyID, &app.UserID, &app.ApplicantName,
			&app.ApplicantEmail, &app.ApplicantPhone, &app.Identity, &app.Status,
			&app.ProposedRent, &app.MoveInDate, &app.LandlordNotes, &app.CreatedOn, &app.UpdatedOn); err != nil {
			return nil, 0, &domain.StoreError{Op: "application.list", Err: err}
		}
		apps = append(apps, app)
	}
	return apps, count, nil
}

func (r *applicationRepository) ExpireStale(ctx context.Context, cutoff time.Time, note string) (int64, error) {
	query := `UPDATE applications SET status=$1, landlord_notes=$2, updated_on=$3 WHERE status=$4 AND created_on < $5`
	res, err := r.db.ExecContext(ctx, query,
		domain.ApplicationStatusWithdrawn, note, time.Now(), domain.ApplicationStatusPending, cutoff)
	if err != nil {
		return 0, &domain.StoreError{Op: "application.ExpireStale", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &domain.StoreError{Op: "application.ExpireStale", Err: err}
	}
	return n, nil
}
