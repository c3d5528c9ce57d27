package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nestio-backend/internal/domain"
	"nestio-backend/internal/filter"
	"nestio-backend/internal/repository"

	"github.com/lib/pq"
)

type propertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `id, slug, owner_id, kind, price, city, country, lat, lng, title, COALESCE(description, ''), photo_urls, features, availability, is_active, popularity, created_on, updated_on, deleted_on`

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property) error {
	query := `INSERT INTO properties (slug, owner_id, kind, price, city, country, lat, lng, title, description, photo_urls, features, availability, is_active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		p.Slug, p.OwnerID, p.Kind, p.Price, p.City, p.Country, p.Lat, p.Lng,
		p.Title, p.Description, pq.Array(p.PhotoURLs), p.Features,
		p.Availability, p.IsActive, now, now,
	).Scan(&p.ID)
	if err != nil {
		return &domain.StoreError{Op: "property.Create", Err: err}
	}
	p.CreatedOn, p.UpdatedOn = now, now
	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1 AND deleted_on IS NULL`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "property.GetByID")
}

func (r *propertyRepository) GetBySlug(ctx context.Context, slug string, includeDeleted bool) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE slug = $1`
	if !includeDeleted {
		query += ` AND deleted_on IS NULL`
	}
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug), "property.GetBySlug")
}

func (r *propertyRepository) scanOne(row *sql.Row, op string) (*domain.Property, error) {
	p := &domain.Property{}
	err := row.Scan(&p.ID, &p.Slug, &p.OwnerID, &p.Kind, &p.Price, &p.City, &p.Country,
		&p.Lat, &p.Lng, &p.Title, &p.Description, pq.Array(&p.PhotoURLs), &p.Features,
		&p.Availability, &p.IsActive, &p.Popularity, &p.CreatedOn, &p.UpdatedOn, &p.DeletedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.StoreError{Op: op, Err: err}
	}
	return p, nil
}

func (r *propertyRepository) Update(ctx context.Context, p *domain.Property) error {
	query := `UPDATE properties SET kind=$1, price=$2, city=$3, country=$4, lat=$5, lng=$6, title=$7, description=$8, photo_urls=$9, features=$10, availability=$11, is_active=$12, updated_on=$13
	          WHERE id=$14 AND deleted_on IS NULL`
	res, err := r.db.ExecContext(ctx, query,
		p.Kind, p.Price, p.City, p.Country, p.Lat, p.Lng, p.Title, p.Description,
		pq.Array(p.PhotoURLs), p.Features, p.Availability, p.IsActive, time.Now(), p.ID)
	if err != nil {
		return &domain.StoreError{Op: "property.Update", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *propertyRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE properties SET deleted_on=$1, updated_on=$1 WHERE id=$2 AND deleted_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return &domain.StoreError{Op: "property.SoftDelete", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *propertyRepository) IncrementPopularity(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE properties SET popularity = popularity + 1 WHERE id = $1`, id)
	if err != nil {
		return &domain.StoreError{Op: "property.IncrementPopularity", Err: err}
	}
	return nil
}

func (r *propertyRepository) AppendPriceChange(ctx context.Context, change *domain.PriceChange) error {
	query := `INSERT INTO property_price_history (property_id, price, reason, changed_on) VALUES ($1, $2, $3, $4) RETURNING id`
	if change.ChangedOn.IsZero() {
		change.ChangedOn = time.Now()
	}
	err := r.db.QueryRowContext(ctx, query, change.PropertyID, change.Price, change.Reason, change.ChangedOn).Scan(&change.ID)
	if err != nil {
		return &domain.StoreError{Op: "property.AppendPriceChange", Err: err}
	}
	return nil
}

func (r *propertyRepository) ListPriceHistory(ctx context.Context, propertyID int64) ([]domain.PriceChange, error) {
	query := `SELECT id, property_id, price, reason, changed_on FROM property_price_history WHERE property_id = $1 ORDER BY changed_on ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, &domain.StoreError{Op: "property.ListPriceHistory", Err: err}
	}
	defer rows.Close()

	var history []domain.PriceChange
	for rows.Next() {
		var c domain.PriceChange
		if err := rows.Scan(&c.ID, &c.PropertyID, &c.Price, &c.Reason, &c.ChangedOn); err != nil {
			return nil, &domain.StoreError{Op: "property.ListPriceHistory", Err: err}
		}
		history = append(history, c)
	}
	return history, nil
}

func (r *propertyRepository) Search(ctx context.Context, q repository.PropertySearch) ([]domain.Property, int64, error) {
	sqlStr := `SELECT ` + propertyColumns + ` FROM properties WHERE deleted_on IS NULL`
	args := []interface{}{}
	argIdx := 1

	if q.PublicOnly {
		sqlStr += " AND is_active = true"
	}
	if q.OwnerID != nil {
		sqlStr += fmt.Sprintf(" AND owner_id = $%d", argIdx)
		args = append(args, *q.OwnerID)
		argIdx++
	}
	if q.Kind != "" {
		sqlStr += fmt.Sprintf(" AND kind = $%d", argIdx)
		args = append(args, q.Kind)
		argIdx++
	}
	if q.City != "" {
		sqlStr += fmt.Sprintf(" AND city ILIKE $%d", argIdx)
		args = append(args, q.City)
		argIdx++
	}
	if q.Country != "" {
		sqlStr += fmt.Sprintf(" AND country ILIKE $%d", argIdx)
		args = append(args, q.Country)
		argIdx++
	}
	if q.MinPrice != nil {
		sqlStr += fmt.Sprintf(" AND price >= $%d", argIdx)
		args = append(args, *q.MinPrice)
		argIdx++
	}
	if q.MaxPrice != nil {
		sqlStr += fmt.Sprintf(" AND price <= $%d", argIdx)
		args = append(args, *q.MaxPrice)
		argIdx++
	}

	for _, c := range q.Clauses {
		frag, clauseArgs := featurePredicate(c, argIdx)
		sqlStr += " AND " + frag
		args = append(args, clauseArgs...)
		argIdx += len(clauseArgs)
	}

	var count int64
	countSQL := "SELECT count(*) FROM (" + sqlStr + ") as sub"
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&count); err != nil {
		return nil, 0, &domain.StoreError{Op: "property.Search", Err: err}
	}

	sqlStr += " ORDER BY " + orderBy(q)
	offset := (q.Page - 1) * q.PageSize
	sqlStr += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, q.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, &domain.StoreError{Op: "property.Search", Err: err}
	}
	defer rows.Close()

	var props []domain.Property
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.ID, &p.Slug, &p.OwnerID, &p.Kind, &p.Price, &p.City, &p.Country,
			&p.Lat, &p.Lng, &p.Title, &p.Description, pq.Array(&p.PhotoURLs), &p.Features,
			&p.Availability, &p.IsActive, &p.Popularity, &p.CreatedOn, &p.UpdatedOn, &p.DeletedOn); err != nil {
			return nil, 0, &domain.StoreError{Op: "property.Search", Err: err}
		}
		props = append(props, p)
	}
	return props, count, nil
}

// featurePredicate renders one compiled clause against the jsonb features
// column. Field names come from the closed attribute schema, never from raw
// caller input, so interpolating them is safe.
func featurePredicate(c filter.Clause, argIdx int) (string, []interface{}) {
	col := fmt.Sprintf("features->>'%s'", c.Field)
	switch c.Value.Kind {
	case domain.FeatureKindBool:
		if c.MatchAbsent {
			// Absent boolean amenities count as false.
			return fmt.Sprintf("(NOT (features ? '%s') OR %s = 'false')", c.Field, col), nil
		}
		return fmt.Sprintf("%s = 'true'", col), nil
	case domain.FeatureKindInt:
		// Rows lacking the key yield NULL and drop out of the comparison.
		return fmt.Sprintf("(%s)::bigint %s $%d", col, sqlOp(c.Op), argIdx), []interface{}{c.Value.Int}
	default:
		return fmt.Sprintf("%s %s $%d", col, sqlOp(c.Op), argIdx), []interface{}{c.Value.Str}
	}
}

func sqlOp(op filter.Operator) string {
	switch op {
	case filter.OpGte:
		return ">="
	case filter.OpLte:
		return "<="
	default:
		return "="
	}
}

func orderBy(q repository.PropertySearch) string {
	switch q.Sort {
	case "price":
		return "price ASC, created_on DESC"
	case "city":
		return "city ASC, created_on DESC"
	case "popularity":
		return "popularity DESC, created_on DESC"
	case "createdAt":
		return "created_on DESC"
	}
	if q.PopularFirst {
		return "popularity DESC, created_on DESC"
	}
	return "created_on DESC"
}
