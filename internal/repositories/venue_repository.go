package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	intdb "facilities/internal/db"
	"facilities/internal/domain"
	"facilities/internal/domain/models"
	"facilities/internal/query"
)

const venueColumns = "id, name, location, capacity, department_id, status, created_at, updated_at"

var venueList = listSpec{
	Table:  "venues",
	Select: venueColumns,
	Schema: query.Schema{
		Fields: []query.Field{
			{Key: "name", Kind: query.Text},
			{Key: "status", Kind: query.Enum, Options: models.VenueStatusValues()},
			{Key: "departmentId", Kind: query.Facet},
		},
		Sortable:    []string{"name", "capacity", "status", "createdAt", "updatedAt"},
		DefaultSort: []query.Sort{{Field: "createdAt", Direction: query.Desc}},
		DateRange:   true,
	},
	Columns: map[string]string{
		"name":         "name",
		"capacity":     "capacity",
		"status":       "status",
		"departmentId": "department_id",
		"createdAt":    "created_at",
		"updatedAt":    "updated_at",
	},
	Search:     []string{"name", "location"},
	DateColumn: "created_at",
}

type VenueRepository struct {
	DB *sqlx.DB
}

func (r VenueRepository) db() *sqlx.DB { return pick(r.DB) }

func (VenueRepository) Schema() query.Schema { return venueList.Schema }

func (r VenueRepository) List(ctx context.Context, q query.Query) ([]models.Venue, int, error) {
	return list[models.Venue](ctx, r.db(), venueList, q)
}

func (r VenueRepository) GetByID(ctx context.Context, id string) (models.Venue, error) {
	var v models.Venue
	db := r.db()
	if db == nil {
		return v, errNoDB
	}
	err := db.GetContext(ctx, &v, "SELECT "+venueColumns+" FROM venues WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return v, domain.NotFoundError{Resource: "venue", ID: id}
	}
	return v, err
}

func (r VenueRepository) Create(ctx context.Context, v models.Venue) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := checkRefs(ctx, tx, required("departments", "departmentId", "department", v.DepartmentID)); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO venues (id, name, location, capacity, department_id, status, created_at, updated_at)
			VALUES (:id, :name, :location, :capacity, :department_id, :status, :created_at, :updated_at)`, v)
		return err
	})
	logWrite("venue", "create", []string{v.ID}, err)
	return err
}

func (r VenueRepository) Update(ctx context.Context, v models.Venue) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := checkChangedRefs(ctx, tx, "venues", v.ID, required("departments", "departmentId", "department", v.DepartmentID)); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			UPDATE venues SET
				name = :name,
				location = :location,
				capacity = :capacity,
				department_id = :department_id,
				status = :status,
				updated_at = :updated_at
			WHERE id = :id`, v)
		return err
	})
	logWrite("venue", "update", []string{v.ID}, err)
	return err
}

// Delete removes the venues and detaches them from requests.
func (r VenueRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	var n int64
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		stmt, args, err := sqlx.In("UPDATE requests SET venue_id = NULL WHERE venue_id IN (?)", ids)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("detach requests: %w", err)
		}
		n, err = deleteWhereIn(ctx, tx, "venues", "id", ids)
		return err
	})
	logWrite("venue", "delete", ids, err)
	return n, err
}

func (r VenueRepository) UpdateStatus(ctx context.Context, ids []string, status models.VenueStatus, at models.Timestamp) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		return updateStatusIn(ctx, tx, "venues", "venue", ids, string(status), at)
	})
	logWrite("venue", "status", ids, err)
	return err
}

func (r VenueRepository) Options(ctx context.Context) ([]domain.Option, error) {
	return options(ctx, r.db(), "SELECT id, name FROM venues ORDER BY name, id")
}
