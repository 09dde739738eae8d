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

const vehicleColumns = "id, name, type, license_plate, capacity, department_id, status, image_url, created_at, updated_at"

var vehicleList = listSpec{
	Table:  "vehicles",
	Select: vehicleColumns,
	Schema: query.Schema{
		Fields: []query.Field{
			{Key: "name", Kind: query.Text},
			{Key: "licensePlate", Kind: query.Text},
			{Key: "status", Kind: query.Enum, Options: models.VehicleStatusValues()},
			{Key: "departmentId", Kind: query.Facet},
			{Key: "capacity", Kind: query.Int},
		},
		Sortable:    []string{"name", "licensePlate", "capacity", "status", "createdAt", "updatedAt"},
		DefaultSort: []query.Sort{{Field: "createdAt", Direction: query.Desc}},
		DateRange:   true,
	},
	Columns: map[string]string{
		"name":         "name",
		"licensePlate": "license_plate",
		"capacity":     "capacity",
		"status":       "status",
		"departmentId": "department_id",
		"createdAt":    "created_at",
		"updatedAt":    "updated_at",
	},
	Search:     []string{"name", "license_plate", "type"},
	DateColumn: "created_at",
}

type VehicleRepository struct {
	DB *sqlx.DB
}

func (r VehicleRepository) db() *sqlx.DB { return pick(r.DB) }

func (VehicleRepository) Schema() query.Schema { return vehicleList.Schema }

func (r VehicleRepository) List(ctx context.Context, q query.Query) ([]models.Vehicle, int, error) {
	return list[models.Vehicle](ctx, r.db(), vehicleList, q)
}

func (r VehicleRepository) GetByID(ctx context.Context, id string) (models.Vehicle, error) {
	var v models.Vehicle
	db := r.db()
	if db == nil {
		return v, errNoDB
	}
	err := db.GetContext(ctx, &v, "SELECT "+vehicleColumns+" FROM vehicles WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return v, domain.NotFoundError{Resource: "vehicle", ID: id}
	}
	return v, err
}

func (r VehicleRepository) Create(ctx context.Context, v models.Vehicle) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := checkRefs(ctx, tx, required("departments", "departmentId", "department", v.DepartmentID)); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO vehicles (id, name, type, license_plate, capacity, department_id, status, image_url, created_at, updated_at)
			VALUES (:id, :name, :type, :license_plate, :capacity, :department_id, :status, :image_url, :created_at, :updated_at)`, v)
		return writeErr(err, fmt.Sprintf("a vehicle with license plate %q already exists", v.LicensePlate))
	})
	logWrite("vehicle", "create", []string{v.ID}, err)
	return err
}

func (r VehicleRepository) Update(ctx context.Context, v models.Vehicle) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := checkChangedRefs(ctx, tx, "vehicles", v.ID, required("departments", "departmentId", "department", v.DepartmentID)); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			UPDATE vehicles SET
				name = :name,
				type = :type,
				license_plate = :license_plate,
				capacity = :capacity,
				department_id = :department_id,
				status = :status,
				image_url = :image_url,
				updated_at = :updated_at
			WHERE id = :id`, v)
		return writeErr(err, fmt.Sprintf("a vehicle with license plate %q already exists", v.LicensePlate))
	})
	logWrite("vehicle", "update", []string{v.ID}, err)
	return err
}

// Delete removes the vehicles and detaches them from requests.
func (r VehicleRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	var n int64
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		stmt, args, err := sqlx.In("UPDATE requests SET vehicle_id = NULL WHERE vehicle_id IN (?)", ids)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("detach requests: %w", err)
		}
		n, err = deleteWhereIn(ctx, tx, "vehicles", "id", ids)
		return err
	})
	logWrite("vehicle", "delete", ids, err)
	return n, err
}

func (r VehicleRepository) UpdateStatus(ctx context.Context, ids []string, status models.VehicleStatus, at models.Timestamp) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		return updateStatusIn(ctx, tx, "vehicles", "vehicle", ids, string(status), at)
	})
	logWrite("vehicle", "status", ids, err)
	return err
}

func (r VehicleRepository) Options(ctx context.Context) ([]domain.Option, error) {
	return options(ctx, r.db(), "SELECT id, name FROM vehicles ORDER BY name, id")
}
