package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	intdb "facilities/internal/db"
	"facilities/internal/domain"
	"facilities/internal/domain/models"
	"facilities/internal/query"
)

const supplyColumns = `id, name, description, department_id, category_id, quantity, unit, reorder_threshold,
	expires_at, status, created_at, updated_at`

var supplyList = listSpec{
	Table:  "supply_items",
	Select: supplyColumns,
	Schema: query.Schema{
		Fields: []query.Field{
			{Key: "name", Kind: query.Text},
			{Key: "status", Kind: query.Enum, Options: models.SupplyItemStatusValues()},
			{Key: "departmentId", Kind: query.Facet},
			{Key: "categoryId", Kind: query.Facet},
		},
		Sortable:    []string{"name", "quantity", "status", "expiresAt", "createdAt", "updatedAt"},
		DefaultSort: []query.Sort{{Field: "createdAt", Direction: query.Desc}},
		DateRange:   true,
	},
	Columns: map[string]string{
		"name":         "name",
		"quantity":     "quantity",
		"status":       "status",
		"departmentId": "department_id",
		"categoryId":   "category_id",
		"expiresAt":    "expires_at",
		"createdAt":    "created_at",
		"updatedAt":    "updated_at",
	},
	Search:     []string{"name", "description"},
	DateColumn: "created_at",
}

type SupplyRepository struct {
	DB *sqlx.DB
}

func (r SupplyRepository) db() *sqlx.DB { return pick(r.DB) }

func (SupplyRepository) Schema() query.Schema { return supplyList.Schema }

func (r SupplyRepository) List(ctx context.Context, q query.Query) ([]models.SupplyItem, int, error) {
	return list[models.SupplyItem](ctx, r.db(), supplyList, q)
}

func (r SupplyRepository) GetByID(ctx context.Context, id string) (models.SupplyItem, error) {
	var it models.SupplyItem
	db := r.db()
	if db == nil {
		return it, errNoDB
	}
	err := db.GetContext(ctx, &it, "SELECT "+supplyColumns+" FROM supply_items WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return it, domain.NotFoundError{Resource: "supply item", ID: id}
	}
	return it, err
}

func supplyRefs(it models.SupplyItem) []ref {
	return []ref{
		required("departments", "departmentId", "department", it.DepartmentID),
		optional("categories", "categoryId", "category", it.CategoryID),
	}
}

func (r SupplyRepository) Create(ctx context.Context, it models.SupplyItem) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := checkRefs(ctx, tx, supplyRefs(it)...); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO supply_items (id, name, description, department_id, category_id, quantity, unit,
				reorder_threshold, expires_at, status, created_at, updated_at)
			VALUES (:id, :name, :description, :department_id, :category_id, :quantity, :unit,
				:reorder_threshold, :expires_at, :status, :created_at, :updated_at)`, it)
		return err
	})
	logWrite("supply_item", "create", []string{it.ID}, err)
	return err
}

func (r SupplyRepository) Update(ctx context.Context, it models.SupplyItem) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := checkChangedRefs(ctx, tx, "supply_items", it.ID, supplyRefs(it)...); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			UPDATE supply_items SET
				name = :name,
				description = :description,
				department_id = :department_id,
				category_id = :category_id,
				quantity = :quantity,
				unit = :unit,
				reorder_threshold = :reorder_threshold,
				expires_at = :expires_at,
				status = :status,
				updated_at = :updated_at
			WHERE id = :id`, it)
		return err
	})
	logWrite("supply_item", "update", []string{it.ID}, err)
	return err
}

func (r SupplyRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	var n int64
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		var err error
		n, err = deleteWhereIn(ctx, tx, "supply_items", "id", ids)
		return err
	})
	logWrite("supply_item", "delete", ids, err)
	return n, err
}

func (r SupplyRepository) UpdateStatus(ctx context.Context, ids []string, status models.SupplyItemStatus, at models.Timestamp) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		return updateStatusIn(ctx, tx, "supply_items", "supply item", ids, string(status), at)
	})
	logWrite("supply_item", "status", ids, err)
	return err
}
