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

const inventoryColumns = `id, name, description, department_id, category_id, serial_number, status, image_url,
	created_at, updated_at`

var inventoryList = listSpec{
	Table:  "inventory_items",
	Select: inventoryColumns,
	Schema: query.Schema{
		Fields: []query.Field{
			{Key: "name", Kind: query.Text},
			{Key: "status", Kind: query.Enum, Options: models.ItemStatusValues()},
			{Key: "departmentId", Kind: query.Facet},
			{Key: "categoryId", Kind: query.Facet},
		},
		Sortable:    []string{"name", "status", "createdAt", "updatedAt"},
		DefaultSort: []query.Sort{{Field: "createdAt", Direction: query.Desc}},
		DateRange:   true,
	},
	Columns: map[string]string{
		"name":         "name",
		"status":       "status",
		"departmentId": "department_id",
		"categoryId":   "category_id",
		"createdAt":    "created_at",
		"updatedAt":    "updated_at",
	},
	Search:     []string{"name", "description", "serial_number"},
	DateColumn: "created_at",
}

type InventoryRepository struct {
	DB *sqlx.DB
}

func (r InventoryRepository) db() *sqlx.DB { return pick(r.DB) }

func (InventoryRepository) Schema() query.Schema { return inventoryList.Schema }

func (r InventoryRepository) List(ctx context.Context, q query.Query) ([]models.InventoryItem, int, error) {
	return list[models.InventoryItem](ctx, r.db(), inventoryList, q)
}

func (r InventoryRepository) GetByID(ctx context.Context, id string) (models.InventoryItem, error) {
	var it models.InventoryItem
	db := r.db()
	if db == nil {
		return it, errNoDB
	}
	err := db.GetContext(ctx, &it, "SELECT "+inventoryColumns+" FROM inventory_items WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return it, domain.NotFoundError{Resource: "inventory item", ID: id}
	}
	return it, err
}

func inventoryRefs(it models.InventoryItem) []ref {
	return []ref{
		required("departments", "departmentId", "department", it.DepartmentID),
		optional("categories", "categoryId", "category", it.CategoryID),
	}
}

func (r InventoryRepository) Create(ctx context.Context, it models.InventoryItem) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := checkRefs(ctx, tx, inventoryRefs(it)...); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO inventory_items (id, name, description, department_id, category_id, serial_number, status,
				image_url, created_at, updated_at)
			VALUES (:id, :name, :description, :department_id, :category_id, :serial_number, :status,
				:image_url, :created_at, :updated_at)`, it)
		return err
	})
	logWrite("inventory_item", "create", []string{it.ID}, err)
	return err
}

func (r InventoryRepository) Update(ctx context.Context, it models.InventoryItem) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := checkChangedRefs(ctx, tx, "inventory_items", it.ID, inventoryRefs(it)...); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			UPDATE inventory_items SET
				name = :name,
				description = :description,
				department_id = :department_id,
				category_id = :category_id,
				serial_number = :serial_number,
				status = :status,
				image_url = :image_url,
				updated_at = :updated_at
			WHERE id = :id`, it)
		return err
	})
	logWrite("inventory_item", "update", []string{it.ID}, err)
	return err
}

func (r InventoryRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	var n int64
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		var err error
		n, err = deleteWhereIn(ctx, tx, "inventory_items", "id", ids)
		return err
	})
	logWrite("inventory_item", "delete", ids, err)
	return n, err
}

func (r InventoryRepository) UpdateStatus(ctx context.Context, ids []string, status models.ItemStatus, at models.Timestamp) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		return updateStatusIn(ctx, tx, "inventory_items", "inventory item", ids, string(status), at)
	})
	logWrite("inventory_item", "status", ids, err)
	return err
}
