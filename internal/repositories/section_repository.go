package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	intdb "facilities/internal/db"
	"facilities/internal/domain"
	"facilities/internal/domain/models"
)

type SectionRepository struct {
	DB *sqlx.DB
}

func (r SectionRepository) db() *sqlx.DB { return pick(r.DB) }

// List returns all sections, or those of one department when departmentID is set.
func (r SectionRepository) List(ctx context.Context, departmentID string) ([]models.Section, error) {
	db := r.db()
	if db == nil {
		return nil, errNoDB
	}
	stmt := "SELECT id, name, department_id, created_at, updated_at FROM sections"
	args := []any{}
	if departmentID != "" {
		stmt += " WHERE department_id = ?"
		args = append(args, departmentID)
	}
	out := []models.Section{}
	if err := db.SelectContext(ctx, &out, stmt+" ORDER BY name, id", args...); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return out, nil
}

func (r SectionRepository) Create(ctx context.Context, s models.Section) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := checkRefs(ctx, tx, required("departments", "departmentId", "department", s.DepartmentID)); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO sections (id, name, department_id, created_at, updated_at)
			VALUES (:id, :name, :department_id, :created_at, :updated_at)`, s)
		return err
	})
	logWrite("section", "create", []string{s.ID}, err)
	return err
}

func (r SectionRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	var n int64
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		stmt, args, err := sqlx.In("UPDATE users SET section_id = NULL WHERE section_id IN (?)", ids)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("detach users: %w", err)
		}
		n, err = deleteWhereIn(ctx, tx, "sections", "id", ids)
		return err
	})
	logWrite("section", "delete", ids, err)
	return n, err
}

func (r SectionRepository) Options(ctx context.Context) ([]domain.Option, error) {
	return options(ctx, r.db(), "SELECT id, name FROM sections ORDER BY name, id")
}

type CategoryRepository struct {
	DB *sqlx.DB
}

func (r CategoryRepository) db() *sqlx.DB { return pick(r.DB) }

func (r CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	db := r.db()
	if db == nil {
		return nil, errNoDB
	}
	out := []models.Category{}
	if err := db.SelectContext(ctx, &out, "SELECT id, name, created_at, updated_at FROM categories ORDER BY name, id"); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (r CategoryRepository) Create(ctx context.Context, c models.Category) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	_, err := db.NamedExecContext(ctx, `
		INSERT INTO categories (id, name, created_at, updated_at)
		VALUES (:id, :name, :created_at, :updated_at)`, c)
	err = writeErr(err, fmt.Sprintf("a category named %q already exists", c.Name))
	logWrite("category", "create", []string{c.ID}, err)
	return err
}

// Delete removes categories; items that referenced them become uncategorized.
func (r CategoryRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	var n int64
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		for _, table := range []string{"inventory_items", "supply_items"} {
			stmt, args, err := sqlx.In("UPDATE "+table+" SET category_id = NULL WHERE category_id IN (?)", ids)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
				return fmt.Errorf("detach %s: %w", table, err)
			}
		}
		var err error
		n, err = deleteWhereIn(ctx, tx, "categories", "id", ids)
		return err
	})
	logWrite("category", "delete", ids, err)
	return n, err
}

func (r CategoryRepository) Options(ctx context.Context) ([]domain.Option, error) {
	return options(ctx, r.db(), "SELECT id, name FROM categories ORDER BY name, id")
}
