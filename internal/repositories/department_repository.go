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

const departmentColumns = `id, name, description, accepts_jobs, manages_transport, manages_borrow_request,
	manages_supply_request, manages_facility, created_at, updated_at`

var departmentList = listSpec{
	Table:  "departments",
	Select: departmentColumns,
	Schema: query.Schema{
		Fields: []query.Field{
			{Key: "name", Kind: query.Text},
			{Key: "acceptsJobs", Kind: query.Bool},
			{Key: "managesTransport", Kind: query.Bool},
			{Key: "managesBorrowRequest", Kind: query.Bool},
			{Key: "managesSupplyRequest", Kind: query.Bool},
			{Key: "managesFacility", Kind: query.Bool},
		},
		Sortable:    []string{"name", "createdAt", "updatedAt"},
		DefaultSort: []query.Sort{{Field: "createdAt", Direction: query.Desc}},
		DateRange:   true,
	},
	Columns: map[string]string{
		"name":                 "name",
		"acceptsJobs":          "accepts_jobs",
		"managesTransport":     "manages_transport",
		"managesBorrowRequest": "manages_borrow_request",
		"managesSupplyRequest": "manages_supply_request",
		"managesFacility":      "manages_facility",
		"createdAt":            "created_at",
		"updatedAt":            "updated_at",
	},
	Search:     []string{"name", "description"},
	DateColumn: "created_at",
}

// DepartmentRepository wraps DB access for departments and their sections.
type DepartmentRepository struct {
	DB *sqlx.DB
}

func (r DepartmentRepository) db() *sqlx.DB { return pick(r.DB) }

func (DepartmentRepository) Schema() query.Schema { return departmentList.Schema }

func (r DepartmentRepository) List(ctx context.Context, q query.Query) ([]models.Department, int, error) {
	return list[models.Department](ctx, r.db(), departmentList, q)
}

func (r DepartmentRepository) GetByID(ctx context.Context, id string) (models.Department, error) {
	var d models.Department
	db := r.db()
	if db == nil {
		return d, errNoDB
	}
	err := db.GetContext(ctx, &d, "SELECT "+departmentColumns+" FROM departments WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return d, domain.NotFoundError{Resource: "department", ID: id}
	}
	return d, err
}

func (r DepartmentRepository) Create(ctx context.Context, d models.Department) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	_, err := db.NamedExecContext(ctx, `
		INSERT INTO departments (id, name, description, accepts_jobs, manages_transport, manages_borrow_request,
			manages_supply_request, manages_facility, created_at, updated_at)
		VALUES (:id, :name, :description, :accepts_jobs, :manages_transport, :manages_borrow_request,
			:manages_supply_request, :manages_facility, :created_at, :updated_at)`, d)
	err = writeErr(err, fmt.Sprintf("a department named %q already exists", d.Name))
	logWrite("department", "create", []string{d.ID}, err)
	return err
}

func (r DepartmentRepository) Update(ctx context.Context, d models.Department) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	_, err := db.NamedExecContext(ctx, `
		UPDATE departments SET
			name = :name,
			description = :description,
			accepts_jobs = :accepts_jobs,
			manages_transport = :manages_transport,
			manages_borrow_request = :manages_borrow_request,
			manages_supply_request = :manages_supply_request,
			manages_facility = :manages_facility,
			updated_at = :updated_at
		WHERE id = :id`, d)
	err = writeErr(err, fmt.Sprintf("a department named %q already exists", d.Name))
	logWrite("department", "update", []string{d.ID}, err)
	return err
}

// Delete removes the departments and their sections in one transaction. Users in a removed
// section keep their department and lose the section.
func (r DepartmentRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	var n int64
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		stmt, args, err := sqlx.In(`UPDATE users SET section_id = NULL
			WHERE section_id IN (SELECT id FROM sections WHERE department_id IN (?))`, ids)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), args...); err != nil {
			return fmt.Errorf("detach users: %w", err)
		}
		if _, err := deleteWhereIn(ctx, tx, "sections", "department_id", ids); err != nil {
			return err
		}
		n, err = deleteWhereIn(ctx, tx, "departments", "id", ids)
		return err
	})
	logWrite("department", "delete", ids, err)
	return n, err
}

func (r DepartmentRepository) Options(ctx context.Context) ([]domain.Option, error) {
	return options(ctx, r.db(), "SELECT id, name FROM departments ORDER BY name, id")
}

func options(ctx context.Context, db *sqlx.DB, stmt string, args ...any) ([]domain.Option, error) {
	if db == nil {
		return nil, errNoDB
	}
	out := []domain.Option{}
	if err := db.SelectContext(ctx, &out, db.Rebind(stmt), args...); err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	return out, nil
}
