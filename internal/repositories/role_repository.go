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

const roleColumns = "id, name, description, created_at, updated_at"

var roleList = listSpec{
	Table:  "roles",
	Select: roleColumns,
	Schema: query.Schema{
		Fields:      []query.Field{{Key: "name", Kind: query.Text}},
		Sortable:    []string{"name", "createdAt"},
		DefaultSort: []query.Sort{{Field: "name", Direction: query.Asc}},
		DateRange:   true,
	},
	Columns: map[string]string{
		"name":      "name",
		"createdAt": "created_at",
	},
	Search:     []string{"name", "description"},
	DateColumn: "created_at",
}

type RoleRepository struct {
	DB *sqlx.DB
}

func (r RoleRepository) db() *sqlx.DB { return pick(r.DB) }

func (RoleRepository) Schema() query.Schema { return roleList.Schema }

func (r RoleRepository) List(ctx context.Context, q query.Query) ([]models.Role, int, error) {
	return list[models.Role](ctx, r.db(), roleList, q)
}

func (r RoleRepository) GetByID(ctx context.Context, id string) (models.Role, error) {
	var role models.Role
	db := r.db()
	if db == nil {
		return role, errNoDB
	}
	err := db.GetContext(ctx, &role, "SELECT "+roleColumns+" FROM roles WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return role, domain.NotFoundError{Resource: "role", ID: id}
	}
	return role, err
}

func (r RoleRepository) Create(ctx context.Context, role models.Role) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	_, err := db.NamedExecContext(ctx, `
		INSERT INTO roles (id, name, description, created_at, updated_at)
		VALUES (:id, :name, :description, :created_at, :updated_at)`, role)
	err = writeErr(err, fmt.Sprintf("a role named %q already exists", role.Name))
	logWrite("role", "create", []string{role.ID}, err)
	return err
}

func (r RoleRepository) Update(ctx context.Context, role models.Role) error {
	db := r.db()
	if db == nil {
		return errNoDB
	}
	_, err := db.NamedExecContext(ctx, `
		UPDATE roles SET name = :name, description = :description, updated_at = :updated_at
		WHERE id = :id`, role)
	err = writeErr(err, fmt.Sprintf("a role named %q already exists", role.Name))
	logWrite("role", "update", []string{role.ID}, err)
	return err
}

// Delete removes the roles and their user assignments.
func (r RoleRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	var n int64
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if _, err := deleteWhereIn(ctx, tx, "user_roles", "role_id", ids); err != nil {
			return err
		}
		var err error
		n, err = deleteWhereIn(ctx, tx, "roles", "id", ids)
		return err
	})
	logWrite("role", "delete", ids, err)
	return n, err
}

func (r RoleRepository) Options(ctx context.Context) ([]domain.Option, error) {
	return options(ctx, r.db(), "SELECT id, name FROM roles ORDER BY name, id")
}
