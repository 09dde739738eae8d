package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	intdb "facilities/internal/db"
	"facilities/internal/domain"
	"facilities/internal/domain/models"
	"facilities/internal/query"
)

const userColumns = "id, email, first_name, last_name, department_id, section_id, created_at, updated_at"

var userList = listSpec{
	Table:  "users",
	Select: userColumns,
	Schema: query.Schema{
		Fields: []query.Field{
			{Key: "email", Kind: query.Text},
			{Key: "departmentId", Kind: query.Facet},
			{Key: "roleId", Kind: query.Facet},
		},
		Sortable:    []string{"firstName", "lastName", "email", "createdAt"},
		DefaultSort: []query.Sort{{Field: "createdAt", Direction: query.Desc}},
		DateRange:   true,
	},
	Columns: map[string]string{
		"email":        "email",
		"departmentId": "department_id",
		"firstName":    "first_name",
		"lastName":     "last_name",
		"createdAt":    "created_at",
	},
	Search:     []string{"first_name", "last_name", "email"},
	DateColumn: "created_at",
	Custom: map[string]predicate{
		"roleId": func(values []string) (string, []any) {
			return "EXISTS (SELECT 1 FROM user_roles ur WHERE ur.user_id = users.id AND ur.role_id IN (?))", []any{values}
		},
	},
}

// UserRepository owns users, their role assignments and password hashes.
type UserRepository struct {
	DB *sqlx.DB
	// Cost overrides bcrypt.DefaultCost; tests lower it.
	Cost int
}

func (r UserRepository) db() *sqlx.DB { return pick(r.DB) }

func (UserRepository) Schema() query.Schema { return userList.Schema }

func (r UserRepository) hash(password string) (*string, error) {
	if password == "" {
		return nil, nil
	}
	cost := r.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	s := string(b)
	return &s, nil
}

// List returns one page of users with their role names attached.
func (r UserRepository) List(ctx context.Context, q query.Query) ([]models.User, int, error) {
	users, total, err := list[models.User](ctx, r.db(), userList, q)
	if err != nil || len(users) == 0 {
		return users, total, err
	}
	if err := r.attachRoles(ctx, users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

type userRoleRow struct {
	UserID string `db:"user_id"`
	ID     string `db:"id"`
	Name   string `db:"name"`
}

func (r UserRepository) attachRoles(ctx context.Context, users []models.User) error {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	stmt, args, err := sqlx.In(`
		SELECT ur.user_id, r.id, r.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id IN (?)
		ORDER BY r.name, r.id`, ids)
	if err != nil {
		return err
	}
	db := r.db()
	rows := []userRoleRow{}
	if err := db.SelectContext(ctx, &rows, db.Rebind(stmt), args...); err != nil {
		return fmt.Errorf("load user roles: %w", err)
	}
	byUser := map[string][]domain.Option{}
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], domain.Option{ID: row.ID, Name: row.Name})
	}
	for i := range users {
		users[i].Roles = byUser[users[i].ID]
		if users[i].Roles == nil {
			users[i].Roles = []domain.Option{}
		}
	}
	return nil
}

func (r UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	db := r.db()
	if db == nil {
		return u, errNoDB
	}
	err := db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return u, domain.NotFoundError{Resource: "user", ID: id}
	}
	if err != nil {
		return u, err
	}
	users := []models.User{u}
	if err := r.attachRoles(ctx, users); err != nil {
		return u, err
	}
	return users[0], nil
}

// refs checks the user's department, section and roles. On update only changed references are checked.
func (r UserRepository) refs(ctx context.Context, tx *sqlx.Tx, u models.User, roleIDs []string, update bool) error {
	userRefs := []ref{
		required("departments", "departmentId", "department", u.DepartmentID),
		optional("sections", "sectionId", "section", u.SectionID),
	}
	var err error
	if update {
		err = checkChangedRefs(ctx, tx, "users", u.ID, userRefs...)
	} else {
		err = checkRefs(ctx, tx, userRefs...)
	}
	if err != nil {
		return err
	}
	if len(roleIDs) == 0 {
		return nil
	}
	found, err := countIDs(ctx, tx, "roles", roleIDs)
	if err != nil {
		return err
	}
	if found != len(roleIDs) {
		return domain.ValidationError{Field: "roleIds", Msg: "one or more roles do not exist"}
	}
	return nil
}

func (r UserRepository) replaceRoles(ctx context.Context, tx *sqlx.Tx, userID string, roleIDs []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_roles WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clear user roles: %w", err)
	}
	for _, roleID := range roleIDs {
		if _, err := tx.ExecContext(ctx, "INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)", userID, roleID); err != nil {
			return fmt.Errorf("assign role: %w", err)
		}
	}
	return nil
}

// Create inserts the user with its roles; password is hashed when set.
func (r UserRepository) Create(ctx context.Context, u models.User, roleIDs []string, password string) error {
	roleIDs = uniqueIDs(roleIDs)
	hash, err := r.hash(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	err = intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := r.refs(ctx, tx, u, roleIDs, false); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO users (id, email, first_name, last_name, department_id, section_id, password_hash, created_at, updated_at)
			VALUES (:id, :email, :first_name, :last_name, :department_id, :section_id, :password_hash, :created_at, :updated_at)`, u)
		if err != nil {
			return writeErr(err, fmt.Sprintf("a user with email %q already exists", u.Email))
		}
		return r.replaceRoles(ctx, tx, u.ID, roleIDs)
	})
	logWrite("user", "create", []string{u.ID}, err)
	return err
}

// Update writes u. A nil roleIDs keeps the assignments, a non-nil one replaces them;
// an empty password keeps the stored hash.
func (r UserRepository) Update(ctx context.Context, u models.User, roleIDs *[]string, password string) error {
	var roles []string
	if roleIDs != nil {
		roles = uniqueIDs(*roleIDs)
	}
	hash, err := r.hash(password)
	if err != nil {
		return err
	}

	err = intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := r.refs(ctx, tx, u, roles, true); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			UPDATE users SET
				email = :email,
				first_name = :first_name,
				last_name = :last_name,
				department_id = :department_id,
				section_id = :section_id,
				updated_at = :updated_at
			WHERE id = :id`, u)
		if err != nil {
			return writeErr(err, fmt.Sprintf("a user with email %q already exists", u.Email))
		}
		if hash != nil {
			if _, err := tx.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", *hash, u.ID); err != nil {
				return fmt.Errorf("update password: %w", err)
			}
		}
		if roleIDs != nil {
			return r.replaceRoles(ctx, tx, u.ID, roles)
		}
		return nil
	})
	logWrite("user", "update", []string{u.ID}, err)
	return err
}

// Delete removes the users and their role assignments.
func (r UserRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	var n int64
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if _, err := deleteWhereIn(ctx, tx, "user_roles", "user_id", ids); err != nil {
			return err
		}
		var err error
		n, err = deleteWhereIn(ctx, tx, "users", "id", ids)
		return err
	})
	logWrite("user", "delete", ids, err)
	return n, err
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
