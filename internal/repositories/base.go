package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"facilities/internal/config"
	intdb "facilities/internal/db"
	"facilities/internal/domain"
	"facilities/internal/domain/models"
	"facilities/internal/utils"
)

var errNoDB = errors.New("database is not connected")

func pick(db *sqlx.DB) *sqlx.DB {
	if db != nil {
		return db
	}
	return config.DB
}

// ref is a foreign reference checked before a write. Column is the referencing column, derived from Field.
type ref struct {
	Table  string
	Field  string
	Column string
	Label  string
	ID     *string
}

func required(table, field, label, id string) ref {
	return ref{Table: table, Field: field, Column: snake(field), Label: label, ID: &id}
}

func optional(table, field, label string, id *string) ref {
	return ref{Table: table, Field: field, Column: snake(field), Label: label, ID: id}
}

// snake turns a JSON field name (departmentId) into its column (department_id).
func snake(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// checkRefs fails with a validation error when a referenced row does not exist.
func checkRefs(ctx context.Context, q sqlx.QueryerContext, refs ...ref) error {
	for _, r := range refs {
		if r.ID == nil || *r.ID == "" {
			continue
		}
		var n int
		if err := sqlx.GetContext(ctx, q, &n, "SELECT COUNT(*) FROM "+r.Table+" WHERE id = ?", *r.ID); err != nil {
			return fmt.Errorf("check %s: %w", r.Table, err)
		}
		if n == 0 {
			return domain.ValidationError{Field: r.Field, Msg: fmt.Sprintf("%s does not exist", r.Label)}
		}
	}
	return nil
}

// checkChangedRefs checks only the references an update of row id in table changes.
// A reference left dangling by an earlier delete does not block edits to other fields.
func checkChangedRefs(ctx context.Context, q sqlx.QueryerContext, table, id string, refs ...ref) error {
	changed := make([]ref, 0, len(refs))
	for _, r := range refs {
		var cur sql.NullString
		err := sqlx.GetContext(ctx, q, &cur, "SELECT "+r.Column+" FROM "+table+" WHERE id = ?", id)
		if errors.Is(err, sql.ErrNoRows) {
			changed = append(changed, r)
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s.%s: %w", table, r.Column, err)
		}
		next := ""
		if r.ID != nil {
			next = *r.ID
		}
		if cur.String == next {
			continue
		}
		changed = append(changed, r)
	}
	return checkRefs(ctx, q, changed...)
}

// countIDs counts how many of ids exist in table.
func countIDs(ctx context.Context, q sqlx.QueryerContext, table string, ids []string) (int, error) {
	stmt, args, err := sqlx.In("SELECT COUNT(*) FROM "+table+" WHERE id IN (?)", ids)
	if err != nil {
		return 0, err
	}
	var n int
	if err := sqlx.GetContext(ctx, q, &n, stmt, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// deleteWhereIn removes every row of table whose column is in ids. Missing ids are not an error.
func deleteWhereIn(ctx context.Context, tx *sqlx.Tx, table, column string, ids []string) (int64, error) {
	stmt, args, err := sqlx.In("DELETE FROM "+table+" WHERE "+column+" IN (?)", ids)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(stmt), args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// updateStatusIn sets status on every id; an unknown id fails the whole batch.
func updateStatusIn(ctx context.Context, tx *sqlx.Tx, table, resource string, ids []string, status string, at models.Timestamp) error {
	found, err := countIDs(ctx, tx, table, ids)
	if err != nil {
		return err
	}
	if found != len(ids) {
		return domain.NotFoundError{Resource: resource, ID: missingHint(ids, found)}
	}
	stmt, args, err := sqlx.In("UPDATE "+table+" SET status = ?, updated_at = ? WHERE id IN (?)", status, at, ids)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), args...); err != nil {
		return fmt.Errorf("update %s status: %w", table, err)
	}
	return nil
}

func missingHint(ids []string, found int) string {
	if len(ids) == 1 {
		return ids[0]
	}
	return fmt.Sprintf("(%d of %d ids)", len(ids)-found, len(ids))
}

// writeErr maps driver errors of an insert or update to domain errors.
func writeErr(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if intdb.IsDuplicateKey(err) {
		return domain.ConflictError{Msg: conflictMsg, Err: err}
	}
	return err
}

func logWrite(entity, action string, ids []string, err error) {
	fields := logrus.Fields{"entity": entity, "action": action, "ids": ids}
	if err != nil {
		utils.Log.WithFields(fields).WithError(err).Error("write failed")
		return
	}
	utils.Log.WithFields(fields).Debug("write ok")
}
