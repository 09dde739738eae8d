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

const requestColumns = `id, title, type, status, department_id, requester_id, notes, vehicle_id, venue_id,
	scheduled_at, created_at, updated_at`

var requestList = listSpec{
	Table:  "requests",
	Select: requestColumns,
	Schema: query.Schema{
		Fields: []query.Field{
			{Key: "title", Kind: query.Text},
			{Key: "type", Kind: query.Enum, Options: models.RequestTypeValues()},
			{Key: "status", Kind: query.Enum, Options: models.RequestStatusValues()},
			{Key: "departmentId", Kind: query.Facet},
			{Key: "requesterId", Kind: query.Facet},
		},
		Sortable:    []string{"title", "type", "status", "scheduledAt", "createdAt", "updatedAt"},
		DefaultSort: []query.Sort{{Field: "createdAt", Direction: query.Desc}},
		DateRange:   true,
	},
	Columns: map[string]string{
		"title":        "title",
		"type":         "type",
		"status":       "status",
		"departmentId": "department_id",
		"requesterId":  "requester_id",
		"scheduledAt":  "scheduled_at",
		"createdAt":    "created_at",
		"updatedAt":    "updated_at",
	},
	Search:     []string{"title", "notes"},
	DateColumn: "created_at",
}

type RequestRepository struct {
	DB *sqlx.DB
}

func (r RequestRepository) db() *sqlx.DB { return pick(r.DB) }

func (RequestRepository) Schema() query.Schema { return requestList.Schema }

func (r RequestRepository) List(ctx context.Context, q query.Query) ([]models.Request, int, error) {
	return list[models.Request](ctx, r.db(), requestList, q)
}

func (r RequestRepository) GetByID(ctx context.Context, id string) (models.Request, error) {
	var req models.Request
	db := r.db()
	if db == nil {
		return req, errNoDB
	}
	err := db.GetContext(ctx, &req, "SELECT "+requestColumns+" FROM requests WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return req, domain.NotFoundError{Resource: "request", ID: id}
	}
	return req, err
}

func requestRefs(req models.Request) []ref {
	return []ref{
		required("departments", "departmentId", "department", req.DepartmentID),
		required("users", "requesterId", "requester", req.RequesterID),
		optional("vehicles", "vehicleId", "vehicle", req.VehicleID),
		optional("venues", "venueId", "venue", req.VenueID),
	}
}

func (r RequestRepository) Create(ctx context.Context, req models.Request) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := checkRefs(ctx, tx, requestRefs(req)...); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO requests (id, title, type, status, department_id, requester_id, notes, vehicle_id, venue_id,
				scheduled_at, created_at, updated_at)
			VALUES (:id, :title, :type, :status, :department_id, :requester_id, :notes, :vehicle_id, :venue_id,
				:scheduled_at, :created_at, :updated_at)`, req)
		return err
	})
	logWrite("request", "create", []string{req.ID}, err)
	return err
}

func (r RequestRepository) Update(ctx context.Context, req models.Request) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		if err := checkChangedRefs(ctx, tx, "requests", req.ID, requestRefs(req)...); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			UPDATE requests SET
				title = :title,
				type = :type,
				status = :status,
				department_id = :department_id,
				notes = :notes,
				vehicle_id = :vehicle_id,
				venue_id = :venue_id,
				scheduled_at = :scheduled_at,
				updated_at = :updated_at
			WHERE id = :id`, req)
		return err
	})
	logWrite("request", "update", []string{req.ID}, err)
	return err
}

func (r RequestRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	var n int64
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		var err error
		n, err = deleteWhereIn(ctx, tx, "requests", "id", ids)
		return err
	})
	logWrite("request", "delete", ids, err)
	return n, err
}

func (r RequestRepository) UpdateStatus(ctx context.Context, ids []string, status models.RequestStatus, at models.Timestamp) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sqlx.Tx) error {
		return updateStatusIn(ctx, tx, "requests", "request", ids, string(status), at)
	})
	logWrite("request", "status", ids, err)
	return err
}
