package services

import (
	"context"

	"github.com/google/uuid"

	"facilities/internal/cache"
	"facilities/internal/domain"
	"facilities/internal/domain/models"
	"facilities/internal/query"
	"facilities/internal/repositories"
	"facilities/internal/utils"
)

var requestEntity = entity{
	Key:      "request",
	Singular: "request",
	Plural:   "requests",
	Path:     "/requests",
}

type RequestService struct {
	base
	Repo repositories.RequestRepository
}

func (s RequestService) Schema() query.Schema { return s.schema(s.Repo.Schema()) }

func (s RequestService) List(ctx context.Context, q query.Query) (Listing[models.Request], error) {
	return listing(ctx, s.base, s.Repo.Schema(), q, s.Repo.List, cache.KeyDepartments)
}

func (s RequestService) Get(ctx context.Context, id string) (models.Request, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s RequestService) Create(ctx context.Context, in models.RequestInput, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(requestEntity.Key, "create", err) }()

	utils.TrimAll(&in.Title, &in.DepartmentID, &in.RequesterID, &in.Notes, in.VehicleID, in.VenueID)
	if err := validateStruct(in); err != nil {
		return res, err
	}
	if in.Type == "" {
		return res, domain.ValidationError{Field: "type", Msg: "is required"}
	}
	if err := checkEnum("type", string(in.Type), in.Type.Valid(), models.RequestTypeValues()); err != nil {
		return res, err
	}
	if in.Status == "" {
		in.Status = models.RequestPending
	}
	if err := checkEnum("status", string(in.Status), in.Status.Valid(), models.RequestStatusValues()); err != nil {
		return res, err
	}
	now := models.Now()
	req := models.Request{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Type:         in.Type,
		Status:       in.Status,
		DepartmentID: in.DepartmentID,
		RequesterID:  in.RequesterID,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.VehicleID != nil && *in.VehicleID != "" {
		req.VehicleID = in.VehicleID
	}
	if in.VenueID != nil && *in.VenueID != "" {
		req.VenueID = in.VenueID
	}
	if in.ScheduledAt != nil && !in.ScheduledAt.IsZero() {
		req.ScheduledAt = in.ScheduledAt
	}
	if err := s.Repo.Create(ctx, req); err != nil {
		return res, err
	}
	s.log(ctx, requestEntity, "create", "id="+req.ID)
	return s.created(requestEntity, path, req.ID), nil
}

func (s RequestService) Update(ctx context.Context, id string, p models.RequestPatch, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(requestEntity.Key, "update", err) }()

	utils.TrimAll(p.Title, p.DepartmentID, p.Notes, p.VehicleID, p.VenueID)
	if err := validateStruct(p); err != nil {
		return res, err
	}
	if p.Type != nil {
		if err := checkEnum("type", string(*p.Type), p.Type.Valid(), models.RequestTypeValues()); err != nil {
			return res, err
		}
	}
	if p.Status != nil {
		if err := checkEnum("status", string(*p.Status), p.Status.Valid(), models.RequestStatusValues()); err != nil {
			return res, err
		}
	}
	req, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return res, err
	}
	p.Apply(&req)
	req.UpdatedAt = models.Now()
	if err := s.Repo.Update(ctx, req); err != nil {
		return res, err
	}
	s.log(ctx, requestEntity, "update", "id="+id)
	return s.updated(requestEntity, path, id), nil
}

func (s RequestService) Delete(ctx context.Context, ids []string, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(requestEntity.Key, "delete", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	n, err := s.Repo.Delete(ctx, ids)
	if err != nil {
		return res, err
	}
	s.logIDs(ctx, requestEntity, "delete", ids)
	return s.deleted(requestEntity, path, ids, int(n)), nil
}

func (s RequestService) UpdateStatus(ctx context.Context, ids []string, status models.RequestStatus, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(requestEntity.Key, "status", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	if err := checkEnum("status", string(status), status.Valid(), models.RequestStatusValues()); err != nil {
		return res, err
	}
	if err := s.Repo.UpdateStatus(ctx, ids, status, models.Now()); err != nil {
		return res, err
	}
	s.log(ctx, requestEntity, "status", string(status))
	return s.statusSet(requestEntity, path, ids, string(status)), nil
}
