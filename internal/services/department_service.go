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

var departmentEntity = entity{
	Key:         "department",
	Singular:    "department",
	Plural:      "departments",
	Path:        "/departments",
	Invalidates: []string{cache.KeyDepartments, cache.KeySections},
}

type DepartmentService struct {
	base
	Repo repositories.DepartmentRepository
}

func (s DepartmentService) Schema() query.Schema { return s.schema(s.Repo.Schema()) }

func (s DepartmentService) List(ctx context.Context, q query.Query) (Listing[models.Department], error) {
	return listing(ctx, s.base, s.Repo.Schema(), q, s.Repo.List)
}

func (s DepartmentService) Get(ctx context.Context, id string) (models.Department, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s DepartmentService) Create(ctx context.Context, in models.DepartmentInput, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(departmentEntity.Key, "create", err) }()

	utils.TrimAll(&in.Name, &in.Description)
	if err := validateStruct(in); err != nil {
		return res, err
	}
	now := models.Now()
	d := models.Department{
		ID:                   uuid.NewString(),
		Name:                 in.Name,
		Description:          in.Description,
		AcceptsJobs:          in.AcceptsJobs,
		ManagesTransport:     in.ManagesTransport,
		ManagesBorrowRequest: in.ManagesBorrowRequest,
		ManagesSupplyRequest: in.ManagesSupplyRequest,
		ManagesFacility:      in.ManagesFacility,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.Repo.Create(ctx, d); err != nil {
		return res, err
	}
	s.log(ctx, departmentEntity, "create", "id="+d.ID)
	return s.created(departmentEntity, path, d.ID), nil
}

func (s DepartmentService) Update(ctx context.Context, id string, p models.DepartmentPatch, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(departmentEntity.Key, "update", err) }()

	utils.TrimAll(p.Name, p.Description)
	if err := validateStruct(p); err != nil {
		return res, err
	}
	d, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return res, err
	}
	p.Apply(&d)
	d.UpdatedAt = models.Now()
	if err := s.Repo.Update(ctx, d); err != nil {
		return res, err
	}
	s.log(ctx, departmentEntity, "update", "id="+id)
	return s.updated(departmentEntity, path, id), nil
}

// Delete removes the departments and their sections.
func (s DepartmentService) Delete(ctx context.Context, ids []string, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(departmentEntity.Key, "delete", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	n, err := s.Repo.Delete(ctx, ids)
	if err != nil {
		return res, err
	}
	s.logIDs(ctx, departmentEntity, "delete", ids)
	return s.deleted(departmentEntity, path, ids, int(n)), nil
}
