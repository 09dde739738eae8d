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

var roleEntity = entity{
	Key:         "role",
	Singular:    "role",
	Plural:      "roles",
	Path:        "/roles",
	Invalidates: []string{cache.KeyRoles},
}

type RoleService struct {
	base
	Repo repositories.RoleRepository
}

func (s RoleService) Schema() query.Schema { return s.schema(s.Repo.Schema()) }

func (s RoleService) List(ctx context.Context, q query.Query) (Listing[models.Role], error) {
	return listing(ctx, s.base, s.Repo.Schema(), q, s.Repo.List)
}

func (s RoleService) Get(ctx context.Context, id string) (models.Role, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s RoleService) Create(ctx context.Context, in models.RoleInput, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(roleEntity.Key, "create", err) }()

	utils.TrimAll(&in.Name, &in.Description)
	if err := validateStruct(in); err != nil {
		return res, err
	}
	now := models.Now()
	role := models.Role{ID: uuid.NewString(), Name: in.Name, Description: in.Description, CreatedAt: now, UpdatedAt: now}
	if err := s.Repo.Create(ctx, role); err != nil {
		return res, err
	}
	s.log(ctx, roleEntity, "create", "id="+role.ID)
	return s.created(roleEntity, path, role.ID), nil
}

func (s RoleService) Update(ctx context.Context, id string, p models.RolePatch, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(roleEntity.Key, "update", err) }()

	utils.TrimAll(p.Name, p.Description)
	if err := validateStruct(p); err != nil {
		return res, err
	}
	role, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return res, err
	}
	p.Apply(&role)
	role.UpdatedAt = models.Now()
	if err := s.Repo.Update(ctx, role); err != nil {
		return res, err
	}
	s.log(ctx, roleEntity, "update", "id="+id)
	return s.updated(roleEntity, path, id), nil
}

// Delete removes the roles and unassigns them from users.
func (s RoleService) Delete(ctx context.Context, ids []string, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(roleEntity.Key, "delete", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	n, err := s.Repo.Delete(ctx, ids)
	if err != nil {
		return res, err
	}
	s.logIDs(ctx, roleEntity, "delete", ids)
	return s.deleted(roleEntity, path, ids, int(n)), nil
}
