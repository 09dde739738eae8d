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

var userEntity = entity{
	Key:      "user",
	Singular: "user",
	Plural:   "users",
	Path:     "/users",
}

type UserService struct {
	base
	Repo repositories.UserRepository
}

func (s UserService) Schema() query.Schema { return s.schema(s.Repo.Schema()) }

// List returns a page of users with the department and role facets.
func (s UserService) List(ctx context.Context, q query.Query) (Listing[models.User], error) {
	return listing(ctx, s.base, s.Repo.Schema(), q, s.Repo.List, cache.KeyDepartments, cache.KeyRoles)
}

func (s UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s UserService) Create(ctx context.Context, in models.UserInput, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(userEntity.Key, "create", err) }()

	utils.TrimAll(&in.Email, &in.FirstName, &in.LastName, &in.DepartmentID, in.SectionID)
	if err := validateStruct(in); err != nil {
		return res, err
	}
	now := models.Now()
	u := models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DepartmentID: in.DepartmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.SectionID != nil && *in.SectionID != "" {
		u.SectionID = in.SectionID
	}
	if err := s.Repo.Create(ctx, u, in.RoleIDs, in.Password); err != nil {
		return res, err
	}
	s.log(ctx, userEntity, "create", "id="+u.ID)
	return s.created(userEntity, path, u.ID), nil
}

// Update applies the patch; roleIds, when present, replaces the user's roles.
func (s UserService) Update(ctx context.Context, id string, p models.UserPatch, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(userEntity.Key, "update", err) }()

	utils.TrimAll(p.Email, p.FirstName, p.LastName, p.DepartmentID, p.SectionID)
	if err := validateStruct(p); err != nil {
		return res, err
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return res, err
	}
	p.Apply(&u)
	u.UpdatedAt = models.Now()
	password := ""
	if p.Password != nil {
		password = *p.Password
	}
	if err := s.Repo.Update(ctx, u, p.RoleIDs, password); err != nil {
		return res, err
	}
	s.log(ctx, userEntity, "update", "id="+id)
	return s.updated(userEntity, path, id), nil
}

func (s UserService) Delete(ctx context.Context, ids []string, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(userEntity.Key, "delete", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	n, err := s.Repo.Delete(ctx, ids)
	if err != nil {
		return res, err
	}
	s.logIDs(ctx, userEntity, "delete", ids)
	return s.deleted(userEntity, path, ids, int(n)), nil
}
