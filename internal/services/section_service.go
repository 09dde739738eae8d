package services

import (
	"context"

	"github.com/google/uuid"

	"facilities/internal/cache"
	"facilities/internal/domain"
	"facilities/internal/domain/models"
	"facilities/internal/repositories"
	"facilities/internal/utils"
)

var (
	sectionEntity = entity{
		Key:         "section",
		Singular:    "section",
		Plural:      "sections",
		Path:        "/departments",
		Invalidates: []string{cache.KeySections},
	}
	categoryEntity = entity{
		Key:         "category",
		Singular:    "category",
		Plural:      "categories",
		Path:        "/inventory",
		Invalidates: []string{cache.KeyCategories},
	}
)

type SectionService struct {
	base
	Repo repositories.SectionRepository
}

func (s SectionService) List(ctx context.Context, departmentID string) ([]models.Section, error) {
	return s.Repo.List(ctx, utils.TrimOrEmpty(departmentID))
}

func (s SectionService) Create(ctx context.Context, in models.SectionInput, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(sectionEntity.Key, "create", err) }()

	utils.TrimAll(&in.Name, &in.DepartmentID)
	if err := validateStruct(in); err != nil {
		return res, err
	}
	now := models.Now()
	sec := models.Section{ID: uuid.NewString(), Name: in.Name, DepartmentID: in.DepartmentID, CreatedAt: now, UpdatedAt: now}
	if err := s.Repo.Create(ctx, sec); err != nil {
		return res, err
	}
	return s.created(sectionEntity, path, sec.ID), nil
}

func (s SectionService) Delete(ctx context.Context, ids []string, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(sectionEntity.Key, "delete", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	n, err := s.Repo.Delete(ctx, ids)
	if err != nil {
		return res, err
	}
	s.logIDs(ctx, sectionEntity, "delete", ids)
	return s.deleted(sectionEntity, path, ids, int(n)), nil
}

type CategoryService struct {
	base
	Repo repositories.CategoryRepository
}

func (s CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.Repo.List(ctx)
}

func (s CategoryService) Create(ctx context.Context, in models.CategoryInput, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(categoryEntity.Key, "create", err) }()

	utils.TrimAll(&in.Name)
	if err := validateStruct(in); err != nil {
		return res, err
	}
	now := models.Now()
	c := models.Category{ID: uuid.NewString(), Name: in.Name, CreatedAt: now, UpdatedAt: now}
	if err := s.Repo.Create(ctx, c); err != nil {
		return res, err
	}
	return s.created(categoryEntity, path, c.ID), nil
}

func (s CategoryService) Delete(ctx context.Context, ids []string, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(categoryEntity.Key, "delete", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	n, err := s.Repo.Delete(ctx, ids)
	if err != nil {
		return res, err
	}
	s.logIDs(ctx, categoryEntity, "delete", ids)
	return s.deleted(categoryEntity, path, ids, int(n)), nil
}
