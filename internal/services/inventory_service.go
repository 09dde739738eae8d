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

var (
	inventoryEntity = entity{
		Key:      "inventory_item",
		Singular: "item",
		Plural:   "items",
		Path:     "/inventory",
	}
	supplyEntity = entity{
		Key:      "supply_item",
		Singular: "supply",
		Plural:   "supplies",
		Path:     "/supplies",
	}
)

type InventoryService struct {
	base
	Repo repositories.InventoryRepository
}

func (s InventoryService) Schema() query.Schema { return s.schema(s.Repo.Schema()) }

func (s InventoryService) List(ctx context.Context, q query.Query) (Listing[models.InventoryItem], error) {
	return listing(ctx, s.base, s.Repo.Schema(), q, s.Repo.List, cache.KeyDepartments, cache.KeyCategories)
}

func (s InventoryService) Get(ctx context.Context, id string) (models.InventoryItem, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s InventoryService) Create(ctx context.Context, in models.InventoryItemInput, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(inventoryEntity.Key, "create", err) }()

	utils.TrimAll(&in.Name, &in.Description, &in.DepartmentID, in.CategoryID, &in.SerialNumber, &in.ImageURL)
	if err := validateStruct(in); err != nil {
		return res, err
	}
	if in.Status == "" {
		in.Status = models.ItemAvailable
	}
	if err := checkEnum("status", string(in.Status), in.Status.Valid(), models.ItemStatusValues()); err != nil {
		return res, err
	}
	now := models.Now()
	it := models.InventoryItem{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Description:  in.Description,
		DepartmentID: in.DepartmentID,
		SerialNumber: in.SerialNumber,
		Status:       in.Status,
		ImageURL:     in.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.CategoryID != nil && *in.CategoryID != "" {
		it.CategoryID = in.CategoryID
	}
	if err := s.Repo.Create(ctx, it); err != nil {
		return res, err
	}
	s.log(ctx, inventoryEntity, "create", "id="+it.ID)
	return s.created(inventoryEntity, path, it.ID), nil
}

func (s InventoryService) Update(ctx context.Context, id string, p models.InventoryItemPatch, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(inventoryEntity.Key, "update", err) }()

	utils.TrimAll(p.Name, p.Description, p.DepartmentID, p.CategoryID, p.SerialNumber, p.ImageURL)
	if err := validateStruct(p); err != nil {
		return res, err
	}
	if p.Status != nil {
		if err := checkEnum("status", string(*p.Status), p.Status.Valid(), models.ItemStatusValues()); err != nil {
			return res, err
		}
	}
	it, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return res, err
	}
	p.Apply(&it)
	it.UpdatedAt = models.Now()
	if err := s.Repo.Update(ctx, it); err != nil {
		return res, err
	}
	s.log(ctx, inventoryEntity, "update", "id="+id)
	return s.updated(inventoryEntity, path, id), nil
}

func (s InventoryService) Delete(ctx context.Context, ids []string, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(inventoryEntity.Key, "delete", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	n, err := s.Repo.Delete(ctx, ids)
	if err != nil {
		return res, err
	}
	s.logIDs(ctx, inventoryEntity, "delete", ids)
	return s.deleted(inventoryEntity, path, ids, int(n)), nil
}

// UpdateStatus sets one status on every selected item; an unknown id fails the whole batch.
func (s InventoryService) UpdateStatus(ctx context.Context, ids []string, status models.ItemStatus, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(inventoryEntity.Key, "status", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	if err := checkEnum("status", string(status), status.Valid(), models.ItemStatusValues()); err != nil {
		return res, err
	}
	if err := s.Repo.UpdateStatus(ctx, ids, status, models.Now()); err != nil {
		return res, err
	}
	s.log(ctx, inventoryEntity, "status", string(status))
	return s.statusSet(inventoryEntity, path, ids, string(status)), nil
}

type SupplyService struct {
	base
	Repo repositories.SupplyRepository
}

func (s SupplyService) Schema() query.Schema { return s.schema(s.Repo.Schema()) }

func (s SupplyService) List(ctx context.Context, q query.Query) (Listing[models.SupplyItem], error) {
	return listing(ctx, s.base, s.Repo.Schema(), q, s.Repo.List, cache.KeyDepartments, cache.KeyCategories)
}

func (s SupplyService) Get(ctx context.Context, id string) (models.SupplyItem, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s SupplyService) Create(ctx context.Context, in models.SupplyItemInput, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(supplyEntity.Key, "create", err) }()

	utils.TrimAll(&in.Name, &in.Description, &in.DepartmentID, in.CategoryID, &in.Unit)
	if err := validateStruct(in); err != nil {
		return res, err
	}
	if in.Status == "" {
		in.Status = models.SupplyInStock
	}
	if err := checkEnum("status", string(in.Status), in.Status.Valid(), models.SupplyItemStatusValues()); err != nil {
		return res, err
	}
	now := models.Now()
	it := models.SupplyItem{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Description:      in.Description,
		DepartmentID:     in.DepartmentID,
		Quantity:         in.Quantity,
		Unit:             in.Unit,
		ReorderThreshold: in.ReorderThreshold,
		Status:           in.Status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if in.CategoryID != nil && *in.CategoryID != "" {
		it.CategoryID = in.CategoryID
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.IsZero() {
		it.ExpiresAt = in.ExpiresAt
	}
	if err := s.Repo.Create(ctx, it); err != nil {
		return res, err
	}
	s.log(ctx, supplyEntity, "create", "id="+it.ID)
	return s.created(supplyEntity, path, it.ID), nil
}

func (s SupplyService) Update(ctx context.Context, id string, p models.SupplyItemPatch, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(supplyEntity.Key, "update", err) }()

	utils.TrimAll(p.Name, p.Description, p.DepartmentID, p.CategoryID, p.Unit)
	if err := validateStruct(p); err != nil {
		return res, err
	}
	if p.Status != nil {
		if err := checkEnum("status", string(*p.Status), p.Status.Valid(), models.SupplyItemStatusValues()); err != nil {
			return res, err
		}
	}
	it, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return res, err
	}
	p.Apply(&it)
	it.UpdatedAt = models.Now()
	if err := s.Repo.Update(ctx, it); err != nil {
		return res, err
	}
	s.log(ctx, supplyEntity, "update", "id="+id)
	return s.updated(supplyEntity, path, id), nil
}

func (s SupplyService) Delete(ctx context.Context, ids []string, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(supplyEntity.Key, "delete", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	n, err := s.Repo.Delete(ctx, ids)
	if err != nil {
		return res, err
	}
	s.logIDs(ctx, supplyEntity, "delete", ids)
	return s.deleted(supplyEntity, path, ids, int(n)), nil
}

func (s SupplyService) UpdateStatus(ctx context.Context, ids []string, status models.SupplyItemStatus, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(supplyEntity.Key, "status", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	if err := checkEnum("status", string(status), status.Valid(), models.SupplyItemStatusValues()); err != nil {
		return res, err
	}
	if err := s.Repo.UpdateStatus(ctx, ids, status, models.Now()); err != nil {
		return res, err
	}
	s.log(ctx, supplyEntity, "status", string(status))
	return s.statusSet(supplyEntity, path, ids, string(status)), nil
}
