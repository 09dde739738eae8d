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
	vehicleEntity = entity{
		Key:         "vehicle",
		Singular:    "vehicle",
		Plural:      "vehicles",
		Path:        "/vehicles",
		Invalidates: []string{cache.KeyVehicles},
	}
	venueEntity = entity{
		Key:         "venue",
		Singular:    "venue",
		Plural:      "venues",
		Path:        "/venues",
		Invalidates: []string{cache.KeyVenues},
	}
)

type VehicleService struct {
	base
	Repo repositories.VehicleRepository
}

func (s VehicleService) Schema() query.Schema { return s.schema(s.Repo.Schema()) }

func (s VehicleService) List(ctx context.Context, q query.Query) (Listing[models.Vehicle], error) {
	return listing(ctx, s.base, s.Repo.Schema(), q, s.Repo.List, cache.KeyDepartments)
}

func (s VehicleService) Get(ctx context.Context, id string) (models.Vehicle, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s VehicleService) Create(ctx context.Context, in models.VehicleInput, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(vehicleEntity.Key, "create", err) }()

	utils.TrimAll(&in.Name, &in.Type, &in.LicensePlate, &in.DepartmentID, &in.ImageURL)
	if err := validateStruct(in); err != nil {
		return res, err
	}
	if in.Status == "" {
		in.Status = models.VehicleAvailable
	}
	if err := checkEnum("status", string(in.Status), in.Status.Valid(), models.VehicleStatusValues()); err != nil {
		return res, err
	}
	now := models.Now()
	v := models.Vehicle{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Type:         in.Type,
		LicensePlate: in.LicensePlate,
		Capacity:     in.Capacity,
		DepartmentID: in.DepartmentID,
		Status:       in.Status,
		ImageURL:     in.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, v); err != nil {
		return res, err
	}
	s.log(ctx, vehicleEntity, "create", "id="+v.ID)
	return s.created(vehicleEntity, path, v.ID), nil
}

func (s VehicleService) Update(ctx context.Context, id string, p models.VehiclePatch, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(vehicleEntity.Key, "update", err) }()

	utils.TrimAll(p.Name, p.Type, p.LicensePlate, p.DepartmentID, p.ImageURL)
	if err := validateStruct(p); err != nil {
		return res, err
	}
	if p.Status != nil {
		if err := checkEnum("status", string(*p.Status), p.Status.Valid(), models.VehicleStatusValues()); err != nil {
			return res, err
		}
	}
	v, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return res, err
	}
	p.Apply(&v)
	v.UpdatedAt = models.Now()
	if err := s.Repo.Update(ctx, v); err != nil {
		return res, err
	}
	s.log(ctx, vehicleEntity, "update", "id="+id)
	return s.updated(vehicleEntity, path, id), nil
}

// Delete removes the vehicles and detaches them from requests.
func (s VehicleService) Delete(ctx context.Context, ids []string, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(vehicleEntity.Key, "delete", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	n, err := s.Repo.Delete(ctx, ids)
	if err != nil {
		return res, err
	}
	s.logIDs(ctx, vehicleEntity, "delete", ids)
	return s.deleted(vehicleEntity, path, ids, int(n)), nil
}

func (s VehicleService) UpdateStatus(ctx context.Context, ids []string, status models.VehicleStatus, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(vehicleEntity.Key, "status", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	if err := checkEnum("status", string(status), status.Valid(), models.VehicleStatusValues()); err != nil {
		return res, err
	}
	if err := s.Repo.UpdateStatus(ctx, ids, status, models.Now()); err != nil {
		return res, err
	}
	s.log(ctx, vehicleEntity, "status", string(status))
	return s.statusSet(vehicleEntity, path, ids, string(status)), nil
}

type VenueService struct {
	base
	Repo repositories.VenueRepository
}

func (s VenueService) Schema() query.Schema { return s.schema(s.Repo.Schema()) }

func (s VenueService) List(ctx context.Context, q query.Query) (Listing[models.Venue], error) {
	return listing(ctx, s.base, s.Repo.Schema(), q, s.Repo.List, cache.KeyDepartments)
}

func (s VenueService) Get(ctx context.Context, id string) (models.Venue, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s VenueService) Create(ctx context.Context, in models.VenueInput, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(venueEntity.Key, "create", err) }()

	utils.TrimAll(&in.Name, &in.Location, &in.DepartmentID)
	if err := validateStruct(in); err != nil {
		return res, err
	}
	if in.Status == "" {
		in.Status = models.VenueAvailable
	}
	if err := checkEnum("status", string(in.Status), in.Status.Valid(), models.VenueStatusValues()); err != nil {
		return res, err
	}
	now := models.Now()
	v := models.Venue{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Location:     in.Location,
		Capacity:     in.Capacity,
		DepartmentID: in.DepartmentID,
		Status:       in.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, v); err != nil {
		return res, err
	}
	s.log(ctx, venueEntity, "create", "id="+v.ID)
	return s.created(venueEntity, path, v.ID), nil
}

func (s VenueService) Update(ctx context.Context, id string, p models.VenuePatch, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(venueEntity.Key, "update", err) }()

	utils.TrimAll(p.Name, p.Location, p.DepartmentID)
	if err := validateStruct(p); err != nil {
		return res, err
	}
	if p.Status != nil {
		if err := checkEnum("status", string(*p.Status), p.Status.Valid(), models.VenueStatusValues()); err != nil {
			return res, err
		}
	}
	v, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return res, err
	}
	p.Apply(&v)
	v.UpdatedAt = models.Now()
	if err := s.Repo.Update(ctx, v); err != nil {
		return res, err
	}
	s.log(ctx, venueEntity, "update", "id="+id)
	return s.updated(venueEntity, path, id), nil
}

func (s VenueService) Delete(ctx context.Context, ids []string, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(venueEntity.Key, "delete", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	n, err := s.Repo.Delete(ctx, ids)
	if err != nil {
		return res, err
	}
	s.logIDs(ctx, venueEntity, "delete", ids)
	return s.deleted(venueEntity, path, ids, int(n)), nil
}

func (s VenueService) UpdateStatus(ctx context.Context, ids []string, status models.VenueStatus, path string) (res domain.MutationResult, err error) {
	defer func() { recordMutation(venueEntity.Key, "status", err) }()

	ids, err = checkIDs(ids)
	if err != nil {
		return res, err
	}
	if err := checkEnum("status", string(status), status.Valid(), models.VenueStatusValues()); err != nil {
		return res, err
	}
	if err := s.Repo.UpdateStatus(ctx, ids, status, models.Now()); err != nil {
		return res, err
	}
	s.log(ctx, venueEntity, "status", string(status))
	return s.statusSet(venueEntity, path, ids, string(status)), nil
}
