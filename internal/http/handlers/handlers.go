package handlers

import (
	"context"

	"github.com/jmoiron/sqlx"

	"facilities/internal/cache"
	"facilities/internal/columns"
	"facilities/internal/domain/models"
	"facilities/internal/revalidate"
	"facilities/internal/services"
	"facilities/internal/table"
)

// Handlers serves the admin API over one service registry.
type Handlers struct {
	Svc    *services.Services
	Hub    *revalidate.Hub
	DB     *sqlx.DB
	Driver string
}

func New(svc *services.Services, hub *revalidate.Hub, db *sqlx.DB, driver string) *Handlers {
	return &Handlers{Svc: svc, Hub: hub, DB: db, Driver: driver}
}

// departmentNames resolves department ids for export cells.
func (h *Handlers) departmentNames(ctx context.Context) (columns.Option, error) {
	opts, err := h.Svc.Lookups.Get(ctx, cache.KeyDepartments)
	if err != nil {
		return nil, err
	}
	return columns.WithDepartment(opts), nil
}

func (h *Handlers) categoryNames(ctx context.Context) (columns.Option, error) {
	opts, err := h.Svc.Lookups.Get(ctx, cache.KeyCategories)
	if err != nil {
		return nil, err
	}
	return columns.WithCategory(opts), nil
}

// withNames builds an export column factory that resolves the given lookups first.
func withNames[T any](factory func(...columns.Option) []table.Column[T], resolvers ...func(context.Context) (columns.Option, error)) func(context.Context) ([]table.Column[T], error) {
	return func(ctx context.Context) ([]table.Column[T], error) {
		opts := make([]columns.Option, 0, len(resolvers))
		for _, resolve := range resolvers {
			o, err := resolve(ctx)
			if err != nil {
				return nil, err
			}
			opts = append(opts, o)
		}
		return factory(opts...), nil
	}
}

func (h *Handlers) departments() resource[models.Department, models.DepartmentInput, models.DepartmentPatch] {
	s := h.Svc.Departments
	return resource[models.Department, models.DepartmentInput, models.DepartmentPatch]{
		name: "departments", schema: s.Schema, list: s.List, get: s.Get,
		create: s.Create, update: s.Update, delete: s.Delete,
		columns: withNames(columns.Departments),
	}
}

func (h *Handlers) roles() resource[models.Role, models.RoleInput, models.RolePatch] {
	s := h.Svc.Roles
	return resource[models.Role, models.RoleInput, models.RolePatch]{
		name: "roles", schema: s.Schema, list: s.List, get: s.Get,
		create: s.Create, update: s.Update, delete: s.Delete,
		columns: withNames(columns.Roles),
	}
}

func (h *Handlers) users() resource[models.User, models.UserInput, models.UserPatch] {
	s := h.Svc.Users
	return resource[models.User, models.UserInput, models.UserPatch]{
		name: "users", schema: s.Schema, list: s.List, get: s.Get,
		create: s.Create, update: s.Update, delete: s.Delete,
		columns: withNames(columns.Users, h.departmentNames),
	}
}

func (h *Handlers) inventory() resource[models.InventoryItem, models.InventoryItemInput, models.InventoryItemPatch] {
	s := h.Svc.Inventory
	return resource[models.InventoryItem, models.InventoryItemInput, models.InventoryItemPatch]{
		name: "inventory-items", schema: s.Schema, list: s.List, get: s.Get,
		create: s.Create, update: s.Update, delete: s.Delete,
		columns: withNames(columns.InventoryItems, h.departmentNames, h.categoryNames),
	}
}

func (h *Handlers) supplies() resource[models.SupplyItem, models.SupplyItemInput, models.SupplyItemPatch] {
	s := h.Svc.Supplies
	return resource[models.SupplyItem, models.SupplyItemInput, models.SupplyItemPatch]{
		name: "supply-items", schema: s.Schema, list: s.List, get: s.Get,
		create: s.Create, update: s.Update, delete: s.Delete,
		columns: withNames(columns.SupplyItems, h.departmentNames, h.categoryNames),
	}
}

func (h *Handlers) vehicles() resource[models.Vehicle, models.VehicleInput, models.VehiclePatch] {
	s := h.Svc.Vehicles
	return resource[models.Vehicle, models.VehicleInput, models.VehiclePatch]{
		name: "vehicles", schema: s.Schema, list: s.List, get: s.Get,
		create: s.Create, update: s.Update, delete: s.Delete,
		columns: withNames(columns.Vehicles, h.departmentNames),
	}
}

func (h *Handlers) venues() resource[models.Venue, models.VenueInput, models.VenuePatch] {
	s := h.Svc.Venues
	return resource[models.Venue, models.VenueInput, models.VenuePatch]{
		name: "venues", schema: s.Schema, list: s.List, get: s.Get,
		create: s.Create, update: s.Update, delete: s.Delete,
		columns: withNames(columns.Venues, h.departmentNames),
	}
}

func (h *Handlers) requests() resource[models.Request, models.RequestInput, models.RequestPatch] {
	s := h.Svc.Requests
	return resource[models.Request, models.RequestInput, models.RequestPatch]{
		name: "requests", schema: s.Schema, list: s.List, get: s.Get,
		create: s.Create, update: s.Update, delete: s.Delete,
		columns: withNames(columns.Requests, h.departmentNames),
	}
}
