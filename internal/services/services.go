package services

import (
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"facilities/internal/cache"
	"facilities/internal/repositories"
	"facilities/internal/revalidate"
)

// Services groups every entity service over one database.
type Services struct {
	Departments DepartmentService
	Sections    SectionService
	Categories  CategoryService
	Roles       RoleService
	Users       UserService
	Inventory   InventoryService
	Supplies    SupplyService
	Vehicles    VehicleService
	Venues      VenueService
	Requests    RequestService
	Lookups     LookupService
	Docs        DocsService
}

// New wires the repositories, lookup loaders, hub and cache together.
// A nil hub or cache disables publishing or caching.
func New(db *sqlx.DB, hub *revalidate.Hub, lookups *cache.Lookups, limits Limits) *Services {
	var (
		departments = repositories.DepartmentRepository{DB: db}
		sections    = repositories.SectionRepository{DB: db}
		categories  = repositories.CategoryRepository{DB: db}
		roles       = repositories.RoleRepository{DB: db}
		users       = repositories.UserRepository{DB: db, Cost: bcrypt.DefaultCost}
		inventory   = repositories.InventoryRepository{DB: db}
		supplies    = repositories.SupplyRepository{DB: db}
		vehicles    = repositories.VehicleRepository{DB: db}
		venues      = repositories.VenueRepository{DB: db}
		requests    = repositories.RequestRepository{DB: db}
	)

	b := base{
		Hub:     hub,
		Lookups: lookups,
		Limits:  limits,
		Loaders: map[string]cache.Loader{
			cache.KeyDepartments: departments.Options,
			cache.KeyRoles:       roles.Options,
			cache.KeySections:    sections.Options,
			cache.KeyCategories:  categories.Options,
			cache.KeyVehicles:    vehicles.Options,
			cache.KeyVenues:      venues.Options,
		},
	}

	return &Services{
		Departments: DepartmentService{base: b, Repo: departments},
		Sections:    SectionService{base: b, Repo: sections},
		Categories:  CategoryService{base: b, Repo: categories},
		Roles:       RoleService{base: b, Repo: roles},
		Users:       UserService{base: b, Repo: users},
		Inventory:   InventoryService{base: b, Repo: inventory},
		Supplies:    SupplyService{base: b, Repo: supplies},
		Vehicles:    VehicleService{base: b, Repo: vehicles},
		Venues:      VenueService{base: b, Repo: venues},
		Requests:    RequestService{base: b, Repo: requests},
		Lookups:     LookupService{base: b},
		Docs: DocsService{
			Requests:    requests,
			Departments: departments,
			Users:       users,
			Vehicles:    vehicles,
			Venues:      venues,
		},
	}
}
