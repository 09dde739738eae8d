// Package columns builds the table column definitions of every admin list screen. The same
// definitions drive the export endpoints.
package columns

import (
	"slices"
	"strconv"
	"strings"

	"facilities/internal/domain"
	"facilities/internal/domain/models"
	"facilities/internal/table"
	"facilities/internal/utils"
)

type config struct {
	selectable  bool
	actions     bool
	departments map[string]string
	categories  map[string]string
}

type Option func(*config)

// WithoutSelect drops the leading selection column (read-only screens).
func WithoutSelect() Option {
	return func(c *config) { c.selectable = false }
}

// WithoutActions drops the trailing row-actions column.
func WithoutActions() Option {
	return func(c *config) { c.actions = false }
}

// WithDepartment renders department ids as names; unknown ids are shown as-is.
func WithDepartment(opts []domain.Option) Option {
	return func(c *config) { c.departments = names(opts) }
}

// WithCategory renders category ids as names.
func WithCategory(opts []domain.Option) Option {
	return func(c *config) { c.categories = names(opts) }
}

func names(opts []domain.Option) map[string]string {
	m := make(map[string]string, len(opts))
	for _, o := range opts {
		m[o.ID] = o.Name
	}
	return m
}

func newConfig(opts []Option) config {
	c := config{selectable: true, actions: true}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// wrap adds the sentinel columns around data.
func wrap[T any](c config, data ...table.Column[T]) []table.Column[T] {
	out := make([]table.Column[T], 0, len(data)+2)
	if c.selectable {
		out = append(out, table.SelectColumn[T]())
	}
	out = append(out, data...)
	if c.actions {
		out = append(out, table.ActionsColumn[T]())
	}
	return out
}

func text[T any](id, header string, cell func(T) string) table.Column[T] {
	return table.Column[T]{ID: id, Header: header, Cell: cell, Sortable: true, Hideable: true, Filter: table.Contains}
}

func facet[T any](id, header string, cell func(T) string) table.Column[T] {
	return table.Column[T]{ID: id, Header: header, Cell: cell, Hideable: true, Filter: table.ArrIncludes}
}

func date[T any](id, header string, at func(T) models.Timestamp) table.Column[T] {
	return table.Column[T]{
		ID: id, Header: header, Sortable: true, Hideable: true, Filter: table.InDateRange,
		Cell: func(r T) string { return formatDate(at(r)) },
	}
}

func plain[T any](id, header string, cell func(T) string) table.Column[T] {
	return table.Column[T]{ID: id, Header: header, Cell: cell, Hideable: true}
}

func formatDate(t models.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return utils.FormatDate(t.Time)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func lookup(m map[string]string, id string) string {
	if name, ok := m[id]; ok {
		return name
	}
	return id
}

func lookupPtr(m map[string]string, id *string) string {
	if id == nil {
		return ""
	}
	return lookup(m, *id)
}

func Departments(opts ...Option) []table.Column[models.Department] {
	c := newConfig(opts)
	type D = models.Department
	return wrap(c,
		text("name", "Name", func(d D) string { return d.Name }),
		plain("description", "Description", func(d D) string { return d.Description }),
		facet("acceptsJobs", "Accepts jobs", func(d D) string { return yesNo(d.AcceptsJobs) }),
		facet("managesTransport", "Transport", func(d D) string { return yesNo(d.ManagesTransport) }),
		facet("managesBorrowRequest", "Borrow requests", func(d D) string { return yesNo(d.ManagesBorrowRequest) }),
		facet("managesSupplyRequest", "Supply requests", func(d D) string { return yesNo(d.ManagesSupplyRequest) }),
		facet("managesFacility", "Facility", func(d D) string { return yesNo(d.ManagesFacility) }),
		date("createdAt", "Created", func(d D) models.Timestamp { return d.CreatedAt }),
		date("updatedAt", "Updated", func(d D) models.Timestamp { return d.UpdatedAt }),
	)
}

func Roles(opts ...Option) []table.Column[models.Role] {
	c := newConfig(opts)
	type R = models.Role
	return wrap(c,
		text("name", "Name", func(r R) string { return r.Name }),
		plain("description", "Description", func(r R) string { return r.Description }),
		date("createdAt", "Created", func(r R) models.Timestamp { return r.CreatedAt }),
	)
}

func Users(opts ...Option) []table.Column[models.User] {
	c := newConfig(opts)
	type U = models.User
	return wrap(c,
		text("firstName", "First name", func(u U) string { return u.FirstName }),
		text("lastName", "Last name", func(u U) string { return u.LastName }),
		text("email", "Email", func(u U) string { return u.Email }),
		facet("departmentId", "Department", func(u U) string { return lookup(c.departments, u.DepartmentID) }),
		facet("roleId", "Roles", func(u U) string {
			out := make([]string, len(u.Roles))
			for i, r := range u.Roles {
				out[i] = r.Name
			}
			return strings.Join(out, ", ")
		}),
		date("createdAt", "Created", func(u U) models.Timestamp { return u.CreatedAt }),
	)
}

func InventoryItems(opts ...Option) []table.Column[models.InventoryItem] {
	c := newConfig(opts)
	type I = models.InventoryItem
	return wrap(c,
		text("name", "Name", func(i I) string { return i.Name }),
		plain("serialNumber", "Serial no.", func(i I) string { return i.SerialNumber }),
		facet("status", "Status", func(i I) string { return string(i.Status) }),
		facet("departmentId", "Department", func(i I) string { return lookup(c.departments, i.DepartmentID) }),
		facet("categoryId", "Category", func(i I) string { return lookupPtr(c.categories, i.CategoryID) }),
		date("createdAt", "Created", func(i I) models.Timestamp { return i.CreatedAt }),
	)
}

func SupplyItems(opts ...Option) []table.Column[models.SupplyItem] {
	c := newConfig(opts)
	type S = models.SupplyItem
	return wrap(c,
		text("name", "Name", func(s S) string { return s.Name }),
		table.Column[S]{
			ID: "quantity", Header: "Quantity", Sortable: true, Hideable: true,
			Cell: func(s S) string { return strings.TrimSpace(strconv.Itoa(s.Quantity) + " " + s.Unit) },
		},
		facet("status", "Status", func(s S) string { return string(s.Status) }),
		facet("departmentId", "Department", func(s S) string { return lookup(c.departments, s.DepartmentID) }),
		facet("categoryId", "Category", func(s S) string { return lookupPtr(c.categories, s.CategoryID) }),
		table.Column[S]{
			ID: "expiresAt", Header: "Expires", Sortable: true, Hideable: true,
			Cell: func(s S) string {
				if s.ExpiresAt == nil {
					return ""
				}
				return formatDate(*s.ExpiresAt)
			},
		},
		date("createdAt", "Created", func(s S) models.Timestamp { return s.CreatedAt }),
	)
}

func Vehicles(opts ...Option) []table.Column[models.Vehicle] {
	c := newConfig(opts)
	type V = models.Vehicle
	return wrap(c,
		text("name", "Name", func(v V) string { return v.Name }),
		text("licensePlate", "License plate", func(v V) string { return v.LicensePlate }),
		plain("type", "Type", func(v V) string { return v.Type }),
		table.Column[V]{
			ID: "capacity", Header: "Capacity", Sortable: true, Hideable: true,
			Cell: func(v V) string { return strconv.Itoa(v.Capacity) },
		},
		facet("status", "Status", func(v V) string { return string(v.Status) }),
		facet("departmentId", "Department", func(v V) string { return lookup(c.departments, v.DepartmentID) }),
		date("createdAt", "Created", func(v V) models.Timestamp { return v.CreatedAt }),
	)
}

func Venues(opts ...Option) []table.Column[models.Venue] {
	c := newConfig(opts)
	type V = models.Venue
	return wrap(c,
		text("name", "Name", func(v V) string { return v.Name }),
		plain("location", "Location", func(v V) string { return v.Location }),
		table.Column[V]{
			ID: "capacity", Header: "Capacity", Sortable: true, Hideable: true,
			Cell: func(v V) string { return strconv.Itoa(v.Capacity) },
		},
		facet("status", "Status", func(v V) string { return string(v.Status) }),
		facet("departmentId", "Department", func(v V) string { return lookup(c.departments, v.DepartmentID) }),
		date("createdAt", "Created", func(v V) models.Timestamp { return v.CreatedAt }),
	)
}

// Requests has an expand column so a row can reveal its notes.
func Requests(opts ...Option) []table.Column[models.Request] {
	c := newConfig(opts)
	type R = models.Request
	cols := wrap(c,
		text("title", "Title", func(r R) string { return r.Title }),
		facet("type", "Type", func(r R) string { return string(r.Type) }),
		facet("status", "Status", func(r R) string { return string(r.Status) }),
		facet("departmentId", "Department", func(r R) string { return lookup(c.departments, r.DepartmentID) }),
		date("createdAt", "Created", func(r R) models.Timestamp { return r.CreatedAt }),
	)
	i := 0
	if c.selectable {
		i = 1
	}
	return slices.Insert(cols, i, table.ExpandColumn[R]())
}
