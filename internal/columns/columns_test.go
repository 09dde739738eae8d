package columns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilities/internal/domain"
	"facilities/internal/domain/models"
	"facilities/internal/query"
	"facilities/internal/repositories"
	"facilities/internal/table"
)

func checkColumns[T any](t *testing.T, cols []table.Column[T], schema query.Schema) {
	t.Helper()
	require.NoError(t, table.Validate(cols))
	for _, c := range cols {
		if c.Sortable {
			assert.True(t, schema.CanSort(c.ID), "column %q is sortable but the list cannot sort by it", c.ID)
		}
	}
}

func TestFactoriesMatchListSchemas(t *testing.T) {
	checkColumns(t, Departments(), repositories.DepartmentRepository{}.Schema())
	checkColumns(t, Roles(), repositories.RoleRepository{}.Schema())
	checkColumns(t, Users(), repositories.UserRepository{}.Schema())
	checkColumns(t, InventoryItems(), repositories.InventoryRepository{}.Schema())
	checkColumns(t, SupplyItems(), repositories.SupplyRepository{}.Schema())
	checkColumns(t, Vehicles(), repositories.VehicleRepository{}.Schema())
	checkColumns(t, Venues(), repositories.VenueRepository{}.Schema())
	checkColumns(t, Requests(), repositories.RequestRepository{}.Schema())
}

func TestSentinelPlacement(t *testing.T) {
	cols := Requests()
	assert.Equal(t, table.SelectID, cols[0].ID)
	assert.Equal(t, table.ExpandID, cols[1].ID)
	assert.Equal(t, table.ActionsID, cols[len(cols)-1].ID)

	bare := Requests(WithoutSelect(), WithoutActions())
	require.NoError(t, table.Validate(bare))
	assert.Equal(t, table.ExpandID, bare[0].ID)
	assert.Equal(t, "createdAt", bare[len(bare)-1].ID)
}

func TestDepartmentNames(t *testing.T) {
	cols := table.DataColumns(Vehicles(WithDepartment([]domain.Option{{ID: "d1", Name: "Motor Pool"}})), nil)
	byID := map[string]table.Column[models.Vehicle]{}
	for _, c := range cols {
		byID[c.ID] = c
	}

	assert.Equal(t, "Motor Pool", byID["departmentId"].Value(models.Vehicle{DepartmentID: "d1"}))
	assert.Equal(t, "d9", byID["departmentId"].Value(models.Vehicle{DepartmentID: "d9"}))
	assert.Equal(t, "12", byID["capacity"].Value(models.Vehicle{Capacity: 12}))
}

func TestUserRolesCell(t *testing.T) {
	for _, c := range Users() {
		if c.ID != "roleId" {
			continue
		}
		u := models.User{Roles: []domain.Option{{ID: "1", Name: "admin"}, {ID: "2", Name: "staff"}}}
		assert.Equal(t, "admin, staff", c.Value(u))
		return
	}
	t.Fatal("roleId column missing")
}
