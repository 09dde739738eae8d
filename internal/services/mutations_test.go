package services

import (
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilities/internal/domain"
	"facilities/internal/domain/models"
	"facilities/internal/query"
	"facilities/internal/utils"
)

func ptr[T any](v T) *T { return &v }

func createUser(t *testing.T, svc *Services, email, dept string, section *string) string {
	t.Helper()
	res, err := svc.Users.Create(context.Background(), models.UserInput{
		Email: email, FirstName: "Test", LastName: "User", DepartmentID: dept, SectionID: section,
	}, "")
	require.NoError(t, err)
	return res.IDs[0]
}

func createVehicle(t *testing.T, svc *Services, plate, dept string) string {
	t.Helper()
	res, err := svc.Vehicles.Create(context.Background(), models.VehicleInput{
		Name: "Van " + plate, LicensePlate: plate, Capacity: 8, DepartmentID: dept,
	}, "")
	require.NoError(t, err)
	return res.IDs[0]
}

func createVenue(t *testing.T, svc *Services, name, dept string) string {
	t.Helper()
	res, err := svc.Venues.Create(context.Background(), models.VenueInput{Name: name, Capacity: 40, DepartmentID: dept}, "")
	require.NoError(t, err)
	return res.IDs[0]
}

// statusCase drives the shared mutation checks of one entity with a status column.
type statusCase struct {
	name          string
	singular      string
	plural        string
	defaultStatus string
	nextStatus    string
	create        func(t *testing.T, svc *Services, fx fixture, label string) string
	get           func(svc *Services, id string) (label, status, dept string, err error)
	rename        func(svc *Services, id, label string) (domain.MutationResult, error)
	setStatus     func(svc *Services, ids []string, status string) (domain.MutationResult, error)
	remove        func(svc *Services, ids []string) (domain.MutationResult, error)
}

type fixture struct {
	dept      string
	requester string
}

func statusCases() []statusCase {
	ctx := context.Background()
	return []statusCase{
		{
			name: "inventory", singular: "item", plural: "items",
			defaultStatus: string(models.ItemAvailable), nextStatus: string(models.ItemInUse),
			create: func(t *testing.T, svc *Services, fx fixture, label string) string {
				res, err := svc.Inventory.Create(ctx, models.InventoryItemInput{
					Name: label, Description: "kept", DepartmentID: fx.dept, SerialNumber: "SN-" + label,
				}, "")
				require.NoError(t, err)
				return res.IDs[0]
			},
			get: func(svc *Services, id string) (string, string, string, error) {
				it, err := svc.Inventory.Get(ctx, id)
				return it.Name, string(it.Status), it.DepartmentID, err
			},
			rename: func(svc *Services, id, label string) (domain.MutationResult, error) {
				return svc.Inventory.Update(ctx, id, models.InventoryItemPatch{Name: &label}, "")
			},
			setStatus: func(svc *Services, ids []string, status string) (domain.MutationResult, error) {
				return svc.Inventory.UpdateStatus(ctx, ids, models.ItemStatus(status), "")
			},
			remove: func(svc *Services, ids []string) (domain.MutationResult, error) {
				return svc.Inventory.Delete(ctx, ids, "")
			},
		},
		{
			name: "supplies", singular: "supply", plural: "supplies",
			defaultStatus: string(models.SupplyInStock), nextStatus: string(models.SupplyLowStock),
			create: func(t *testing.T, svc *Services, fx fixture, label string) string {
				res, err := svc.Supplies.Create(ctx, models.SupplyItemInput{
					Name: label, DepartmentID: fx.dept, Quantity: 12, Unit: "box", ReorderThreshold: 3,
				}, "")
				require.NoError(t, err)
				return res.IDs[0]
			},
			get: func(svc *Services, id string) (string, string, string, error) {
				it, err := svc.Supplies.Get(ctx, id)
				return it.Name, string(it.Status), it.DepartmentID, err
			},
			rename: func(svc *Services, id, label string) (domain.MutationResult, error) {
				return svc.Supplies.Update(ctx, id, models.SupplyItemPatch{Name: &label}, "")
			},
			setStatus: func(svc *Services, ids []string, status string) (domain.MutationResult, error) {
				return svc.Supplies.UpdateStatus(ctx, ids, models.SupplyItemStatus(status), "")
			},
			remove: func(svc *Services, ids []string) (domain.MutationResult, error) {
				return svc.Supplies.Delete(ctx, ids, "")
			},
		},
		{
			name: "venues", singular: "venue", plural: "venues",
			defaultStatus: string(models.VenueAvailable), nextStatus: string(models.VenueUnavailable),
			create: func(t *testing.T, svc *Services, fx fixture, label string) string {
				return createVenue(t, svc, label, fx.dept)
			},
			get: func(svc *Services, id string) (string, string, string, error) {
				v, err := svc.Venues.Get(ctx, id)
				return v.Name, string(v.Status), v.DepartmentID, err
			},
			rename: func(svc *Services, id, label string) (domain.MutationResult, error) {
				return svc.Venues.Update(ctx, id, models.VenuePatch{Name: &label}, "")
			},
			setStatus: func(svc *Services, ids []string, status string) (domain.MutationResult, error) {
				return svc.Venues.UpdateStatus(ctx, ids, models.VenueStatus(status), "")
			},
			remove: func(svc *Services, ids []string) (domain.MutationResult, error) {
				return svc.Venues.Delete(ctx, ids, "")
			},
		},
		{
			name: "requests", singular: "request", plural: "requests",
			defaultStatus: string(models.RequestPending), nextStatus: string(models.RequestApproved),
			create: func(t *testing.T, svc *Services, fx fixture, label string) string {
				res, err := svc.Requests.Create(ctx, models.RequestInput{
					Title: label, Type: models.RequestJob, DepartmentID: fx.dept, RequesterID: fx.requester,
				}, "")
				require.NoError(t, err)
				return res.IDs[0]
			},
			get: func(svc *Services, id string) (string, string, string, error) {
				r, err := svc.Requests.Get(ctx, id)
				return r.Title, string(r.Status), r.DepartmentID, err
			},
			rename: func(svc *Services, id, label string) (domain.MutationResult, error) {
				return svc.Requests.Update(ctx, id, models.RequestPatch{Title: &label}, "")
			},
			setStatus: func(svc *Services, ids []string, status string) (domain.MutationResult, error) {
				return svc.Requests.UpdateStatus(ctx, ids, models.RequestStatus(status), "")
			},
			remove: func(svc *Services, ids []string) (domain.MutationResult, error) {
				return svc.Requests.Delete(ctx, ids, "")
			},
		},
	}
}

func TestStatusEntityMutations(t *testing.T) {
	for _, tc := range statusCases() {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestServices(t, newTestDB(t))
			dept := createDepartment(t, svc, "Operations")
			fx := fixture{dept: dept, requester: createUser(t, svc, "req@example.com", dept, nil)}

			ids := []string{tc.create(t, svc, fx, "First"), tc.create(t, svc, fx, "Second")}

			t.Run("create uses the default status", func(t *testing.T) {
				label, status, d, err := tc.get(svc, ids[0])
				require.NoError(t, err)
				assert.Equal(t, "First", label)
				assert.Equal(t, tc.defaultStatus, status)
				assert.Equal(t, dept, d)
			})

			t.Run("patch changes only the given field", func(t *testing.T) {
				res, err := tc.rename(svc, ids[0], "  Renamed ")
				require.NoError(t, err)
				assert.Equal(t, []string{ids[0]}, res.IDs)

				label, status, d, err := tc.get(svc, ids[0])
				require.NoError(t, err)
				assert.Equal(t, "Renamed", label)
				assert.Equal(t, tc.defaultStatus, status)
				assert.Equal(t, dept, d)
			})

			t.Run("patch of a missing row is not found", func(t *testing.T) {
				_, err := tc.rename(svc, "ghost", "x")
				require.Error(t, err)
				assert.True(t, domain.IsNotFound(err))
			})

			t.Run("bulk status", func(t *testing.T) {
				res, err := tc.setStatus(svc, ids, tc.nextStatus)
				require.NoError(t, err)
				assert.Equal(t, "Status of 2 "+tc.plural+" set to "+tc.nextStatus, res.Message)
				for _, id := range ids {
					_, status, _, err := tc.get(svc, id)
					require.NoError(t, err)
					assert.Equal(t, tc.nextStatus, status)
				}
			})

			t.Run("unknown id fails the whole batch", func(t *testing.T) {
				_, err := tc.setStatus(svc, []string{ids[0], "ghost"}, tc.defaultStatus)
				require.Error(t, err)
				assert.True(t, domain.IsNotFound(err))
				_, status, _, err := tc.get(svc, ids[0])
				require.NoError(t, err)
				assert.Equal(t, tc.nextStatus, status)
			})

			t.Run("unknown status is rejected", func(t *testing.T) {
				_, err := tc.setStatus(svc, ids, "MISPLACED")
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err))
			})

			t.Run("delete is idempotent", func(t *testing.T) {
				res, err := tc.remove(svc, []string{ids[0], "ghost"})
				require.NoError(t, err)
				assert.Equal(t, "1 "+tc.singular+" deleted", res.Message)

				res, err = tc.remove(svc, []string{ids[0]})
				require.NoError(t, err)
				assert.Equal(t, "0 "+tc.plural+" deleted", res.Message)
				assert.Equal(t, 0, res.Count)

				_, _, _, err = tc.get(svc, ids[0])
				assert.True(t, domain.IsNotFound(err))
				_, _, _, err = tc.get(svc, ids[1])
				assert.NoError(t, err)
			})
		})
	}
}

func TestDeleteDetachesReferences(t *testing.T) {
	svc := newTestServices(t, newTestDB(t))
	ctx := context.Background()
	dept := createDepartment(t, svc, "Facilities")
	requester := createUser(t, svc, "ops@example.com", dept, nil)

	t.Run("vehicle and venue", func(t *testing.T) {
		vehicle := createVehicle(t, svc, "TR-1", dept)
		venue := createVenue(t, svc, "Hall", dept)
		res, err := svc.Requests.Create(ctx, models.RequestInput{
			Title: "Field trip", Type: models.RequestTransport, DepartmentID: dept, RequesterID: requester,
			VehicleID: &vehicle, VenueID: &venue,
		}, "")
		require.NoError(t, err)
		id := res.IDs[0]

		_, err = svc.Vehicles.Delete(ctx, []string{vehicle}, "")
		require.NoError(t, err)
		_, err = svc.Venues.Delete(ctx, []string{venue}, "")
		require.NoError(t, err)

		req, err := svc.Requests.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, req.VehicleID)
		assert.Nil(t, req.VenueID)

		_, err = svc.Requests.Update(ctx, id, models.RequestPatch{Notes: ptr("bus instead")}, "")
		require.NoError(t, err)
	})

	t.Run("category", func(t *testing.T) {
		res, err := svc.Categories.Create(ctx, models.CategoryInput{Name: "Electronics"}, "")
		require.NoError(t, err)
		category := res.IDs[0]

		res, err = svc.Inventory.Create(ctx, models.InventoryItemInput{Name: "Projector", DepartmentID: dept, CategoryID: &category}, "")
		require.NoError(t, err)
		item := res.IDs[0]
		res, err = svc.Supplies.Create(ctx, models.SupplyItemInput{Name: "Batteries", DepartmentID: dept, CategoryID: &category}, "")
		require.NoError(t, err)
		supply := res.IDs[0]

		_, err = svc.Categories.Delete(ctx, []string{category}, "")
		require.NoError(t, err)

		it, err := svc.Inventory.Get(ctx, item)
		require.NoError(t, err)
		assert.Nil(t, it.CategoryID)
		sup, err := svc.Supplies.Get(ctx, supply)
		require.NoError(t, err)
		assert.Nil(t, sup.CategoryID)
	})
}

func TestDepartmentDeleteKeepsOthersEditable(t *testing.T) {
	svc := newTestServices(t, newTestDB(t))
	ctx := context.Background()
	deptA := createDepartment(t, svc, "Alpha")
	deptB := createDepartment(t, svc, "Beta")
	res, err := svc.Sections.Create(ctx, models.SectionInput{Name: "Alpha One", DepartmentID: deptA}, "")
	require.NoError(t, err)
	section := res.IDs[0]

	user := createUser(t, svc, "beta@example.com", deptB, &section)
	vehicle := createVehicle(t, svc, "AL-1", deptA)

	_, err = svc.Departments.Delete(ctx, []string{deptA}, "")
	require.NoError(t, err)

	u, err := svc.Users.Get(ctx, user)
	require.NoError(t, err)
	assert.Nil(t, u.SectionID)
	assert.Equal(t, deptB, u.DepartmentID)

	_, err = svc.Users.Update(ctx, user, models.UserPatch{FirstName: ptr("Renamed")}, "")
	require.NoError(t, err)
	_, err = svc.Vehicles.Update(ctx, vehicle, models.VehiclePatch{Name: ptr("Renamed van")}, "")
	require.NoError(t, err)

	t.Run("changing to a missing department still fails", func(t *testing.T) {
		_, err := svc.Vehicles.Update(ctx, vehicle, models.VehiclePatch{DepartmentID: ptr("ghost")}, "")
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		assert.Equal(t, "departmentId: department does not exist", domain.UserMessage(err))
	})
}

func TestRequestListFacetsAndDateRange(t *testing.T) {
	svc := newTestServices(t, newTestDB(t))
	ctx := context.Background()
	dept := createDepartment(t, svc, "Maintenance")
	requester := createUser(t, svc, "asker@example.com", dept, nil)

	add := func(title string, typ models.RequestType, status models.RequestStatus) {
		_, err := svc.Requests.Create(ctx, models.RequestInput{
			Title: title, Type: typ, Status: status, DepartmentID: dept, RequesterID: requester,
		}, "")
		require.NoError(t, err)
	}
	add("Fix sink", models.RequestJob, models.RequestPending)
	add("Borrow chairs", models.RequestBorrow, models.RequestApproved)
	add("Paint wall", models.RequestJob, models.RequestApproved)

	yesterday := utils.FormatDate(time.Now().UTC().AddDate(0, 0, -1))
	tomorrow := utils.FormatDate(time.Now().UTC().AddDate(0, 0, 1))

	tests := []struct {
		name   string
		values url.Values
		titles []string
	}{
		{"type", url.Values{"type": {"JOB"}}, []string{"Fix sink", "Paint wall"}},
		{"type and status", url.Values{"type": {"JOB"}, "status": {"APPROVED"}}, []string{"Paint wall"}},
		{"unknown enum value dropped", url.Values{"type": {"BORROW,PARTY"}}, []string{"Borrow chairs"}},
		{"any of several statuses", url.Values{"status": {"PENDING", "APPROVED"}}, []string{"Borrow chairs", "Fix sink", "Paint wall"}},
		{"range covering today", url.Values{"from": {yesterday}, "to": {tomorrow}}, []string{"Borrow chairs", "Fix sink", "Paint wall"}},
		{"range ending yesterday", url.Values{"to": {yesterday}}, nil},
		{"range starting tomorrow", url.Values{"from": {tomorrow}, "type": {"JOB"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.values.Set("sort", "title.asc")
			page, err := svc.Requests.List(ctx, query.Decode(tt.values, svc.Requests.Schema()))
			require.NoError(t, err)
			var titles []string
			for _, r := range page.Data {
				titles = append(titles, r.Title)
			}
			assert.Equal(t, tt.titles, titles)
			assert.Equal(t, len(tt.titles), page.Total)
		})
	}
}

func TestMutationsAreLogged(t *testing.T) {
	svc := newTestServices(t, newTestDB(t))
	ctx := WithRequestID(context.Background(), "req-7")
	dept := createDepartment(t, svc, "Logistics")
	venue := createVenue(t, svc, "Annex", dept)

	level, out := utils.Log.GetLevel(), utils.Log.Out
	utils.Log.SetLevel(logrus.InfoLevel)
	utils.Log.SetOutput(io.Discard)
	hook := logtest.NewLocal(utils.Log)
	t.Cleanup(func() {
		utils.Log.SetLevel(level)
		utils.Log.SetOutput(out)
		utils.Log.ReplaceHooks(make(logrus.LevelHooks))
	})

	_, err := svc.Venues.UpdateStatus(ctx, []string{venue}, models.VenueInUse, "")
	require.NoError(t, err)
	_, err = svc.Venues.Delete(ctx, []string{venue}, "")
	require.NoError(t, err)

	var actions []string
	for _, e := range hook.AllEntries() {
		if e.Data["module"] != "VENUE" {
			continue
		}
		assert.Equal(t, "req-7", e.Data["request_id"])
		actions = append(actions, e.Data["action"].(string)+" "+e.Message)
	}
	assert.Equal(t, []string{"status IN_USE", "delete ids=" + venue}, actions)
}
