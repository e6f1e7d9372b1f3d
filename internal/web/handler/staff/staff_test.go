package staff_test

import (
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrmsuite/hrms/internal/db/models"
	"github.com/hrmsuite/hrms/internal/rbac"
	"github.com/hrmsuite/hrms/internal/web/handler/handlertest"
	"github.com/hrmsuite/hrms/internal/web/handler/staff"
)

type fixture struct {
	env      *handlertest.Env
	admin    string
	hr       string
	acme     uint
	acmeEast uint
	globex   uint
	globexW  uint
}

func setup(t *testing.T) fixture {
	t.Helper()

	env := handlertest.New(t)
	new(staff.Service).Init(env.API, env.Cfg, env.DB, env.Gate)

	acme, acmeEast := env.Tenant(t, "Acme")
	globex, globexW := env.Tenant(t, "Globex")

	_, admin := env.User(t, "root", nil, nil, rbac.RoleAdmin)
	_, hr := env.User(t, "hr", &acme, &acmeEast, rbac.RoleHR)

	return fixture{env: env, admin: admin, hr: hr, acme: acme, acmeEast: acmeEast, globex: globex, globexW: globexW}
}

func (f fixture) member(t *testing.T, number string, orgID, companyID *uint) models.Staff {
	t.Helper()

	m := models.Staff{
		OrgID:          orgID,
		CompanyID:      companyID,
		EmployeeNumber: number,
		FirstName:      "First " + number,
		LastName:       "Last " + number,
	}
	require.NoError(t, f.env.DB.Create(&m).Error)

	return m
}

func staffPath(id uint64) string {
	return "/api/staff/" + strconv.FormatUint(id, 10)
}

func TestListIsolation(t *testing.T) {
	f := setup(t)

	f.member(t, "A-1", &f.acme, &f.acmeEast)
	f.member(t, "A-2", &f.acme, &f.acmeEast)
	f.member(t, "G-1", &f.globex, &f.globexW)
	f.member(t, "X-1", nil, nil)

	numbers := func(res handlertest.Result) []string {
		var members []models.Staff
		res.Decode(t, &members)

		out := make([]string, 0, len(members))
		for _, m := range members {
			out = append(out, m.EmployeeNumber)
		}

		return out
	}

	res := f.env.Do(t, fiber.MethodGet, "/api/staff", f.hr, nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.ElementsMatch(t, []string{"A-1", "A-2", "X-1"}, numbers(res))
	assert.Equal(t, int64(3), res.Meta.Total)

	res = f.env.Do(t, fiber.MethodGet, "/api/staff", f.admin, nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Len(t, numbers(res), 4)

	res = f.env.Do(t, fiber.MethodGet, "/api/staff?search=g-1", f.hr, nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Empty(t, numbers(res))

	res = f.env.Do(t, fiber.MethodGet, "/api/staff?per_page=1&page=2", f.hr, nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Len(t, numbers(res), 1)
	assert.Equal(t, 2, res.Meta.CurrentPage)
}

func TestGet(t *testing.T) {
	f := setup(t)

	own := f.member(t, "A-1", &f.acme, &f.acmeEast)
	foreign := f.member(t, "G-1", &f.globex, &f.globexW)

	testCases := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{name: "own tenant", target: staffPath(own.ID), wantStatus: fiber.StatusOK},
		{name: "other tenant", target: staffPath(foreign.ID), wantStatus: fiber.StatusForbidden},
		{name: "unknown", target: staffPath(9999), wantStatus: fiber.StatusNotFound},
		{name: "bad id", target: "/api/staff/abc", wantStatus: fiber.StatusUnprocessableEntity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := f.env.Do(t, fiber.MethodGet, tc.target, f.hr, nil)
			assert.Equal(t, tc.wantStatus, res.Status, string(res.Body))
		})
	}
}

func TestCreate(t *testing.T) {
	f := setup(t)

	t.Run("defaults to own tenant", func(t *testing.T) {
		res := f.env.Do(t, fiber.MethodPost, "/api/staff", f.hr, map[string]any{
			"employee_number": " E-100 ", "first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com",
		})
		require.Equal(t, fiber.StatusCreated, res.Status, string(res.Body))

		var got models.Staff
		res.Decode(t, &got)
		assert.Equal(t, "E-100", got.EmployeeNumber)
		require.NotNil(t, got.OrgID)
		require.NotNil(t, got.CompanyID)
		assert.Equal(t, f.acme, *got.OrgID)
		assert.Equal(t, f.acmeEast, *got.CompanyID)
	})

	t.Run("organization derived from company", func(t *testing.T) {
		res := f.env.Do(t, fiber.MethodPost, "/api/staff", f.admin, map[string]any{
			"first_name": "Grace", "last_name": "Hopper", "company_id": f.globexW,
		})
		require.Equal(t, fiber.StatusCreated, res.Status, string(res.Body))

		var got models.Staff
		res.Decode(t, &got)
		require.NotNil(t, got.OrgID)
		assert.Equal(t, f.globex, *got.OrgID)
	})

	t.Run("foreign company", func(t *testing.T) {
		res := f.env.Do(t, fiber.MethodPost, "/api/staff", f.hr, map[string]any{
			"first_name": "Eve", "last_name": "Spy", "company_id": f.globexW,
		})
		assert.Equal(t, fiber.StatusForbidden, res.Status)
	})

	t.Run("unknown company", func(t *testing.T) {
		res := f.env.Do(t, fiber.MethodPost, "/api/staff", f.admin, map[string]any{
			"first_name": "No", "last_name": "Where", "company_id": 4242,
		})
		require.Equal(t, fiber.StatusUnprocessableEntity, res.Status)
		assert.Contains(t, res.Errors, "company_id")
	})

	t.Run("linked user", func(t *testing.T) {
		own, _ := f.env.User(t, "ada", &f.acme, &f.acmeEast)
		foreign, _ := f.env.User(t, "mallory", &f.globex, &f.globexW)

		testCases := []struct {
			name       string
			userID     uint64
			wantStatus int
		}{
			{name: "own tenant", userID: own.ID, wantStatus: fiber.StatusCreated},
			{name: "foreign tenant", userID: foreign.ID, wantStatus: fiber.StatusForbidden},
			{name: "unknown user", userID: 4242, wantStatus: fiber.StatusUnprocessableEntity},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				res := f.env.Do(t, fiber.MethodPost, "/api/staff", f.hr, map[string]any{
					"first_name": "Linked", "last_name": "User", "user_id": tc.userID,
				})
				require.Equal(t, tc.wantStatus, res.Status, string(res.Body))

				if tc.wantStatus == fiber.StatusUnprocessableEntity {
					assert.Contains(t, res.Errors, "user_id")
				}
			})
		}
	})

	t.Run("validation", func(t *testing.T) {
		res := f.env.Do(t, fiber.MethodPost, "/api/staff", f.hr, map[string]any{"email": "nope"})
		require.Equal(t, fiber.StatusUnprocessableEntity, res.Status)
		assert.Contains(t, res.Errors, "first_name")
		assert.Contains(t, res.Errors, "last_name")
		assert.Contains(t, res.Errors, "email")
	})
}

func TestUpdate(t *testing.T) {
	f := setup(t)

	own := f.member(t, "A-1", &f.acme, &f.acmeEast)
	global := f.member(t, "X-1", nil, nil)
	foreign := f.member(t, "G-1", &f.globex, &f.globexW)

	res := f.env.Do(t, fiber.MethodPut, staffPath(own.ID), f.hr, map[string]any{"position": "Engineer"})
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Body))

	var got models.Staff
	res.Decode(t, &got)
	assert.Equal(t, "Engineer", got.Position)
	assert.Equal(t, own.FirstName, got.FirstName)

	// readable but not writable below the admin tier
	res = f.env.Do(t, fiber.MethodPut, staffPath(global.ID), f.hr, map[string]any{"position": "Boss"})
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = f.env.Do(t, fiber.MethodPut, staffPath(foreign.ID), f.hr, map[string]any{"position": "Boss"})
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = f.env.Do(t, fiber.MethodPut, staffPath(global.ID), f.admin, map[string]any{"position": "Boss"})
	assert.Equal(t, fiber.StatusOK, res.Status)
}

func TestDelete(t *testing.T) {
	f := setup(t)

	own := f.member(t, "A-1", &f.acme, &f.acmeEast)
	global := f.member(t, "X-1", nil, nil)

	res := f.env.Do(t, fiber.MethodDelete, staffPath(global.ID), f.hr, nil)
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = f.env.Do(t, fiber.MethodDelete, staffPath(own.ID), f.hr, nil)
	require.Equal(t, fiber.StatusOK, res.Status)

	res = f.env.Do(t, fiber.MethodGet, staffPath(own.ID), f.hr, nil)
	assert.Equal(t, fiber.StatusNotFound, res.Status)
}

func TestRequiresPermission(t *testing.T) {
	f := setup(t)

	_, plain := f.env.User(t, "plain", &f.acme, &f.acmeEast, rbac.RoleUser)

	res := f.env.Do(t, fiber.MethodDelete, staffPath(1), plain, nil)
	assert.Equal(t, fiber.StatusForbidden, res.Status)
}
