package role_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrmsuite/hrms/internal/db/models"
	"github.com/hrmsuite/hrms/internal/rbac"
	"github.com/hrmsuite/hrms/internal/report"
	"github.com/hrmsuite/hrms/internal/web/handler/handlertest"
	"github.com/hrmsuite/hrms/internal/web/handler/role"
)

func setup(t *testing.T) (*handlertest.Env, string) {
	t.Helper()

	env := handlertest.New(t)
	new(role.Service).Init(env.API, env.Cfg, env.DB, env.Gate)

	_, token := env.User(t, "root", nil, nil, rbac.RoleAdmin)

	return env, token
}

func roleID(t *testing.T, env *handlertest.Env, name string) string {
	t.Helper()

	r, err := rbac.NewRoleService(env.DB).GetByName(context.Background(), name)
	require.NoError(t, err)

	return strconv.FormatUint(uint64(r.ID), 10)
}

func TestCreate(t *testing.T) {
	env, token := setup(t)

	testCases := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantField  string
		wantLevel  int
	}{
		{
			name:       "default level",
			body:       map[string]any{"name": "auditor", "description": "Reads staff"},
			wantStatus: fiber.StatusCreated,
			wantLevel:  models.LevelCustomDefault,
		},
		{
			name:       "explicit level",
			body:       map[string]any{"name": "team_lead", "hierarchy_level": 30},
			wantStatus: fiber.StatusCreated,
			wantLevel:  30,
		},
		{
			name:       "duplicate name",
			body:       map[string]any{"name": rbac.RoleHR},
			wantStatus: fiber.StatusConflict,
		},
		{
			name:       "missing name",
			body:       map[string]any{"description": "x"},
			wantStatus: fiber.StatusUnprocessableEntity,
			wantField:  "name",
		},
		{
			name:       "level out of range",
			body:       map[string]any{"name": "too_low", "hierarchy_level": 100},
			wantStatus: fiber.StatusUnprocessableEntity,
			wantField:  "hierarchy_level",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := env.Do(t, fiber.MethodPost, "/api/roles", token, tc.body)
			require.Equal(t, tc.wantStatus, res.Status, string(res.Body))

			if tc.wantField != "" {
				assert.Contains(t, res.Errors, tc.wantField)
			}

			if tc.wantStatus != fiber.StatusCreated {
				assert.False(t, res.Success)
				return
			}

			var created models.Role
			res.Decode(t, &created)
			assert.Equal(t, tc.wantLevel, created.HierarchyLevel)
			assert.False(t, created.IsSystem)
		})
	}
}

func TestGetAndList(t *testing.T) {
	env, token := setup(t)

	res := env.Do(t, fiber.MethodGet, "/api/roles/"+roleID(t, env, rbac.RoleUser), token, nil)
	require.Equal(t, fiber.StatusOK, res.Status)

	var detail rbac.RoleDetail
	res.Decode(t, &detail)
	assert.Equal(t, rbac.RoleUser, detail.Name)
	assert.Contains(t, detail.Permissions, rbac.PermViewDocuments)

	res = env.Do(t, fiber.MethodGet, "/api/roles/9999", token, nil)
	assert.Equal(t, fiber.StatusNotFound, res.Status)

	res = env.Do(t, fiber.MethodGet, "/api/roles/abc", token, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.Status)

	res = env.Do(t, fiber.MethodGet, "/api/roles", token, nil)
	require.Equal(t, fiber.StatusOK, res.Status)

	var roles []rbac.RoleDetail
	res.Decode(t, &roles)
	require.NotEmpty(t, roles)
	assert.Equal(t, rbac.RoleAdmin, roles[0].Name)
}

func TestUpdateSystemRole(t *testing.T) {
	env, token := setup(t)
	id := roleID(t, env, rbac.RoleHR)

	res := env.Do(t, fiber.MethodPut, "/api/roles/"+id, token, map[string]any{"name": "people_ops"})
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = env.Do(t, fiber.MethodPut, "/api/roles/"+id, token, map[string]any{"hierarchy_level": 2})
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	// unchanged name and level are accepted together with a new description
	res = env.Do(t, fiber.MethodPut, "/api/roles/"+id, token, map[string]any{
		"name": rbac.RoleHR, "hierarchy_level": models.LevelHR, "description": "People team",
	})
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Body))

	var updated models.Role
	res.Decode(t, &updated)
	assert.Equal(t, "People team", updated.Description)
}

func TestDelete(t *testing.T) {
	env, token := setup(t)

	res := env.Do(t, fiber.MethodDelete, "/api/roles/"+roleID(t, env, rbac.RoleUser), token, nil)
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	custom := env.Role(t, "temp", rbac.PermViewStaff)
	env.User(t, "holder", nil, nil, "temp")

	res = env.Do(t, fiber.MethodDelete, "/api/roles/"+strconv.FormatUint(uint64(custom.ID), 10), token, nil)
	require.Equal(t, fiber.StatusOK, res.Status)

	var count int64
	require.NoError(t, env.DB.Model(&models.UserRole{}).Where("role_id = ?", custom.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSync(t *testing.T) {
	env, token := setup(t)

	custom := env.Role(t, "auditor", rbac.PermViewStaff)
	path := "/api/roles/" + strconv.FormatUint(uint64(custom.ID), 10) + "/permissions/sync"

	res := env.Do(t, fiber.MethodPost, path, token, map[string]any{
		"permissions": []string{rbac.PermViewStaff, rbac.PermViewDocuments},
	})
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Body))

	var detail rbac.RoleDetail
	res.Decode(t, &detail)
	assert.ElementsMatch(t, []string{rbac.PermViewStaff, rbac.PermViewDocuments}, detail.Permissions)

	// one unknown name rejects the whole request and keeps the previous set
	res = env.Do(t, fiber.MethodPost, path, token, map[string]any{
		"permissions": []string{rbac.PermEditStaff, "fly_to_moon"},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, res.Status)
	assert.Contains(t, res.Errors, "permissions")

	stored, err := rbac.NewRoleService(env.DB).Get(context.Background(), custom.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{rbac.PermViewStaff, rbac.PermViewDocuments}, stored.Permissions)

	res = env.Do(t, fiber.MethodPost, path, token, map[string]any{"permissions": []string{}})
	require.Equal(t, fiber.StatusOK, res.Status)
	res.Decode(t, &detail)
	assert.Empty(t, detail.Permissions)

	res = env.Do(t, fiber.MethodPost, path, token, map[string]any{})
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.Status)
}

func TestEscalationGuard(t *testing.T) {
	env, _ := setup(t)

	env.Role(t, "role_editor", rbac.PermCreateRoles, rbac.PermEditRoles, rbac.PermViewRoles)
	_, token := env.User(t, "editor", nil, nil, "role_editor")

	res := env.Do(t, fiber.MethodPost, "/api/roles", token, map[string]any{"name": "boss", "hierarchy_level": 2})
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = env.Do(t, fiber.MethodPost, "/api/roles", token, map[string]any{"name": "peer"})
	assert.Equal(t, fiber.StatusCreated, res.Status)

	res = env.Do(t, fiber.MethodPost, "/api/roles/"+roleID(t, env, rbac.RoleAdmin)+"/permissions/sync", token,
		map[string]any{"permissions": []string{}})
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	own := "/api/roles/" + roleID(t, env, "role_editor") + "/permissions/sync"
	res = env.Do(t, fiber.MethodPost, own, token,
		map[string]any{"permissions": []string{rbac.PermViewRoles, rbac.PermDeleteStaff}})
	assert.Equal(t, fiber.StatusForbidden, res.Status)
	assert.Contains(t, res.Errors, "permissions")

	peer := "/api/roles/" + roleID(t, env, "peer") + "/permissions/sync"
	res = env.Do(t, fiber.MethodPost, peer, token,
		map[string]any{"permissions": []string{rbac.PermViewRoles, rbac.PermEditRoles}})
	assert.Equal(t, fiber.StatusOK, res.Status)

	res = env.Do(t, fiber.MethodPost, peer, token, map[string]any{"permissions": []string{"no_such_permission"}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, res.Status)
}

func TestMatrix(t *testing.T) {
	env, token := setup(t)

	res := env.Do(t, fiber.MethodGet, "/api/roles/matrix.xlsx", token, nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Equal(t, report.ContentTypeXLSX, res.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, res.Header.Get(fiber.HeaderContentDisposition), "role-matrix-")
	assert.NotEmpty(t, res.Body)

	env.Role(t, "viewer", rbac.PermViewRoles)
	_, viewer := env.User(t, "viewer", nil, nil, "viewer")

	res = env.Do(t, fiber.MethodGet, "/api/roles/matrix.xlsx", viewer, nil)
	assert.Equal(t, fiber.StatusForbidden, res.Status)
}
