// Package handlertest wires a seeded in-memory database, a token service and a fiber app
// for handler tests.
package handlertest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/auth"
	"github.com/hrmsuite/hrms/internal/config"
	hrmsdb "github.com/hrmsuite/hrms/internal/db"
	"github.com/hrmsuite/hrms/internal/db/models"
	"github.com/hrmsuite/hrms/internal/rbac"
	"github.com/hrmsuite/hrms/internal/web/handler"
)

// Env is a ready to use API test environment. Handlers register on API, which requires a
// bearer token.
type Env struct {
	Cfg    *config.Config
	DB     *gorm.DB
	Gate   *auth.Service
	Tokens *auth.TokenService
	App    *fiber.App
	API    fiber.Router
}

// Result is a decoded API response.
type Result struct {
	Status int
	Header http.Header
	Body   []byte
	handler.Response
}

// New creates an Env with the permission catalog seeded.
func New(t *testing.T) *Env {
	t.Helper()

	db, err := hrmsdb.OpenMemory()
	require.NoError(t, err, "failed to create test database")

	_, err = rbac.Seed(context.Background(), db)
	require.NoError(t, err, "failed to seed test database")

	cfg := &config.Config{
		Title:     "HRMS test",
		Webserver: config.Webserver{Port: 8080, URL: "http://localhost"},
		Auth: config.Auth{
			TokenSecret: strings.Repeat("t", config.MinTokenSecretLen),
			TokenTTL:    time.Hour,
			Issuer:      "hrms-test",
		},
		Storage: config.Storage{LocalRoot: "/documents", MaxUploadSize: 1 << 20},
	}

	store := memory.New()
	t.Cleanup(func() { _ = store.Close() })

	gate := auth.NewService(db)
	tokens := auth.NewTokenService(cfg.Auth, store)

	app := fiber.New(fiber.Config{
		ErrorHandler: handler.ErrorHandler,
		BodyLimit:    cfg.Storage.MaxUploadSize * 2, //nolint:mnd
	})

	return &Env{
		Cfg:    cfg,
		DB:     db,
		Gate:   gate,
		Tokens: tokens,
		App:    app,
		API:    app.Group(handler.APIPath, auth.Authenticate(tokens, gate)),
	}
}

// Tenant creates an organization with one company and returns both ids.
func (e *Env) Tenant(t *testing.T, name string) (orgID, companyID uint) {
	t.Helper()

	org := models.Organization{Name: name}
	require.NoError(t, e.DB.Create(&org).Error)

	company := models.Company{OrgID: org.ID, Name: name + " Ltd"}
	require.NoError(t, e.DB.Create(&company).Error)

	return org.ID, company.ID
}

// User creates an active user holding roles and returns it with a bearer token.
func (e *Env) User(t *testing.T, username string, orgID, companyID *uint, roles ...string) (models.User, string) {
	t.Helper()

	hash, err := models.HashPassword("password")
	require.NoError(t, err)

	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  hash,
		Active:    true,
		OrgID:     orgID,
		CompanyID: companyID,
	}
	require.NoError(t, e.DB.Create(&user).Error)
	require.NoError(t, rbac.NewRoleService(e.DB).AssignToUser(context.Background(), user.ID, roles, 0))

	token, _, err := e.Tokens.Issue(&user)
	require.NoError(t, err)

	return user, token
}

// Role creates a custom role holding exactly permissions.
func (e *Env) Role(t *testing.T, name string, permissions ...string) models.Role {
	t.Helper()

	ctx := context.Background()
	svc := rbac.NewRoleService(e.DB)

	role, err := svc.Create(ctx, rbac.RoleInput{Name: name})
	require.NoError(t, err)
	require.NoError(t, svc.SyncPermissions(ctx, role.ID, permissions))

	return *role
}

// Do sends a request with an optional JSON body and decodes the envelope.
func (e *Env) Do(t *testing.T, method, target, token string, body any) Result {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	return e.Send(t, req, token)
}

// Send sends req and decodes the envelope when the response is JSON.
func (e *Env) Send(t *testing.T, req *http.Request, token string) Result {
	t.Helper()

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	res := Result{Status: resp.StatusCode, Header: resp.Header, Body: raw}

	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &res.Response), string(raw))
	}

	return res
}

// Decode re-decodes the data member of the envelope into dst.
func (r Result) Decode(t *testing.T, dst any) {
	t.Helper()

	raw, err := json.Marshal(r.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dst))
}

// UintPtr returns a pointer to v.
func UintPtr(v uint) *uint { return &v }
