package document_test

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrmsuite/hrms/internal/db/models"
	"github.com/hrmsuite/hrms/internal/rbac"
	"github.com/hrmsuite/hrms/internal/storage"
	"github.com/hrmsuite/hrms/internal/web/handler/document"
	"github.com/hrmsuite/hrms/internal/web/handler/handlertest"
)

type fixture struct {
	env      *handlertest.Env
	fs       afero.Fs
	admin    string
	manager  string
	hr       string
	outsider string
	acme     uint
	acmeEast uint
	global   models.DocumentLocation
}

func setup(t *testing.T) fixture {
	t.Helper()

	env := handlertest.New(t)
	fs := afero.NewMemMapFs()
	new(document.Service).Init(env.API, env.Cfg, env.DB, env.Gate, storage.NewFactory(env.Cfg.Storage, fs))

	acme, acmeEast := env.Tenant(t, "Acme")
	globex, globexW := env.Tenant(t, "Globex")

	_, admin := env.User(t, "root", nil, nil, rbac.RoleAdmin)
	_, manager := env.User(t, "manager", &acme, &acmeEast, rbac.RoleCompany)
	_, hr := env.User(t, "hr", &acme, &acmeEast, rbac.RoleHR)
	_, outsider := env.User(t, "outsider", &globex, &globexW, rbac.RoleCompany)

	global := models.DocumentLocation{Name: "Global", LocationType: models.LocationLocal, IsDefault: true}
	require.NoError(t, env.DB.Create(&global).Error)

	return fixture{
		env:      env,
		fs:       fs,
		admin:    admin,
		manager:  manager,
		hr:       hr,
		outsider: outsider,
		acme:     acme,
		acmeEast: acmeEast,
		global:   global,
	}
}

func (f fixture) upload(t *testing.T, token, filename, content string, fields map[string]string) handlertest.Result {
	t.Helper()

	var body bytes.Buffer

	w := multipart.NewWriter(&body)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+document.FormFile+`"; filename="`+filename+`"`)
		header.Set(fiber.HeaderContentType, fiber.MIMETextPlain)

		part, err := w.CreatePart(header)
		require.NoError(t, err)

		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/documents", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())

	return f.env.Send(t, req, token)
}

func docPath(id uint64, suffix string) string {
	return "/api/documents/" + strconv.FormatUint(id, 10) + suffix
}

func TestUploadAndDownload(t *testing.T) {
	f := setup(t)

	res := f.upload(t, f.hr, "contract.txt", "signed", nil)
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Body))

	var doc models.Document
	res.Decode(t, &doc)
	assert.Equal(t, "contract.txt", doc.Name)
	assert.Equal(t, fiber.MIMETextPlain, doc.ContentType)
	assert.Equal(t, int64(len("signed")), doc.Size)
	assert.Equal(t, f.global.ID, doc.LocationID)
	require.NotNil(t, doc.CompanyID)
	assert.Equal(t, f.acmeEast, *doc.CompanyID)

	var stored models.Document
	require.NoError(t, f.env.DB.First(&stored, doc.ID).Error)

	content, err := afero.ReadFile(f.fs, "/documents/"+stored.ObjectKey)
	require.NoError(t, err)
	assert.Equal(t, "signed", string(content))

	res = f.env.Do(t, fiber.MethodGet, docPath(doc.ID, "/download"), f.hr, nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Equal(t, "signed", string(res.Body))
	assert.Equal(t, fiber.MIMETextPlain, res.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename=contract.txt`, res.Header.Get(fiber.HeaderContentDisposition))

	res = f.env.Do(t, fiber.MethodGet, docPath(doc.ID, ""), f.outsider, nil)
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = f.env.Do(t, fiber.MethodGet, docPath(doc.ID, "/download"), f.outsider, nil)
	assert.Equal(t, fiber.StatusForbidden, res.Status)
}

func TestUploadLocation(t *testing.T) {
	f := setup(t)

	companyDefault := models.DocumentLocation{
		Name: "Acme", LocationType: models.LocationLocal, IsDefault: true, OrgID: &f.acme, CompanyID: &f.acmeEast,
	}
	require.NoError(t, f.env.DB.Create(&companyDefault).Error)

	res := f.upload(t, f.hr, "a.txt", "a", nil)
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Body))

	var doc models.Document
	res.Decode(t, &doc)
	assert.Equal(t, companyDefault.ID, doc.LocationID)

	// an explicit location wins over the default
	res = f.upload(t, f.hr, "b.txt", "b", map[string]string{"location_id": strconv.FormatUint(f.global.ID, 10)})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Body))
	res.Decode(t, &doc)
	assert.Equal(t, f.global.ID, doc.LocationID)

	// a location of another tenant can not be used
	res = f.upload(t, f.outsider, "c.txt", "c", map[string]string{"location_id": strconv.FormatUint(companyDefault.ID, 10)})
	assert.Equal(t, fiber.StatusForbidden, res.Status)
}

func TestUploadStaff(t *testing.T) {
	f := setup(t)

	member := models.Staff{OrgID: &f.acme, CompanyID: &f.acmeEast, FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, f.env.DB.Create(&member).Error)

	staffID := strconv.FormatUint(member.ID, 10)

	// the admin has no tenant, the document takes the staff member's
	res := f.upload(t, f.admin, "cv.txt", "cv", map[string]string{"staff_id": staffID})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Body))

	var doc models.Document
	res.Decode(t, &doc)
	require.NotNil(t, doc.StaffID)
	assert.Equal(t, member.ID, *doc.StaffID)
	require.NotNil(t, doc.CompanyID)
	assert.Equal(t, f.acmeEast, *doc.CompanyID)

	res = f.upload(t, f.outsider, "cv.txt", "cv", map[string]string{"staff_id": staffID})
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = f.upload(t, f.hr, "cv.txt", "cv", map[string]string{"staff_id": "999"})
	assert.Equal(t, fiber.StatusNotFound, res.Status)

	res = f.env.Do(t, fiber.MethodGet, "/api/documents?staff_id="+staffID, f.hr, nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Equal(t, int64(1), res.Meta.Total)
}

func TestUploadRejects(t *testing.T) {
	f := setup(t)

	testCases := []struct {
		name       string
		filename   string
		content    string
		fields     map[string]string
		wantStatus int
		wantField  string
	}{
		{name: "no file", wantStatus: fiber.StatusUnprocessableEntity, wantField: document.FormFile},
		{
			name:       "too large",
			filename:   "big.txt",
			content:    string(bytes.Repeat([]byte("x"), f.env.Cfg.Storage.MaxUploadSize+1)),
			wantStatus: fiber.StatusUnprocessableEntity,
			wantField:  document.FormFile,
		},
		{
			name:       "bad company",
			filename:   "a.txt",
			content:    "a",
			fields:     map[string]string{"company_id": "-1"},
			wantStatus: fiber.StatusUnprocessableEntity,
			wantField:  "company_id",
		},
		{
			name:       "bad location",
			filename:   "a.txt",
			content:    "a",
			fields:     map[string]string{"location_id": "x"},
			wantStatus: fiber.StatusUnprocessableEntity,
			wantField:  "location_id",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := f.upload(t, f.hr, tc.filename, tc.content, tc.fields)
			require.Equal(t, tc.wantStatus, res.Status, string(res.Body))
			assert.Contains(t, res.Errors, tc.wantField)
		})
	}

	var count int64
	require.NoError(t, f.env.DB.Model(&models.Document{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDelete(t *testing.T) {
	f := setup(t)

	res := f.upload(t, f.hr, "payslip.txt", "1000", nil)
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Body))

	var doc models.Document
	res.Decode(t, &doc)

	var stored models.Document
	require.NoError(t, f.env.DB.First(&stored, doc.ID).Error)

	// hr may upload but not delete
	res = f.env.Do(t, fiber.MethodDelete, docPath(doc.ID, ""), f.hr, nil)
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = f.env.Do(t, fiber.MethodDelete, docPath(doc.ID, ""), f.outsider, nil)
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = f.env.Do(t, fiber.MethodDelete, docPath(doc.ID, ""), f.manager, nil)
	require.Equal(t, fiber.StatusOK, res.Status)

	exists, err := afero.Exists(f.fs, "/documents/"+stored.ObjectKey)
	require.NoError(t, err)
	assert.False(t, exists)

	res = f.env.Do(t, fiber.MethodGet, docPath(doc.ID, ""), f.manager, nil)
	assert.Equal(t, fiber.StatusNotFound, res.Status)
}
