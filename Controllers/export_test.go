package Controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"Summit/Models"
	"Summit/OKR"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newExportApp(t *testing.T) (*fiber.App, *OKRController) {
	t.Helper()
	setupTestDB(t)

	store := OKR.NewSyncStore(Models.DB, "")
	ctrl := NewOKRController(store)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", testUser)
		return c.Next()
	})
	app.Get("/api/okr/export", ctrl.ExportExcel)
	app.Post("/api/okr/import", ctrl.ImportExcel)
	app.Post("/api/okr/objectives", ctrl.CreateObjective)
	return app, ctrl
}

func TestExportProducesSpreadsheet(t *testing.T) {
	app, _ := newExportApp(t)

	postJSON(t, app, "/api/okr/objectives", map[string]string{
		"department": "Sales",
		"name":       "Double leads",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/okr/export", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("OKRs")
	require.NoError(t, err)
	// header plus the one placeholder row
	require.Len(t, rows, 2)
	assert.Equal(t, "Department", rows[0][0])
	assert.Equal(t, "Sales", rows[1][0])
	assert.Equal(t, "Double leads", rows[1][1])
}

func TestRowsToRecords(t *testing.T) {
	rows := [][]string{
		{"Department", "Objective", "KR", "KR ID", "Task", "Task ID", "Status", "Responsible", "Deadline", "Current", "Target", "Tenant"},
		{"Sales", "Double leads", "Signed deals", "kr-1", "Call prospects", "t-1", "In Progress", "Ana", "2026-09-01", "4", "10", "ignored"},
		{"Sales", "Double leads", "Signed deals", "kr-1", "Pitch deck", "t-2", "Done", "", "", "4", "10", "ignored"},
		{},
		{"Engineering", "Ship v2", "", "", "", "", "", "", "", "", "", ""},
	}

	records := rowsToRecords(rows, "acme")
	require.Len(t, records, 3)
	assert.Equal(t, "acme", records[0].Tenant, "tenant comes from the session, not the file")
	assert.Equal(t, "Signed deals", records[0].KR)
	assert.Equal(t, 4.0, records[0].Current)
	assert.Equal(t, 10.0, records[0].Target)
	assert.Equal(t, "Ship v2", records[2].Objective)
	assert.Empty(t, records[2].KR)
}

func TestImportReplacesBoard(t *testing.T) {
	app, ctrl := newExportApp(t)

	// seed and export a board, then wipe and import the same file back
	postJSON(t, app, "/api/okr/objectives", map[string]string{
		"department": "Sales",
		"name":       "Double leads",
	})
	req := httptest.NewRequest(http.MethodGet, "/api/okr/export", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	exported, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "board.xlsx")
	require.NoError(t, err)
	_, err = part.Write(exported)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	importReq := httptest.NewRequest(http.MethodPost, "/api/okr/import", &buf)
	importReq.Header.Set("Content-Type", writer.FormDataContentType())
	importResp, err := app.Test(importReq, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, importResp.StatusCode)

	var result struct {
		Imported int  `json:"imported"`
		Dirty    bool `json:"dirty"`
	}
	require.NoError(t, json.NewDecoder(importResp.Body).Decode(&result))
	assert.Equal(t, 1, result.Imported)
	assert.True(t, result.Dirty)

	sess := OKR.NewSession(ctrl.Store, testUser.Tenant)
	sess.Load()
	assert.Empty(t, sess.Objectives(), "import must not persist anything before save")
}

func TestImportRejectsNonSpreadsheet(t *testing.T) {
	app, _ := newExportApp(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a spreadsheet"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/okr/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
