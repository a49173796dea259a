package controller

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/ikkim/consultation-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportController_Export(t *testing.T) {
	env := setupControllerTest(t, nil)
	env.createConsultation(t, "배송 문의", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	env.createConsultation(t, "견적 문의", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	t.Run("CSV with filters", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/consultations/export?format=csv&date_to=2024-01-31", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, service.CSVContentType, w.Header().Get("Content-Type"))

		body := w.Body.Bytes()
		require.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}))
		records, err := csv.NewReader(bytes.NewReader(body[3:])).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, service.ExportHeaders(), records[0])
		assert.Contains(t, records[1], "배송 문의")
		assert.NotContains(t, records[1], "견적 문의")
	})

	t.Run("Default xlsx", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/consultations/export", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, service.XLSXContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	})

	t.Run("Unsupported format", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/consultations/export?format=pdf", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExportController_Archive(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		env := setupControllerTest(t, nil)

		w := env.do(t, http.MethodPost, "/consultations/export/archive", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "ARCHIVE_UNAVAILABLE", decodeJSON(t, w)["error"])
	})

	t.Run("Uploads and returns link", func(t *testing.T) {
		archive := &fakeArchive{}
		env := setupControllerTest(t, archive)
		env.createConsultation(t, "배송 문의", time.Now())

		w := env.do(t, http.MethodPost, "/consultations/export/archive?status="+url.QueryEscape("접수"), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 1, archive.uploads)

		data := decodeJSON(t, w)["data"].(map[string]interface{})
		assert.Contains(t, data["url"], "https://signed.example.com/exports/")
		assert.NotEmpty(t, data["key"])
	})
}
