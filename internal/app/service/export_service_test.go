package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ikkim/consultation-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type uploadCall struct {
	folder      string
	filename    string
	contentType string
	size        int
}

type fakeArchive struct {
	calls []uploadCall
	err   error
}

func (a *fakeArchive) Upload(ctx context.Context, folder, filename, contentType string, body []byte) (*storage.StoredObject, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.calls = append(a.calls, uploadCall{folder: folder, filename: filename, contentType: contentType, size: len(body)})
	key := storage.ObjectKey(folder, filename)
	return &storage.StoredObject{Key: key, URL: "https://signed.example.com/" + key, ContentType: contentType}, nil
}

func setupExportService(t *testing.T, archive ArchiveStorage) (*consultationFixture, *exportService) {
	f := setupConsultationFixture(t)
	svc := NewExportService(f.svc, NewSpreadsheetService(), archive, "exports", 2).(*exportService)
	svc.now = func() time.Time { return time.Date(2024, 1, 20, 8, 30, 15, 0, time.UTC) }
	return f, svc
}

func TestExportService_Export(t *testing.T) {
	f, svc := setupExportService(t, nil)
	for i := 0; i < 3; i++ {
		f.create(t, "문의")
	}

	t.Run("Default format is xlsx and rows are capped", func(t *testing.T) {
		file, err := svc.Export(ConsultationQuery{}, "")
		require.NoError(t, err)
		assert.Equal(t, "상담내역_20240120_083015.xlsx", file.Filename)
		assert.Equal(t, XLSXContentType, file.ContentType)
		assert.Equal(t, 2, file.Rows)

		wb, err := excelize.OpenReader(bytes.NewReader(file.Body))
		require.NoError(t, err)
		defer wb.Close()
		rows, err := wb.GetRows(ExportSheetName)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("CSV", func(t *testing.T) {
		file, err := svc.Export(ConsultationQuery{}, "CSV")
		require.NoError(t, err)
		assert.Equal(t, "상담내역_20240120_083015.csv", file.Filename)
		assert.Equal(t, CSVContentType, file.ContentType)
		assert.True(t, bytes.HasPrefix(file.Body, utf8BOM))
	})

	t.Run("Unsupported format", func(t *testing.T) {
		_, err := svc.Export(ConsultationQuery{}, "pdf")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestExportService_Archive(t *testing.T) {
	t.Run("Disabled without storage", func(t *testing.T) {
		_, svc := setupExportService(t, nil)
		assert.False(t, svc.ArchiveEnabled())

		_, err := svc.Archive(context.Background(), ConsultationQuery{})
		assert.ErrorIs(t, err, ErrArchiveDisabled)
	})

	t.Run("Uploads xlsx", func(t *testing.T) {
		archive := &fakeArchive{}
		f, svc := setupExportService(t, archive)
		f.create(t, "문의")
		assert.True(t, svc.ArchiveEnabled())

		object, err := svc.ArchiveDay(context.Background(), utcDay(2024, 1, 15))
		require.NoError(t, err)

		require.Len(t, archive.calls, 1)
		call := archive.calls[0]
		assert.Equal(t, "exports", call.folder)
		assert.Equal(t, "상담내역_20240120_083015.xlsx", call.filename)
		assert.Equal(t, XLSXContentType, call.contentType)
		assert.Positive(t, call.size)
		assert.True(t, strings.HasPrefix(object.Key, "exports/"))
		assert.True(t, strings.HasSuffix(object.Key, ".xlsx"))
	})

	t.Run("Upload failure", func(t *testing.T) {
		_, svc := setupExportService(t, &fakeArchive{err: errors.New("s3 down")})

		_, err := svc.Archive(context.Background(), ConsultationQuery{})
		assert.EqualError(t, err, "s3 down")
	})
}
