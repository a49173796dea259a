package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/consultation-backend/internal/storage"
	"github.com/ikkim/consultation-backend/pkg/logger"
)

const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrArchiveDisabled   = errors.New("export archive storage is not configured")
)

// ArchiveStorage 내보내기 파일 보관소 (storage.S3Storage)
type ArchiveStorage interface {
	Upload(ctx context.Context, folder, filename, contentType string, body []byte) (*storage.StoredObject, error)
}

// ExportFile 다운로드 응답용 파일
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

type ExportService interface {
	Export(query ConsultationQuery, format string) (*ExportFile, error)
	Archive(ctx context.Context, query ConsultationQuery) (*storage.StoredObject, error)
	ArchiveDay(ctx context.Context, day time.Time) (*storage.StoredObject, error)
	ArchiveEnabled() bool
}

type exportService struct {
	consultations ConsultationService
	spreadsheets  SpreadsheetService
	archive       ArchiveStorage
	folder        string
	maxRows       int
	now           func() time.Time
}

// NewExportService archive 가 nil 이면 보관 기능은 ErrArchiveDisabled 를 반환한다
func NewExportService(
	consultations ConsultationService,
	spreadsheets SpreadsheetService,
	archive ArchiveStorage,
	folder string,
	maxRows int,
) ExportService {
	return &exportService{
		consultations: consultations,
		spreadsheets:  spreadsheets,
		archive:       archive,
		folder:        folder,
		maxRows:       maxRows,
		now:           time.Now,
	}
}

func (s *exportService) ArchiveEnabled() bool {
	return s.archive != nil
}

func (s *exportService) Export(query ConsultationQuery, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatXLSX
	}
	if format != ExportFormatXLSX && format != ExportFormatCSV {
		return nil, ErrUnsupportedFormat
	}

	items, err := s.consultations.ListForExport(query, s.maxRows)
	if err != nil {
		return nil, err
	}

	file := &ExportFile{
		Filename: fmt.Sprintf("상담내역_%s.%s", s.now().Format("20060102_150405"), format),
		Rows:     len(items),
	}
	switch format {
	case ExportFormatCSV:
		file.ContentType = CSVContentType
		file.Body, err = s.spreadsheets.RenderCSV(items)
	default:
		file.ContentType = XLSXContentType
		file.Body, err = s.spreadsheets.RenderXLSX(items)
	}
	if err != nil {
		logger.Error("Failed to render export", err, map[string]interface{}{
			"format": format,
			"rows":   len(items),
		})
		return nil, err
	}

	logger.Info("Consultations exported", map[string]interface{}{
		"format": format,
		"rows":   file.Rows,
	})
	return file, nil
}

// Archive xlsx 내보내기를 S3 에 올리고 presigned URL 을 돌려준다
func (s *exportService) Archive(ctx context.Context, query ConsultationQuery) (*storage.StoredObject, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	file, err := s.Export(query, ExportFormatXLSX)
	if err != nil {
		return nil, err
	}

	object, err := s.archive.Upload(ctx, s.folder, file.Filename, file.ContentType, file.Body)
	if err != nil {
		logger.Error("Failed to upload export archive", err, map[string]interface{}{
			"folder": s.folder,
			"rows":   file.Rows,
		})
		return nil, err
	}

	logger.Info("Export archived", map[string]interface{}{
		"key":  object.Key,
		"rows": file.Rows,
	})
	return object, nil
}

// ArchiveDay 하루치 상담을 보관한다 (야간 스케줄러)
func (s *exportService) ArchiveDay(ctx context.Context, day time.Time) (*storage.StoredObject, error) {
	d := day.UTC()
	return s.Archive(ctx, ConsultationQuery{Date: &d})
}
