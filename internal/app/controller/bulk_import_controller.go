package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/consultation-backend/internal/app/service"
	apperrors "github.com/ikkim/consultation-backend/internal/errors"
	"github.com/ikkim/consultation-backend/internal/middleware"
)

// maxUploadSize 업로드 파일 최대 크기 (10MB)
const maxUploadSize = 10 << 20

type BulkImportController struct {
	importService      service.BulkImportService
	spreadsheetService service.SpreadsheetService
}

func NewBulkImportController(
	importService service.BulkImportService,
	spreadsheetService service.SpreadsheetService,
) *BulkImportController {
	return &BulkImportController{
		importService:      importService,
		spreadsheetService: spreadsheetService,
	}
}

// BulkImportRequest 행 키는 영문 키 또는 엑셀 헤더(한글) 모두 허용
type BulkImportRequest struct {
	Rows []service.ImportRow `json:"rows" binding:"required,min=1"`
}

// BulkImport 상담 대량 등록 (JSON)
// POST /api/v1/consultations/bulk
func (ctrl *BulkImportController) BulkImport(c *gin.Context) {
	var req BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "등록할 데이터가 없습니다")
		return
	}

	ctrl.runImport(c, req.Rows, "json")
}

// UploadSpreadsheet 엑셀 파일 업로드 대량 등록
// POST /api/v1/consultations/bulk/upload (multipart, field "file")
func (ctrl *BulkImportController) UploadSpreadsheet(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Warn("Missing upload file", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "업로드할 파일을 선택해주세요")
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		apperrors.BadRequest(c, apperrors.FileInvalidType, "xlsx 파일만 업로드할 수 있습니다")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open upload file", err)
		apperrors.InternalError(c, "파일을 읽을 수 없습니다")
		return
	}
	defer file.Close()

	rows, err := ctrl.spreadsheetService.ParseUpload(file)
	if err != nil {
		log.Warn("Failed to parse spreadsheet", map[string]interface{}{
			"filename": fileHeader.Filename,
			"error":    err.Error(),
		})
		switch {
		case errors.Is(err, service.ErrMissingColumns):
			apperrors.BadRequest(c, apperrors.FileParseFailed, fmt.Sprintf("필수 컬럼이 없습니다 (%s)", strings.TrimPrefix(err.Error(), service.ErrMissingColumns.Error()+": ")))
		case errors.Is(err, service.ErrEmptySpreadsheet):
			apperrors.BadRequest(c, apperrors.ConsultationImportInvalid, "등록할 데이터가 없습니다")
		default:
			apperrors.BadRequest(c, apperrors.FileParseFailed, "엑셀 파일을 읽을 수 없습니다")
		}
		return
	}

	ctrl.runImport(c, rows, "xlsx")
}

func (ctrl *BulkImportController) runImport(c *gin.Context, rows []service.ImportRow, source string) {
	log := middleware.GetLoggerFromContext(c)

	result, err := ctrl.importService.Import(rows)
	if err != nil {
		if errors.Is(err, service.ErrNoImportRows) {
			apperrors.BadRequest(c, apperrors.ConsultationImportInvalid, "등록할 데이터가 없습니다")
			return
		}
		log.Error("Bulk import failed", err, map[string]interface{}{
			"rows":   len(rows),
			"source": source,
		})
		apperrors.ParseAndRespond(c, err, "bulk import consultations")
		return
	}

	log.Info("Bulk import finished", map[string]interface{}{
		"source":  source,
		"success": result.Success,
		"failed":  result.Failed,
	})

	c.JSON(http.StatusOK, result)
}

// DownloadTemplate 업로드 양식 다운로드
// GET /api/v1/consultations/template
func (ctrl *BulkImportController) DownloadTemplate(c *gin.Context) {
	body, err := ctrl.spreadsheetService.Template(time.Now())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to build template", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.FileExportFailed, "양식 파일을 만들 수 없습니다")
		return
	}

	setAttachment(c, "상담등록양식.xlsx")
	c.Data(http.StatusOK, service.XLSXContentType, body)
}

// setAttachment 한글 파일명을 위해 filename* (RFC 5987) 을 함께 보낸다
func setAttachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(
		`attachment; filename="%s"; filename*=UTF-8''%s`,
		asciiFallback(filename), url.PathEscape(filename),
	))
}

func asciiFallback(filename string) string {
	ext := filepath.Ext(filename)
	var b strings.Builder
	for _, r := range strings.TrimSuffix(filename, ext) {
		if r < 128 && r != '"' {
			b.WriteRune(r)
		}
	}
	name := strings.Trim(b.String(), "_ ")
	if name == "" {
		name = "download"
	}
	return name + ext
}
