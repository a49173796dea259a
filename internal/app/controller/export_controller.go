package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/consultation-backend/internal/app/service"
	apperrors "github.com/ikkim/consultation-backend/internal/errors"
	"github.com/ikkim/consultation-backend/internal/middleware"
)

type ExportController struct {
	exportService service.ExportService
}

func NewExportController(exportService service.ExportService) *ExportController {
	return &ExportController{exportService: exportService}
}

// Export 조회 조건에 맞는 상담 내역 파일 다운로드
// GET /api/v1/consultations/export?format=xlsx|csv (+ 목록 조회 조건)
func (ctrl *ExportController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query, ok := bindConsultationQuery(c)
	if !ok {
		return
	}

	file, err := ctrl.exportService.Export(query, c.Query("format"))
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFormat) {
			apperrors.RespondWithValidationError(c, "지원하지 않는 파일 형식입니다", map[string]string{"format": "xlsx, csv 중 하나여야 합니다"})
			return
		}
		log.Error("Failed to export consultations", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.FileExportFailed, "내보내기 중 오류가 발생했습니다")
		return
	}

	setAttachment(c, file.Filename)
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// Archive xlsx 내보내기를 S3 에 보관하고 다운로드 링크를 돌려준다
// POST /api/v1/consultations/export/archive (+ 목록 조회 조건)
func (ctrl *ExportController) Archive(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if !ctrl.exportService.ArchiveEnabled() {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.ArchiveUnavailable, "보관 저장소가 설정되지 않았습니다")
		return
	}

	query, ok := bindConsultationQuery(c)
	if !ok {
		return
	}

	object, err := ctrl.exportService.Archive(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, service.ErrArchiveDisabled) {
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.ArchiveUnavailable, "보관 저장소가 설정되지 않았습니다")
			return
		}
		log.Error("Failed to archive export", err)
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.InternalExternalAPI, "파일 보관에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"url":        object.URL,
			"key":        object.Key,
			"expires_at": object.ExpiresAt,
		},
	})
}
