package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/service"
	apperrors "github.com/ikkim/consultation-backend/internal/errors"
	"github.com/ikkim/consultation-backend/internal/middleware"
)

type ConsultationController struct {
	consultationService service.ConsultationService
}

func NewConsultationController(consultationService service.ConsultationService) *ConsultationController {
	return &ConsultationController{consultationService: consultationService}
}

type CreateConsultationRequest struct {
	ConsultedAt time.Time `json:"consulted_at" binding:"required"`
	MediumID    string    `json:"medium_id" binding:"required,uuid"`
	ClientID    string    `json:"client_id" binding:"required,uuid"`
	Content     string    `json:"content" binding:"required"`
	Status      string    `json:"status" binding:"omitempty,oneof=접수 진행 완료 보류"`
	TagIDs      []string  `json:"tag_ids" binding:"omitempty,dive,uuid"`
	CategoryIDs []string  `json:"category_ids" binding:"omitempty,dive,uuid"`
}

// UpdateConsultationRequest 모든 필드 선택. tag_ids/category_ids 는 보내면 전체 교체 (빈 배열은 모두 삭제)
type UpdateConsultationRequest struct {
	ConsultedAt *time.Time `json:"consulted_at"`
	MediumID    *string    `json:"medium_id" binding:"omitempty,uuid"`
	ClientID    *string    `json:"client_id" binding:"omitempty,uuid"`
	Content     *string    `json:"content"`
	Status      *string    `json:"status" binding:"omitempty,oneof=접수 진행 완료 보류"`
	TagIDs      *[]string  `json:"tag_ids" binding:"omitempty,dive,uuid"`
	CategoryIDs *[]string  `json:"category_ids" binding:"omitempty,dive,uuid"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

// ListConsultations 상담 목록 조회
// GET /api/v1/consultations
// Query params: search, medium_id, category_id, status, date, date_from, date_to, page, limit
func (ctrl *ConsultationController) ListConsultations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query, ok := bindConsultationQuery(c)
	if !ok {
		return
	}

	page, err := ctrl.consultationService.ListConsultations(query)
	if err != nil {
		log.Error("Failed to list consultations", err)
		apperrors.ParseAndRespond(c, err, "list consultations")
		return
	}

	log.Info("Consultations listed", map[string]interface{}{
		"total": page.Total,
		"page":  page.Page,
		"count": len(page.Data),
	})

	c.JSON(http.StatusOK, page)
}

// GetConsultation 상담 상세 조회
// GET /api/v1/consultations/:id
func (ctrl *ConsultationController) GetConsultation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	consultation, err := ctrl.consultationService.GetConsultation(id)
	if err != nil {
		ctrl.respondError(c, err, "get consultation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": consultation})
}

// CreateConsultation 상담 등록
// POST /api/v1/consultations
func (ctrl *ConsultationController) CreateConsultation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "상담 정보가 올바르지 않습니다")
		return
	}

	consultation, err := ctrl.consultationService.CreateConsultation(service.CreateConsultationInput{
		ConsultedAt: req.ConsultedAt,
		MediumID:    uuid.MustParse(req.MediumID),
		ClientID:    uuid.MustParse(req.ClientID),
		Content:     req.Content,
		Status:      req.Status,
		TagIDs:      parseUUIDs(req.TagIDs),
		CategoryIDs: parseUUIDs(req.CategoryIDs),
	})
	if err != nil {
		ctrl.respondError(c, err, "create consultation")
		return
	}

	log.Info("Consultation created", map[string]interface{}{
		"consultation_id": consultation.ID,
	})

	c.JSON(http.StatusCreated, gin.H{"data": consultation})
}

// UpdateConsultation 상담 수정
// PATCH /api/v1/consultations/:id
func (ctrl *ConsultationController) UpdateConsultation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "상담 정보가 올바르지 않습니다")
		return
	}

	input := service.UpdateConsultationInput{
		ConsultedAt: req.ConsultedAt,
		Content:     req.Content,
		Status:      req.Status,
	}
	if req.MediumID != nil {
		mediumID := uuid.MustParse(*req.MediumID)
		input.MediumID = &mediumID
	}
	if req.ClientID != nil {
		clientID := uuid.MustParse(*req.ClientID)
		input.ClientID = &clientID
	}
	if req.TagIDs != nil {
		tagIDs := parseUUIDs(*req.TagIDs)
		input.TagIDs = &tagIDs
	}
	if req.CategoryIDs != nil {
		categoryIDs := parseUUIDs(*req.CategoryIDs)
		input.CategoryIDs = &categoryIDs
	}

	consultation, err := ctrl.consultationService.UpdateConsultation(id, input)
	if err != nil {
		ctrl.respondError(c, err, "update consultation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": consultation})
}

// DeleteConsultation 상담 삭제 (소프트 삭제)
// DELETE /api/v1/consultations/:id
func (ctrl *ConsultationController) DeleteConsultation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.consultationService.DeleteConsultation(id); err != nil {
		ctrl.respondError(c, err, "delete consultation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "삭제되었습니다"})
}

// BulkDeleteConsultations 선택한 상담 일괄 삭제
// POST /api/v1/consultations/bulk-delete
func (ctrl *ConsultationController) BulkDeleteConsultations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "삭제할 상담을 선택해주세요")
		return
	}

	deleted, err := ctrl.consultationService.BulkDelete(c.Request.Context(), parseUUIDs(req.IDs))
	if err != nil {
		log.Warn("Bulk delete failed", map[string]interface{}{
			"requested": len(req.IDs),
			"deleted":   deleted,
			"error":     err.Error(),
		})
		message := fmt.Sprintf("일괄 삭제에 실패했습니다 (%d건 삭제됨)", deleted)
		if errors.Is(err, service.ErrConsultationNotFound) {
			apperrors.NotFound(c, apperrors.ConsultationNotFound, message)
			return
		}
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ConsultationBulkDelete, message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": deleted,
		"message": fmt.Sprintf("%d건 삭제되었습니다", deleted),
	})
}

// respondError 서비스 에러를 HTTP 응답으로 변환
func (ctrl *ConsultationController) respondError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrConsultationNotFound):
		apperrors.NotFound(c, apperrors.ConsultationNotFound, "상담 내역을 찾을 수 없습니다")
	case errors.Is(err, service.ErrInvalidStatus):
		apperrors.BadRequest(c, apperrors.ConsultationInvalidStatus, "상태값은 접수, 진행, 완료, 보류 중 하나여야 합니다")
	case errors.Is(err, service.ErrContentRequired):
		apperrors.RespondWithValidationError(c, "상담내용은 필수입니다", map[string]string{"content": "필수 항목입니다"})
	case errors.Is(err, service.ErrMediumNotFound):
		apperrors.RespondWithValidationError(c, "상담매체를 찾을 수 없습니다", map[string]string{"medium_id": "존재하지 않는 상담매체입니다"})
	case errors.Is(err, service.ErrClientNotFound):
		apperrors.RespondWithValidationError(c, "업체를 찾을 수 없습니다", map[string]string{"client_id": "존재하지 않는 업체입니다"})
	case errors.Is(err, service.ErrInvalidReference):
		apperrors.BadRequest(c, apperrors.ResourceNotFound, "존재하지 않는 태그 또는 품목이 포함되어 있습니다")
	default:
		log.Error("Consultation request failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, err, context)
	}
}
