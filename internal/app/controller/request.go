package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/internal/app/service"
	apperrors "github.com/ikkim/consultation-backend/internal/errors"
	"github.com/ikkim/consultation-backend/internal/middleware"
)

// queryDateLayouts 조회 조건의 날짜 형식
var queryDateLayouts = []string{"2006-01-02", time.RFC3339}

// ConsultationListQuery 목록/내보내기 공통 조회 조건
type ConsultationListQuery struct {
	Search     string `form:"search"`
	MediumID   string `form:"medium_id" binding:"omitempty,uuid"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=접수 진행 완료 보류"`
	Date       string `form:"date"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// bindConsultationQuery 쿼리 파라미터를 검증하고 service.ConsultationQuery 로 변환.
// 실패하면 400 응답을 쓰고 false 를 반환한다
func bindConsultationQuery(c *gin.Context) (service.ConsultationQuery, bool) {
	log := middleware.GetLoggerFromContext(c)

	var req ConsultationListQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Warn("Invalid consultation query", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, "조회 조건이 올바르지 않습니다", apperrors.FieldErrors(err))
		return service.ConsultationQuery{}, false
	}

	query := service.ConsultationQuery{
		Search: req.Search,
		Page:   req.Page,
		Limit:  req.Limit,
	}
	if req.MediumID != "" {
		id := uuid.MustParse(req.MediumID)
		query.MediumID = &id
	}
	if req.CategoryID != "" {
		id := uuid.MustParse(req.CategoryID)
		query.CategoryID = &id
	}
	if req.Status != "" {
		status := model.ConsultationStatus(req.Status)
		query.Status = &status
	}

	fields := map[string]string{}
	dates := []struct {
		name   string
		raw    string
		target **time.Time
	}{
		{"date", req.Date, &query.Date},
		{"date_from", req.DateFrom, &query.DateFrom},
		{"date_to", req.DateTo, &query.DateTo},
	}
	for _, d := range dates {
		if d.raw == "" {
			continue
		}
		t, err := parseQueryDate(d.raw)
		if err != nil {
			fields[d.name] = "날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)"
			continue
		}
		*d.target = &t
	}
	if len(fields) > 0 {
		apperrors.RespondWithValidationError(c, "조회 조건이 올바르지 않습니다", fields)
		return service.ConsultationQuery{}, false
	}

	return query, true
}

func parseQueryDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range queryDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// parseIDParam :id 경로 파라미터. 잘못된 형식이면 400 응답 후 false
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID 형식입니다")
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDs 바인딩에서 uuid 형식이 검증된 문자열 목록
func parseUUIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		ids = append(ids, uuid.MustParse(s))
	}
	return ids
}

func respondBindError(c *gin.Context, err error, message string) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"error": err.Error(),
	})
	apperrors.RespondWithValidationError(c, message, apperrors.FieldErrors(err))
}
