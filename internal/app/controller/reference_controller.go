package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/consultation-backend/internal/app/service"
	apperrors "github.com/ikkim/consultation-backend/internal/errors"
	"github.com/ikkim/consultation-backend/internal/middleware"
)

// NameRequest 상담매체/품목/태그 등록 요청
type NameRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// respondNameError 이름 검증 에러 공통 처리. 처리했으면 true
func respondNameError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrNameRequired):
		apperrors.RespondWithValidationError(c, "이름은 필수입니다", map[string]string{"name": "필수 항목입니다"})
	case errors.Is(err, service.ErrNameTooLong):
		apperrors.RespondWithValidationError(c, "이름은 50자 이하여야 합니다", map[string]string{"name": "최대 50 이하여야 합니다"})
	default:
		return false
	}
	return true
}

// ==================== 상담매체 ====================

type MediumController struct {
	mediumService service.MediumService
}

func NewMediumController(mediumService service.MediumService) *MediumController {
	return &MediumController{mediumService: mediumService}
}

// ListMediums 활성 상담매체 목록
// GET /api/v1/mediums
func (ctrl *MediumController) ListMediums(c *gin.Context) {
	mediums, err := ctrl.mediumService.ListMediums()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list mediums", err)
		apperrors.InternalError(c, "상담매체 조회에 실패했습니다")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": mediums})
}

// CreateMedium POST /api/v1/mediums
func (ctrl *MediumController) CreateMedium(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "상담매체 이름을 확인해주세요")
		return
	}

	medium, err := ctrl.mediumService.CreateMedium(req.Name)
	if err != nil {
		if respondNameError(c, err) {
			return
		}
		if errors.Is(err, service.ErrMediumExists) {
			apperrors.Conflict(c, apperrors.MediumExists, "이미 존재하는 상담매체입니다")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to create medium", err)
		apperrors.ParseAndRespond(c, err, "create medium")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": medium})
}

// DeactivateMedium DELETE /api/v1/mediums/:id
func (ctrl *MediumController) DeactivateMedium(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.mediumService.DeactivateMedium(id); err != nil {
		if errors.Is(err, service.ErrMediumNotFound) {
			apperrors.NotFound(c, apperrors.MediumNotFound, "상담매체를 찾을 수 없습니다")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to deactivate medium", err)
		apperrors.ParseAndRespond(c, err, "delete medium")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "비활성화되었습니다"})
}

// ==================== 문의 품목 ====================

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// ListCategories 활성 품목 목록
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.ListCategories()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list categories", err)
		apperrors.InternalError(c, "품목 조회에 실패했습니다")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// CreateCategory POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "품목 이름을 확인해주세요")
		return
	}

	category, err := ctrl.categoryService.CreateCategory(req.Name)
	if err != nil {
		if respondNameError(c, err) {
			return
		}
		if errors.Is(err, service.ErrCategoryExists) {
			apperrors.Conflict(c, apperrors.CategoryExists, "이미 존재하는 품목입니다")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to create category", err)
		apperrors.ParseAndRespond(c, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": category})
}

// DeactivateCategory DELETE /api/v1/categories/:id
func (ctrl *CategoryController) DeactivateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeactivateCategory(id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "품목을 찾을 수 없습니다")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to deactivate category", err)
		apperrors.ParseAndRespond(c, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "비활성화되었습니다"})
}

// ==================== 태그 ====================

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

// ListTags 태그 목록 조회
// GET /api/v1/tags
func (ctrl *TagController) ListTags(c *gin.Context) {
	tags, err := ctrl.tagService.ListTags()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list tags", err)
		apperrors.InternalError(c, "태그 조회에 실패했습니다")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}

// CreateTag POST /api/v1/tags
func (ctrl *TagController) CreateTag(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "태그 이름을 확인해주세요")
		return
	}

	tag, err := ctrl.tagService.CreateTag(req.Name)
	if err != nil {
		if respondNameError(c, err) {
			return
		}
		if errors.Is(err, service.ErrTagExists) {
			apperrors.Conflict(c, apperrors.TagExists, "이미 존재하는 태그입니다")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to create tag", err)
		apperrors.ParseAndRespond(c, err, "create tag")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": tag})
}

// DeleteTag 태그와 상담 연결을 함께 삭제
// DELETE /api/v1/tags/:id
func (ctrl *TagController) DeleteTag(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.tagService.DeleteTag(id); err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			apperrors.NotFound(c, apperrors.TagNotFound, "태그를 찾을 수 없습니다")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to delete tag", err)
		apperrors.ParseAndRespond(c, err, "delete tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "삭제되었습니다"})
}
