package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/consultation-backend/internal/app/service"
	apperrors "github.com/ikkim/consultation-backend/internal/errors"
	"github.com/ikkim/consultation-backend/internal/middleware"
)

type ClientController struct {
	clientService service.ClientService
}

func NewClientController(clientService service.ClientService) *ClientController {
	return &ClientController{clientService: clientService}
}

type CreateClientRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Contact string `json:"contact" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

// UpdateClientRequest 보낸 필드만 덮어쓴다. 빈 문자열은 값을 지운다 (name 제외)
type UpdateClientRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=100"`
	Contact *string `json:"contact" binding:"omitempty,max=50"`
	Email   *string `json:"email" binding:"omitempty,email_or_blank"`
	Address *string `json:"address"`
}

// ListClients 업체 목록 (이름 검색)
// GET /api/v1/clients?search=
func (ctrl *ClientController) ListClients(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	search := c.Query("search")
	clients, err := ctrl.clientService.ListClients(search)
	if err != nil {
		log.Error("Failed to list clients", err, map[string]interface{}{
			"search": search,
		})
		apperrors.InternalError(c, "업체 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": clients})
}

// CreateClient POST /api/v1/clients
func (ctrl *ClientController) CreateClient(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "업체 정보가 올바르지 않습니다")
		return
	}

	client, err := ctrl.clientService.CreateClient(service.ClientInput{
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		if errors.Is(err, service.ErrNameRequired) {
			apperrors.RespondWithValidationError(c, "업체명은 필수입니다", map[string]string{"name": "필수 항목입니다"})
			return
		}
		log.Error("Failed to create client", err)
		apperrors.ParseAndRespond(c, err, "create client")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": client})
}

// UpdateClient PATCH /api/v1/clients/:id
func (ctrl *ClientController) UpdateClient(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "업체 정보가 올바르지 않습니다")
		return
	}

	client, err := ctrl.clientService.UpdateClient(id, service.ClientPatch{
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			apperrors.NotFound(c, apperrors.ClientNotFound, "업체를 찾을 수 없습니다")
		case errors.Is(err, service.ErrNameRequired):
			apperrors.RespondWithValidationError(c, "업체명은 비워둘 수 없습니다", map[string]string{"name": "필수 항목입니다"})
		default:
			log.Error("Failed to update client", err, map[string]interface{}{
				"client_id": id,
			})
			apperrors.ParseAndRespond(c, err, "update client")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": client})
}
