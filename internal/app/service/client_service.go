package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/internal/app/repository"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrClientNotFound = errors.New("client not found")

// ClientInput 업체 등록 입력
type ClientInput struct {
	Name    string
	Contact string
	Email   string
	Address string
}

// ClientPatch nil 이 아닌 필드만 덮어쓴다. 빈 문자열은 값을 지운다
type ClientPatch struct {
	Name    *string
	Contact *string
	Email   *string
	Address *string
}

type ClientService interface {
	ListClients(search string) ([]model.Client, error)
	CreateClient(input ClientInput) (*model.Client, error)
	UpdateClient(id uuid.UUID, patch ClientPatch) (*model.Client, error)
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) ListClients(search string) ([]model.Client, error) {
	return s.repo.FindAll(search)
}

func (s *clientService) CreateClient(input ClientInput) (*model.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	client := &model.Client{
		Name:    name,
		Contact: model.NullableString(input.Contact),
		Email:   model.NullableString(input.Email),
		Address: model.NullableString(input.Address),
	}
	if err := s.repo.Create(client); err != nil {
		return nil, err
	}

	logger.Info("Client created", map[string]interface{}{
		"client_id": client.ID,
		"name":      client.Name,
	})
	return client, nil
}

// UpdateClient 수동 수정은 제공된 값을 항상 덮어쓴다 (대량 등록의 빈 값 채우기와 다름)
func (s *clientService) UpdateClient(id uuid.UUID, patch ClientPatch) (*model.Client, error) {
	fields := map[string]interface{}{}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = name
	}
	if patch.Contact != nil {
		fields["contact"] = model.NullableString(*patch.Contact)
	}
	if patch.Email != nil {
		fields["email"] = model.NullableString(*patch.Email)
	}
	if patch.Address != nil {
		fields["address"] = model.NullableString(*patch.Address)
	}

	if len(fields) > 0 {
		if err := s.repo.Update(id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
	}

	client, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}
