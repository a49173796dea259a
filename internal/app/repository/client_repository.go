package repository

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"gorm.io/gorm"
)

type ClientRepository interface {
	FindAll(search string) ([]model.Client, error)
	FindByID(id uuid.UUID) (*model.Client, error)
	Create(client *model.Client) error
	Update(id uuid.UUID, fields map[string]interface{}) error
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// FindAll 업체 목록. search 가 있으면 이름 부분 일치 (대소문자 무시)
func (r *clientRepository) FindAll(search string) ([]model.Client, error) {
	logger.Debug("Finding clients in database", map[string]interface{}{
		"search": search,
	})

	query := r.db.Model(&model.Client{})
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(search))
	}

	var clients []model.Client
	if err := query.Order("name ASC").Find(&clients).Error; err != nil {
		logger.Error("Failed to find clients in database", err, map[string]interface{}{
			"search": search,
		})
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) FindByID(id uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := r.db.First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Create(client *model.Client) error {
	logger.Debug("Creating client in database", map[string]interface{}{
		"name": client.Name,
	})

	if err := r.db.Create(client).Error; err != nil {
		logger.Error("Failed to create client in database", err, map[string]interface{}{
			"name": client.Name,
		})
		return err
	}

	logger.Debug("Client created in database", map[string]interface{}{
		"client_id": client.ID,
		"name":      client.Name,
	})
	return nil
}

// Update 지정된 컬럼만 갱신. 대상이 없으면 gorm.ErrRecordNotFound
func (r *clientRepository) Update(id uuid.UUID, fields map[string]interface{}) error {
	logger.Debug("Updating client in database", map[string]interface{}{
		"client_id": id,
		"fields":    len(fields),
	})

	result := r.db.Model(&model.Client{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update client in database", result.Error, map[string]interface{}{
			"client_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// likePattern lower-cases s and escapes LIKE wildcards
func likePattern(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(s)) + "%"
}
