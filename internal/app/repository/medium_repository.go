package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"gorm.io/gorm"
)

type MediumRepository interface {
	FindActive() ([]model.Medium, error)
	FindByID(id uuid.UUID) (*model.Medium, error)
	Create(medium *model.Medium) error
	Deactivate(id uuid.UUID) error
}

type mediumRepository struct {
	db *gorm.DB
}

func NewMediumRepository(db *gorm.DB) MediumRepository {
	return &mediumRepository{db: db}
}

// FindActive 활성 상담매체 목록 (이름순)
func (r *mediumRepository) FindActive() ([]model.Medium, error) {
	var mediums []model.Medium
	if err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&mediums).Error; err != nil {
		logger.Error("Failed to find active mediums in database", err)
		return nil, err
	}
	return mediums, nil
}

func (r *mediumRepository) FindByID(id uuid.UUID) (*model.Medium, error) {
	var medium model.Medium
	if err := r.db.First(&medium, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &medium, nil
}

func (r *mediumRepository) Create(medium *model.Medium) error {
	logger.Debug("Creating medium in database", map[string]interface{}{
		"name": medium.Name,
	})

	if err := r.db.Create(medium).Error; err != nil {
		logger.Error("Failed to create medium in database", err, map[string]interface{}{
			"name": medium.Name,
		})
		return err
	}
	return nil
}

// Deactivate is_active=false 처리. 대상이 없으면 gorm.ErrRecordNotFound
func (r *mediumRepository) Deactivate(id uuid.UUID) error {
	result := r.db.Model(&model.Medium{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		logger.Error("Failed to deactivate medium in database", result.Error, map[string]interface{}{
			"medium_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Medium deactivated in database", map[string]interface{}{
		"medium_id": id,
	})
	return nil
}
