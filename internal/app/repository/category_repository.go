package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindActive() ([]model.ItemCategory, error)
	FindByID(id uuid.UUID) (*model.ItemCategory, error)
	Create(category *model.ItemCategory) error
	Deactivate(id uuid.UUID) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindActive() ([]model.ItemCategory, error) {
	logger.Debug("Finding active item categories in database")

	var categories []model.ItemCategory
	if err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to find active item categories in database", err)
		return nil, err
	}

	logger.Debug("Active item categories found in database", map[string]interface{}{
		"count": len(categories),
	})
	return categories, nil
}

func (r *categoryRepository) FindByID(id uuid.UUID) (*model.ItemCategory, error) {
	var category model.ItemCategory
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Create(category *model.ItemCategory) error {
	logger.Debug("Creating item category in database", map[string]interface{}{
		"name": category.Name,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create item category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}

	logger.Debug("Item category created in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return nil
}

// Deactivate 품목 비활성화 (기존 상담 연결은 유지)
func (r *categoryRepository) Deactivate(id uuid.UUID) error {
	result := r.db.Model(&model.ItemCategory{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		logger.Error("Failed to deactivate item category in database", result.Error, map[string]interface{}{
			"category_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
