package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"gorm.io/gorm"
)

type TagRepository interface {
	FindAll() ([]model.Tag, error)
	FindByID(id uuid.UUID) (*model.Tag, error)
	Create(tag *model.Tag) error
	Delete(id uuid.UUID) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindAll() ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.Order("name ASC").Find(&tags).Error; err != nil {
		logger.Error("Failed to find tags in database", err)
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindByID(id uuid.UUID) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.First(&tag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Create(tag *model.Tag) error {
	logger.Debug("Creating tag in database", map[string]interface{}{
		"name": tag.Name,
	})

	if err := r.db.Create(tag).Error; err != nil {
		logger.Error("Failed to create tag in database", err, map[string]interface{}{
			"name": tag.Name,
		})
		return err
	}
	return nil
}

// Delete 태그와 상담 연결을 함께 삭제
func (r *tagRepository) Delete(id uuid.UUID) error {
	logger.Debug("Deleting tag from database", map[string]interface{}{
		"tag_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&model.ConsultationTag{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Tag{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete tag from database", err, map[string]interface{}{
			"tag_id": id,
		})
		return err
	}

	logger.Debug("Tag deleted from database", map[string]interface{}{
		"tag_id": id,
	})
	return nil
}
