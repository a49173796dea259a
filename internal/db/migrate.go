package db

import (
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"gorm.io/gorm"
)

// DefaultMediums 기본 상담 매체 목록
var DefaultMediums = []string{"전화", "채널톡", "메일", "카카오톡", "기타"}

func models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Medium{},
		&model.ItemCategory{},
		&model.Tag{},
		&model.Client{},
		&model.Consultation{},
		&model.ConsultationTag{},
		&model.ConsultationCategory{},
	}
}

// AutoMigrate registers the custom join tables and migrates every model
func AutoMigrate(conn *gorm.DB) error {
	if err := conn.SetupJoinTable(&model.Consultation{}, "Tags", &model.ConsultationTag{}); err != nil {
		return err
	}
	if err := conn.SetupJoinTable(&model.Consultation{}, "Categories", &model.ConsultationCategory{}); err != nil {
		return err
	}
	return conn.AutoMigrate(models()...)
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	if err := AutoMigrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models()),
	})
	return nil
}

// Seed adds reference data to the database
func Seed() error {
	return SeedMediums(DB)
}

// SeedMediums 기본 상담 매체 생성 (이미 존재하면 건너뜀)
func SeedMediums(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&model.Medium{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Mediums already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding medium data...")

	for _, name := range DefaultMediums {
		medium := model.Medium{Name: name, IsActive: true}
		if err := conn.Create(&medium).Error; err != nil {
			logger.Error("Failed to create medium", err, map[string]interface{}{
				"medium": name,
			})
			return err
		}
	}

	logger.Info("Mediums seeded successfully", map[string]interface{}{
		"total_mediums": len(DefaultMediums),
	})
	return nil
}
