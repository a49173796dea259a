package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"gorm.io/gorm"
)

// ConsultationFilter 상담 목록 조회 조건. nil/빈 값은 조건 없음
type ConsultationFilter struct {
	Search     string // 상담내용 또는 업체명 부분 일치
	MediumID   *uuid.UUID
	CategoryID *uuid.UUID
	Status     *model.ConsultationStatus
	Date       *time.Time // 하루 단위
	DateFrom   *time.Time
	DateTo     *time.Time // 해당 일자 포함
	Limit      int
	Offset     int
}

type ConsultationRepository interface {
	Create(consultation *model.Consultation) error
	CreateWithLinks(consultation *model.Consultation, tagIDs, categoryIDs []uuid.UUID) error
	AddTags(consultationID uuid.UUID, tagIDs []uuid.UUID) error
	AddCategories(consultationID uuid.UUID, categoryIDs []uuid.UUID) error
	FindByID(id uuid.UUID) (*model.Consultation, error)
	FindWithFilter(filter ConsultationFilter) ([]model.Consultation, int64, error)
	Update(id uuid.UUID, fields map[string]interface{}, tagIDs, categoryIDs *[]uuid.UUID) error
	SoftDelete(id uuid.UUID) error
}

type consultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) ConsultationRepository {
	return &consultationRepository{db: db}
}

// Create 상담 행만 저장 (연결 행 제외)
func (r *consultationRepository) Create(consultation *model.Consultation) error {
	logger.Debug("Creating consultation in database", map[string]interface{}{
		"medium_id": consultation.MediumID,
		"client_id": consultation.ClientID,
		"status":    consultation.Status,
	})

	if err := r.db.Omit("Tags", "Categories", "Medium", "Client").Create(consultation).Error; err != nil {
		logger.Error("Failed to create consultation in database", err, map[string]interface{}{
			"medium_id": consultation.MediumID,
			"client_id": consultation.ClientID,
		})
		return err
	}

	logger.Debug("Consultation created in database", map[string]interface{}{
		"consultation_id": consultation.ID,
	})
	return nil
}

// CreateWithLinks 상담과 태그/품목 연결을 하나의 트랜잭션으로 저장
func (r *consultationRepository) CreateWithLinks(consultation *model.Consultation, tagIDs, categoryIDs []uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Categories", "Medium", "Client").Create(consultation).Error; err != nil {
			return err
		}
		if err := insertTagLinks(tx, consultation.ID, tagIDs); err != nil {
			return err
		}
		return insertCategoryLinks(tx, consultation.ID, categoryIDs)
	})
	if err != nil {
		logger.Error("Failed to create consultation with links in database", err, map[string]interface{}{
			"tag_count":      len(tagIDs),
			"category_count": len(categoryIDs),
		})
		return err
	}

	logger.Debug("Consultation with links created in database", map[string]interface{}{
		"consultation_id": consultation.ID,
		"tag_count":       len(tagIDs),
		"category_count":  len(categoryIDs),
	})
	return nil
}

func (r *consultationRepository) AddTags(consultationID uuid.UUID, tagIDs []uuid.UUID) error {
	return insertTagLinks(r.db, consultationID, tagIDs)
}

func (r *consultationRepository) AddCategories(consultationID uuid.UUID, categoryIDs []uuid.UUID) error {
	return insertCategoryLinks(r.db, consultationID, categoryIDs)
}

func insertTagLinks(tx *gorm.DB, consultationID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]model.ConsultationTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, model.ConsultationTag{ConsultationID: consultationID, TagID: tagID})
	}
	return tx.Omit("Tag").Create(&links).Error
}

func insertCategoryLinks(tx *gorm.DB, consultationID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]model.ConsultationCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		links = append(links, model.ConsultationCategory{ConsultationID: consultationID, CategoryID: categoryID})
	}
	return tx.Omit("Category").Create(&links).Error
}

func (r *consultationRepository) withRelations(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Medium").
		Preload("Client").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		}).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_categories.name ASC")
		})
}

// FindByID 삭제되지 않은 상담을 관계와 함께 조회
func (r *consultationRepository) FindByID(id uuid.UUID) (*model.Consultation, error) {
	var consultation model.Consultation
	if err := r.withRelations(r.db).First(&consultation, "consultations.id = ?", id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find consultation by ID in database", err, map[string]interface{}{
				"consultation_id": id,
			})
		}
		return nil, err
	}
	return &consultation, nil
}

// applyFilter 목록과 건수 조회에 공통으로 쓰이는 조건
func (r *consultationRepository) applyFilter(filter ConsultationFilter) *gorm.DB {
	query := r.db.Model(&model.Consultation{})

	if filter.Search != "" {
		like := likePattern(filter.Search)
		query = query.
			Joins("LEFT JOIN clients ON clients.id = consultations.client_id").
			Where("LOWER(consultations.content) LIKE ? ESCAPE '\\' OR LOWER(clients.name) LIKE ? ESCAPE '\\'", like, like)
	}

	if filter.MediumID != nil {
		query = query.Where("consultations.medium_id = ?", *filter.MediumID)
	}

	if filter.CategoryID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM consultation_categories cc WHERE cc.consultation_id = consultations.id AND cc.category_id = ?)",
			*filter.CategoryID,
		)
	}

	if filter.Status != nil {
		query = query.Where("consultations.status = ?", *filter.Status)
	}

	if filter.Date != nil {
		start := startOfDay(*filter.Date)
		query = query.Where("consultations.consulted_at >= ? AND consultations.consulted_at < ?", start, start.AddDate(0, 0, 1))
	}
	if filter.DateFrom != nil {
		query = query.Where("consultations.consulted_at >= ?", startOfDay(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query = query.Where("consultations.consulted_at < ?", startOfDay(*filter.DateTo).AddDate(0, 0, 1))
	}

	return query
}

// FindWithFilter 필터 조건의 상담 목록과 전체 건수
func (r *consultationRepository) FindWithFilter(filter ConsultationFilter) ([]model.Consultation, int64, error) {
	logger.Debug("Finding consultations with filter", map[string]interface{}{
		"search":      filter.Search,
		"medium_id":   filter.MediumID,
		"category_id": filter.CategoryID,
		"status":      filter.Status,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	var total int64
	if err := r.applyFilter(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count consultations", err)
		return nil, 0, err
	}

	query := r.withRelations(r.applyFilter(filter)).
		Select("consultations.*").
		Order("consultations.consulted_at DESC").
		Order("consultations.created_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var consultations []model.Consultation
	if err := query.Find(&consultations).Error; err != nil {
		logger.Error("Failed to find consultations with filter", err)
		return nil, 0, err
	}

	logger.Debug("Consultations found with filter", map[string]interface{}{
		"count": len(consultations),
		"total": total,
	})
	return consultations, total, nil
}

// Update 지정된 컬럼을 갱신하고, nil 이 아닌 id 목록으로 연결을 교체한다
func (r *consultationRepository) Update(id uuid.UUID, fields map[string]interface{}, tagIDs, categoryIDs *[]uuid.UUID) error {
	logger.Debug("Updating consultation in database", map[string]interface{}{
		"consultation_id":    id,
		"fields":             len(fields),
		"replace_tags":       tagIDs != nil,
		"replace_categories": categoryIDs != nil,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Consultation
		if err := tx.Select("id").First(&existing, "id = ?", id).Error; err != nil {
			return err
		}

		if len(fields) > 0 {
			if err := tx.Model(&existing).Updates(fields).Error; err != nil {
				return err
			}
		} else {
			// 연결만 바뀌어도 수정일은 갱신
			if err := tx.Model(&existing).Update("updated_at", time.Now().UTC()).Error; err != nil {
				return err
			}
		}

		if tagIDs != nil {
			if err := tx.Where("consultation_id = ?", id).Delete(&model.ConsultationTag{}).Error; err != nil {
				return err
			}
			if err := insertTagLinks(tx, id, *tagIDs); err != nil {
				return err
			}
		}

		if categoryIDs != nil {
			if err := tx.Where("consultation_id = ?", id).Delete(&model.ConsultationCategory{}).Error; err != nil {
				return err
			}
			if err := insertCategoryLinks(tx, id, *categoryIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to update consultation in database", err, map[string]interface{}{
				"consultation_id": id,
			})
		}
		return err
	}
	return nil
}

// SoftDelete deleted_at 기록. 없거나 이미 삭제된 경우 gorm.ErrRecordNotFound
func (r *consultationRepository) SoftDelete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&model.Consultation{})
	if result.Error != nil {
		logger.Error("Failed to soft delete consultation", result.Error, map[string]interface{}{
			"consultation_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Consultation soft deleted", map[string]interface{}{
		"consultation_id": id,
	})
	return nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
