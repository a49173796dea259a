package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/internal/app/repository"
	"github.com/ikkim/consultation-backend/internal/websocket"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	// bulkDeleteConcurrency 동시에 실행되는 삭제 수
	bulkDeleteConcurrency = 8
)

var (
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrInvalidStatus        = errors.New("invalid consultation status")
	ErrContentRequired      = errors.New("content is required")
	ErrInvalidReference     = errors.New("referenced tag or category does not exist")
	ErrNoIDs                = errors.New("no consultation ids given")
)

// ChangePublisher 상담 변경 알림 (websocket.Hub)
type ChangePublisher interface {
	Publish(event websocket.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(websocket.Event) {}

// ConsultationQuery 목록/내보내기 조회 조건
type ConsultationQuery struct {
	Search     string
	MediumID   *uuid.UUID
	CategoryID *uuid.UUID
	Status     *model.ConsultationStatus
	Date       *time.Time
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}

// normalized fills page/limit defaults and clamps limit to 1..100
func (q ConsultationQuery) normalized() ConsultationQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (q ConsultationQuery) filter() repository.ConsultationFilter {
	return repository.ConsultationFilter{
		Search:     q.Search,
		MediumID:   q.MediumID,
		CategoryID: q.CategoryID,
		Status:     q.Status,
		Date:       q.Date,
		DateFrom:   q.DateFrom,
		DateTo:     q.DateTo,
	}
}

// ConsultationPage 페이지 단위 목록 응답
type ConsultationPage struct {
	Data  []model.Consultation `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type CreateConsultationInput struct {
	ConsultedAt time.Time
	MediumID    uuid.UUID
	ClientID    uuid.UUID
	Content     string
	Status      string
	TagIDs      []uuid.UUID
	CategoryIDs []uuid.UUID
}

// UpdateConsultationInput nil 필드는 변경하지 않는다. TagIDs/CategoryIDs 는 지정되면 전체 교체
type UpdateConsultationInput struct {
	ConsultedAt *time.Time
	MediumID    *uuid.UUID
	ClientID    *uuid.UUID
	Content     *string
	Status      *string
	TagIDs      *[]uuid.UUID
	CategoryIDs *[]uuid.UUID
}

type ConsultationService interface {
	ListConsultations(query ConsultationQuery) (*ConsultationPage, error)
	ListForExport(query ConsultationQuery, maxRows int) ([]model.Consultation, error)
	GetConsultation(id uuid.UUID) (*model.Consultation, error)
	CreateConsultation(input CreateConsultationInput) (*model.Consultation, error)
	UpdateConsultation(id uuid.UUID, input UpdateConsultationInput) (*model.Consultation, error)
	DeleteConsultation(id uuid.UUID) error
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error)
}

type consultationService struct {
	repo       repository.ConsultationRepository
	mediumRepo repository.MediumRepository
	clientRepo repository.ClientRepository
	publisher  ChangePublisher
}

func NewConsultationService(
	repo repository.ConsultationRepository,
	mediumRepo repository.MediumRepository,
	clientRepo repository.ClientRepository,
	publisher ChangePublisher,
) ConsultationService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &consultationService{
		repo:       repo,
		mediumRepo: mediumRepo,
		clientRepo: clientRepo,
		publisher:  publisher,
	}
}

func (s *consultationService) ListConsultations(query ConsultationQuery) (*ConsultationPage, error) {
	query = query.normalized()

	filter := query.filter()
	filter.Limit = query.Limit
	filter.Offset = (query.Page - 1) * query.Limit

	items, total, err := s.repo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Consultation{}
	}

	return &ConsultationPage{
		Data:  items,
		Total: total,
		Page:  query.Page,
		Limit: query.Limit,
	}, nil
}

// ListForExport 페이지 없이 최대 maxRows 건
func (s *consultationService) ListForExport(query ConsultationQuery, maxRows int) ([]model.Consultation, error) {
	query = query.normalized()

	filter := query.filter()
	filter.Limit = maxRows

	items, total, err := s.repo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}
	if total > int64(len(items)) {
		logger.Warn("Export truncated to row limit", map[string]interface{}{
			"total":    total,
			"exported": len(items),
		})
	}
	return items, nil
}

func (s *consultationService) GetConsultation(id uuid.UUID) (*model.Consultation, error) {
	consultation, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}
	return consultation, nil
}

func (s *consultationService) CreateConsultation(input CreateConsultationInput) (*model.Consultation, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrContentRequired
	}

	status, ok := model.ParseConsultationStatus(input.Status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	if err := s.checkMedium(input.MediumID); err != nil {
		return nil, err
	}
	if err := s.checkClient(input.ClientID); err != nil {
		return nil, err
	}

	consultation := &model.Consultation{
		ConsultedAt: input.ConsultedAt.UTC(),
		MediumID:    input.MediumID,
		ClientID:    input.ClientID,
		Content:     content,
		Status:      status,
	}

	err := s.repo.CreateWithLinks(consultation, uniqueIDs(input.TagIDs), uniqueIDs(input.CategoryIDs))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}

	logger.Info("Consultation created", map[string]interface{}{
		"consultation_id": consultation.ID,
		"status":          consultation.Status,
	})

	s.publish(websocket.EventConsultationCreated, &consultation.ID)
	return s.GetConsultation(consultation.ID)
}

func (s *consultationService) UpdateConsultation(id uuid.UUID, input UpdateConsultationInput) (*model.Consultation, error) {
	fields := map[string]interface{}{}

	if input.ConsultedAt != nil {
		fields["consulted_at"] = input.ConsultedAt.UTC()
	}
	if input.MediumID != nil {
		if err := s.checkMedium(*input.MediumID); err != nil {
			return nil, err
		}
		fields["medium_id"] = *input.MediumID
	}
	if input.ClientID != nil {
		if err := s.checkClient(*input.ClientID); err != nil {
			return nil, err
		}
		fields["client_id"] = *input.ClientID
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return nil, ErrContentRequired
		}
		fields["content"] = content
	}
	if input.Status != nil {
		status := model.ConsultationStatus(strings.TrimSpace(*input.Status))
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		fields["status"] = status
	}

	var tagIDs, categoryIDs *[]uuid.UUID
	if input.TagIDs != nil {
		ids := uniqueIDs(*input.TagIDs)
		tagIDs = &ids
	}
	if input.CategoryIDs != nil {
		ids := uniqueIDs(*input.CategoryIDs)
		categoryIDs = &ids
	}

	if err := s.repo.Update(id, fields, tagIDs, categoryIDs); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrConsultationNotFound
		case isForeignKeyViolation(err):
			return nil, ErrInvalidReference
		}
		return nil, err
	}

	logger.Info("Consultation updated", map[string]interface{}{
		"consultation_id":    id,
		"fields":             len(fields),
		"replace_tags":       tagIDs != nil,
		"replace_categories": categoryIDs != nil,
	})

	s.publish(websocket.EventConsultationUpdated, &id)
	return s.GetConsultation(id)
}

// DeleteConsultation 소프트 삭제. 없거나 이미 삭제된 경우 ErrConsultationNotFound
func (s *consultationService) DeleteConsultation(id uuid.UUID) error {
	if err := s.repo.SoftDelete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConsultationNotFound
		}
		return err
	}

	logger.Info("Consultation deleted", map[string]interface{}{
		"consultation_id": id,
	})

	s.publish(websocket.EventConsultationDeleted, &id)
	return nil
}

// BulkDelete 각 ID 를 독립적으로 소프트 삭제한다.
// 하나라도 실패하면 에러를 반환하지만 이미 적용된 삭제는 유지된다.
func (s *consultationService) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}

	// 삭제끼리는 독립적이므로 한 건의 실패가 나머지를 취소하지 않는다
	var deleted atomic.Int64
	var g errgroup.Group
	g.SetLimit(bulkDeleteConcurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.repo.SoftDelete(id); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrConsultationNotFound, id)
				}
				return fmt.Errorf("delete %s: %w", id, err)
			}
			deleted.Add(1)
			return nil
		})
	}

	err := g.Wait()
	count := int(deleted.Load())

	if err != nil {
		logger.Error("Bulk delete failed", err, map[string]interface{}{
			"requested": len(ids),
			"deleted":   count,
		})
	} else {
		logger.Info("Bulk delete completed", map[string]interface{}{
			"deleted": count,
		})
	}

	if count > 0 {
		s.publisher.Publish(websocket.Event{Type: websocket.EventConsultationDeleted, Count: count})
	}
	return count, err
}

func (s *consultationService) checkMedium(id uuid.UUID) error {
	if _, err := s.mediumRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMediumNotFound
		}
		return err
	}
	return nil
}

func (s *consultationService) checkClient(id uuid.UUID) error {
	if _, err := s.clientRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	return nil
}

func (s *consultationService) publish(eventType string, id *uuid.UUID) {
	s.publisher.Publish(websocket.Event{Type: eventType, ID: id})
}

// uniqueIDs drops duplicates and nil ids, keeping first-seen order
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}
