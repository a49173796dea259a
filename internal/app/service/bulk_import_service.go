package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/internal/app/repository"
	"github.com/ikkim/consultation-backend/internal/websocket"
	"github.com/ikkim/consultation-backend/pkg/logger"
)

// firstDataRow 엑셀 기준 첫 데이터 행 번호 (1행은 헤더)
const firstDataRow = 2

var ErrNoImportRows = errors.New("at least one row is required")

// ImportError 실패한 행과 사유
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult 대량 등록 결과
type ImportResult struct {
	Success int           `json:"success"`
	Failed  int           `json:"failed"`
	Errors  []ImportError `json:"errors"`
	Message string        `json:"message"`
}

func (r *ImportResult) fail(row int, message string) {
	r.Failed++
	r.Errors = append(r.Errors, ImportError{Row: row, Message: message})
}

// Summary "N건 등록 완료[, M건 실패]"
func (r *ImportResult) Summary() string {
	msg := fmt.Sprintf("%d건 등록 완료", r.Success)
	if r.Failed > 0 {
		msg += fmt.Sprintf(", %d건 실패", r.Failed)
	}
	return msg
}

type BulkImportService interface {
	Import(rows []ImportRow) (*ImportResult, error)
}

type bulkImportService struct {
	consultationRepo repository.ConsultationRepository
	mediumRepo       repository.MediumRepository
	clientRepo       repository.ClientRepository
	tagRepo          repository.TagRepository
	categoryRepo     repository.CategoryRepository
	publisher        ChangePublisher
}

func NewBulkImportService(
	consultationRepo repository.ConsultationRepository,
	mediumRepo repository.MediumRepository,
	clientRepo repository.ClientRepository,
	tagRepo repository.TagRepository,
	categoryRepo repository.CategoryRepository,
	publisher ChangePublisher,
) BulkImportService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &bulkImportService{
		consultationRepo: consultationRepo,
		mediumRepo:       mediumRepo,
		clientRepo:       clientRepo,
		tagRepo:          tagRepo,
		categoryRepo:     categoryRepo,
		publisher:        publisher,
	}
}

// Import 행마다 독립적으로 검증 -> 참조 해석 -> 날짜 변환 -> 저장을 수행한다.
// 행 단위 실패는 결과에 기록되고, 에러는 참조 데이터를 읽지 못한 경우에만 반환된다.
// 실패한 행이 앞 단계에서 만든 업체/태그/품목은 되돌리지 않는다.
func (s *bulkImportService) Import(rows []ImportRow) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, ErrNoImportRows
	}

	resolver, err := newReferenceResolver(s.mediumRepo, s.clientRepo, s.tagRepo, s.categoryRepo)
	if err != nil {
		logger.Error("Failed to load import reference data", err)
		return nil, err
	}

	result := &ImportResult{Errors: []ImportError{}}
	for i, row := range rows {
		rowNumber := i + firstDataRow
		if message, ok := s.importRow(resolver, row); !ok {
			result.fail(rowNumber, message)
			continue
		}
		result.Success++
	}
	result.Message = result.Summary()

	logger.Info("Bulk import completed", map[string]interface{}{
		"rows":    len(rows),
		"success": result.Success,
		"failed":  result.Failed,
	})

	if result.Success > 0 {
		s.publisher.Publish(websocket.Event{Type: websocket.EventConsultationImported, Count: result.Success})
	}
	return result, nil
}

// importRow returns the failure message and false when the row is rejected
func (s *bulkImportService) importRow(resolver *referenceResolver, row ImportRow) (string, bool) {
	if message, ok := validateImportRow(row); !ok {
		return message, false
	}

	mediumID, ok := resolver.medium(row.ChannelName)
	if !ok {
		return fmt.Sprintf("알 수 없는 상담매체: %s", row.ChannelName), false
	}

	consultedAt, err := ParseInquiryDate(row.InquiryDate)
	if err != nil {
		return fmt.Sprintf("잘못된 날짜 형식: %s", row.InquiryDate), false
	}

	status, ok := model.ParseConsultationStatus(row.StatusName)
	if !ok {
		return fmt.Sprintf("잘못된 상태값: %s", row.StatusName), false
	}

	clientID, err := resolver.client(row.ClientName, row.Contact, row.Email)
	if err != nil {
		return fmt.Sprintf("업체 생성 실패: %s", err.Error()), false
	}

	tagIDs := resolver.tagIDs(row.TagNames)
	categoryIDs := resolver.categoryIDs(row.CategoryNames)

	consultation := &model.Consultation{
		ConsultedAt: consultedAt,
		MediumID:    mediumID,
		ClientID:    clientID,
		Content:     strings.TrimSpace(row.Content),
		Status:      status,
	}
	if err := s.consultationRepo.Create(consultation); err != nil {
		return fmt.Sprintf("상담 생성 실패: %s", err.Error()), false
	}
	if err := s.consultationRepo.AddTags(consultation.ID, tagIDs); err != nil {
		return fmt.Sprintf("태그 연결 실패: %s", err.Error()), false
	}
	if err := s.consultationRepo.AddCategories(consultation.ID, categoryIDs); err != nil {
		return fmt.Sprintf("품목 연결 실패: %s", err.Error()), false
	}
	return "", true
}
