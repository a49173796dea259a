package service

import (
	"sync"
	"testing"
	"time"

	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/internal/app/repository"
	"github.com/ikkim/consultation-backend/internal/db"
	"github.com/ikkim/consultation-backend/internal/websocket"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingPublisher 발행된 이벤트를 기록한다
type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *recordingPublisher) Publish(event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

type serviceTestEnv struct {
	db               *gorm.DB
	mediumRepo       repository.MediumRepository
	categoryRepo     repository.CategoryRepository
	tagRepo          repository.TagRepository
	clientRepo       repository.ClientRepository
	consultationRepo repository.ConsultationRepository
	publisher        *recordingPublisher
}

func setupServiceTest(t *testing.T) *serviceTestEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return &serviceTestEnv{
		db:               testDB,
		mediumRepo:       repository.NewMediumRepository(testDB),
		categoryRepo:     repository.NewCategoryRepository(testDB),
		tagRepo:          repository.NewTagRepository(testDB),
		clientRepo:       repository.NewClientRepository(testDB),
		consultationRepo: repository.NewConsultationRepository(testDB),
		publisher:        &recordingPublisher{},
	}
}

func (e *serviceTestEnv) consultationService() ConsultationService {
	return NewConsultationService(e.consultationRepo, e.mediumRepo, e.clientRepo, e.publisher)
}

func (e *serviceTestEnv) importService() BulkImportService {
	return NewBulkImportService(e.consultationRepo, e.mediumRepo, e.clientRepo, e.tagRepo, e.categoryRepo, e.publisher)
}

// seedDefaultMediums 기본 상담매체 생성
func (e *serviceTestEnv) seedDefaultMediums(t *testing.T) {
	require.NoError(t, db.SeedMediums(e.db))
}

func (e *serviceTestEnv) medium(t *testing.T, name string) *model.Medium {
	var medium model.Medium
	require.NoError(t, e.db.Where("name = ?", name).First(&medium).Error)
	return &medium
}

func (e *serviceTestEnv) createMedium(t *testing.T, name string) *model.Medium {
	medium := &model.Medium{Name: name, IsActive: true}
	require.NoError(t, e.mediumRepo.Create(medium))
	return medium
}

func (e *serviceTestEnv) createClient(t *testing.T, name string, contact, email *string) *model.Client {
	client := &model.Client{Name: name, Contact: contact, Email: email}
	require.NoError(t, e.clientRepo.Create(client))
	return client
}

func (e *serviceTestEnv) createTag(t *testing.T, name string) *model.Tag {
	tag := &model.Tag{Name: name}
	require.NoError(t, e.tagRepo.Create(tag))
	return tag
}

func (e *serviceTestEnv) createCategory(t *testing.T, name string) *model.ItemCategory {
	category := &model.ItemCategory{Name: name, IsActive: true}
	require.NoError(t, e.categoryRepo.Create(category))
	return category
}

func (e *serviceTestEnv) countConsultations(t *testing.T) int64 {
	var count int64
	require.NoError(t, e.db.Model(&model.Consultation{}).Count(&count).Error)
	return count
}

func strPtr(s string) *string {
	return &s
}

func utcDay(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
