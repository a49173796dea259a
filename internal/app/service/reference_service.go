package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/internal/app/repository"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"gorm.io/gorm"
)

// 기준 정보 이름 최대 길이
const maxReferenceNameLength = 50

var (
	ErrNameRequired     = errors.New("name is required")
	ErrNameTooLong      = errors.New("name is too long")
	ErrMediumNotFound   = errors.New("medium not found")
	ErrMediumExists     = errors.New("medium already exists")
	ErrCategoryNotFound = errors.New("item category not found")
	ErrCategoryExists   = errors.New("item category already exists")
	ErrTagNotFound      = errors.New("tag not found")
	ErrTagExists        = errors.New("tag already exists")
)

// normalizeName trims and checks the 1..50 character rule
func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxReferenceNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// ==================== 상담매체 ====================

type MediumService interface {
	ListMediums() ([]model.Medium, error)
	CreateMedium(name string) (*model.Medium, error)
	DeactivateMedium(id uuid.UUID) error
}

type mediumService struct {
	repo repository.MediumRepository
}

func NewMediumService(repo repository.MediumRepository) MediumService {
	return &mediumService{repo: repo}
}

func (s *mediumService) ListMediums() ([]model.Medium, error) {
	return s.repo.FindActive()
}

func (s *mediumService) CreateMedium(name string) (*model.Medium, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	medium := &model.Medium{Name: name, IsActive: true}
	if err := s.repo.Create(medium); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMediumExists
		}
		return nil, err
	}

	logger.Info("Medium created", map[string]interface{}{
		"medium_id": medium.ID,
		"name":      medium.Name,
	})
	return medium, nil
}

func (s *mediumService) DeactivateMedium(id uuid.UUID) error {
	if err := s.repo.Deactivate(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMediumNotFound
		}
		return err
	}

	logger.Info("Medium deactivated", map[string]interface{}{
		"medium_id": id,
	})
	return nil
}

// ==================== 문의 품목 ====================

type CategoryService interface {
	ListCategories() ([]model.ItemCategory, error)
	CreateCategory(name string) (*model.ItemCategory, error)
	DeactivateCategory(id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) ListCategories() ([]model.ItemCategory, error) {
	return s.repo.FindActive()
}

func (s *categoryService) CreateCategory(name string) (*model.ItemCategory, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	category := &model.ItemCategory{Name: name, IsActive: true}
	if err := s.repo.Create(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	logger.Info("Item category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

func (s *categoryService) DeactivateCategory(id uuid.UUID) error {
	if err := s.repo.Deactivate(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	logger.Info("Item category deactivated", map[string]interface{}{
		"category_id": id,
	})
	return nil
}

// ==================== 태그 ====================

type TagService interface {
	ListTags() ([]model.Tag, error)
	CreateTag(name string) (*model.Tag, error)
	DeleteTag(id uuid.UUID) error
}

type tagService struct {
	repo repository.TagRepository
}

func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo}
}

// ListTags 모든 태그 목록 조회 (이름순)
func (s *tagService) ListTags() ([]model.Tag, error) {
	return s.repo.FindAll()
}

func (s *tagService) CreateTag(name string) (*model.Tag, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	tag := &model.Tag{Name: name}
	if err := s.repo.Create(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTagExists
		}
		return nil, err
	}
	return tag, nil
}

// DeleteTag 태그에는 비활성 플래그가 없으므로 연결과 함께 삭제한다
func (s *tagService) DeleteTag(id uuid.UUID) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	logger.Info("Tag deleted", map[string]interface{}{
		"tag_id": id,
	})
	return nil
}
