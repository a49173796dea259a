package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/internal/app/repository"
	"github.com/ikkim/consultation-backend/pkg/logger"
)

// referenceResolver 한 번의 대량 등록 동안 이름 -> ID 조회 맵을 유지한다.
// 새로 만든 업체/태그/품목은 맵에 추가되어 이후 행에서 재사용된다.
type referenceResolver struct {
	clientRepo   repository.ClientRepository
	tagRepo      repository.TagRepository
	categoryRepo repository.CategoryRepository

	mediums    map[string]uuid.UUID     // 정확한 이름
	clients    map[string]*model.Client // 소문자 이름
	tags       map[string]uuid.UUID     // 소문자 이름
	categories map[string]uuid.UUID     // 소문자 이름 (활성만)
}

func newReferenceResolver(
	mediumRepo repository.MediumRepository,
	clientRepo repository.ClientRepository,
	tagRepo repository.TagRepository,
	categoryRepo repository.CategoryRepository,
) (*referenceResolver, error) {
	mediums, err := mediumRepo.FindActive()
	if err != nil {
		return nil, err
	}
	clients, err := clientRepo.FindAll("")
	if err != nil {
		return nil, err
	}
	tags, err := tagRepo.FindAll()
	if err != nil {
		return nil, err
	}
	categories, err := categoryRepo.FindActive()
	if err != nil {
		return nil, err
	}

	r := &referenceResolver{
		clientRepo:   clientRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
		mediums:      make(map[string]uuid.UUID, len(mediums)),
		clients:      make(map[string]*model.Client, len(clients)),
		tags:         make(map[string]uuid.UUID, len(tags)),
		categories:   make(map[string]uuid.UUID, len(categories)),
	}
	for _, m := range mediums {
		r.mediums[m.Name] = m.ID
	}
	for i := range clients {
		key := lookupKey(clients[i].Name)
		if _, exists := r.clients[key]; !exists {
			r.clients[key] = &clients[i]
		}
	}
	for _, t := range tags {
		r.tags[lookupKey(t.Name)] = t.ID
	}
	for _, c := range categories {
		r.categories[lookupKey(c.Name)] = c.ID
	}

	logger.Debug("Import reference snapshot loaded", map[string]interface{}{
		"mediums":    len(r.mediums),
		"clients":    len(r.clients),
		"tags":       len(r.tags),
		"categories": len(r.categories),
	})
	return r, nil
}

func lookupKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// medium 활성 매체를 이름으로 찾는다. 매체는 자동 생성하지 않는다
func (r *referenceResolver) medium(name string) (uuid.UUID, bool) {
	id, ok := r.mediums[strings.TrimSpace(name)]
	return id, ok
}

// client 업체를 찾거나 만든다. 기존 업체는 비어 있는 연락처/이메일만 채운다
func (r *referenceResolver) client(name, contact, email string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	key := lookupKey(name)

	if existing, ok := r.clients[key]; ok {
		r.fillClientContact(existing, contact, email)
		return existing.ID, nil
	}

	client := &model.Client{
		Name:    name,
		Contact: model.NullableString(contact),
		Email:   model.NullableString(email),
	}
	if err := r.clientRepo.Create(client); err != nil {
		return uuid.Nil, err
	}
	r.clients[key] = client
	return client.ID, nil
}

func (r *referenceResolver) fillClientContact(client *model.Client, contact, email string) {
	fields := map[string]interface{}{}
	newContact := model.NullableString(contact)
	newEmail := model.NullableString(email)

	if newContact != nil && !client.HasContact() {
		fields["contact"] = *newContact
	}
	if newEmail != nil && !client.HasEmail() {
		fields["email"] = *newEmail
	}
	if len(fields) == 0 {
		return
	}

	if err := r.clientRepo.Update(client.ID, fields); err != nil {
		logger.Warn("Failed to fill client contact during import", map[string]interface{}{
			"client_id": client.ID,
			"error":     err.Error(),
		})
		return
	}
	if _, ok := fields["contact"]; ok {
		client.Contact = newContact
	}
	if _, ok := fields["email"]; ok {
		client.Email = newEmail
	}
}

// tagIDs 쉼표로 구분된 태그 이름을 ID 로 바꾼다. 생성 실패한 태그는 건너뛴다
func (r *referenceResolver) tagIDs(raw string) []uuid.UUID {
	var ids []uuid.UUID
	for _, name := range splitNames(raw) {
		key := lookupKey(name)
		id, ok := r.tags[key]
		if !ok {
			tag := &model.Tag{Name: name}
			if err := r.tagRepo.Create(tag); err != nil {
				logger.Warn("Skipping tag that could not be created", map[string]interface{}{
					"name":  name,
					"error": err.Error(),
				})
				continue
			}
			id = tag.ID
			r.tags[key] = id
		}
		ids = append(ids, id)
	}
	return uniqueIDs(ids)
}

// categoryIDs 활성 품목 기준으로 찾고 없으면 활성 상태로 만든다
func (r *referenceResolver) categoryIDs(raw string) []uuid.UUID {
	var ids []uuid.UUID
	for _, name := range splitNames(raw) {
		key := lookupKey(name)
		id, ok := r.categories[key]
		if !ok {
			category := &model.ItemCategory{Name: name, IsActive: true}
			if err := r.categoryRepo.Create(category); err != nil {
				logger.Warn("Skipping item category that could not be created", map[string]interface{}{
					"name":  name,
					"error": err.Error(),
				})
				continue
			}
			id = category.ID
			r.categories[key] = id
		}
		ids = append(ids, id)
	}
	return uniqueIDs(ids)
}
