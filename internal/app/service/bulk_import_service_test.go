package service

import (
	"testing"

	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validImportRow() ImportRow {
	return ImportRow{
		InquiryDate: "2024-01-15",
		ChannelName: "전화",
		ClientName:  "가나상사",
		Content:     "배송 문의",
	}
}

func TestBulkImportService_Import_RowErrors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(row *ImportRow)
		wantMessage string
	}{
		{
			name:        "Unknown channel",
			mutate:      func(row *ImportRow) { row.ChannelName = "팩스" },
			wantMessage: "알 수 없는 상담매체: 팩스",
		},
		{
			name:        "Invalid date",
			mutate:      func(row *ImportRow) { row.InquiryDate = "어제" },
			wantMessage: "잘못된 날짜 형식: 어제",
		},
		{
			name:        "Invalid status",
			mutate:      func(row *ImportRow) { row.StatusName = "취소" },
			wantMessage: "잘못된 상태값: 취소",
		},
		{
			name: "Missing required fields are joined",
			mutate: func(row *ImportRow) {
				row.ClientName = " "
				row.Content = ""
			},
			wantMessage: "업체명은 필수입니다, 상담내용은 필수입니다",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupServiceTest(t)
			env.seedDefaultMediums(t)

			row := validImportRow()
			tt.mutate(&row)

			result, err := env.importService().Import([]ImportRow{row})
			require.NoError(t, err)
			assert.Zero(t, result.Success)
			assert.Equal(t, 1, result.Failed)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, 2, result.Errors[0].Row)
			assert.Equal(t, tt.wantMessage, result.Errors[0].Message)
			assert.Equal(t, "0건 등록 완료, 1건 실패", result.Message)
			assert.Zero(t, env.countConsultations(t))
			assert.Empty(t, env.publisher.types())
		})
	}
}

func TestBulkImportService_Import_PartialSuccess(t *testing.T) {
	env := setupServiceTest(t)
	env.seedDefaultMediums(t)

	bad := validImportRow()
	bad.ChannelName = "팩스"

	result, err := env.importService().Import([]ImportRow{validImportRow(), bad, validImportRow()})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "2건 등록 완료, 1건 실패", result.Message)
	assert.Equal(t, int64(2), env.countConsultations(t))

	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, websocket.EventConsultationImported, env.publisher.events[0].Type)
	assert.Equal(t, 2, env.publisher.events[0].Count)
}

func TestBulkImportService_Import_ReusesClientCaseInsensitively(t *testing.T) {
	env := setupServiceTest(t)
	env.seedDefaultMediums(t)
	existing := env.createClient(t, "Acme", nil, strPtr("first@acme.com"))

	row := validImportRow()
	row.ClientName = "ACME"
	row.Contact = "010-1234-5678"
	row.Email = "second@acme.com"

	result, err := env.importService().Import([]ImportRow{row})
	require.NoError(t, err)
	require.Equal(t, 1, result.Success)

	var clients []model.Client
	require.NoError(t, env.db.Find(&clients).Error)
	require.Len(t, clients, 1)

	client := clients[0]
	assert.Equal(t, existing.ID, client.ID)
	assert.Equal(t, "Acme", client.Name)
	require.NotNil(t, client.Contact)
	assert.Equal(t, "010-1234-5678", *client.Contact, "empty contact is filled")
	require.NotNil(t, client.Email)
	assert.Equal(t, "first@acme.com", *client.Email, "existing email is kept")

	var consultation model.Consultation
	require.NoError(t, env.db.First(&consultation).Error)
	assert.Equal(t, existing.ID, consultation.ClientID)
}

func TestBulkImportService_Import_NewClientCreatedOnce(t *testing.T) {
	env := setupServiceTest(t)
	env.seedDefaultMediums(t)

	first := validImportRow()
	first.ClientName = "새업체"
	second := validImportRow()
	second.ClientName = "새업체"
	second.Email = "new@example.com"

	result, err := env.importService().Import([]ImportRow{first, second})
	require.NoError(t, err)
	require.Equal(t, 2, result.Success)

	var clients []model.Client
	require.NoError(t, env.db.Find(&clients).Error)
	require.Len(t, clients, 1)
	require.NotNil(t, clients[0].Email)
	assert.Equal(t, "new@example.com", *clients[0].Email)
}

func TestBulkImportService_Import_TagsAndCategories(t *testing.T) {
	env := setupServiceTest(t)
	env.seedDefaultMediums(t)
	env.createTag(t, "에어셀")

	first := validImportRow()
	first.TagNames = "Foo, 에어셀, ,foo"
	first.CategoryNames = "매트리스"
	second := validImportRow()
	second.TagNames = "FOO"
	second.CategoryNames = "매트리스, 방석"

	result, err := env.importService().Import([]ImportRow{first, second})
	require.NoError(t, err)
	require.Equal(t, 2, result.Success)

	var tags []model.Tag
	require.NoError(t, env.db.Order("name").Find(&tags).Error)
	require.Len(t, tags, 2)
	assert.Equal(t, "Foo", tags[0].Name)

	var categories []model.ItemCategory
	require.NoError(t, env.db.Find(&categories).Error)
	assert.Len(t, categories, 2)
	for _, c := range categories {
		assert.True(t, c.IsActive)
	}

	var tagLinks, categoryLinks int64
	require.NoError(t, env.db.Model(&model.ConsultationTag{}).Count(&tagLinks).Error)
	require.NoError(t, env.db.Model(&model.ConsultationCategory{}).Count(&categoryLinks).Error)
	assert.Equal(t, int64(3), tagLinks)
	assert.Equal(t, int64(3), categoryLinks)
}

func TestBulkImportService_Import_DateAndStatus(t *testing.T) {
	env := setupServiceTest(t)
	env.seedDefaultMediums(t)

	row := validImportRow()
	row.InquiryDate = "45000"
	row.StatusName = "  "

	result, err := env.importService().Import([]ImportRow{row})
	require.NoError(t, err)
	require.Equal(t, 1, result.Success)
	assert.Equal(t, "1건 등록 완료", result.Message)
	assert.Empty(t, result.Errors)

	var consultation model.Consultation
	require.NoError(t, env.db.First(&consultation).Error)
	assert.Equal(t, utcDay(2023, 3, 15), consultation.ConsultedAt.UTC())
	assert.Equal(t, model.StatusReceived, consultation.Status)
	assert.Equal(t, env.medium(t, "전화").ID, consultation.MediumID)
}

func TestBulkImportService_Import_InactiveMediumRejected(t *testing.T) {
	env := setupServiceTest(t)
	env.seedDefaultMediums(t)
	require.NoError(t, env.mediumRepo.Deactivate(env.medium(t, "전화").ID))

	result, err := env.importService().Import([]ImportRow{validImportRow()})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "알 수 없는 상담매체: 전화", result.Errors[0].Message)
}

func TestBulkImportService_Import_NoRows(t *testing.T) {
	env := setupServiceTest(t)

	result, err := env.importService().Import(nil)
	assert.ErrorIs(t, err, ErrNoImportRows)
	assert.Nil(t, result)
}
