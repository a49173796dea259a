package service

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook 첫 시트에 주어진 행을 쓴 xlsx
func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func sampleConsultation() model.Consultation {
	contact := "010-1234-5678"
	return model.Consultation{
		ID:          uuid.New(),
		ConsultedAt: time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC),
		Content:     "배송, 문의",
		Status:      model.StatusDone,
		CreatedAt:   time.Date(2024, 1, 16, 9, 30, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC),
		Medium:      &model.Medium{Name: "전화"},
		Client:      &model.Client{Name: "가나상사", Contact: &contact},
		Tags:        []model.Tag{{Name: "에어셀"}, {Name: "방석"}},
		Categories:  []model.ItemCategory{{Name: "매트리스"}},
	}
}

func TestSpreadsheetService_TemplateRoundTrip(t *testing.T) {
	svc := NewSpreadsheetService()

	body, err := svc.Template(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{TemplateSheetName, GuideSheetName}, f.GetSheetList())

	rows, err := svc.ParseUpload(bytes.NewReader(body))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "2024-03-01", row.InquiryDate)
	assert.Equal(t, "전화", row.ChannelName)
	assert.Equal(t, "샘플업체", row.ClientName)
	assert.Equal(t, "에어셀, 아이스팩", row.TagNames)
	assert.Equal(t, "접수", row.StatusName)
	_, ok := validateImportRow(row)
	assert.True(t, ok)
}

func TestSpreadsheetService_ParseUpload(t *testing.T) {
	svc := NewSpreadsheetService()

	t.Run("Numeric date cells stay serials and blank rows are skipped", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{
			{"상담내용", "업체명", "문의일자", "상담매체", "비고"},
			{"견적 문의", " Acme ", 45000, "메일", "무시"},
			{"", "", "", ""},
			{"재문의", "Acme", "2024-01-15", "전화"},
		})

		rows, err := svc.ParseUpload(buf)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "45000", rows[0].InquiryDate)
		assert.Equal(t, "Acme", rows[0].ClientName)
		assert.Equal(t, "견적 문의", rows[0].Content)
		assert.Equal(t, "2024-01-15", rows[1].InquiryDate)
	})

	t.Run("Missing required columns", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{
			{"문의일자", "업체명"},
			{"2024-01-15", "Acme"},
		})

		_, err := svc.ParseUpload(buf)
		assert.ErrorIs(t, err, ErrMissingColumns)
		assert.Contains(t, err.Error(), "상담매체, 상담내용")
	})

	t.Run("Header only", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{
			{"문의일자", "상담매체", "업체명", "상담내용"},
		})

		_, err := svc.ParseUpload(buf)
		assert.ErrorIs(t, err, ErrEmptySpreadsheet)
	})

	t.Run("Not a workbook", func(t *testing.T) {
		_, err := svc.ParseUpload(bytes.NewReader([]byte("a,b,c")))
		assert.ErrorIs(t, err, ErrInvalidWorkbook)
	})
}

func TestSpreadsheetService_RenderCSV(t *testing.T) {
	svc := NewSpreadsheetService()

	body, err := svc.RenderCSV([]model.Consultation{sampleConsultation()})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(body, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(body[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, ExportHeaders(), records[0])
	assert.Equal(t, []string{
		"완료", "2024-01-15", "전화", "에어셀, 방석", "매트리스", "배송, 문의",
		"가나상사", "010-1234-5678", "", "2024-01-16 09:30", "2024-01-17 10:00",
	}, records[1])
}

func TestSpreadsheetService_RenderXLSX(t *testing.T) {
	svc := NewSpreadsheetService()

	body, err := svc.RenderXLSX([]model.Consultation{sampleConsultation()})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ExportHeaders(), rows[0])
	assert.Equal(t, "가나상사", rows[1][6])
}
