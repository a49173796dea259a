package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const (
	TemplateSheetName = "상담등록양식"
	GuideSheetName    = "입력안내"
	ExportSheetName   = "상담내역"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	CSVContentType  = "text/csv; charset=utf-8"
)

// utf8BOM 엑셀에서 한글 CSV 가 깨지지 않도록 앞에 붙인다
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	ErrEmptySpreadsheet = errors.New("spreadsheet has no data rows")
	ErrMissingColumns   = errors.New("required columns are missing")
	ErrInvalidWorkbook  = errors.New("file is not a readable xlsx workbook")
)

// exportColumn 내보내기 컬럼 정의
type exportColumn struct {
	Title string
	Width float64
	Value func(c *model.Consultation) string
}

var exportColumns = []exportColumn{
	{Title: "상태", Width: 8, Value: func(c *model.Consultation) string { return string(c.Status) }},
	{Title: "문의일자", Width: 12, Value: func(c *model.Consultation) string { return c.ConsultedAt.UTC().Format("2006-01-02") }},
	{Title: "상담매체", Width: 10, Value: func(c *model.Consultation) string {
		if c.Medium == nil {
			return ""
		}
		return c.Medium.Name
	}},
	{Title: "취급품목", Width: 20, Value: func(c *model.Consultation) string {
		names := make([]string, 0, len(c.Tags))
		for _, t := range c.Tags {
			names = append(names, t.Name)
		}
		return strings.Join(names, ", ")
	}},
	{Title: "문의품목", Width: 20, Value: func(c *model.Consultation) string {
		names := make([]string, 0, len(c.Categories))
		for _, cat := range c.Categories {
			names = append(names, cat.Name)
		}
		return strings.Join(names, ", ")
	}},
	{Title: "상담내용", Width: 50, Value: func(c *model.Consultation) string { return c.Content }},
	{Title: "업체명", Width: 15, Value: func(c *model.Consultation) string {
		if c.Client == nil {
			return ""
		}
		return c.Client.Name
	}},
	{Title: "연락처", Width: 15, Value: func(c *model.Consultation) string {
		if c.Client == nil || c.Client.Contact == nil {
			return ""
		}
		return *c.Client.Contact
	}},
	{Title: "이메일", Width: 25, Value: func(c *model.Consultation) string {
		if c.Client == nil || c.Client.Email == nil {
			return ""
		}
		return *c.Client.Email
	}},
	{Title: "등록일", Width: 18, Value: func(c *model.Consultation) string { return c.CreatedAt.UTC().Format("2006-01-02 15:04") }},
	{Title: "수정일", Width: 18, Value: func(c *model.Consultation) string { return c.UpdatedAt.UTC().Format("2006-01-02 15:04") }},
}

// ExportHeaders 내보내기 헤더 순서
func ExportHeaders() []string {
	headers := make([]string, len(exportColumns))
	for i, col := range exportColumns {
		headers[i] = col.Title
	}
	return headers
}

type SpreadsheetService interface {
	ParseUpload(r io.Reader) ([]ImportRow, error)
	Template(now time.Time) ([]byte, error)
	RenderXLSX(items []model.Consultation) ([]byte, error)
	RenderCSV(items []model.Consultation) ([]byte, error)
}

type spreadsheetService struct{}

func NewSpreadsheetService() SpreadsheetService {
	return &spreadsheetService{}
}

// ParseUpload 첫 번째 시트의 헤더 행으로 컬럼을 찾고 나머지 행을 ImportRow 로 읽는다.
// 원시 셀 값을 읽으므로 날짜 셀은 일련번호로 전달된다.
func (s *spreadsheetService) ParseUpload(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrEmptySpreadsheet
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySpreadsheet
	}

	columns := make(map[int]string, len(rows[0]))
	found := map[string]bool{}
	for i, header := range rows[0] {
		if key, ok := ImportColumnKey(header); ok {
			columns[i] = key
			found[key] = true
		}
	}

	var missing []string
	for _, col := range ImportColumns {
		if col.Required && !found[col.Key] {
			missing = append(missing, col.Title)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var result []ImportRow
	for _, cells := range rows[1:] {
		if isBlankRow(cells) {
			continue
		}
		var row ImportRow
		for i, cell := range cells {
			if key, ok := columns[i]; ok {
				row.Set(key, strings.TrimSpace(cell))
			}
		}
		result = append(result, row)
	}
	if len(result) == 0 {
		return nil, ErrEmptySpreadsheet
	}

	logger.Debug("Spreadsheet parsed", map[string]interface{}{
		"sheet": sheetName,
		"rows":  len(result),
	})
	return result, nil
}

func isBlankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Template 업로드 양식 (샘플 한 행) + 입력안내 시트
func (s *spreadsheetService) Template(now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TemplateSheetName); err != nil {
		return nil, err
	}

	headers := make([]interface{}, len(ImportColumns))
	for i, col := range ImportColumns {
		headers[i] = col.Title
	}
	sample := []interface{}{
		now.Format("2006-01-02"),
		"전화",
		"샘플업체",
		"010-1234-5678",
		"sample@example.com",
		"에어셀, 아이스팩",
		"에어완충재, 보냉백",
		"제품 문의입니다.",
		string(model.StatusReceived),
	}
	if err := writeSheet(f, TemplateSheetName, headers, [][]interface{}{sample}); err != nil {
		return nil, err
	}
	for i, col := range ImportColumns {
		if err := setColumnWidth(f, TemplateSheetName, i+1, col.Width); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(GuideSheetName); err != nil {
		return nil, err
	}
	guide := [][]interface{}{
		{"문의일자", "YYYY-MM-DD 형식 (예: 2024-01-15)", "O"},
		{"상담매체", "전화, 채널톡, 메일, 카카오톡, 기타 중 선택", "O"},
		{"업체명", "업체명 (없으면 자동 생성)", "O"},
		{"연락처", "연락처 (선택)", ""},
		{"이메일", "이메일 주소 (선택)", ""},
		{"취급품목", "쉼표(,)로 구분하여 입력 (선택)", ""},
		{"문의품목", "쉼표(,)로 구분하여 입력 (선택)", ""},
		{"상담내용", "상담 내용", "O"},
		{"상태", "접수, 진행, 완료, 보류 중 선택 (기본: 접수)", ""},
	}
	if err := writeSheet(f, GuideSheetName, []interface{}{"항목", "설명", "필수"}, guide); err != nil {
		return nil, err
	}
	for i, width := range []float64{12, 50, 6} {
		if err := setColumnWidth(f, GuideSheetName, i+1, width); err != nil {
			return nil, err
		}
	}

	return workbookBytes(f)
}

func (s *spreadsheetService) RenderXLSX(items []model.Consultation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheetName); err != nil {
		return nil, err
	}

	headers := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		headers[i] = col.Title
	}
	rows := make([][]interface{}, 0, len(items))
	for i := range items {
		rows = append(rows, exportValues(&items[i]))
	}

	if err := writeSheet(f, ExportSheetName, headers, rows); err != nil {
		return nil, err
	}
	for i, col := range exportColumns {
		if err := setColumnWidth(f, ExportSheetName, i+1, col.Width); err != nil {
			return nil, err
		}
	}
	return workbookBytes(f)
}

// RenderCSV UTF-8 BOM 으로 시작하는 CSV
func (s *spreadsheetService) RenderCSV(items []model.Consultation) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(ExportHeaders()); err != nil {
		return nil, err
	}
	for i := range items {
		values := exportValues(&items[i])
		record := make([]string, len(values))
		for j, v := range values {
			record[j] = v.(string)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportValues(c *model.Consultation) []interface{} {
	values := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		values[i] = col.Value(c)
	}
	return values
}

// writeSheet 굵은 헤더 행과 데이터 행을 A1 부터 쓴다
func writeSheet(f *excelize.File, sheet string, headers []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func setColumnWidth(f *excelize.File, sheet string, col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, name, name, width)
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
