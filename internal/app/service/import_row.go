package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ImportColumn 대량 등록 컬럼. Key 는 JSON 키, Title 은 엑셀 헤더
type ImportColumn struct {
	Key      string
	Title    string
	Required bool
	Width    float64
}

// ImportColumns 업로드 양식 컬럼 순서
var ImportColumns = []ImportColumn{
	{Key: "inquiry_date", Title: "문의일자", Required: true, Width: 12},
	{Key: "channel_name", Title: "상담매체", Required: true, Width: 10},
	{Key: "client_name", Title: "업체명", Required: true, Width: 15},
	{Key: "contact", Title: "연락처", Width: 15},
	{Key: "email", Title: "이메일", Width: 25},
	{Key: "tag_names", Title: "취급품목", Width: 25},
	{Key: "category_names", Title: "문의품목", Width: 25},
	{Key: "content", Title: "상담내용", Required: true, Width: 50},
	{Key: "status_name", Title: "상태", Width: 8},
}

// ImportColumnKey maps an English key or a Korean header title to the column key
func ImportColumnKey(header string) (string, bool) {
	header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	for _, col := range ImportColumns {
		if strings.EqualFold(header, col.Key) || header == col.Title {
			return col.Key, true
		}
	}
	return "", false
}

// ImportRow 대량 등록 한 행. 값은 모두 원문 그대로 보관하고 단계별로 해석한다
type ImportRow struct {
	InquiryDate   string `json:"inquiry_date"`
	ChannelName   string `json:"channel_name"`
	ClientName    string `json:"client_name"`
	Content       string `json:"content"`
	Contact       string `json:"contact"`
	Email         string `json:"email"`
	TagNames      string `json:"tag_names"`
	CategoryNames string `json:"category_names"`
	StatusName    string `json:"status_name"`
}

// Set assigns a value by column key; unknown keys are ignored
func (r *ImportRow) Set(key, value string) {
	switch key {
	case "inquiry_date":
		r.InquiryDate = value
	case "channel_name":
		r.ChannelName = value
	case "client_name":
		r.ClientName = value
	case "content":
		r.Content = value
	case "contact":
		r.Contact = value
	case "email":
		r.Email = value
	case "tag_names":
		r.TagNames = value
	case "category_names":
		r.CategoryNames = value
	case "status_name":
		r.StatusName = value
	}
}

// UnmarshalJSON accepts the English keys or the Korean column titles.
// When both name the same column the English key wins.
// Strings, numbers and booleans are kept as text (inquiry_date may be a serial number).
func (r *ImportRow) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	*r = ImportRow{}
	english := map[string]string{}
	for _, name := range names {
		key, ok := ImportColumnKey(name)
		if !ok {
			continue
		}
		value, err := rawText(fields[name])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if isEnglishKey(name, key) {
			english[key] = value
			continue
		}
		r.Set(key, value)
	}
	for key, value := range english {
		r.Set(key, value)
	}
	return nil
}

func isEnglishKey(name, key string) bool {
	return strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")), key)
}

var errUnsupportedValue = errors.New("value must be a string or a number")

func rawText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", errUnsupportedValue
	}
	return string(trimmed), nil
}

// validateImportRow 필수 항목 확인. 누락된 항목을 모두 모아 하나의 메시지로 반환
func validateImportRow(row ImportRow) (string, bool) {
	var missing []string
	if strings.TrimSpace(row.InquiryDate) == "" {
		missing = append(missing, "문의일자는 필수입니다")
	}
	if strings.TrimSpace(row.ChannelName) == "" {
		missing = append(missing, "상담매체는 필수입니다")
	}
	if strings.TrimSpace(row.ClientName) == "" {
		missing = append(missing, "업체명은 필수입니다")
	}
	if strings.TrimSpace(row.Content) == "" {
		missing = append(missing, "상담내용은 필수입니다")
	}
	if len(missing) > 0 {
		return strings.Join(missing, ", "), false
	}
	return "", true
}

// splitNames splits a comma separated cell, trimming and dropping blanks and
// case-insensitive repeats
func splitNames(raw string) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}
