package service

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// 스프레드시트 날짜 일련번호 1970-01-01 에 해당하는 값
const spreadsheetUnixEpochSerial = 25569

var ErrInvalidDate = errors.New("invalid date")

// 일련번호는 부호, 지수, 16진수 없이 10진수만 허용
var serialPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// 네 자리 정수는 연도 (2024 -> 2024-01-01)
var yearPattern = regexp.MustCompile(`^[0-9]{4}$`)

var inquiryDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2006.01.02",
}

// ParseInquiryDate converts a spreadsheet serial (number or numeric text) or a
// date string into a UTC timestamp. Strings without an offset are read as UTC.
func ParseInquiryDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}

	if yearPattern.MatchString(value) {
		t, err := time.ParseInLocation("2006", value, time.UTC)
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
		return t, nil
	}
	if serialPattern.MatchString(value) {
		serial, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
		return serialToTime(serial)
	}

	for _, layout := range inquiryDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// serialToTime unix_ms = round((v - 25569) * 86400 * 1000)
func serialToTime(serial float64) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, ErrInvalidDate
	}
	ms := math.Round((serial - spreadsheetUnixEpochSerial) * 86400 * 1000)
	if ms > math.MaxInt64/2 || ms < math.MinInt64/2 {
		return time.Time{}, ErrInvalidDate
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}
