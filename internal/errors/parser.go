package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Status  int    // HTTP 상태 코드
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 저장소 에러를 사용자 친화적인 메시지와 코드로 변환
// context 는 "create tag", "update consultation" 처럼 작업과 대상을 담는다
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(err.Error(), context)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return parseForeignKeyError(err.Error(), context)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return parseDuplicateKeyError(pgErr.ConstraintName+" "+pgErr.Message, context)
		case pgForeignKeyViolation:
			return parseForeignKeyError(pgErr.ConstraintName+" "+pgErr.Detail, context)
		case pgNotNullViolation:
			return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationRequired, Message: "필수 항목이 누락되었습니다"}
		case pgCheckViolation:
			return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidInput, Message: "입력값이 유효하지 않습니다"}
		}
	}

	errStrLower := strings.ToLower(err.Error())

	// 드라이버가 번역하지 못한 제약 조건 위반
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(err.Error(), context)
	}
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(err.Error(), context)
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Status:  http.StatusServiceUnavailable,
			Code:    InternalDatabaseError,
			Message: "데이터베이스 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errStr string, context string) ErrorInfo {
	target := strings.ToLower(errStr + " " + context)

	switch {
	case strings.Contains(target, "item_categories") || strings.Contains(target, "category"):
		return ErrorInfo{Status: http.StatusConflict, Code: CategoryExists, Message: "이미 존재하는 품목입니다"}
	case strings.Contains(target, "tags") || strings.Contains(target, "tag"):
		return ErrorInfo{Status: http.StatusConflict, Code: TagExists, Message: "이미 존재하는 태그입니다"}
	case strings.Contains(target, "mediums") || strings.Contains(target, "medium"):
		return ErrorInfo{Status: http.StatusConflict, Code: MediumExists, Message: "이미 존재하는 매체입니다"}
	case strings.Contains(target, "users") || strings.Contains(target, "email"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: AuthEmailAlreadyExists, Message: "이미 가입된 이메일입니다"}
	}

	return ErrorInfo{
		Status:  http.StatusConflict,
		Code:    ResourceAlreadyExists,
		Message: "이미 존재하는 데이터입니다",
	}
}

// parseForeignKeyError Foreign key constraint 위반 에러 파싱
func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Status:  http.StatusConflict,
			Code:    ResourceConflict,
			Message: "연결된 상담 내역이 있어 삭제할 수 없습니다",
		}
	}

	switch {
	case strings.Contains(errLower, "medium"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: MediumNotFound, Message: "존재하지 않는 상담매체입니다"}
	case strings.Contains(errLower, "client"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: ClientNotFound, Message: "존재하지 않는 업체입니다"}
	case strings.Contains(errLower, "tag"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: TagNotFound, Message: "존재하지 않는 태그입니다"}
	case strings.Contains(errLower, "categor"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: CategoryNotFound, Message: "존재하지 않는 품목입니다"}
	}

	return ErrorInfo{
		Status:  http.StatusBadRequest,
		Code:    ResourceNotFound,
		Message: "참조하는 데이터를 찾을 수 없습니다",
	}
}

// getNotFoundMessage context에 따른 Not Found 메시지
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "consultation") || strings.Contains(contextLower, "상담"):
		return "상담 내역을 찾을 수 없습니다"
	case strings.Contains(contextLower, "client") || strings.Contains(contextLower, "업체"):
		return "업체를 찾을 수 없습니다"
	case strings.Contains(contextLower, "categor") || strings.Contains(contextLower, "품목"):
		return "품목을 찾을 수 없습니다"
	case strings.Contains(contextLower, "tag") || strings.Contains(contextLower, "태그"):
		return "태그를 찾을 수 없습니다"
	case strings.Contains(contextLower, "medium") || strings.Contains(contextLower, "매체"):
		return "상담매체를 찾을 수 없습니다"
	case strings.Contains(contextLower, "user") || strings.Contains(contextLower, "사용자"):
		return "사용자를 찾을 수 없습니다"
	}

	return "요청한 데이터를 찾을 수 없습니다"
}

// getDefaultErrorMessage context에 따른 기본 에러 메시지
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create") || strings.Contains(contextLower, "등록"):
		return "등록 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "update") || strings.Contains(contextLower, "수정"):
		return "수정 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "삭제"):
		return "삭제 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "export") || strings.Contains(contextLower, "내보내기"):
		return "내보내기 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}

	return "서버 오류가 발생했습니다"
}

// ParseAndRespond 에러를 파싱하여 파싱된 상태 코드로 응답
func ParseAndRespond(c interface{ JSON(int, interface{}) }, err error, context string) {
	info := ParseError(err, context)
	c.JSON(info.Status, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
