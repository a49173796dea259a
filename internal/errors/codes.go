package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 로그아웃된 토큰
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복
	AuthPasswordMismatch   = "AUTH_PASSWORD_MISMATCH"   // 비밀번호 확인 불일치

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationTooShort     = "VALIDATION_TOO_SHORT"     // 너무 짧음
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 상담 (CONSULTATION_) ====================
	ConsultationNotFound      = "CONSULTATION_NOT_FOUND"      // 상담 내역 없음
	ConsultationInvalidStatus = "CONSULTATION_INVALID_STATUS" // 잘못된 상태값
	ConsultationBulkDelete    = "CONSULTATION_BULK_DELETE"    // 일괄 삭제 실패
	ConsultationImportInvalid = "CONSULTATION_IMPORT_INVALID" // 대량 등록 데이터 오류

	// ==================== 기준 정보 (REFERENCE_) ====================
	ClientNotFound   = "CLIENT_NOT_FOUND"   // 업체 없음
	MediumNotFound   = "MEDIUM_NOT_FOUND"   // 매체 없음
	MediumExists     = "MEDIUM_EXISTS"      // 매체 중복
	CategoryNotFound = "CATEGORY_NOT_FOUND" // 품목 없음
	CategoryExists   = "CATEGORY_EXISTS"    // 품목 중복
	TagNotFound      = "TAG_NOT_FOUND"      // 태그 없음
	TagExists        = "TAG_EXISTS"         // 태그 중복

	// ==================== 파일 (FILE_) ====================
	FileInvalidType    = "FILE_INVALID_TYPE"   // 잘못된 파일 형식
	FileParseFailed    = "FILE_PARSE_FAILED"   // 파일 해석 실패
	FileExportFailed   = "FILE_EXPORT_FAILED"  // 내보내기 실패
	ArchiveUnavailable = "ARCHIVE_UNAVAILABLE" // 보관 저장소 미설정

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)
