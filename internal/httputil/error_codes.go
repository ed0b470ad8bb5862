package httputil

// API 錯誤代碼常數.
const (
	// 1000-1999: 簽名認證相關錯誤 (401 Unauthorized / 503 Service Unavailable).
	ErrorCodeMissingSignature  = 1001
	ErrorCodeSignatureMismatch = 1002
	ErrorCodeSecretUnset       = 1003

	// 2000-2999: 參數相關錯誤 (400 Bad Request / 422 Unprocessable Entity).
	ErrorCodeInvalidParameter = 2001
	ErrorCodeValidationFailed = 2002

	// 5000-5999: 處理相關錯誤 (500 Internal Server Error).
	ErrorCodeProcessingFailed = 5001
)
