package httpx

import (
	"log"
	"net/http"

	"tiny-blog-server/internal/platform/service"
)

// StatusOf 将业务错误映射为 HTTP 状态码，非业务错误一律视为 500。
func StatusOf(err error) int {
	serviceErr, ok := service.AsServiceError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	return serviceErrorStatus(serviceErr.Code)
}

// MessageOf 返回可展示给用户的错误信息。
// 非业务错误或内部错误会被记录日志并替换为 fallbackMessage。
func MessageOf(err error, fallbackMessage string) string {
	serviceErr, ok := service.AsServiceError(err)
	if !ok {
		log.Printf("❌ %s: %v", fallbackMessage, err)
		return fallbackMessage
	}
	if serviceErr.Code == service.ErrorCodeInternal && serviceErr.Cause != nil {
		log.Printf("❌ %s: %v", serviceErr.Message, serviceErr.Cause)
	}
	return serviceErr.Message
}

func serviceErrorStatus(code service.ErrorCode) int {
	switch code {
	case service.ErrorCodeValidation:
		return http.StatusBadRequest
	case service.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case service.ErrorCodeForbidden:
		return http.StatusForbidden
	case service.ErrorCodeConflict:
		return http.StatusConflict
	case service.ErrorCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
