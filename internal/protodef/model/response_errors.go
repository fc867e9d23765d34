package model

type ResponseError struct {
	// 自定义错误码。
	Code int `json:"code"`
	// 请求ID。
	RequestID string `json:"requestID"`
	// Message
	Message string `json:"message"`
}

const (
	ResponseErrorBadRequest      = 400000
	ResponseErrorUnauthorized    = 401000
	ResponseErrorNotLoggedIn     = 401001
	ResponseErrorBadToken        = 401003
	ResponseErrorValidation      = 401005
	ResponseErrorNotFound        = 404000
	ResponseErrorNoSuchUser      = 404001
	ResponseErrorNoSuchInterview = 404002
	ResponseErrorInternal        = 500000
	ResponseErrorExternalService = 502001
)

// NewResponseErrorBadRequest 参数错误。
func NewResponseErrorBadRequest() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorBadRequest,
		Message: "bad request",
	}
}

// NewResponseErrorNotLoggedIn 用户未登录。
func NewResponseErrorNotLoggedIn() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNotLoggedIn,
		Message: "not logged in",
	}
}

// NewResponseErrorBadToken 登录token错误。
func NewResponseErrorBadToken() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorBadToken,
		Message: "bad token",
	}
}

// NewResponseErrorUnauthorized 一般的HTTP Unauthorized 错误。
func NewResponseErrorUnauthorized() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorUnauthorized,
		Message: "unauthorized",
	}
}

func NewResponseErrorValidation(err error) *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorValidation,
		Message: err.Error(),
	}
}

func NewResponseErrorNotFound() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNotFound,
		Message: "not found",
	}
}

// NewResponseErrorNoSuchUser 无此用户。
func NewResponseErrorNoSuchUser() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNoSuchUser,
		Message: "no such user",
	}
}

// NewResponseErrorNoSuchInterview 无此面试。
func NewResponseErrorNoSuchInterview() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNoSuchInterview,
		Message: "no such interview",
	}
}

// NewResponseErrorInternal 其他内部服务错误。
func NewResponseErrorInternal() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorInternal,
		Message: "internal server error",
	}
}

// NewResponseErrorExternalService 调用外部服务错误。
func NewResponseErrorExternalService() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorExternalService,
		Message: "calling external service failed",
	}
}
