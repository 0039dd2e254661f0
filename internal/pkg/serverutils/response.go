package serverutils

type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type ErrorBody struct {
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) BaseResponse[*ErrorBody] {
	return BaseResponse[*ErrorBody]{
		Success: false,
		Message: message,
	}
}
