package response

// Response общий конверт успешного ответа API
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse конверт ошибки; Details показывается пользователю как есть
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

func ErrorResponseWithDetails(code, details string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   code,
		Details: details,
	}
}
