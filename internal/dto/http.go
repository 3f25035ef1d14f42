package dto

import "net/http"

type BaseResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func NewBaseResponse(code int, message string, data interface{}) *BaseResponse {
	return &BaseResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func NewBadRequestResponse(message string) *BaseResponse {
	return NewBaseResponse(http.StatusBadRequest, message, nil)
}

func NewSuccessResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusOK, message, data)
}

type PublishSignalRequest struct {
	SignalState
	ChatIDs []int64 `json:"chat_ids" validate:"required,min=1,dive,ne=0"`
}

type PublishSignalResult struct {
	Signal    *FinalSignal     `json:"signal"`
	Delivered []int64          `json:"delivered"`
	Failed    map[int64]string `json:"failed,omitempty"`
}
