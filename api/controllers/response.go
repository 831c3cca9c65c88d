package controllers

import "net/http"

// APIResponse 统一API响应结构
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"操作成功"`
	Data   interface{} `json:"data,omitempty"`
}

// Render 实现render.Renderer接口
func (resp *APIResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// SuccessResponse 构建成功响应
func SuccessResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{
		Status: 0,
		Msg:    msg,
		Data:   data,
	}
}

// ErrorResponse 构建错误响应
func ErrorResponse(status int, msg string, err error) *APIResponse {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &APIResponse{
		Status: status,
		Msg:    msg,
	}
}
