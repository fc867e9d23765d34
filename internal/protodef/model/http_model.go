package model

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

/*
	http_model.go: 规定API的参数与返回值的定义，***Response表示 *** 接口的返回体格式。
*/

const (
	// RequestIDHeader request ID 头部。
	RequestIDHeader = "X-Reqid"
	// XLogKey gin context中，用于获取记录请求相关日志的 xlog logger的key。
	XLogKey = "xlog-logger"

	// UserIDContextKey 存放在请求context 中的用户ClerkID。
	UserIDContextKey = "userID"

	// RequestStartKey 存放在gin context中的请求开始的时间戳，单位为纳秒。
	RequestStartKey = "request-start-timestamp-nano"

	// 状态码和状态信息
	ResponseStatusCodeSuccess    ResponseStatusCode    = 0
	ResponseStatusMessageSuccess ResponseStatusMessage = "success"
)

// 状态码和状态信息
type ResponseStatusCode int
type ResponseStatusMessage string

type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"requestId"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    int(ResponseStatusCodeSuccess),
		Message: string(ResponseStatusMessageSuccess),
		Data:    data,
	}
}

func NewFailResponse(err ResponseError) *Response {
	return &Response{
		Code:    err.Code,
		Message: err.Message,
	}
}

func (r *Response) WithRequestID(requestID string) *Response {
	r.RequestID = requestID
	return r
}

func (r *Response) Send(c *gin.Context) {
	c.JSON(http.StatusOK, r)
}

// UserResponse 用户信息返回体。
type UserResponse struct {
	ID      string `json:"id"`
	ClerkID string `json:"clerkId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Image   string `json:"image,omitempty"`
	Role    string `json:"role"`
}

// UserListResponse 用户列表返回体。
type UserListResponse struct {
	List []UserResponse `json:"list"`
	Cnt  int            `json:"cnt"`
}

// InterviewResponse 面试详情返回体。
type InterviewResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	StartTime      int64    `json:"startTime"`
	EndTime        int64    `json:"endTime,omitempty"`
	Status         string   `json:"status"`
	CallID         string   `json:"callId"`
	CandidateID    string   `json:"candidateId"`
	InterviewerIDs []string `json:"interviewerIds"`
}

// InterviewListResponse 面试列表返回体。
type InterviewListResponse struct {
	List []InterviewResponse `json:"list"`
	Cnt  int                 `json:"cnt"`
}

// UpsertInterviewResponse 创建/更新面试的返回体。
type UpsertInterviewResponse struct {
	ID string `json:"interviewId"`
}

// CommentResponse 评价返回体。
type CommentResponse struct {
	ID            string  `json:"id"`
	Content       string  `json:"content"`
	Rating        float64 `json:"rating"`
	InterviewerID string  `json:"interviewerId"`
	InterviewID   string  `json:"interviewId"`
	CreateTime    int64   `json:"createTime"`
}

// CommentListResponse 评价列表返回体。按写入顺序返回，不做显式排序。
type CommentListResponse struct {
	List []CommentResponse `json:"list"`
	Cnt  int               `json:"cnt"`
}

// JoinCallResponse 加入视频房间的返回体。
type JoinCallResponse struct {
	RoomToken string `json:"roomToken"`
	CallID    string `json:"callId"`
}
