package model

import (
	"time"
)

/*
	db_model.go: 规定数据存储的格式。
*/

// 用户角色。新同步的用户默认为candidate，改为interviewer属后台操作。
type UserRole = string

const (
	UserRoleCandidate   UserRole = "candidate"
	UserRoleInterviewer UserRole = "interviewer"
)

// UserDo 用户信息，由身份服务的user.created webhook同步产生。
type UserDo struct {
	// 用户ID，作为数据库唯一标识。
	ID string `json:"id" bson:"_id"`
	// ClerkID 身份服务侧的用户ID，全局唯一，业务侧以它关联用户。
	ClerkID string `json:"clerkId" bson:"clerkId"`
	// 用户昵称，来自身份服务的first/last name拼接。
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	// Image 头像URL地址，来自身份服务。
	Image string `json:"image,omitempty" bson:"image,omitempty"`
	Role  string `json:"role" bson:"role"`
	// CreateTime 首次同步时间。
	CreateTime time.Time `json:"createTime" bson:"createTime"`
}

// 面试状态。存储层为自由字符串，以下仅为默认取值。
const (
	InterviewStatusScheduled  = "scheduled"
	InterviewStatusInProgress = "in-progress"
	InterviewStatusCompleted  = "completed"
)

// InterviewDo 面试记录。
type InterviewDo struct {
	ID          string `json:"id" bson:"_id"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	// StartTime 预约的开始时间。
	StartTime time.Time `json:"startTime" bson:"startTime"`
	// EndTime 仅当status变为completed时由服务端写入。
	EndTime *time.Time `json:"endTime,omitempty" bson:"endTime,omitempty"`
	Status  string     `json:"status" bson:"status"`
	// CallID 视频房间服务侧的房间ID，每场面试唯一。
	CallID string `json:"callId" bson:"callId"`
	// CandidateID 候选人的ClerkID。
	CandidateID string `json:"candidateId" bson:"candidateId"`
	// InterviewerIDs 面试官ClerkID列表，逗号分隔存储。
	InterviewerIDs string    `json:"interviewerIds" bson:"interviewerIds"`
	CreateTime     time.Time `json:"createTime" bson:"createTime"`
	UpdateTime     time.Time `json:"updateTime" bson:"updateTime"`
}

// CommentDo 面试官对一场面试的评价，创建后不可修改。
type CommentDo struct {
	ID      string  `json:"id" bson:"_id"`
	Content string  `json:"content" bson:"content"`
	Rating  float64 `json:"rating" bson:"rating"`
	// InterviewerID 写入时取自已鉴权用户的ClerkID，不信任客户端传入。
	InterviewerID string    `json:"interviewerId" bson:"interviewerId"`
	InterviewID   string    `json:"interviewId" bson:"interviewId"`
	CreateTime    time.Time `json:"createTime" bson:"createTime"`
}
