package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/solutions/hire-cube/internal/protodef/model"
)

const (
	ErrTitleMsg  = "标题过长"
	ErrTimeMsg   = "开始时间不可为空"
	ErrStatusMsg = "状态不可为空"
)

type InterviewCreateForm struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	// StartTime 秒级时间戳。
	StartTime int64  `json:"startTime" form:"startTime"`
	Status    string `json:"status" form:"status"`
	// CallID 视频房间服务侧的房间ID，每场面试唯一。
	CallID         string   `json:"callId" form:"callId"`
	CandidateID    string   `json:"candidateId" form:"candidateId"`
	InterviewerIDs []string `json:"interviewerIds" form:"interviewerIds"`
}

func (i *InterviewCreateForm) Validate() error {
	// 不校验candidateId/interviewerIds是否指向已存在用户，引用完整性为建议性。
	err := validation.ValidateStruct(i,
		validation.Field(&i.Title, validation.Required, validation.Length(0, 100).Error(ErrTitleMsg)),
		validation.Field(&i.StartTime, validation.Required.Error(ErrTimeMsg)),
		validation.Field(&i.CallID, validation.Required),
		validation.Field(&i.CandidateID, validation.Required),
	)
	return err
}

func (i *InterviewCreateForm) FillDefault() {
	if i.Status == "" {
		i.Status = model.InterviewStatusScheduled
	}
}

type InterviewStatusForm struct {
	Status string `json:"status" form:"status"`
}

func (i *InterviewStatusForm) Validate() error {
	// 状态为自由字符串，不校验状态迁移图。
	return validation.ValidateStruct(i,
		validation.Field(&i.Status, validation.Required.Error(ErrStatusMsg)),
	)
}
