package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CommentCreateForm struct {
	InterviewID string `json:"interviewId" form:"interviewId"`
	Content     string `json:"content" form:"content"`
	// Rating 数值不限定范围。
	Rating float64 `json:"rating" form:"rating"`
}

func (f *CommentCreateForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.InterviewID, validation.Required),
		validation.Field(&f.Content, validation.Required),
	)
}
