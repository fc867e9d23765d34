package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/solutions/hire-cube/internal/common/utils"
	"github.com/solutions/hire-cube/internal/protodef/form"
	"github.com/solutions/hire-cube/internal/protodef/model"
)

type CommentInterface interface {
	CreateComment(xl *xlog.Logger, comment *model.CommentDo) (*model.CommentDo, error)
	ListCommentsByInterview(xl *xlog.Logger, interviewID string) ([]model.CommentDo, error)
}

type CommentApiHandler struct {
	Comment CommentInterface
}

func makeCommentResponse(comment *model.CommentDo) model.CommentResponse {
	return model.CommentResponse{
		ID:            comment.ID,
		Content:       comment.Content,
		Rating:        comment.Rating,
		InterviewerID: comment.InterviewerID,
		InterviewID:   comment.InterviewID,
		CreateTime:    comment.CreateTime.Unix(),
	}
}

// AddComment 创建面试评价。interviewerId取自已鉴权用户，不信任客户端传入。
func (h *CommentApiHandler) AddComment(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	args := form.CommentCreateForm{}
	err := c.ShouldBindJSON(&args)
	if err != nil {
		xl.Infof("invalid args in body, error %v", err)
		responseErr := model.NewResponseErrorBadRequest()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	if err := args.Validate(); err != nil {
		xl.Infof("form validation error: %v", err)
		responseErr := model.NewResponseErrorValidation(err)
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}

	comment := &model.CommentDo{
		ID:            utils.GenerateID(),
		Content:       args.Content,
		Rating:        args.Rating,
		InterviewerID: userID,
		InterviewID:   args.InterviewID,
		CreateTime:    time.Now(),
	}
	commentRes, err := h.Comment.CreateComment(xl, comment)
	if err != nil {
		xl.Errorf("failed to create comment for interview %s, error %v", args.InterviewID, err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	commentResp := makeCommentResponse(commentRes)
	model.NewSuccessResponse(commentResp).WithRequestID(requestID).Send(c)
}

// ListComments 列出一场面试的全部评价，按写入顺序返回。
func (h *CommentApiHandler) ListComments(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	interviewID := c.Param("interviewId")
	comments, err := h.Comment.ListCommentsByInterview(xl, interviewID)
	if err != nil {
		xl.Errorf("failed to list comments of interview %s, error %v", interviewID, err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	listResp := &model.CommentListResponse{List: []model.CommentResponse{}}
	for i := range comments {
		listResp.List = append(listResp.List, makeCommentResponse(&comments[i]))
	}
	listResp.Cnt = len(listResp.List)
	model.NewSuccessResponse(listResp).WithRequestID(requestID).Send(c)
}
