package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/solutions/hire-cube/internal/common/utils"
	"github.com/solutions/hire-cube/internal/protodef/errors"
	"github.com/solutions/hire-cube/internal/protodef/form"
	"github.com/solutions/hire-cube/internal/protodef/model"
)

type InterviewInterface interface {
	CreateInterview(xl *xlog.Logger, interview *model.InterviewDo) (*model.InterviewDo, error)
	ListAllInterviews(xl *xlog.Logger) ([]model.InterviewDo, error)
	ListInterviewsByCandidate(xl *xlog.Logger, candidateID string) ([]model.InterviewDo, error)
	GetInterviewByID(xl *xlog.Logger, interviewID string) (*model.InterviewDo, error)
	GetInterviewByCallID(xl *xlog.Logger, callID string) (*model.InterviewDo, error)
	UpdateInterview(xl *xlog.Logger, id string, interview *model.InterviewDo) (*model.InterviewDo, error)
}

type RTCInterface interface {
	GenerateRoomToken(roomID string, identity string, admin bool) (string, error)
	ListUser(roomID string) ([]string, error)
	KickUser(roomID string, identity string) error
}

type InterviewApiHandler struct {
	Interview InterviewInterface
	RTC       RTCInterface
}

func makeInterviewResponse(interview *model.InterviewDo) model.InterviewResponse {
	endTime := int64(0)
	if interview.EndTime != nil {
		endTime = interview.EndTime.Unix()
	}
	return model.InterviewResponse{
		ID:             interview.ID,
		Title:          interview.Title,
		Description:    interview.Description,
		StartTime:      interview.StartTime.Unix(),
		EndTime:        endTime,
		Status:         interview.Status,
		CallID:         interview.CallID,
		CandidateID:    interview.CandidateID,
		InterviewerIDs: utils.SplitIDs(interview.InterviewerIDs),
	}
}

// ListAllInterviews 列出全部面试记录，不分页。
func (h *InterviewApiHandler) ListAllInterviews(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	interviews, err := h.Interview.ListAllInterviews(xl)
	if err != nil {
		xl.Errorf("failed to list all interviews, error %v", err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	listResp := &model.InterviewListResponse{List: []model.InterviewResponse{}}
	for i := range interviews {
		listResp.List = append(listResp.List, makeInterviewResponse(&interviews[i]))
	}
	listResp.Cnt = len(listResp.List)
	model.NewSuccessResponse(listResp).WithRequestID(requestID).Send(c)
}

// ListMyInterviews 列出当前用户作为候选人的面试记录。
func (h *InterviewApiHandler) ListMyInterviews(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	interviews, err := h.Interview.ListInterviewsByCandidate(xl, userID)
	if err != nil {
		xl.Errorf("failed to list interviews of candidate %s, error %v", userID, err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	listResp := &model.InterviewListResponse{List: []model.InterviewResponse{}}
	for i := range interviews {
		listResp.List = append(listResp.List, makeInterviewResponse(&interviews[i]))
	}
	listResp.Cnt = len(listResp.List)
	model.NewSuccessResponse(listResp).WithRequestID(requestID).Send(c)
}

// GetInterviewByCallID 按视频房间ID查找面试记录。
func (h *InterviewApiHandler) GetInterviewByCallID(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	callID := c.Param("callId")
	interview, err := h.Interview.GetInterviewByCallID(xl, callID)
	if err != nil {
		serverErr, ok := err.(*errors.ServerError)
		if ok && serverErr.Code == errors.ServerErrorInterviewNotFound {
			responseErr := model.NewResponseErrorNoSuchInterview()
			resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
			c.JSON(http.StatusOK, resp)
			return
		}
		xl.Errorf("failed to get interview by callId %s, error %v", callID, err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	interviewResp := makeInterviewResponse(interview)
	model.NewSuccessResponse(interviewResp).WithRequestID(requestID).Send(c)
}

// CreateInterview 创建面试。
func (h *InterviewApiHandler) CreateInterview(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	args := &form.InterviewCreateForm{}
	err := c.ShouldBindJSON(args)
	if err != nil {
		xl.Infof("invalid args in body, error %v", err)
		responseErr := model.NewResponseErrorBadRequest()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	args.FillDefault()
	if err := args.Validate(); err != nil {
		xl.Infof("form validation error: %v", err)
		responseErr := model.NewResponseErrorValidation(err)
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}

	now := time.Now()
	interview := &model.InterviewDo{
		ID:             utils.GenerateID(),
		Title:          args.Title,
		Description:    args.Description,
		StartTime:      time.Unix(args.StartTime, 0),
		Status:         args.Status,
		CallID:         args.CallID,
		CandidateID:    args.CandidateID,
		InterviewerIDs: utils.JoinIDs(args.InterviewerIDs),
		CreateTime:     now,
		UpdateTime:     now,
	}
	interviewRes, err := h.Interview.CreateInterview(xl, interview)
	if err != nil {
		// callId撞唯一索引时也走到这里，不做领域层翻译。
		xl.Errorf("failed to create interview, error %v", err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	xl.Infof("user %s created interview: ID %s, title %s", userID, interviewRes.ID, args.Title)
	resp := model.NewSuccessResponse(model.UpsertInterviewResponse{
		ID: interviewRes.ID,
	}).WithRequestID(requestID)
	c.JSON(http.StatusOK, resp)
}

// UpdateInterviewStatus 修改面试状态。状态为自由字符串，不校验状态迁移图。
// 当且仅当新状态为completed时，由服务端写入endTime并清场视频房间。
func (h *InterviewApiHandler) UpdateInterviewStatus(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	interviewID := c.Param("interviewId")
	args := form.InterviewStatusForm{}
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

	interview, err := h.Interview.GetInterviewByID(xl, interviewID)
	if err != nil {
		serverErr, ok := err.(*errors.ServerError)
		if ok && serverErr.Code == errors.ServerErrorInterviewNotFound {
			xl.Infof("interview %s not found", interviewID)
			responseErr := model.NewResponseErrorNoSuchInterview()
			resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
			c.JSON(http.StatusOK, resp)
			return
		}
		xl.Errorf("failed to get current interview %s, error %v", interviewID, err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}

	now := time.Now()
	interview.Status = args.Status
	interview.UpdateTime = now
	if args.Status == model.InterviewStatusCompleted {
		interview.EndTime = &now
	}
	interview, err = h.Interview.UpdateInterview(xl, interview.ID, interview)
	if err != nil {
		xl.Errorf("failed to update interview %s, error %v", interviewID, err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	if args.Status == model.InterviewStatusCompleted {
		h.kickOtherUsers(xl, interview.CallID)
	}
	xl.Infof("interview %s status changed to %s by user %s", interviewID, args.Status, userID)
	resp := model.NewSuccessResponse(model.UpsertInterviewResponse{
		ID: interview.ID,
	}).WithRequestID(requestID)
	c.JSON(http.StatusOK, resp)
}

// JoinCall 生成加入面试视频房间的room token。面试官获得admin权限。
func (h *InterviewApiHandler) JoinCall(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	callID := c.Param("callId")
	interview, err := h.Interview.GetInterviewByCallID(xl, callID)
	if err != nil {
		serverErr, ok := err.(*errors.ServerError)
		if ok && serverErr.Code == errors.ServerErrorInterviewNotFound {
			responseErr := model.NewResponseErrorNoSuchInterview()
			resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
			c.JSON(http.StatusOK, resp)
			return
		}
		xl.Errorf("failed to get interview by callId %s, error %v", callID, err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	admin := utils.HasID(interview.InterviewerIDs, userID)
	roomToken, err := h.RTC.GenerateRoomToken(interview.CallID, userID, admin)
	if err != nil {
		xl.Errorf("failed to generate room token for call %s, error %v", callID, err)
		responseErr := model.NewResponseErrorExternalService()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	xl.Infof("user %s joined call %s of interview %s", userID, callID, interview.ID)
	resp := model.NewSuccessResponse(model.JoinCallResponse{
		RoomToken: roomToken,
		CallID:    interview.CallID,
	}).WithRequestID(requestID)
	c.JSON(http.StatusOK, resp)
}

func (h *InterviewApiHandler) kickOtherUsers(xl *xlog.Logger, callID string) {
	roomUserIds, _ := h.RTC.ListUser(callID)
	for _, user := range roomUserIds {
		h.RTC.KickUser(callID, user)
	}
}
