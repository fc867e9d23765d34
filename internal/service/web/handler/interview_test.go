package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/solutions/hire-cube/internal/common/utils"
	"github.com/solutions/hire-cube/internal/protodef/errors"
	"github.com/solutions/hire-cube/internal/protodef/model"
)

type fakeInterviewService struct {
	interviews map[string]*model.InterviewDo
}

func newFakeInterviewService() *fakeInterviewService {
	return &fakeInterviewService{interviews: map[string]*model.InterviewDo{}}
}

func (s *fakeInterviewService) CreateInterview(xl *xlog.Logger, interview *model.InterviewDo) (*model.InterviewDo, error) {
	copied := *interview
	s.interviews[interview.ID] = &copied
	return interview, nil
}

func (s *fakeInterviewService) ListAllInterviews(xl *xlog.Logger) ([]model.InterviewDo, error) {
	res := []model.InterviewDo{}
	for _, interview := range s.interviews {
		res = append(res, *interview)
	}
	return res, nil
}

func (s *fakeInterviewService) ListInterviewsByCandidate(xl *xlog.Logger, candidateID string) ([]model.InterviewDo, error) {
	res := []model.InterviewDo{}
	for _, interview := range s.interviews {
		if interview.CandidateID == candidateID {
			res = append(res, *interview)
		}
	}
	return res, nil
}

func (s *fakeInterviewService) GetInterviewByID(xl *xlog.Logger, interviewID string) (*model.InterviewDo, error) {
	interview, ok := s.interviews[interviewID]
	if !ok {
		return nil, &errors.ServerError{Code: errors.ServerErrorInterviewNotFound}
	}
	copied := *interview
	return &copied, nil
}

func (s *fakeInterviewService) GetInterviewByCallID(xl *xlog.Logger, callID string) (*model.InterviewDo, error) {
	for _, interview := range s.interviews {
		if interview.CallID == callID {
			copied := *interview
			return &copied, nil
		}
	}
	return nil, &errors.ServerError{Code: errors.ServerErrorInterviewNotFound}
}

func (s *fakeInterviewService) UpdateInterview(xl *xlog.Logger, id string, interview *model.InterviewDo) (*model.InterviewDo, error) {
	if _, ok := s.interviews[id]; !ok {
		return nil, &errors.ServerError{Code: errors.ServerErrorInterviewNotFound}
	}
	copied := *interview
	s.interviews[id] = &copied
	return interview, nil
}

type fakeRTCService struct {
	participants map[string][]string
	kicked       []string
}

func newFakeRTCService() *fakeRTCService {
	return &fakeRTCService{participants: map[string][]string{}}
}

func (s *fakeRTCService) GenerateRoomToken(roomID string, identity string, admin bool) (string, error) {
	return fmt.Sprintf("token-%s-%s-%v", roomID, identity, admin), nil
}

func (s *fakeRTCService) ListUser(roomID string) ([]string, error) {
	return s.participants[roomID], nil
}

func (s *fakeRTCService) KickUser(roomID string, identity string) error {
	s.kicked = append(s.kicked, identity)
	return nil
}

func newInterviewTestRouter(t *testing.T, handler *InterviewApiHandler, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(model.XLogKey, xlog.New("interview-test"))
		if userID != "" {
			c.Set(model.UserIDContextKey, userID)
		}
	})
	r.GET("/interviews", handler.ListAllInterviews)
	r.GET("/interviews/my", handler.ListMyInterviews)
	r.GET("/interviews/call/:callId", handler.GetInterviewByCallID)
	r.POST("/interviews", handler.CreateInterview)
	r.POST("/interviews/:interviewId/status", handler.UpdateInterviewStatus)
	r.POST("/joinCall/:callId", handler.JoinCall)
	return r
}

func doJSONRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *model.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body, error %v", err)
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	resp := &model.Response{}
	if err := json.Unmarshal(w.Body.Bytes(), resp); err != nil {
		t.Fatalf("failed to decode response body, error %v", err)
	}
	return resp
}

func decodeData(t *testing.T, resp *model.Response, out interface{}) {
	t.Helper()
	buf, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("failed to re-marshal response data, error %v", err)
	}
	if err := json.Unmarshal(buf, out); err != nil {
		t.Fatalf("failed to decode response data, error %v", err)
	}
}

func TestCreateInterview(t *testing.T) {
	interviewService := newFakeInterviewService()
	handler := &InterviewApiHandler{Interview: interviewService, RTC: newFakeRTCService()}
	r := newInterviewTestRouter(t, handler, "user_hr")

	resp := doJSONRequest(t, r, http.MethodPost, "/interviews", map[string]interface{}{
		"title":          "Go后端一面",
		"description":    "基础与并发",
		"startTime":      time.Now().Unix(),
		"callId":         "call-1",
		"candidateId":    "user_candidate",
		"interviewerIds": []string{"user_hr", "user_lead"},
	})
	if resp.Code != int(model.ResponseStatusCodeSuccess) {
		t.Fatalf("expect success, got code %d message %s", resp.Code, resp.Message)
	}
	created := model.UpsertInterviewResponse{}
	decodeData(t, resp, &created)
	if created.ID == "" {
		t.Fatalf("expect interviewId in response")
	}

	stored, ok := interviewService.interviews[created.ID]
	if !ok {
		t.Fatalf("interview %s not stored", created.ID)
	}
	if stored.Status != model.InterviewStatusScheduled {
		t.Fatalf("expect default status %s, got %s", model.InterviewStatusScheduled, stored.Status)
	}
	if stored.EndTime != nil {
		t.Fatalf("endTime should be unset on creation")
	}
	if stored.InterviewerIDs != utils.JoinIDs([]string{"user_hr", "user_lead"}) {
		t.Fatalf("unexpected interviewerIds %q", stored.InterviewerIDs)
	}
}

func TestCreateInterviewValidation(t *testing.T) {
	handler := &InterviewApiHandler{Interview: newFakeInterviewService(), RTC: newFakeRTCService()}
	r := newInterviewTestRouter(t, handler, "user_hr")

	resp := doJSONRequest(t, r, http.MethodPost, "/interviews", map[string]interface{}{
		"startTime":   time.Now().Unix(),
		"callId":      "call-1",
		"candidateId": "user_candidate",
	})
	if resp.Code != model.ResponseErrorValidation {
		t.Fatalf("expect code %d for missing title, got %d", model.ResponseErrorValidation, resp.Code)
	}
}

func TestUpdateInterviewStatusCompleted(t *testing.T) {
	interviewService := newFakeInterviewService()
	rtcService := newFakeRTCService()
	handler := &InterviewApiHandler{Interview: interviewService, RTC: rtcService}
	r := newInterviewTestRouter(t, handler, "user_hr")

	startTime := time.Now().Add(-time.Hour)
	interviewService.interviews["itv-1"] = &model.InterviewDo{
		ID:          "itv-1",
		Title:       "Go后端一面",
		StartTime:   startTime,
		Status:      model.InterviewStatusInProgress,
		CallID:      "call-1",
		CandidateID: "user_candidate",
		CreateTime:  startTime,
		UpdateTime:  startTime,
	}
	rtcService.participants["call-1"] = []string{"user_candidate", "user_hr"}

	resp := doJSONRequest(t, r, http.MethodPost, "/interviews/itv-1/status", map[string]interface{}{
		"status": model.InterviewStatusCompleted,
	})
	if resp.Code != int(model.ResponseStatusCodeSuccess) {
		t.Fatalf("expect success, got code %d message %s", resp.Code, resp.Message)
	}
	stored := interviewService.interviews["itv-1"]
	if stored.Status != model.InterviewStatusCompleted {
		t.Fatalf("expect status %s, got %s", model.InterviewStatusCompleted, stored.Status)
	}
	if stored.EndTime == nil {
		t.Fatalf("endTime should be stamped on completion")
	}
	if stored.EndTime.Before(startTime) {
		t.Fatalf("endTime %s before startTime %s", stored.EndTime, startTime)
	}
	if len(rtcService.kicked) != 2 {
		t.Fatalf("expect 2 participants kicked out, got %v", rtcService.kicked)
	}
}

func TestUpdateInterviewStatusFreeForm(t *testing.T) {
	interviewService := newFakeInterviewService()
	rtcService := newFakeRTCService()
	handler := &InterviewApiHandler{Interview: interviewService, RTC: rtcService}
	r := newInterviewTestRouter(t, handler, "user_hr")

	interviewService.interviews["itv-1"] = &model.InterviewDo{
		ID:         "itv-1",
		Title:      "Go后端一面",
		StartTime:  time.Now(),
		Status:     model.InterviewStatusScheduled,
		CallID:     "call-1",
		CreateTime: time.Now(),
	}

	resp := doJSONRequest(t, r, http.MethodPost, "/interviews/itv-1/status", map[string]interface{}{
		"status": "paused",
	})
	if resp.Code != int(model.ResponseStatusCodeSuccess) {
		t.Fatalf("expect free-form status accepted, got code %d", resp.Code)
	}
	stored := interviewService.interviews["itv-1"]
	if stored.Status != "paused" {
		t.Fatalf("expect status paused, got %s", stored.Status)
	}
	if stored.EndTime != nil {
		t.Fatalf("endTime should only be stamped on completion")
	}
	if len(rtcService.kicked) != 0 {
		t.Fatalf("should not kick participants on non-completed status, kicked %v", rtcService.kicked)
	}
}

func TestUpdateInterviewStatusNotFound(t *testing.T) {
	handler := &InterviewApiHandler{Interview: newFakeInterviewService(), RTC: newFakeRTCService()}
	r := newInterviewTestRouter(t, handler, "user_hr")

	resp := doJSONRequest(t, r, http.MethodPost, "/interviews/no-such/status", map[string]interface{}{
		"status": model.InterviewStatusCompleted,
	})
	if resp.Code != model.ResponseErrorNoSuchInterview {
		t.Fatalf("expect code %d, got %d", model.ResponseErrorNoSuchInterview, resp.Code)
	}
}

func TestListMyInterviews(t *testing.T) {
	interviewService := newFakeInterviewService()
	handler := &InterviewApiHandler{Interview: interviewService, RTC: newFakeRTCService()}
	r := newInterviewTestRouter(t, handler, "user_candidate")

	interviewService.interviews["itv-1"] = &model.InterviewDo{
		ID: "itv-1", Title: "一面", StartTime: time.Now(), CallID: "call-1", CandidateID: "user_candidate",
	}
	interviewService.interviews["itv-2"] = &model.InterviewDo{
		ID: "itv-2", Title: "别人的面试", StartTime: time.Now(), CallID: "call-2", CandidateID: "user_other",
	}

	resp := doJSONRequest(t, r, http.MethodGet, "/interviews/my", nil)
	if resp.Code != int(model.ResponseStatusCodeSuccess) {
		t.Fatalf("expect success, got code %d", resp.Code)
	}
	listResp := model.InterviewListResponse{}
	decodeData(t, resp, &listResp)
	if listResp.Cnt != 1 || len(listResp.List) != 1 {
		t.Fatalf("expect exactly 1 interview, got %d", listResp.Cnt)
	}
	if listResp.List[0].ID != "itv-1" {
		t.Fatalf("expect itv-1, got %s", listResp.List[0].ID)
	}
}

func TestGetInterviewByCallIDNotFound(t *testing.T) {
	handler := &InterviewApiHandler{Interview: newFakeInterviewService(), RTC: newFakeRTCService()}
	r := newInterviewTestRouter(t, handler, "")

	resp := doJSONRequest(t, r, http.MethodGet, "/interviews/call/no-such", nil)
	if resp.Code != model.ResponseErrorNoSuchInterview {
		t.Fatalf("expect code %d, got %d", model.ResponseErrorNoSuchInterview, resp.Code)
	}
}

func TestJoinCall(t *testing.T) {
	interviewService := newFakeInterviewService()
	handler := &InterviewApiHandler{Interview: interviewService, RTC: newFakeRTCService()}
	interviewService.interviews["itv-1"] = &model.InterviewDo{
		ID:             "itv-1",
		Title:          "Go后端一面",
		StartTime:      time.Now(),
		Status:         model.InterviewStatusScheduled,
		CallID:         "call-1",
		CandidateID:    "user_candidate",
		InterviewerIDs: utils.JoinIDs([]string{"user_hr", "user_lead"}),
	}

	// 面试官获得admin权限
	r := newInterviewTestRouter(t, handler, "user_hr")
	resp := doJSONRequest(t, r, http.MethodPost, "/joinCall/call-1", nil)
	if resp.Code != int(model.ResponseStatusCodeSuccess) {
		t.Fatalf("expect success, got code %d", resp.Code)
	}
	joinResp := model.JoinCallResponse{}
	decodeData(t, resp, &joinResp)
	if joinResp.CallID != "call-1" {
		t.Fatalf("expect callId call-1, got %s", joinResp.CallID)
	}
	if joinResp.RoomToken != "token-call-1-user_hr-true" {
		t.Fatalf("expect interviewer to get admin token, got %s", joinResp.RoomToken)
	}

	// 候选人不是admin
	r = newInterviewTestRouter(t, handler, "user_candidate")
	resp = doJSONRequest(t, r, http.MethodPost, "/joinCall/call-1", nil)
	joinResp = model.JoinCallResponse{}
	decodeData(t, resp, &joinResp)
	if joinResp.RoomToken != "token-call-1-user_candidate-false" {
		t.Fatalf("expect candidate to get non-admin token, got %s", joinResp.RoomToken)
	}
}
