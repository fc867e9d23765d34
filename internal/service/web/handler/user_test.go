package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"

	"github.com/solutions/hire-cube/internal/common/utils"
	"github.com/solutions/hire-cube/internal/protodef/model"
)

// fakeUserService 按clerkId存储用户，SyncUser与db实现同样先查后插。
type fakeUserService struct {
	users     map[string]*model.UserDo
	syncCalls int
	syncErr   error
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{users: map[string]*model.UserDo{}}
}

func (s *fakeUserService) SyncUser(xl *xlog.Logger, clerkID, email, name, image string) (string, error) {
	s.syncCalls++
	if s.syncErr != nil {
		return "", s.syncErr
	}
	if user, ok := s.users[clerkID]; ok {
		return user.ID, nil
	}
	user := &model.UserDo{
		ID:      utils.GenerateID(),
		ClerkID: clerkID,
		Name:    name,
		Email:   email,
		Image:   image,
		Role:    model.UserRoleCandidate,
	}
	s.users[clerkID] = user
	return user.ID, nil
}

func (s *fakeUserService) ListAll(xl *xlog.Logger) ([]model.UserDo, error) {
	res := []model.UserDo{}
	for _, user := range s.users {
		res = append(res, *user)
	}
	return res, nil
}

func (s *fakeUserService) GetUserByClerkID(xl *xlog.Logger, clerkID string) (*model.UserDo, error) {
	user, ok := s.users[clerkID]
	if !ok {
		return nil, mgo.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func newUserTestRouter(t *testing.T, handler *UserApiHandler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(model.XLogKey, xlog.New("user-test"))
	})
	r.GET("/users", handler.ListUsers)
	r.GET("/users/:clerkId", handler.GetUserByClerkID)
	return r
}

func TestGetUserByClerkID(t *testing.T) {
	userService := newFakeUserService()
	userService.users["user_abc"] = &model.UserDo{
		ID:      "in-1",
		ClerkID: "user_abc",
		Name:    "张三",
		Email:   "zhangsan@example.com",
		Role:    model.UserRoleCandidate,
	}
	r := newUserTestRouter(t, &UserApiHandler{User: userService})

	resp := doJSONRequest(t, r, http.MethodGet, "/users/user_abc", nil)
	if resp.Code != int(model.ResponseStatusCodeSuccess) {
		t.Fatalf("expect success, got code %d", resp.Code)
	}
	userResp := model.UserResponse{}
	decodeData(t, resp, &userResp)
	if userResp.ClerkID != "user_abc" || userResp.Email != "zhangsan@example.com" {
		t.Fatalf("unexpected user response %+v", userResp)
	}
}

func TestGetUserByClerkIDNotFound(t *testing.T) {
	r := newUserTestRouter(t, &UserApiHandler{User: newFakeUserService()})

	resp := doJSONRequest(t, r, http.MethodGet, "/users/no-such", nil)
	if resp.Code != model.ResponseErrorNoSuchUser {
		t.Fatalf("expect code %d, got %d", model.ResponseErrorNoSuchUser, resp.Code)
	}
}

func TestListUsers(t *testing.T) {
	userService := newFakeUserService()
	userService.users["user_a"] = &model.UserDo{ID: "in-1", ClerkID: "user_a", Role: model.UserRoleCandidate}
	userService.users["user_b"] = &model.UserDo{ID: "in-2", ClerkID: "user_b", Role: model.UserRoleInterviewer}
	r := newUserTestRouter(t, &UserApiHandler{User: userService})

	resp := doJSONRequest(t, r, http.MethodGet, "/users", nil)
	if resp.Code != int(model.ResponseStatusCodeSuccess) {
		t.Fatalf("expect success, got code %d", resp.Code)
	}
	listResp := model.UserListResponse{}
	decodeData(t, resp, &listResp)
	if listResp.Cnt != 2 {
		t.Fatalf("expect 2 users, got %d", listResp.Cnt)
	}
}
