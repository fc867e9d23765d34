package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"

	"github.com/solutions/hire-cube/internal/protodef/model"
)

type UserInterface interface {
	// 按clerkId同步用户，幂等。返回内部用户ID。
	SyncUser(xl *xlog.Logger, clerkID, email, name, image string) (string, error)
	ListAll(xl *xlog.Logger) ([]model.UserDo, error)
	GetUserByClerkID(xl *xlog.Logger, clerkID string) (*model.UserDo, error)
}

type UserApiHandler struct {
	User UserInterface
}

func makeUserResponse(user *model.UserDo) model.UserResponse {
	return model.UserResponse{
		ID:      user.ID,
		ClerkID: user.ClerkID,
		Name:    user.Name,
		Email:   user.Email,
		Image:   user.Image,
		Role:    user.Role,
	}
}

// ListUsers 列出全部用户。
func (h *UserApiHandler) ListUsers(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	users, err := h.User.ListAll(xl)
	if err != nil {
		xl.Errorf("failed to list users, error %v", err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	listResp := &model.UserListResponse{List: []model.UserResponse{}}
	for i := range users {
		listResp.List = append(listResp.List, makeUserResponse(&users[i]))
	}
	listResp.Cnt = len(listResp.List)
	model.NewSuccessResponse(listResp).WithRequestID(requestID).Send(c)
}

// GetUserByClerkID 按clerkId查找单个用户。
func (h *UserApiHandler) GetUserByClerkID(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	clerkID := c.Param("clerkId")
	user, err := h.User.GetUserByClerkID(xl, clerkID)
	if err != nil {
		if err == mgo.ErrNotFound {
			responseErr := model.NewResponseErrorNoSuchUser()
			resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
			c.JSON(http.StatusOK, resp)
			return
		}
		xl.Errorf("failed to get user by clerkId %s, error %v", clerkID, err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		return
	}
	userResp := makeUserResponse(user)
	model.NewSuccessResponse(userResp).WithRequestID(requestID).Send(c)
}
