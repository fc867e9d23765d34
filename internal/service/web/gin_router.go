package web

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/solutions/hire-cube/internal/common/utils"
	"github.com/solutions/hire-cube/internal/protodef/model"
	"github.com/solutions/hire-cube/internal/service/cloud"
	"github.com/solutions/hire-cube/internal/service/db"
	"github.com/solutions/hire-cube/internal/service/web/handler"
	"github.com/solutions/hire-cube/internal/service/web/middleware"
)

// NewRouter 返回gin router，分流API。
func NewRouter(config *utils.Config) (*gin.Engine, error) {
	// 1. 初始化GIN
	router := gin.New()
	router.Use(gin.Recovery())
	// 1.1. 全局CORS配置
	router.Use(corsMiddleware())

	// 2. 声明Service
	userService, err := db.NewUserService(*config.Mongo, nil)
	if err != nil {
		return nil, err
	}
	interviewService, err := db.NewInterviewService(*config.Mongo, nil)
	if err != nil {
		return nil, err
	}
	commentService, err := db.NewCommentService(*config.Mongo, nil)
	if err != nil {
		return nil, err
	}
	sessionService := cloud.NewSessionService(*config, nil)
	rtcService := cloud.NewRTCService(*config)

	userApiHandler := &handler.UserApiHandler{User: userService}
	interviewApiHandler := &handler.InterviewApiHandler{
		Interview: interviewService,
		RTC:       rtcService,
	}
	commentApiHandler := &handler.CommentApiHandler{Comment: commentService}
	webhookApiHandler := &handler.WebhookApiHandler{
		User:          userService,
		WebhookSecret: config.Clerk.WebhookSecret,
	}

	middleware.InitMiddleware(sessionService)

	// 3. 配置V1路径
	v1 := router.Group("/v1", addRequestID)
	{
		// 3.1 身份服务webhook，svix签名校验在handler内完成
		v1.POST("clerk-webhook", webhookApiHandler.ClerkWebhook)
		// 3.2 按clerkId获取用户
		v1.GET("users/:clerkId", userApiHandler.GetUserByClerkID)
		// 3.3 按callId获取面试
		v1.GET("interviews/call/:callId", interviewApiHandler.GetInterviewByCallID)
		// 3.4 面试评价列表
		v1.GET("comments/:interviewId", commentApiHandler.ListComments)
	}
	baseAuth := v1.Group("", middleware.Authenticate)
	{
		// 3.5 用户列表
		baseAuth.GET("users", userApiHandler.ListUsers)

		// 3.6 面试列表
		baseAuth.GET("interviews", interviewApiHandler.ListAllInterviews)
		// 3.7 当前用户作为候选人的面试
		baseAuth.GET("interviews/my", interviewApiHandler.ListMyInterviews)
		// 3.8 创建面试
		baseAuth.POST("interviews", interviewApiHandler.CreateInterview)
		// 3.9 修改面试状态
		baseAuth.POST("interviews/:interviewId/status", interviewApiHandler.UpdateInterviewStatus)
		// 3.10 进入面试房间
		baseAuth.POST("joinCall/:callId", interviewApiHandler.JoinCall)

		// 3.11 提交面试评价
		baseAuth.POST("comments", commentApiHandler.AddComment)
	}

	router.NoRoute(addRequestID, returnNotFound)
	router.RedirectTrailingSlash = false

	return router, nil
}

func addRequestID(c *gin.Context) {
	requestID := ""
	if requestID = c.Request.Header.Get(model.RequestIDHeader); requestID == "" {
		requestID = utils.NewReqID()
		c.Request.Header.Set(model.RequestIDHeader, requestID)
	}
	xl := xlog.New(requestID)
	xl.Debugf("request: %s %s", c.Request.Method, c.Request.URL.Path)
	c.Set(model.XLogKey, xl)
	c.Set(model.RequestStartKey, time.Now())
}

func returnNotFound(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	xl.Debugf("%s %s: not found", c.Request.Method, c.Request.URL.Path)
	responseErr := model.NewResponseErrorNotFound()
	resp := model.NewFailResponse(*responseErr).WithRequestID(xl.ReqId)
	resp.Send(c)
}

func corsMiddleware() gin.HandlerFunc {
	conf := cors.DefaultConfig()
	conf.AllowAllOrigins = true
	conf.AllowHeaders = append(conf.AllowHeaders,
		"Authorization", model.RequestIDHeader,
		handler.SvixIDHeader, handler.SvixTimestampHeader, handler.SvixSignatureHeader)
	return cors.New(conf)
}
