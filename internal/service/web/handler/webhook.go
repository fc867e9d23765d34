package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
	svix "github.com/svix/svix-webhooks/go"
	"github.com/tidwall/gjson"

	"github.com/solutions/hire-cube/internal/protodef/model"
)

const (
	SvixIDHeader        = "svix-id"
	SvixTimestampHeader = "svix-timestamp"
	SvixSignatureHeader = "svix-signature"

	// UserCreatedEvent 目前唯一处理的webhook事件类型，其余类型一律直接应答成功。
	UserCreatedEvent = "user.created"
)

// WebhookApiHandler 处理身份服务（Clerk）经svix投递的签名webhook。
// 与其他接口不同，这里按真实HTTP状态码应答：投递方按非2xx状态码重投。
type WebhookApiHandler struct {
	User UserInterface
	// WebhookSecret svix签名用的共享密钥。
	WebhookSecret string
}

// ClerkWebhook 校验并分发入站webhook事件。user.created事件同步进用户表，
// 同步按clerkId幂等，因此重投安全。
func (h *WebhookApiHandler) ClerkWebhook(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	if h.WebhookSecret == "" {
		// 配置缺失时请求无法被处理，交给Recovery。
		panic("clerk webhook secret is not configured")
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		xl.Errorf("failed to read webhook body, error %v", err)
		responseErr := model.NewResponseErrorBadRequest()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	for _, header := range []string{SvixIDHeader, SvixTimestampHeader, SvixSignatureHeader} {
		if c.GetHeader(header) == "" {
			xl.Infof("webhook request missing header %s", header)
			responseErr := model.NewResponseErrorBadRequest()
			resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
			c.JSON(http.StatusBadRequest, resp)
			return
		}
	}

	wh, err := svix.NewWebhook(h.WebhookSecret)
	if err != nil {
		xl.Errorf("failed to init webhook verifier, error %v", err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	if err := wh.Verify(body, c.Request.Header); err != nil {
		xl.Infof("webhook signature verification failed, error %v", err)
		responseErr := model.NewResponseErrorBadRequest()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	eventType := gjson.GetBytes(body, "type").String()
	if eventType != UserCreatedEvent {
		// 未处理的事件类型不算错误，直接应答成功避免无谓的重投。
		xl.Debugf("ignore webhook event of type %s", eventType)
		model.NewSuccessResponse("processed").WithRequestID(requestID).Send(c)
		return
	}

	data := gjson.GetBytes(body, "data")
	clerkID := data.Get("id").String()
	emails := data.Get("email_addresses").Array()
	if len(emails) == 0 {
		xl.Infof("user.created event for %s carries no email addresses", clerkID)
		responseErr := model.NewResponseErrorBadRequest()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	email := emails[0].Get("email_address").String()
	name := strings.TrimSpace(data.Get("first_name").String() + " " + data.Get("last_name").String())
	image := data.Get("image_url").String()

	id, err := h.User.SyncUser(xl, clerkID, email, name, image)
	if err != nil {
		// 应答500，由投递方重投。
		xl.Errorf("failed to sync user %s, error %v", clerkID, err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	xl.Infof("synced user %s for webhook event %s", id, c.GetHeader(SvixIDHeader))
	model.NewSuccessResponse("processed").WithRequestID(requestID).Send(c)
}
