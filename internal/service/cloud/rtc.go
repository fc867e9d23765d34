package cloud

import (
	"context"
	"time"

	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go"
	"github.com/qiniu/x/xlog"

	"github.com/solutions/hire-cube/internal/common/utils"
)

const (
	// DefaultRoomTokenTimeout 默认的加入视频房间用token的过期时间。
	DefaultRoomTokenTimeout = 60 * time.Second
)

// RTCService 封装LiveKit视频房间服务。面试记录的callId即LiveKit房间名。
type RTCService struct {
	roomClient  *lksdk.RoomServiceClient
	apiKey      string
	apiSecret   string
	tokenExpire time.Duration
	xl          *xlog.Logger
}

func NewRTCService(conf utils.Config) *RTCService {
	xl := xlog.New("hire-cube-rtc")
	tokenExpire := DefaultRoomTokenTimeout
	if conf.RTC.RoomTokenExpireSecond > 0 {
		tokenExpire = time.Duration(conf.RTC.RoomTokenExpireSecond) * time.Second
	}
	return &RTCService{
		roomClient:  lksdk.NewRoomServiceClient(conf.RTC.Host, conf.RTC.ApiKey, conf.RTC.ApiSecret),
		apiKey:      conf.RTC.ApiKey,
		apiSecret:   conf.RTC.ApiSecret,
		tokenExpire: tokenExpire,
		xl:          xl,
	}
}

// GenerateRoomToken 生成加入房间的room token。面试官获得admin权限。
func (s *RTCService) GenerateRoomToken(roomID string, identity string, admin bool) (string, error) {
	grant := &auth.VideoGrant{
		Room:      roomID,
		RoomJoin:  true,
		RoomAdmin: admin,
	}
	tk := auth.NewAccessToken(s.apiKey, s.apiSecret)
	tk.AddGrant(grant).
		SetIdentity(identity).
		SetValidFor(s.tokenExpire)
	return tk.ToJWT()
}

// ListUser 列出房间内的用户。
func (s *RTCService) ListUser(roomID string) ([]string, error) {
	res, err := s.roomClient.ListParticipants(context.Background(), &livekit.ListParticipantsRequest{
		Room: roomID,
	})
	if err != nil {
		s.xl.Errorf("failed to list participants of room %s, error %v", roomID, err)
		return nil, err
	}
	identities := make([]string, 0, len(res.Participants))
	for _, p := range res.Participants {
		identities = append(identities, p.Identity)
	}
	return identities, nil
}

// KickUser 将用户踢出房间。
func (s *RTCService) KickUser(roomID string, identity string) error {
	_, err := s.roomClient.RemoveParticipant(context.Background(), &livekit.RoomParticipantIdentity{
		Room:     roomID,
		Identity: identity,
	})
	if err != nil {
		s.xl.Errorf("failed to remove participant %s from room %s, error %v", identity, roomID, err)
	}
	return err
}
