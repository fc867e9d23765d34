package db

import (
	"time"

	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/solutions/hire-cube/internal/common/utils"
	"github.com/solutions/hire-cube/internal/protodef/model"
	"github.com/solutions/hire-cube/internal/service/db/dao"
)

// UserService 用户同步与查询。
type UserService struct {
	mongoClient *mgo.Session
	userColl    *mgo.Collection
	xl          *xlog.Logger
}

func NewUserService(conf utils.MongoConfig, xl *xlog.Logger) (*UserService, error) {
	if xl == nil {
		xl = xlog.New("hire-cube-user-db")
	}
	mongoClient, err := mgo.Dial(conf.URI + "/" + conf.Database)
	if err != nil {
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	userColl := mongoClient.DB(conf.Database).C(dao.CollectionUser)
	err = userColl.EnsureIndex(mgo.Index{Key: []string{"clerkId"}, Unique: true})
	if err != nil {
		xl.Errorf("failed to ensure index on clerkId, error %v", err)
		return nil, err
	}
	return &UserService{
		mongoClient: mongoClient,
		userColl:    userColl,
		xl:          xl,
	}, nil
}

// SyncUser 按clerkId同步用户。已存在时直接返回已有记录的ID，不更新任何字段，
// 因此webhook重放是安全的；后续在身份服务侧的资料修改也不会回传到这里。
// 新用户的role固定为candidate。
func (c *UserService) SyncUser(xl *xlog.Logger, clerkID, email, name, image string) (string, error) {
	if xl == nil {
		xl = c.xl
	}
	existing := model.UserDo{}
	err := c.userColl.Find(bson.M{"clerkId": clerkID}).One(&existing)
	if err == nil {
		xl.Infof("user with clerkId %s already synced as %s", clerkID, existing.ID)
		return existing.ID, nil
	}
	if err != mgo.ErrNotFound {
		xl.Errorf("failed to look up user by clerkId %s, error %v", clerkID, err)
		return "", err
	}
	user := model.UserDo{
		ID:         utils.GenerateID(),
		ClerkID:    clerkID,
		Name:       name,
		Email:      email,
		Image:      image,
		Role:       model.UserRoleCandidate,
		CreateTime: time.Now(),
	}
	err = c.userColl.Insert(user)
	if err != nil {
		xl.Errorf("failed to insert user with clerkId %s, error %v", clerkID, err)
		return "", err
	}
	xl.Infof("synced new user %s for clerkId %s", user.ID, clerkID)
	return user.ID, nil
}

// ListAll 列出全部用户。
func (c *UserService) ListAll(xl *xlog.Logger) ([]model.UserDo, error) {
	if xl == nil {
		xl = c.xl
	}
	users := []model.UserDo{}
	err := c.userColl.Find(nil).All(&users)
	if err != nil {
		xl.Errorf("failed to list users, error %v", err)
		return nil, err
	}
	return users, nil
}

// GetUserByClerkID 按clerkId查找用户，未找到返回mgo.ErrNotFound。
func (c *UserService) GetUserByClerkID(xl *xlog.Logger, clerkID string) (*model.UserDo, error) {
	if xl == nil {
		xl = c.xl
	}
	user := model.UserDo{}
	err := c.userColl.Find(bson.M{"clerkId": clerkID}).One(&user)
	if err != nil {
		if err == mgo.ErrNotFound {
			xl.Infof("no such user for clerkId %s", clerkID)
			return nil, mgo.ErrNotFound
		}
		xl.Errorf("failed to get user by clerkId %s, error %v", clerkID, err)
		return nil, err
	}
	return &user, nil
}
