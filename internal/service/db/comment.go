package db

import (
	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/solutions/hire-cube/internal/common/utils"
	"github.com/solutions/hire-cube/internal/protodef/model"
	"github.com/solutions/hire-cube/internal/service/db/dao"
)

// CommentService 面试评价的写入与查询。评价创建后不可修改。
type CommentService struct {
	mongoClient *mgo.Session
	commentColl *mgo.Collection
	xl          *xlog.Logger
}

func NewCommentService(conf utils.MongoConfig, xl *xlog.Logger) (*CommentService, error) {
	if xl == nil {
		xl = xlog.New("hire-cube-comment-db")
	}
	mongoClient, err := mgo.Dial(conf.URI + "/" + conf.Database)
	if err != nil {
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	commentColl := mongoClient.DB(conf.Database).C(dao.CollectionComment)
	err = commentColl.EnsureIndex(mgo.Index{Key: []string{"interviewId"}})
	if err != nil {
		xl.Errorf("failed to ensure index on interviewId, error %v", err)
		return nil, err
	}
	return &CommentService{
		mongoClient: mongoClient,
		commentColl: commentColl,
		xl:          xl,
	}, nil
}

func (c *CommentService) CreateComment(xl *xlog.Logger, comment *model.CommentDo) (*model.CommentDo, error) {
	if xl == nil {
		xl = c.xl
	}
	err := c.commentColl.Insert(comment)
	if err != nil {
		xl.Errorf("failed to insert comment for interview %s, error %v", comment.InterviewID, err)
		return nil, err
	}
	xl.Infof("interviewer %s commented interview %s", comment.InterviewerID, comment.InterviewID)
	return comment, nil
}

// ListCommentsByInterview 按面试ID列出评价，走interviewId索引，按写入顺序返回。
func (c *CommentService) ListCommentsByInterview(xl *xlog.Logger, interviewID string) ([]model.CommentDo, error) {
	if xl == nil {
		xl = c.xl
	}
	comments := []model.CommentDo{}
	err := c.commentColl.Find(bson.M{"interviewId": interviewID}).All(&comments)
	if err != nil {
		xl.Errorf("failed to list comments of interview %s, error %v", interviewID, err)
		return nil, err
	}
	return comments, nil
}
