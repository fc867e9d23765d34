package db

import (
	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/solutions/hire-cube/internal/common/utils"
	errors2 "github.com/solutions/hire-cube/internal/protodef/errors"
	"github.com/solutions/hire-cube/internal/protodef/model"
	"github.com/solutions/hire-cube/internal/service/db/dao"
)

// InterviewService 面试记录的增查改。面试不支持删除。
type InterviewService struct {
	mongoClient   *mgo.Session
	interviewColl *mgo.Collection
	xl            *xlog.Logger
}

func NewInterviewService(conf utils.MongoConfig, xl *xlog.Logger) (*InterviewService, error) {
	if xl == nil {
		xl = xlog.New("hire-cube-interview-db")
	}
	mongoClient, err := mgo.Dial(conf.URI + "/" + conf.Database)
	if err != nil {
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	interviewColl := mongoClient.DB(conf.Database).C(dao.CollectionInterview)
	err = interviewColl.EnsureIndex(mgo.Index{Key: []string{"candidateId"}})
	if err != nil {
		xl.Errorf("failed to ensure index on candidateId, error %v", err)
		return nil, err
	}
	// callId 唯一性由存储层索引保证，插入冲突直接作为存储错误上抛。
	err = interviewColl.EnsureIndex(mgo.Index{Key: []string{"callId"}, Unique: true})
	if err != nil {
		xl.Errorf("failed to ensure index on callId, error %v", err)
		return nil, err
	}
	return &InterviewService{
		mongoClient:   mongoClient,
		interviewColl: interviewColl,
		xl:            xl,
	}, nil
}

func (c *InterviewService) CreateInterview(xl *xlog.Logger, interview *model.InterviewDo) (*model.InterviewDo, error) {
	if xl == nil {
		xl = c.xl
	}
	err := c.interviewColl.Insert(interview)
	if err != nil {
		xl.Errorf("failed to insert interview %s, error %v", interview.ID, err)
		return nil, err
	}
	xl.Infof("created interview %s for candidate %s", interview.ID, interview.CandidateID)
	return interview, nil
}

// ListAllInterviews 列出全部面试记录，不分页。
func (c *InterviewService) ListAllInterviews(xl *xlog.Logger) ([]model.InterviewDo, error) {
	if xl == nil {
		xl = c.xl
	}
	interviews := []model.InterviewDo{}
	err := c.interviewColl.Find(nil).All(&interviews)
	if err != nil {
		xl.Errorf("failed to list interviews, error %v", err)
		return nil, err
	}
	return interviews, nil
}

// ListInterviewsByCandidate 按候选人ClerkID列出面试记录，走candidateId索引。
func (c *InterviewService) ListInterviewsByCandidate(xl *xlog.Logger, candidateID string) ([]model.InterviewDo, error) {
	if xl == nil {
		xl = c.xl
	}
	interviews := []model.InterviewDo{}
	err := c.interviewColl.Find(bson.M{"candidateId": candidateID}).All(&interviews)
	if err != nil {
		xl.Errorf("failed to list interviews of candidate %s, error %v", candidateID, err)
		return nil, err
	}
	return interviews, nil
}

// GetInterviewByFields 根据一组 key/value 关系查找面试记录。
func (c *InterviewService) GetInterviewByFields(xl *xlog.Logger, fields map[string]interface{}) (*model.InterviewDo, error) {
	if xl == nil {
		xl = c.xl
	}
	interview := model.InterviewDo{}
	err := c.interviewColl.Find(fields).One(&interview)
	if err != nil {
		if err == mgo.ErrNotFound {
			xl.Infof("no such interview for fields %v", fields)
			return nil, &errors2.ServerError{Code: errors2.ServerErrorInterviewNotFound}
		}
		xl.Errorf("failed to get interview, error %v", err)
		return nil, err
	}
	return &interview, nil
}

func (c *InterviewService) GetInterviewByID(xl *xlog.Logger, interviewID string) (*model.InterviewDo, error) {
	return c.GetInterviewByFields(xl, map[string]interface{}{"_id": interviewID})
}

// GetInterviewByCallID 按视频房间ID查找面试记录，走callId索引。
func (c *InterviewService) GetInterviewByCallID(xl *xlog.Logger, callID string) (*model.InterviewDo, error) {
	return c.GetInterviewByFields(xl, map[string]interface{}{"callId": callID})
}

func (c *InterviewService) UpdateInterview(xl *xlog.Logger, id string, interview *model.InterviewDo) (*model.InterviewDo, error) {
	if xl == nil {
		xl = c.xl
	}
	err := c.interviewColl.Update(bson.M{"_id": id}, bson.M{"$set": interview})
	if err != nil {
		xl.Errorf("failed to update interview %s, error %v", id, err)
		return nil, err
	}
	return interview, nil
}
