package task

import (
	"time"

	"github.com/qiniu/x/log"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/solutions/hire-cube/internal/protodef/model"
	"github.com/solutions/hire-cube/internal/service/db/dao"
)

type InterviewTask struct {
	mongoClient   *mgo.Session
	interviewColl *mgo.Collection
}

func NewInterviewTask(mongoURI string, database string) (*InterviewTask, error) {
	mongoClient, err := mgo.Dial(mongoURI + "/" + database)
	if err != nil {
		log.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	interviewColl := mongoClient.DB(database).C(dao.CollectionInterview)
	return &InterviewTask{
		mongoClient:   mongoClient,
		interviewColl: interviewColl,
	}, nil
}

func (t *InterviewTask) ListStaleInterviews(dataSize int) ([]model.InterviewDo, error) {
	if dataSize <= 0 {
		dataSize = 10
	}
	interviews := []model.InterviewDo{}
	err := t.interviewColl.Find(bson.M{"status": bson.M{"$ne": model.InterviewStatusCompleted}}).Sort("createTime").Limit(dataSize).All(&interviews)
	if err != nil {
		log.Errorf("failed to list stale interviews, error %v", err)
		return nil, err
	}
	return interviews, err
}

func (t *InterviewTask) UpdateInterview(interview *model.InterviewDo) (*model.InterviewDo, error) {
	err := t.interviewColl.Update(bson.M{"_id": interview.ID}, bson.M{"$set": interview})
	if err != nil {
		log.Errorf("failed to update interview %s, error %v", interview.ID, err)
		return nil, err
	}
	return interview, nil
}

// TaskForCompleteInterview 收尾任务。创建超过24小时仍未completed的面试直接置为
// completed，补上endTime，避免房间和列表里长期挂着僵尸面试。
func (t *InterviewTask) TaskForCompleteInterview() {
	log.Infof("taskForCompleteInterview run at %s", time.Now().String())

	interviews, err := t.ListStaleInterviews(10)
	if err != nil {
		log.Errorf("TaskForCompleteInterview find interviews, error: %v", err)
		return
	}
	if len(interviews) <= 0 {
		log.Infof("taskForCompleteInterview find no interviews")
	}
	for _, interview := range interviews {
		d, _ := time.ParseDuration("-24h")
		if time.Now().Add(d).After(interview.CreateTime) {
			log.Infof("TaskForCompleteInterview complete interview %s, status: %s, createTime: %s", interview.ID, interview.Status, interview.CreateTime)
			now := time.Now()
			interview.Status = model.InterviewStatusCompleted
			interview.EndTime = &now
			interview.UpdateTime = now
			_, err := t.UpdateInterview(&interview)
			if err != nil {
				log.Errorf("TaskForCompleteInterview modify err, %v", err)
			}
		}
	}
}
