package dao

const (
	// CollectionUser 存储用户信息的表，clerkId唯一索引。
	CollectionUser = "users"

	// CollectionInterview 存储面试记录的表，candidateId索引，callId唯一索引。
	CollectionInterview = "interviews"

	// CollectionComment 存储面试评价的表，interviewId索引。
	CollectionComment = "comments"
)
