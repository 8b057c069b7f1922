package datastore

const (
	TableAnalysisJobs = "analysis_jobs"
)

const (
	SchemaPublic = "public"
)

const redisJobKeyPrefix = "rugscope:job:"
