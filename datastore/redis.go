package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/rugscope/config"
	"github.com/exvulsec/rugscope/model"
)

var redisInstance *Instance

func initRedisClient() any {
	return redis.NewClient(&redis.Options{
		Addr:         config.Conf.RedisConfig.Addr,
		Password:     config.Conf.RedisConfig.Password,
		DB:           config.Conf.RedisConfig.Database,
		MaxIdleConns: config.Conf.RedisConfig.MaxIdleConns,
	})
}

func Redis() *redis.Client {
	return redisInstance.Instance().(*redis.Client)
}

func init() {
	redisInstance = &Instance{initializer: initRedisClient}
}

// CachedJobStore is a read-through cache in front of another JobStore. Only
// terminal jobs are cached since they never change again; a cache failure
// degrades to a plain store read.
type CachedJobStore struct {
	store  JobStore
	client redis.Cmdable
	ttl    time.Duration
}

var _ JobStore = (*CachedJobStore)(nil)

func NewCachedJobStore(store JobStore, client redis.Cmdable, ttl time.Duration) *CachedJobStore {
	return &CachedJobStore{store: store, client: client, ttl: ttl}
}

func jobKey(id string) string {
	return redisJobKeyPrefix + id
}

func (s *CachedJobStore) Create(ctx context.Context, job *model.Job) error {
	return s.store.Create(ctx, job)
}

func (s *CachedJobStore) GetByID(ctx context.Context, id string) (*model.Job, error) {
	if job, ok := s.cached(ctx, id); ok {
		return job, nil
	}

	job, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status.IsTerminal() {
		s.put(ctx, job)
	}
	return job, nil
}

func (s *CachedJobStore) UpdateStatusAndResult(ctx context.Context, id string, status model.JobStatus, result *model.AnalysisResult) error {
	if err := s.store.UpdateStatusAndResult(ctx, id, status, result); err != nil {
		return err
	}
	if err := s.client.Del(ctx, jobKey(id)).Err(); err != nil {
		logrus.Warnf("evict job %s from redis is err: %v", id, err)
	}
	return nil
}

func (s *CachedJobStore) ListByOwner(ctx context.Context, ownerID string) (model.Jobs, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

func (s *CachedJobStore) cached(ctx context.Context, id string) (*model.Job, bool) {
	raw, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.Warnf("get job %s from redis is err: %v", id, err)
		}
		return nil, false
	}
	job := &model.Job{}
	if err = json.Unmarshal(raw, job); err != nil {
		logrus.Warnf("decode cached job %s is err: %v", id, err)
		return nil, false
	}
	return job, true
}

func (s *CachedJobStore) put(ctx context.Context, job *model.Job) {
	raw, err := json.Marshal(job)
	if err != nil {
		logrus.Warnf("encode job %s for redis is err: %v", job.ID, err)
		return
	}
	if err = s.client.Set(ctx, jobKey(job.ID), raw, s.ttl).Err(); err != nil {
		logrus.Warnf("set job %s to redis is err: %v", job.ID, err)
	}
}
