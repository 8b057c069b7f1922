package datastore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

func newResult(id string) *model.AnalysisResult {
	return &model.AnalysisResult{
		ID:         id,
		Chain:      utils.ChainEthereum,
		Identifier: "0xabc",
		Metadata:   model.TokenMetadata{Name: "Brett", Symbol: "BRETT", Decimals: 18},
		Clusters:   []model.WalletCluster{},
		Timestamp:  1700000000000,
	}
}

func TestMemoryJobStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()

	job := model.NewJob("job-1", utils.ChainEthereum, "0xabc", "")
	require.NoError(t, store.Create(ctx, job))

	got, err := store.GetByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, got.Status)
	assert.Nil(t, got.Result)

	got.Status = model.JobStatusFailed
	again, err := store.GetByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, again.Status, "store must hand out copies")

	assert.ErrorIs(t, store.Create(ctx, job), ErrDuplicateKey)

	_, err = store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryJobStore_CreateInvalid(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()

	assert.ErrorIs(t, store.Create(ctx, nil), ErrInvalidInput)
	assert.ErrorIs(t, store.Create(ctx, &model.Job{Status: model.JobStatusPending}), ErrInvalidInput)

	done := model.NewJob("job-1", utils.ChainEthereum, "0xabc", "")
	done.Status = model.JobStatusCompleted
	assert.ErrorIs(t, store.Create(ctx, done), ErrInvalidInput)
}

func TestMemoryJobStore_SingleTerminalWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()
	require.NoError(t, store.Create(ctx, model.NewJob("job-1", utils.ChainEthereum, "0xabc", "")))

	require.NoError(t, store.UpdateStatusAndResult(ctx, "job-1", model.JobStatusCompleted, newResult("job-1")))

	err := store.UpdateStatusAndResult(ctx, "job-1", model.JobStatusFailed, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := store.GetByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "BRETT", got.Result.Metadata.Symbol)
}

func TestMemoryJobStore_UpdateValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()
	require.NoError(t, store.Create(ctx, model.NewJob("job-1", utils.ChainEthereum, "0xabc", "")))

	assert.ErrorIs(t, store.UpdateStatusAndResult(ctx, "job-1", model.JobStatusCompleted, nil), ErrInvalidInput)
	assert.ErrorIs(t, store.UpdateStatusAndResult(ctx, "job-1", model.JobStatusFailed, newResult("job-1")), ErrInvalidInput)
	assert.ErrorIs(t, store.UpdateStatusAndResult(ctx, "job-1", model.JobStatusPending, nil), ErrInvalidInput)
	assert.ErrorIs(t, store.UpdateStatusAndResult(ctx, "missing", model.JobStatusFailed, nil), ErrNotFound)

	require.NoError(t, store.UpdateStatusAndResult(ctx, "job-1", model.JobStatusFailed, nil))
	got, err := store.GetByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, got.Status)
	assert.Nil(t, got.Result)
}

func TestMemoryJobStore_ConcurrentTerminalWrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()
	require.NoError(t, store.Create(ctx, model.NewJob("job-1", utils.ChainEthereum, "0xabc", "")))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status, result := model.JobStatusFailed, (*model.AnalysisResult)(nil)
			if i%2 == 0 {
				status, result = model.JobStatusCompleted, newResult("job-1")
			}
			err := store.UpdateStatusAndResult(ctx, "job-1", status, result)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	got, err := store.GetByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, got.Status == model.JobStatusCompleted, got.Result != nil)
}

func TestMemoryJobStore_ListByOwner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"job-a", "job-b", "job-c"} {
		job := model.NewJob(id, utils.ChainEthereum, "0xabc", "alice")
		job.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Create(ctx, job))
	}
	require.NoError(t, store.Create(ctx, model.NewJob("job-d", utils.ChainSolana, "So11", "bob")))
	require.NoError(t, store.Create(ctx, model.NewJob("job-e", utils.ChainSolana, "So11", "")))

	jobs, err := store.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "job-c", jobs[0].ID)
	assert.Equal(t, "job-a", jobs[2].ID)

	jobs, err = store.ListByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = store.ListByOwner(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
