package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exvulsec/rugscope/datastore"
	"github.com/exvulsec/rugscope/executor"
	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/task"
	"github.com/exvulsec/rugscope/utils"
)

var evmToken = "0x" + strings.Repeat("a", 40)

type envelope struct {
	Code int64           `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type testServer struct {
	router *gin.Engine
	store  *datastore.MemoryJobStore
}

func newTestServer(t *testing.T, tasks []task.Task) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := datastore.NewMemoryJobStore()
	ae := executor.NewAnalysisExecutor(store, executor.NewPipeline(store, tasks), 2, 8)
	ae.Execute()
	t.Cleanup(ae.Stop)

	r := gin.New()
	ctrl := &AnalysisController{Submitter: ae, Store: store}
	ctrl.Routers(r.Group("/api/v1"))
	return &testServer{router: r, store: store}
}

func (ts *testServer) do(t *testing.T, method, target string, body any, headers map[string]string) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	env := envelope{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func (ts *testServer) submit(t *testing.T, input string, headers map[string]string) submitResponse {
	t.Helper()
	env := ts.do(t, http.MethodPost, "/api/v1/analyze/init", submitRequest{Input: input}, headers)
	require.Equal(t, int64(http.StatusOK), env.Code, env.Msg)
	resp := submitResponse{}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp
}

func (ts *testServer) waitTerminal(t *testing.T, id string) *model.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := ts.store.GetByID(context.Background(), id)
		require.NoError(t, err)
		if job.Status.IsTerminal() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("analysis %s still pending", id)
	return nil
}

func TestSubmitAndPoll(t *testing.T) {
	ts := newTestServer(t, task.NewDefaultTasks(utils.HashScorer{}))

	resp := ts.submit(t, evmToken, nil)
	assert.Equal(t, utils.ChainEthereum, resp.DetectedChain)
	assert.Equal(t, model.JobStatusPending, resp.Status)
	assert.NotEmpty(t, resp.AnalysisID)

	ts.waitTerminal(t, resp.AnalysisID)

	env := ts.do(t, http.MethodGet, "/api/v1/analysis/"+resp.AnalysisID+"/summary", nil, nil)
	require.Equal(t, int64(http.StatusOK), env.Code)
	summary := summaryResponse{}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, model.JobStatusCompleted, summary.Status)
	require.NotNil(t, summary.CompositeScore)
	assert.Equal(t, 60.0, *summary.CompositeScore)
	assert.Equal(t, "Coordinated structure detected", summary.Verdict.Summary)
	assert.Equal(t, utils.ChainEthereum, summary.Chain)
	assert.NotZero(t, summary.Timestamp)

	env = ts.do(t, http.MethodGet, "/api/v1/analysis/"+resp.AnalysisID+"/metadata", nil, nil)
	require.Equal(t, int64(http.StatusOK), env.Code)
	metadata := model.TokenMetadata{}
	require.NoError(t, json.Unmarshal(env.Data, &metadata))
	assert.Equal(t, 18, metadata.Decimals)
	assert.Equal(t, "BRETT", metadata.Symbol)

	env = ts.do(t, http.MethodGet, "/api/v1/analysis/"+resp.AnalysisID+"/clusters", nil, nil)
	clusters := []model.WalletCluster{}
	require.NoError(t, json.Unmarshal(env.Data, &clusters))
	assert.Len(t, clusters, 1)

	for _, name := range []string{"holders", "liquidity", "signals", "risk", "temporal"} {
		env = ts.do(t, http.MethodGet, "/api/v1/analysis/"+resp.AnalysisID+"/"+name, nil, nil)
		assert.Equal(t, int64(http.StatusOK), env.Code, name)
		assert.NotEmpty(t, env.Data, name)
	}

	env = ts.do(t, http.MethodGet, "/api/v1/analysis/"+resp.AnalysisID, nil, nil)
	record := jobResponse{}
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.Equal(t, evmToken, record.Identifier)
	assert.Equal(t, model.JobStatusCompleted, record.Status)
	require.NotNil(t, record.Symbol)
	assert.Equal(t, "BRETT", *record.Symbol)
}

func TestPendingJob(t *testing.T) {
	gate := make(chan struct{})
	tasks := []task.Task{&gateTask{gate: gate}}
	ts := newTestServer(t, tasks)
	defer close(gate)

	resp := ts.submit(t, evmToken, nil)

	env := ts.do(t, http.MethodGet, "/api/v1/analysis/"+resp.AnalysisID+"/summary", nil, nil)
	require.Equal(t, int64(http.StatusOK), env.Code)
	assert.JSONEq(t, `{"status":"PENDING"}`, string(env.Data))

	env = ts.do(t, http.MethodGet, "/api/v1/analysis/"+resp.AnalysisID+"/risk", nil, nil)
	assert.Equal(t, int64(http.StatusNotFound), env.Code)
}

func TestFailedJobExposesStatusOnly(t *testing.T) {
	ts := newTestServer(t, []task.Task{&gateTask{fail: true}})

	resp := ts.submit(t, evmToken, nil)
	ts.waitTerminal(t, resp.AnalysisID)

	env := ts.do(t, http.MethodGet, "/api/v1/analysis/"+resp.AnalysisID+"/summary", nil, nil)
	assert.JSONEq(t, `{"status":"FAILED"}`, string(env.Data))

	env = ts.do(t, http.MethodGet, "/api/v1/analysis/"+resp.AnalysisID+"/holders", nil, nil)
	assert.Equal(t, int64(http.StatusNotFound), env.Code)
}

func TestUnknownAnalysis(t *testing.T) {
	ts := newTestServer(t, task.NewDefaultTasks(utils.HashScorer{}))

	for _, target := range []string{
		"/api/v1/analysis/missing",
		"/api/v1/analysis/missing/summary",
		"/api/v1/analysis/missing/metadata",
	} {
		env := ts.do(t, http.MethodGet, target, nil, nil)
		assert.Equal(t, int64(http.StatusNotFound), env.Code, target)
	}
}

func TestSubmitRejectsEmptyInput(t *testing.T) {
	ts := newTestServer(t, task.NewDefaultTasks(utils.HashScorer{}))

	env := ts.do(t, http.MethodPost, "/api/v1/analyze/init", submitRequest{Input: "  "}, nil)
	assert.Equal(t, int64(http.StatusBadRequest), env.Code)

	env = ts.do(t, http.MethodPost, "/api/v1/analyze/init", nil, nil)
	assert.Equal(t, int64(http.StatusBadRequest), env.Code)
}

func TestArchive(t *testing.T) {
	ts := newTestServer(t, task.NewDefaultTasks(utils.HashScorer{}))
	alice := map[string]string{UserIDHeader: "alice"}

	first := ts.submit(t, evmToken, alice)
	ts.waitTerminal(t, first.AnalysisID)
	second := ts.submit(t, "7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYm", alice)
	ts.waitTerminal(t, second.AnalysisID)
	ts.submit(t, evmToken, map[string]string{UserIDHeader: "bob"})

	env := ts.do(t, http.MethodGet, "/api/v1/me/archive", nil, alice)
	require.Equal(t, int64(http.StatusOK), env.Code)
	archive := []jobResponse{}
	require.NoError(t, json.Unmarshal(env.Data, &archive))
	require.Len(t, archive, 2)
	ids := []string{archive[0].ID, archive[1].ID}
	assert.ElementsMatch(t, []string{first.AnalysisID, second.AnalysisID}, ids)
	for _, item := range archive {
		require.NotNil(t, item.UserID)
		assert.Equal(t, "alice", *item.UserID)
		assert.NotNil(t, item.Symbol)
	}

	env = ts.do(t, http.MethodGet, "/api/v1/me/archive", nil, nil)
	assert.Equal(t, int64(http.StatusUnauthorized), env.Code)
}

// gateTask blocks until gate is closed, or fails straight away.
type gateTask struct {
	gate chan struct{}
	fail bool
}

func (gt *gateTask) Name() string {
	return "gate"
}

func (gt *gateTask) Run(ctx context.Context, _ *task.Analysis) error {
	if gt.fail {
		return context.Canceled
	}
	<-gt.gate
	return nil
}
