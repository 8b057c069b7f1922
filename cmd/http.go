package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/exvulsec/rugscope/config"
	"github.com/exvulsec/rugscope/datastore"
	"github.com/exvulsec/rugscope/executor"
	"github.com/exvulsec/rugscope/http/controller"
	"github.com/exvulsec/rugscope/notifier"
	"github.com/exvulsec/rugscope/server"
	"github.com/exvulsec/rugscope/task"
	"github.com/exvulsec/rugscope/utils"
)

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "run http server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupRuntime(); err != nil {
			return err
		}

		store, err := newJobStore(cmd.Context())
		if err != nil {
			return err
		}
		pipelineConf := config.Conf.PipelineConfig
		pipeline := executor.NewPipeline(store, task.NewDefaultTasks(utils.HashScorer{})).
			WithNotifiers(notifier.NewNotifiers(config.Conf.NotifierConfig), pipelineConf.AlertThreshold, config.Conf.NotifierConfig.ReportURL)
		analysisExecutor := executor.NewAnalysisExecutor(store, pipeline, pipelineConf.Workers, pipelineConf.QueueSize)

		srv := server.NewHTTPServer(config.Conf.HTTPServerConfig, &controller.AnalysisController{
			Submitter: analysisExecutor,
			Store:     store,
		})
		startExecutors(srv, analysisExecutor)
		return srv.Run()
	},
}

// startExecutors runs every executor and stops it once the server is down.
func startExecutors(srv *server.HTTPServer, executors ...executor.Executor) {
	for _, e := range executors {
		logrus.Infof("start executor %s", e.Name())
		e.Execute()
		srv.OnStop(e.Stop)
	}
}

// newJobStore picks postgres when a host is configured and puts redis in
// front of it when an address is configured.
func newJobStore(ctx context.Context) (datastore.JobStore, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var store datastore.JobStore = datastore.NewMemoryJobStore()
	if config.Conf.Postgresql.Enabled() {
		pgStore := datastore.NewPostgresJobStore(datastore.DB(), datastore.PGX(), config.Conf.Postgresql.Schema)
		if err := pgStore.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate postgresql is err: %w", err)
		}
		store = pgStore
	} else {
		logrus.Warnf("postgresql host is empty, analysis jobs are kept in memory")
	}

	if config.Conf.RedisConfig.Enabled() {
		ttl := time.Duration(config.Conf.RedisConfig.TTLSeconds) * time.Second
		store = datastore.NewCachedJobStore(store, datastore.Redis(), ttl)
	}
	return store, nil
}
