package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/exvulsec/rugscope/datastore"
	"github.com/exvulsec/rugscope/executor"
	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/task"
	"github.com/exvulsec/rugscope/utils"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input>",
	Short: "analyze one token and print the report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, _ := cmd.Flags().GetString("chain")
		result, err := analyzeOnce(cmd.Context(), args[0], chain)
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	},
}

// analyzeOnce runs a single job through an in-memory pipeline and waits for
// it.
func analyzeOnce(ctx context.Context, input, chain string) (*model.AnalysisResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	store := datastore.NewMemoryJobStore()
	analysisExecutor := executor.NewAnalysisExecutor(store, executor.NewPipeline(store, task.NewDefaultTasks(utils.HashScorer{})), 1, 1)
	analysisExecutor.Execute()
	defer analysisExecutor.Stop()

	job, done, err := analysisExecutor.Submit(ctx, input, chain, "")
	if err != nil {
		return nil, err
	}
	if status := <-done; status != model.JobStatusCompleted {
		return nil, fmt.Errorf("analysis %s finished with status %s", job.ID, status)
	}

	stored, err := store.GetByID(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	return stored.Result, nil
}

func init() {
	analyzeCmd.Flags().String("chain", "", "chain hint, available: ethereum, base, solana")
}
