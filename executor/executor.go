package executor

// Executor is a long-running consumer of the items pushed on its channel.
// Stop closes intake and returns once queued items are processed.
type Executor interface {
	Name() string
	Execute()
	Stop()
	GetItemsCh() chan any
}

var _ Executor = (*AnalysisExecutor)(nil)
