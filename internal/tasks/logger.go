package tasks

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/devraider/dataroom/internal/logging"
)

var _ logging.InternalLogger = (*TaskStoreLogger)(nil)

// TaskStoreLogger captures a run's log lines on the task itself so they can
// be read back over the API.
type TaskStoreLogger struct {
	Task *RunnableTask
}

func NewTaskStoreLogger(task *RunnableTask) *TaskStoreLogger {
	return &TaskStoreLogger{
		Task: task,
	}
}

func (t *TaskStoreLogger) Debug(format string, args ...any) {
	t.Task.AppendLog("debug", fmt.Sprintf(format, args...))
}

func (t *TaskStoreLogger) Info(format string, args ...any) {
	t.Task.AppendLog("info", fmt.Sprintf(format, args...))
}

func (t *TaskStoreLogger) Warn(format string, args ...any) {
	t.Task.AppendLog("warn", fmt.Sprintf(format, args...))
}

func (t *TaskStoreLogger) Error(format string, args ...any) {
	t.Task.AppendLog("error", fmt.Sprintf(format, args...))
}

// NewCompositeLogger creates a MultiLogger that logs to both zerolog and the task store.
func NewCompositeLogger(task *RunnableTask, zlog zerolog.Logger) logging.MultiLogger {
	return logging.NewMultiLogger(
		// first log the task using zerolog,
		logging.NewZLogger(zlog),
		// then store it in the task logs
		NewTaskStoreLogger(task),
	)
}
