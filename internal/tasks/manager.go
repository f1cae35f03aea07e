package tasks

import (
	"context"
	"sync"
	"time"
)

const MaxLogsPerTask = 1000

// DefaultRunTimeout bounds a single task execution.
const DefaultRunTimeout = 5 * time.Minute

// Manager keeps the registered background tasks and runs the interval
// scheduler for each of them.
type Manager struct {
	tasks      sync.Map
	runTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		runTimeout: DefaultRunTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Register adds a task. An interval of 0 means manual trigger only.
func (m *Manager) Register(name string, interval time.Duration, fn TaskFunc) {
	task := &RunnableTask{
		Name:         name,
		Interval:     interval,
		Handler:      fn,
		Logs:         make([]LogEntry, 0),
		registeredAt: time.Now(),
		runTimeout:   m.runTimeout,
	}
	m.tasks.Store(name, task)

	if interval > 0 {
		go m.scheduler(task)
	}
}

// Trigger starts a task run in the background.
func (m *Manager) Trigger(name string) error {
	t, ok := m.tasks.Load(name)
	if !ok {
		return TaskNotFoundError{Name: name}
	}
	task := t.(*RunnableTask)
	go task.Run()
	return nil
}

// TriggerAndWait runs the task synchronously. Used at startup when a task
// must complete before the server accepts traffic.
func (m *Manager) TriggerAndWait(name string) error {
	t, ok := m.tasks.Load(name)
	if !ok {
		return TaskNotFoundError{Name: name}
	}
	t.(*RunnableTask).Run()
	return nil
}

func (m *Manager) ListStatus() []TaskStatus {
	var list []TaskStatus
	m.tasks.Range(func(key, value any) bool {
		task := value.(*RunnableTask)
		list = append(list, task.Status())
		return true
	})
	return list
}

func (m *Manager) GetLogs(name string) ([]LogEntry, error) {
	t, ok := m.tasks.Load(name)
	if !ok {
		return nil, TaskNotFoundError{Name: name}
	}
	task := t.(*RunnableTask)
	return task.GetLogs(), nil
}

// Stop shuts down all interval schedulers. Runs in flight finish on their own.
func (m *Manager) Stop() {
	m.cancel()
}

func (m *Manager) scheduler(task *RunnableTask) {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			task.Run()
		case <-m.ctx.Done():
			return
		}
	}
}
