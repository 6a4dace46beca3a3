package tasks

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	bgTasks := New(slog.Default(), 3, 10)
	bgTasks.Run()
	taskRunned := false
	task := func() {
		t.Log("task")
		taskRunned = true
	}
	bgTasks.Add(task)
	bgTasks.Shutdown(context.Background())
	assert.True(t, taskRunned)
}

func TestShutdownDrainsQueue(t *testing.T) {
	bgTasks := New(slog.Default(), 2, 10)
	bgTasks.Run()
	var done atomic.Int32
	for i := 0; i < 5; i++ {
		bgTasks.Add(func() {
			done.Add(1)
		})
	}
	err := bgTasks.Shutdown(context.Background())
	assert.NoError(t, err)
	assert.EqualValues(t, 5, done.Load())
	assert.True(t, bgTasks.IsEmpty())
}
