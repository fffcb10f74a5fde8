package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Builders(t *testing.T) {
	e := NewEvent(JobPrepareFailed, "job-1").
		WithCommand("prepare_job").
		WithPayload(map[string]string{"phase": "invoke"}).
		WithError(errors.New("boom"))

	assert.Equal(t, JobPrepareFailed, e.Type)
	assert.Equal(t, "job-1", e.Job)
	assert.Equal(t, "prepare_job", e.Command)
	assert.Equal(t, "boom", e.Error)
	assert.True(t, e.IsFailure())
}

func TestEvent_WithNilError(t *testing.T) {
	e := NewEvent(JobCleanupCompleted, "job-1").WithError(nil)
	assert.Empty(t, e.Error)
	assert.False(t, e.IsFailure())
}

func TestEvent_String(t *testing.T) {
	e := NewEvent(JobCleanupFailed, "job-1").WithCommand("cleanup_job").WithError(errors.New("exit 1"))
	assert.Equal(t, `[job.cleanup.failed] job-1 command=cleanup_job error="exit 1"`, e.String())

	assert.Equal(t, "[hook.unsupported]", NewEvent(HookUnsupported, "").String())
}
