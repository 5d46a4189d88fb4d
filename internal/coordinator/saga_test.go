package coordinator_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/coordinator"
	"github.com/jcmexdev/storefront/internal/coordinator/sagalog"
)

type memJournal struct {
	mu      sync.Mutex
	entries []sagalog.SagaLog
}

func (j *memJournal) Save(_ context.Context, e *sagalog.SagaLog) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, *e)
	return nil
}

func (j *memJournal) Pending(context.Context, int) ([]sagalog.SagaLog, error) { return nil, nil }

func (j *memJournal) statuses() []sagalog.Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]sagalog.Status, 0, len(j.entries))
	for _, e := range j.entries {
		out = append(out, e.Status)
	}
	return out
}

func recorder(calls *[]string, name string, fail bool) coordinator.FuncStep {
	return coordinator.FuncStep{
		StepName: name,
		Do: func(context.Context) error {
			*calls = append(*calls, "do:"+name)
			if fail {
				return errors.New(name + " broke")
			}
			return nil
		},
		Undo: func(context.Context) error {
			*calls = append(*calls, "undo:"+name)
			return nil
		},
	}
}

func TestOrchestrator_Success(t *testing.T) {
	var calls []string
	journal := &memJournal{}

	err := coordinator.NewOrchestrator("o1", journal,
		recorder(&calls, "a", false),
		recorder(&calls, "b", false),
	).WithPayload(`{"x":1}`).Start(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"do:a", "do:b"}, calls)
	assert.Equal(t, []sagalog.Status{
		sagalog.StatusStarted, sagalog.StatusStepDone, sagalog.StatusStepDone, sagalog.StatusCompleted,
	}, journal.statuses())
	assert.Equal(t, `{"x":1}`, journal.entries[0].Payload)
	assert.True(t, journal.entries[3].Terminal())
}

func TestOrchestrator_CompensatesInReverse(t *testing.T) {
	var calls []string
	journal := &memJournal{}

	err := coordinator.NewOrchestrator("o2", journal,
		recorder(&calls, "a", false),
		recorder(&calls, "b", false),
		recorder(&calls, "c", true),
	).Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "c broke")
	assert.Equal(t, []string{"do:a", "do:b", "do:c", "undo:b", "undo:a"}, calls)

	statuses := journal.statuses()
	assert.Equal(t, sagalog.StatusCompensating, statuses[len(statuses)-2])
	assert.Equal(t, sagalog.StatusFailed, statuses[len(statuses)-1])
}

func TestOrchestrator_CompensationFailureIsRecorded(t *testing.T) {
	journal := &memJournal{}
	cause := errors.New("insert failed")

	err := coordinator.NewOrchestrator("o3", journal,
		coordinator.FuncStep{
			StepName: "first",
			Do:       func(context.Context) error { return nil },
			Undo:     func(context.Context) error { return errors.New("undo failed") },
		},
		coordinator.FuncStep{
			StepName: "second",
			Do:       func(context.Context) error { return cause },
		},
	).Start(context.Background())

	assert.ErrorIs(t, err, cause)
	last := journal.entries[len(journal.entries)-1]
	assert.Equal(t, sagalog.StatusFailed, last.Status)
	assert.Contains(t, last.ErrorMessages, "compensation of first failed")
}

func TestOrchestrator_NilJournal(t *testing.T) {
	var calls []string
	err := coordinator.NewOrchestrator("o4", nil, recorder(&calls, "a", true)).Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"do:a"}, calls)
}
