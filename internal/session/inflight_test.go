package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInflight_NewRequestCancelsPrevious(t *testing.T) {
	f := NewInflight()

	first, doneFirst := f.Begin(context.Background(), "sid")
	second, doneSecond := f.Begin(context.Background(), "sid")

	assert.ErrorIs(t, first.Err(), context.Canceled)
	assert.NoError(t, second.Err())

	// Finishing the superseded request must not drop the current one.
	doneFirst()
	assert.Equal(t, 1, f.Running())

	doneSecond()
	assert.ErrorIs(t, second.Err(), context.Canceled)
	assert.Zero(t, f.Running())
}

func TestInflight_SessionsAreIndependent(t *testing.T) {
	f := NewInflight()

	a, doneA := f.Begin(context.Background(), "a")
	defer doneA()
	b, doneB := f.Begin(context.Background(), "b")
	defer doneB()

	assert.NoError(t, a.Err())
	assert.NoError(t, b.Err())
	assert.Equal(t, 2, f.Running())
}
