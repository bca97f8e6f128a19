package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusAccepted, StatusCompleted, StatusCancelled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("done").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusCancelled, true},
		{StatusAccepted, StatusCompleted, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusAccepted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCompleted, StatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusAccepted.IsTerminal())
}
