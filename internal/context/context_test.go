package context

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDetach(t *testing.T) {
	parent, cancel := context.WithTimeout(WithRequestID(context.Background(), "req-1"), time.Minute)
	detached := Detach(parent)
	cancel()

	require.Error(t, parent.Err())
	require.NoError(t, detached.Err())
	require.Nil(t, detached.Done())
	_, ok := detached.Deadline()
	require.False(t, ok)
	require.Equal(t, "req-1", RequestID(detached))
}

func TestRequestID_Missing(t *testing.T) {
	require.Equal(t, "", RequestID(context.Background()))
}
