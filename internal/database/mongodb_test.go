package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectMongoRetry_GivesUp(t *testing.T) {
	start := time.Now()
	_, err := ConnectMongoRetry(context.Background(), "notmongo://localhost", time.Second, 3, 10*time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 3 attempts")
	// 10ms + 20ms of backoff between the three attempts
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestConnectMongoRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ConnectMongoRetry(ctx, "notmongo://localhost", time.Second, 3, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
}
