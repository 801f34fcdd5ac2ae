package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoreau/access-portal-be/internal/auth"
)

func TestSweepRemovesExpiredSessions(t *testing.T) {
	// A negative TTL makes every session born expired.
	store := auth.NewStore(-time.Second)
	store.Create(1)
	store.Create(2)
	require.Equal(t, 2, store.Len())

	sweeper := NewSessionSweeper(store, time.Minute)
	sweeper.sweep()

	assert.Equal(t, 0, store.Len())
}

func TestRunAndStop(t *testing.T) {
	sweeper := NewSessionSweeper(auth.NewStore(time.Hour), time.Minute)

	require.NoError(t, sweeper.Run())
	sweeper.Stop()
}
