package bot

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"
)

// TestDrainUpdates_ReleasesBackloggedPoller reproduces the shutdown shape of
// Start: the poller checks its stop channel only between batches and parks on
// a plain blocking send once the buffer is full, so stopping must keep
// receiving until the poller goroutine is gone.
func TestDrainUpdates_ReleasesBackloggedPoller(t *testing.T) {
	const buffer = 4

	updates := make(chan telebot.Update, buffer)
	stop := make(chan struct{})

	var pollWG sync.WaitGroup
	pollWG.Add(1)
	go func() {
		defer pollWG.Done()
		for id := 1; ; id++ {
			select {
			case <-stop:
				return
			default:
			}
			updates <- messageUpdate(id)
		}
	}()

	// wait for the poller to fill the buffer and park on the send
	require.Eventually(t, func() bool {
		return len(updates) == buffer
	}, time.Second, 5*time.Millisecond)

	close(stop)

	done := make(chan struct{})
	go func() {
		drainUpdates(updates, &pollWG)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown hung: poller still parked on a full updates channel")
	}

	_, open := <-updates
	require.False(t, open, "updates channel must be closed once the poller exits")
}
