package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArmedStatus(t *testing.T) {
	c, _ := newTestClient(t, newFakeAPI(), "")

	status, err := c.ArmedStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: false}, status)
}

func TestNetworkOnlineStatus(t *testing.T) {
	c, _ := newTestClient(t, newFakeAPI(), "")

	t.Run("all selected networks by default", func(t *testing.T) {
		online, err := c.NetworkOnlineStatus(context.Background())
		require.NoError(t, err)
		assert.Equal(t, map[int]bool{1: true, 2: false}, online)
	})

	t.Run("restricted to requested ids", func(t *testing.T) {
		online, err := c.NetworkOnlineStatus(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, map[int]bool{2: false}, online)
	})
}

func TestSetArmed(t *testing.T) {
	api := newFakeAPI()
	c, _ := newTestClient(t, api, "")

	results, err := c.SetArmed(context.Background(), true, 1, 2)
	require.NoError(t, err)

	assert.Len(t, results, 2)
	assert.Equal(t, 1, api.seen("POST /network/1/state/arm"))
	assert.Equal(t, 1, api.seen("POST /network/2/state/arm"))
	assert.JSONEq(t, `{"id":1}`, string(results[1]))
}

func TestSetArmedDefaultsToSelection(t *testing.T) {
	api := newFakeAPI()
	c, _ := newTestClient(t, api, "Home")

	results, err := c.SetArmed(context.Background(), false)
	require.NoError(t, err)

	assert.Len(t, results, 1)
	assert.Equal(t, 1, api.seen("POST /network/1/state/disarm"))
	assert.Equal(t, 0, api.seen("POST /network/2/state/disarm"))
}

func TestSetArmedPartialFailure(t *testing.T) {
	api := newFakeAPI()
	c, _ := newTestClient(t, api, "")
	api.mu.Lock()
	api.failArm[2] = true
	api.mu.Unlock()

	_, err := c.SetArmed(context.Background(), true, 1, 2)

	var noe *NetworkOpError
	require.ErrorAs(t, err, &noe)
	assert.Equal(t, 2, noe.NetworkID)
	assert.Equal(t, "arm", noe.State)
	assert.Equal(t, 500, noe.Status)

	// The sibling request must still have been dispatched.
	assert.Equal(t, 1, api.seen("POST /network/1/state/arm"))
	assert.Equal(t, 1, api.seen("POST /network/2/state/arm"))
}
