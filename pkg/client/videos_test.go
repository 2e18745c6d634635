package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danbovey/blink-camera-system/pkg/models"
)

func TestVideosQueryParameters(t *testing.T) {
	api := newFakeAPI()
	var gotSince, gotPage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/media/changed") {
			gotSince = r.URL.Query().Get("since")
			gotPage = r.URL.Query().Get("page")
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(models.VideoListResponse{
				Media: []models.Video{{CameraID: 5, Type: "motion", VideoURL: "/media/1.mp4", CreatedAt: "2026-02-01T00:00:00+00:00"}},
			})
			return
		}
		api.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	c := New(Config{Token: "tok", RegionTier: "u001", BaseURL: server.URL})
	require.NoError(t, c.Init(context.Background(), ""))

	t.Run("explicit since and page", func(t *testing.T) {
		since := time.Date(2026, 2, 1, 12, 30, 0, 0, time.UTC)
		videos, err := c.Videos(context.Background(), 3, since)
		require.NoError(t, err)

		assert.Len(t, videos, 1)
		assert.Equal(t, "2026-02-01T12:30:00Z", gotSince)
		assert.Equal(t, "3", gotPage)
	})

	t.Run("zero since pulls full history", func(t *testing.T) {
		_, err := c.Videos(context.Background(), 0, time.Time{})
		require.NoError(t, err)

		assert.Equal(t, "2008-01-01T00:00:00Z", gotSince, "default epoch must predate the platform")
		assert.Equal(t, "0", gotPage)
	})
}

func TestRecentMotionEvents(t *testing.T) {
	api := newFakeAPI()
	api.videos = []models.Video{
		{CameraID: 5, Type: "motion", VideoURL: "/media/1.mp4", CreatedAt: "2026-02-01T00:00:00+00:00"},
		{CameraID: 7, Type: "liveview", VideoURL: "/media/2.mp4", CreatedAt: "2026-02-01T01:00:00+00:00"},
	}
	c, server := newTestClient(t, api, "")

	events, err := c.RecentMotionEvents(context.Background())
	require.NoError(t, err)

	require.Len(t, events, 1, "non-motion entries must be ignored")
	ev := events[5]
	assert.Equal(t, server.URL+"/media/1.mp4", ev.Video)
	assert.Equal(t, server.URL+"/media/1.jpg", ev.Image)
	assert.Equal(t, "2026-02-01T00:00:00+00:00", ev.CreatedAt)

	front := c.DeviceByID(5)
	require.NotNil(t, front.LastMotion)
	assert.Equal(t, ev, *front.LastMotion)
}

func TestRecentMotionEventsUnknownDevice(t *testing.T) {
	api := newFakeAPI()
	api.videos = []models.Video{
		{CameraID: 99, Type: "motion", VideoURL: "/media/9.mp4"},
	}
	c, _ := newTestClient(t, api, "")

	_, err := c.RecentMotionEvents(context.Background())
	assert.True(t, IsNotFound(err))
}
