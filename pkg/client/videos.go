package client

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/danbovey/blink-camera-system/pkg/models"
)

// defaultSince predates the platform's founding so a zero since value
// pulls the full clip history.
var defaultSince = time.Date(2008, time.January, 1, 0, 0, 0, 0, time.UTC)

// MotionEvent is the most recent motion clip known for a device, with
// the still image derived from the clip URL by suffix substitution.
type MotionEvent struct {
	CameraID  int
	Video     string
	Image     string
	CreatedAt string
}

// Videos fetches one page of the media-changed listing. A zero since
// defaults to the full-history epoch.
func (c *Client) Videos(ctx context.Context, page int, since time.Time) ([]models.Video, error) {
	if err := c.require(); err != nil {
		return nil, err
	}
	if since.IsZero() {
		since = defaultSince
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(c.session.AuthHeader()).
		SetQueryParam("since", since.UTC().Format(time.RFC3339)).
		SetQueryParam("page", strconv.Itoa(page)).
		SetResult(&models.VideoListResponse{}).
		Get(c.session.URLs().Video)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}
	listing, ok := resp.Result().(*models.VideoListResponse)
	if !ok {
		return nil, &APIError{Status: resp.StatusCode(), Body: "failed to parse video listing"}
	}
	return listing.Media, nil
}

// RecentMotionEvents scans the first page of the clip listing and
// attaches a MotionEvent to each device with a motion-type entry,
// keyed by device id. A motion clip referencing an unknown device id
// is an error.
func (c *Client) RecentMotionEvents(ctx context.Context) (map[int]MotionEvent, error) {
	videos, err := c.Videos(ctx, 0, time.Time{})
	if err != nil {
		return nil, err
	}

	base := c.session.URLs().Base
	out := make(map[int]MotionEvent)
	for _, v := range videos {
		if v.Type != "motion" {
			continue
		}
		d := c.DeviceByID(v.CameraID)
		if d == nil {
			return nil, &NotFoundError{Resource: "device " + strconv.Itoa(v.CameraID) + " for motion clip"}
		}
		ev := MotionEvent{
			CameraID:  v.CameraID,
			Video:     base + v.VideoURL,
			Image:     base + strings.TrimSuffix(v.VideoURL, ".mp4") + ".jpg",
			CreatedAt: v.CreatedAt,
		}
		d.LastMotion = &ev
		out[v.CameraID] = ev
	}
	return out, nil
}
