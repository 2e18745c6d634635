package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/danbovey/blink-camera-system/pkg/models"
)

// RefreshAll refreshes every known device's status concurrently, then
// folds a fresh summary back into the device records. Devices absent
// from the summary are left untouched, not removed. The fan-out waits
// for every sub-operation; the first failure aborts the aggregate but
// does not cancel in-flight siblings.
func (c *Client) RefreshAll(ctx context.Context) error {
	if err := c.require(); err != nil {
		return err
	}

	var g errgroup.Group
	for _, d := range c.devices {
		d := d
		g.Go(func() error {
			_, err := d.RefreshStatus(ctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	home, err := c.FetchSummary(ctx)
	if err != nil {
		return err
	}

	byID := make(map[int]models.HomeDevice, len(home.Cameras)+len(home.Owls))
	for _, raw := range append(home.Cameras, home.Owls...) {
		byID[raw.ID] = raw
	}
	for _, d := range c.devices {
		if raw, ok := byID[d.ID]; ok {
			d.Update(raw)
		}
	}
	return nil
}

// Thumbnails refreshes everything and returns the thumbnail URL per
// device id.
func (c *Client) Thumbnails(ctx context.Context) (map[int]string, error) {
	if err := c.RefreshAll(ctx); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(c.devices))
	for _, d := range c.devices {
		out[d.ID] = d.ThumbnailURL
	}
	return out, nil
}
