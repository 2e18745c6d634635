package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/danbovey/blink-camera-system/pkg/models"
)

var errNoImageLink = errors.New("no image link configured for device")

// Device is one discovered camera-class device. Identity is the id,
// unique within the owning client's device set. The capability URLs
// are derived once from type + network id + device id; Update replaces
// the summary fields and rederives thumbnail/clip only, since the arm
// and image links are stable for a device's lifetime.
type Device struct {
	c *Client

	ID        int
	Name      string
	Type      string
	NetworkID int
	RegionID  string
	Status    string
	Enabled   bool
	Battery   string
	Signals   models.Signals
	UpdatedAt string

	ThumbnailURL string
	ClipURL      string
	LastMotion   *MotionEvent

	armLink   string
	imageLink string
}

func newDevice(c *Client, raw models.HomeDevice) *Device {
	urls := c.session.URLs()
	d := &Device{
		c:        c,
		RegionID: c.session.Tier(),
	}
	d.apply(raw)

	d.armLink = fmt.Sprintf("%s%d/camera/%d/", urls.Network, raw.NetworkID, raw.ID)
	switch raw.Type {
	case "owl":
		d.imageLink = fmt.Sprintf("%s%d/owls/%d/thumbnail", urls.Arm, raw.NetworkID, raw.ID)
	case "doorbell":
		d.imageLink = fmt.Sprintf("%s%d/doorbells/%d/thumbnail", urls.Arm, raw.NetworkID, raw.ID)
	default:
		d.imageLink = fmt.Sprintf("%s%d/cameras/%d/thumbnail", urls.Arm, raw.NetworkID, raw.ID)
	}
	return d
}

// Update replaces the summary-derived fields wholesale and rederives
// the thumbnail and clip URLs. Arm and image links are left alone.
func (d *Device) Update(raw models.HomeDevice) {
	d.apply(raw)
}

func (d *Device) apply(raw models.HomeDevice) {
	d.ID = raw.ID
	d.Name = raw.Name
	d.Type = raw.Type
	d.NetworkID = raw.NetworkID
	d.Status = raw.Status
	d.Enabled = raw.Enabled
	d.Battery = raw.Battery
	d.Signals = raw.Signals
	d.UpdatedAt = raw.UpdatedAt

	base := d.c.session.URLs().Base
	if raw.Thumbnail != "" {
		d.ThumbnailURL = base + raw.Thumbnail + ".jpg"
		d.ClipURL = base + raw.Thumbnail + ".mp4"
	} else {
		d.ThumbnailURL = ""
		d.ClipURL = ""
	}
}

// Snapshot asks the device to capture a fresh image and returns the
// raw response payload.
func (d *Device) Snapshot(ctx context.Context) ([]byte, error) {
	if d.imageLink == "" {
		return nil, &DeviceOpError{DeviceID: d.ID, Name: d.Name, Op: "snapshot", Err: errNoImageLink}
	}
	resp, err := d.post(ctx, d.imageLink, "snapshot")
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// SetMotionDetect enables or disables motion detection on the device.
func (d *Device) SetMotionDetect(ctx context.Context, enabled bool) error {
	action := "disable"
	if enabled {
		action = "enable"
	}
	_, err := d.post(ctx, d.armLink+action, "motion "+action)
	return err
}

// RefreshStatus asks the platform for the device's current status and
// returns the payload opaquely.
func (d *Device) RefreshStatus(ctx context.Context) ([]byte, error) {
	resp, err := d.post(ctx, d.armLink+"status", "status refresh")
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// RecordClip asks the device to record a short clip.
func (d *Device) RecordClip(ctx context.Context) error {
	_, err := d.post(ctx, d.armLink+"clip", "clip record")
	return err
}

// RefreshImage rereads the home document and, if this device appears
// in the camera list, updates the thumbnail URL and timestamp in
// place. Other fields are untouched. Returns the (possibly unchanged)
// thumbnail URL.
func (d *Device) RefreshImage(ctx context.Context) (string, error) {
	if err := d.c.require(); err != nil {
		return "", err
	}

	resp, err := d.c.http.R().
		SetContext(ctx).
		SetHeaders(d.c.session.AuthHeader()).
		SetResult(&models.HomeScreen{}).
		Get(d.c.session.URLs().Home)
	if err != nil {
		return "", &DeviceOpError{DeviceID: d.ID, Name: d.Name, Op: "image refresh", Err: err}
	}
	if resp.IsError() {
		return "", &DeviceOpError{DeviceID: d.ID, Name: d.Name, Op: "image refresh", Status: resp.StatusCode()}
	}
	home, ok := resp.Result().(*models.HomeScreen)
	if !ok {
		return "", &DeviceOpError{DeviceID: d.ID, Name: d.Name, Op: "image refresh", Err: errors.New("failed to parse home summary")}
	}

	for _, cam := range home.Cameras {
		if cam.ID != d.ID {
			continue
		}
		if cam.Thumbnail != "" {
			d.ThumbnailURL = d.c.session.URLs().Base + cam.Thumbnail + ".jpg"
		}
		d.UpdatedAt = cam.UpdatedAt
		break
	}
	return d.ThumbnailURL, nil
}

// FetchImageData downloads the current thumbnail.
func (d *Device) FetchImageData(ctx context.Context) ([]byte, error) {
	return d.fetchBinary(ctx, d.ThumbnailURL, "image fetch")
}

// FetchVideoData downloads the current clip.
func (d *Device) FetchVideoData(ctx context.Context) ([]byte, error) {
	return d.fetchBinary(ctx, d.ClipURL, "video fetch")
}

func (d *Device) fetchBinary(ctx context.Context, url, op string) ([]byte, error) {
	if url == "" {
		return nil, &DeviceOpError{DeviceID: d.ID, Name: d.Name, Op: op, Err: errors.New("no media URL for device")}
	}
	if err := d.c.require(); err != nil {
		return nil, err
	}
	resp, err := d.c.http.R().
		SetContext(ctx).
		SetHeaders(d.c.session.AuthHeader()).
		Get(url)
	if err != nil {
		return nil, &DeviceOpError{DeviceID: d.ID, Name: d.Name, Op: op, Err: err}
	}
	if resp.IsError() {
		return nil, &DeviceOpError{DeviceID: d.ID, Name: d.Name, Op: op, Status: resp.StatusCode()}
	}
	return resp.Body(), nil
}

func (d *Device) post(ctx context.Context, url, op string) (*resty.Response, error) {
	if err := d.c.require(); err != nil {
		return nil, err
	}
	resp, err := d.c.http.R().
		SetContext(ctx).
		SetHeaders(d.c.session.AuthHeader()).
		Post(url)
	if err != nil {
		return nil, &DeviceOpError{DeviceID: d.ID, Name: d.Name, Op: op, Err: err}
	}
	if resp.IsError() {
		return nil, &DeviceOpError{
			DeviceID: d.ID,
			Name:     d.Name,
			Op:       op,
			Status:   resp.StatusCode(),
			Err:      errors.New(strings.TrimSpace(resp.String())),
		}
	}
	return resp, nil
}
