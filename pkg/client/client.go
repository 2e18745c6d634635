// Package client is the programmatic surface of the camera platform
// library: it authenticates an account, discovers the account's
// networks and devices, and exposes arm/disarm, snapshot, clip, and
// status operations against the vendor REST API.
package client

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/danbovey/blink-camera-system/internal/auth"
	"github.com/danbovey/blink-camera-system/pkg/models"
)

// CodeProvider supplies the out-of-band verification code during a
// two-factor login.
type CodeProvider = auth.CodeProvider

// TerminalCodeProvider prompts on w and reads the code from r.
func TerminalCodeProvider(r io.Reader, w io.Writer) CodeProvider {
	return auth.TerminalCodeProvider(r, w)
}

// Config enumerates every recognized option. Either Username+Password
// (+DeviceID) or Token+RegionTier must be supplied.
type Config struct {
	Username string
	Password string
	// DeviceID is the client device identifier sent with logins. Keep
	// it stable across runs so the provider recognizes the client.
	DeviceID string

	// Token/RegionTier from a previous session skip the login round
	// trip entirely.
	Token      string
	RegionTier string

	// Auth2FA switches login to the interactive pin-verification flow.
	Auth2FA bool
	// Debug traces every request and response status through the logger.
	Debug bool
	// DeviceName is the client name reported to the provider.
	DeviceName string
	// VerifyWait is how long a non-2FA login waits for provider-side
	// verification before its single retry. Defaults to 60s.
	VerifyWait time.Duration
	// CodeProvider is required when Auth2FA is on.
	CodeProvider CodeProvider

	// BaseURL pins the API scheme/host, bypassing region templating.
	// Intended for tests and proxies.
	BaseURL string
}

// Client owns the authenticated session, the selected networks, and
// the set of discovered devices. It is not safe for concurrent use;
// the platform serves one account session per instance.
type Client struct {
	http    *resty.Client
	log     *logrus.Logger
	cfg     Config
	session *auth.Session

	selected map[int]models.Network
	devices  []*Device
}

// New builds a client from cfg. No network I/O happens until Init.
func New(cfg Config) *Client {
	r := resty.New()
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")

	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
		r.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			log.WithFields(logrus.Fields{
				"method":   resp.Request.Method,
				"url":      resp.Request.URL,
				"status":   resp.StatusCode(),
				"duration": resp.Time(),
			}).Debug("api call")
			return nil
		})
	}

	c := &Client{
		http:     r,
		log:      log,
		cfg:      cfg,
		selected: make(map[int]models.Network),
	}
	c.session = auth.NewSession(auth.Options{
		Username:     cfg.Username,
		Password:     cfg.Password,
		DeviceID:     cfg.DeviceID,
		Token:        cfg.Token,
		Tier:         cfg.RegionTier,
		Auth2FA:      cfg.Auth2FA,
		DeviceName:   cfg.DeviceName,
		VerifyWait:   cfg.VerifyWait,
		CodeProvider: cfg.CodeProvider,
		BaseURL:      cfg.BaseURL,
	}, r, log)
	return c
}

// Init establishes the session (token setup or full login), then
// discovers networks and devices. nameOrID restricts the selection to
// networks whose id or name matches; empty selects every network on
// the account.
func (c *Client) Init(ctx context.Context, nameOrID string) error {
	switch {
	case c.cfg.Token != "" && c.cfg.RegionTier != "":
		if err := c.session.SetupWithToken(); err != nil {
			return err
		}
	case c.cfg.Username != "" && c.cfg.Password != "":
		if err := c.session.Login(ctx); err != nil {
			return err
		}
	default:
		return &AuthError{Reason: "either username+password or token+region tier must be configured"}
	}

	if _, err := c.DiscoverNetworks(ctx, nameOrID); err != nil {
		return err
	}
	_, err := c.DiscoverDevices(ctx)
	return err
}

// Token returns the session token so callers can persist it alongside
// RegionTier and skip the next login.
func (c *Client) Token() string { return c.session.Token() }

// RegionTier returns the tier serving the account.
func (c *Client) RegionTier() string { return c.session.Tier() }

// Devices returns the discovered device set.
func (c *Client) Devices() []*Device { return c.devices }

// DeviceByID returns the discovered device with the given id, or nil.
func (c *Client) DeviceByID(id int) *Device {
	for _, d := range c.devices {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// SelectedNetworks returns the networks retained by DiscoverNetworks.
func (c *Client) SelectedNetworks() []models.Network {
	out := make([]models.Network, 0, len(c.selected))
	for _, n := range c.selected {
		out = append(out, n)
	}
	return out
}

// DiscoverNetworks fetches the home summary and retains the matching
// networks for the life of the client. It also adopts the account id
// reported by the summary, rederiving endpoint URLs if it changed.
func (c *Client) DiscoverNetworks(ctx context.Context, nameOrID string) ([]models.Network, error) {
	home, err := c.fetchHome(ctx)
	if err != nil {
		return nil, err
	}
	if len(home.Networks) == 0 {
		return nil, &NotFoundError{Resource: "no networks on account"}
	}

	var picked []models.Network
	if nameOrID == "" {
		picked = home.Networks
	} else {
		id, idErr := strconv.Atoi(nameOrID)
		for _, n := range home.Networks {
			if n.Name == nameOrID || (idErr == nil && n.ID == id) {
				picked = append(picked, n)
			}
		}
		if len(picked) == 0 {
			return nil, &NotFoundError{Resource: "network " + nameOrID}
		}
	}

	c.selected = make(map[int]models.Network, len(picked))
	for _, n := range picked {
		c.selected[n.ID] = n
	}
	return picked, nil
}

// DiscoverDevices materializes one Device per camera and owl entry in
// the filtered summary. Rediscovered ids replace the existing record
// wholesale; there is no field-by-field merge.
func (c *Client) DiscoverDevices(ctx context.Context) ([]*Device, error) {
	home, err := c.FetchSummary(ctx)
	if err != nil {
		return nil, err
	}
	for _, raw := range append(home.Cameras, home.Owls...) {
		c.upsertDevice(newDevice(c, raw))
	}
	return c.devices, nil
}

// FetchSummary fetches the home document filtered to the selected
// networks. The filtering is unconditional: callers never see entries
// from networks outside the selection.
func (c *Client) FetchSummary(ctx context.Context) (*models.HomeScreen, error) {
	home, err := c.fetchHome(ctx)
	if err != nil {
		return nil, err
	}

	filtered := &models.HomeScreen{Account: home.Account}
	for _, n := range home.Networks {
		if _, ok := c.selected[n.ID]; ok {
			filtered.Networks = append(filtered.Networks, n)
		}
	}
	for _, sm := range home.SyncModules {
		if _, ok := c.selected[sm.NetworkID]; ok {
			filtered.SyncModules = append(filtered.SyncModules, sm)
		}
	}
	for _, cam := range home.Cameras {
		if _, ok := c.selected[cam.NetworkID]; ok {
			filtered.Cameras = append(filtered.Cameras, cam)
		}
	}
	for _, owl := range home.Owls {
		if _, ok := c.selected[owl.NetworkID]; ok {
			filtered.Owls = append(filtered.Owls, owl)
		}
	}
	return filtered, nil
}

// fetchHome GETs the unfiltered home document and adopts the account
// id it reports.
func (c *Client) fetchHome(ctx context.Context) (*models.HomeScreen, error) {
	if err := c.require(); err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(c.session.AuthHeader()).
		SetResult(&models.HomeScreen{}).
		Get(c.session.URLs().Home)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}
	home, ok := resp.Result().(*models.HomeScreen)
	if !ok {
		return nil, &APIError{Status: resp.StatusCode(), Body: "failed to parse home summary"}
	}

	if home.Account != nil {
		c.session.AdoptAccountID(home.Account.AccountID)
	}
	return home, nil
}

// require fails fast when no session is established rather than
// issuing a doomed network call.
func (c *Client) require() error {
	if !c.session.Ready() {
		return ErrNoSession
	}
	return nil
}

// upsertDevice removes any record with the same id before appending.
func (c *Client) upsertDevice(d *Device) {
	for i, existing := range c.devices {
		if existing.ID == d.ID {
			c.devices = append(c.devices[:i], c.devices[i+1:]...)
			break
		}
	}
	c.devices = append(c.devices, d)
}
