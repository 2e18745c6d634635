package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ArmedStatus returns the armed flag per selected network id.
func (c *Client) ArmedStatus(ctx context.Context) (map[int]bool, error) {
	home, err := c.FetchSummary(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int]bool, len(home.Networks))
	for _, n := range home.Networks {
		out[n.ID] = n.Armed
	}
	return out, nil
}

// NetworkOnlineStatus maps each matching sync module's network id to
// whether its hub reports online. Defaults to every selected network.
func (c *Client) NetworkOnlineStatus(ctx context.Context, networkIDs ...int) (map[int]bool, error) {
	home, err := c.FetchSummary(ctx)
	if err != nil {
		return nil, err
	}

	want := c.targetNetworks(networkIDs)
	out := make(map[int]bool)
	for _, sm := range home.SyncModules {
		if _, ok := want[sm.NetworkID]; ok {
			out[sm.NetworkID] = sm.Status == "online"
		}
	}
	return out, nil
}

// SetArmed arms or disarms the given networks (default: all selected)
// concurrently. Every request is dispatched and waited on; the first
// failure is returned, but in-flight sibling requests are not
// canceled. Results are the raw per-network response payloads.
func (c *Client) SetArmed(ctx context.Context, armed bool, networkIDs ...int) (map[int]json.RawMessage, error) {
	if err := c.require(); err != nil {
		return nil, err
	}

	state := "disarm"
	if armed {
		state = "arm"
	}

	ids := networkIDs
	if len(ids) == 0 {
		for id := range c.selected {
			ids = append(ids, id)
		}
	}

	results := make([]json.RawMessage, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			url := fmt.Sprintf("%s%d/state/%s", c.session.URLs().Network, id, state)
			resp, err := c.http.R().
				SetContext(ctx).
				SetHeaders(c.session.AuthHeader()).
				Post(url)
			if err != nil {
				return &NetworkOpError{NetworkID: id, State: state, Err: err}
			}
			if resp.IsError() {
				return &NetworkOpError{
					NetworkID: id,
					State:     state,
					Status:    resp.StatusCode(),
					Err:       errors.New(strings.TrimSpace(resp.String())),
				}
			}
			results[i] = json.RawMessage(resp.Body())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int]json.RawMessage, len(ids))
	for i, id := range ids {
		out[id] = results[i]
	}
	return out, nil
}

// targetNetworks narrows the selected set to the requested ids, or
// returns the whole selection when none are given.
func (c *Client) targetNetworks(networkIDs []int) map[int]struct{} {
	want := make(map[int]struct{})
	if len(networkIDs) == 0 {
		for id := range c.selected {
			want[id] = struct{}{}
		}
		return want
	}
	for _, id := range networkIDs {
		want[id] = struct{}{}
	}
	return want
}
