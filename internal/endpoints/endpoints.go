// Package endpoints derives the per-region REST URLs used by every
// other component. Derivation is pure string templating; there is no
// network I/O here and no failure mode.
package endpoints

import "fmt"

// PlatformHost is the cloud service domain shared by all regional
// clusters.
const PlatformHost = "immedia-semi.com"

// DefaultTier is the regional tier used for the initial login before
// the server has told us which cluster serves the account.
const DefaultTier = "prod"

// Set holds the five derived URLs. Base has no trailing slash; Network
// and Arm end in a slash so callers append ids directly.
type Set struct {
	Base    string
	Network string
	Arm     string
	Video   string
	Home    string
}

// Resolve builds the Set for an account on a regional tier.
// Recompute whenever the account id or tier changes.
func Resolve(accountID int, tier string) Set {
	return FromBase(fmt.Sprintf("https://rest-%s.%s", tier, PlatformHost), accountID)
}

// FromBase builds the Set on top of an explicit base URL. This keeps
// suffix derivation in one place when the scheme/host is pinned (tests,
// proxies).
func FromBase(base string, accountID int) Set {
	return Set{
		Base:    base,
		Network: base + "/network/",
		Arm:     fmt.Sprintf("%s/api/v1/accounts/%d/networks/", base, accountID),
		Video:   fmt.Sprintf("%s/api/v1/accounts/%d/media/changed", base, accountID),
		Home:    fmt.Sprintf("%s/api/v3/accounts/%d/homescreen", base, accountID),
	}
}
