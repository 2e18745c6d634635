package models

// HomeScreen is the aggregate document listing every network, sync
// module, and device on an account. It is fetched fresh on each call
// that needs it and never cached.
type HomeScreen struct {
	Account     *Account     `json:"account,omitempty"`
	Networks    []Network    `json:"networks"`
	SyncModules []SyncModule `json:"sync_modules"`
	Cameras     []HomeDevice `json:"cameras"`
	Owls        []HomeDevice `json:"owls"`
}

// Network is a logical grouping of devices tied to one sync module,
// independently armable.
type Network struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Armed bool   `json:"armed"`
}

// SyncModule is the hub bridging cameras to the cloud; Status is
// "online" or "offline".
type SyncModule struct {
	NetworkID int    `json:"network_id"`
	Status    string `json:"status"`
}

// HomeDevice is one camera-class entry (camera, owl, or doorbell) as it
// appears on the home screen.
type HomeDevice struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	NetworkID int     `json:"network_id"`
	Status    string  `json:"status"`
	Enabled   bool    `json:"enabled"`
	Thumbnail string  `json:"thumbnail"`
	Battery   string  `json:"battery"`
	Signals   Signals `json:"signals"`
	UpdatedAt string  `json:"updated_at"`
}

// Signals holds the radio/sensor readings reported per device.
type Signals struct {
	WiFi int `json:"wifi"`
	LFR  int `json:"lfr"`
	Temp int `json:"temp"`
}
