package chain

import "fmt"

// SubtensorResponse is the envelope wrapping every API payload.
type SubtensorResponse[T any] struct {
	StatusCode int            `json:"statusCode"`
	Success    bool           `json:"success"`
	Data       T              `json:"data"`
	Error      map[string]any `json:"error"`
}

type (
	SubnetListResponse      = SubtensorResponse[[]int]
	SubnetMetagraphResponse = SubtensorResponse[SubnetMetagraph]
	SubnetInfoResponse      = SubtensorResponse[SubnetInfo]
)

// errorMessage extracts a readable message from the envelope's error object.
func (r *SubtensorResponse[T]) errorMessage() string {
	if r.Error == nil {
		return "request unsuccessful"
	}
	for _, k := range []string{"message", "msg", "detail"} {
		if v, ok := r.Error[k]; ok {
			return fmt.Sprint(v)
		}
	}
	return fmt.Sprint(r.Error)
}

// SubnetMetagraph is the subset of the metagraph payload subtrack reads.
// Per-neuron arrays are aligned by index.
type SubnetMetagraph struct {
	Netuid         int      `json:"netuid"`
	Name           string   `json:"name"`
	Block          int64    `json:"block"`
	Tempo          int      `json:"tempo"`
	NumUids        int      `json:"numUids"`
	MaxUids        int      `json:"maxUids"`
	Burn           float64  `json:"burn"`
	ImmunityPeriod int      `json:"immunityPeriod"`
	UIDList        []int    `json:"uids,omitempty"`
	HotkeyList     []string `json:"hotkeys"`
}

// UIDs returns the UID array, or the hotkey indexes when the API omitted it.
func (m *SubnetMetagraph) UIDs() []int {
	if m.UIDList != nil {
		return m.UIDList
	}
	uids := make([]int, len(m.HotkeyList))
	for i := range uids {
		uids[i] = i
	}
	return uids
}

// Hotkeys returns the hotkey array.
func (m *SubnetMetagraph) Hotkeys() []string { return m.HotkeyList }

// BlockHeight returns the block the metagraph was read at.
func (m *SubnetMetagraph) BlockHeight() int64 { return m.Block }

// SubnetInfo holds the registration parameters of a subnet. Burn is in TAO.
type SubnetInfo struct {
	Netuid         int     `json:"netuid"`
	Burn           float64 `json:"burn"`
	MaxUids        int     `json:"maxUids"`
	NumUids        int     `json:"numUids"`
	Difficulty     int64   `json:"difficulty"`
	ImmunityPeriod int     `json:"immunityPeriod"`
	Tempo          int     `json:"tempo"`
}
