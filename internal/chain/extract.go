package chain

import (
	"fmt"

	"github.com/yndnr/subtrack-go/internal/core/domain"
)

// Metagraph is the minimal view of a subnet's neuron set needed to build an
// ownership table. UIDs and Hotkeys are aligned by index.
type Metagraph interface {
	UIDs() []int
	Hotkeys() []string
	BlockHeight() int64
}

// ExtractMembership zips a metagraph's aligned UID and hotkey sequences into
// a SubnetRecord. Mismatched lengths, negative UIDs and duplicate UIDs are
// rejected with ErrInvalidMetagraph.
func ExtractMembership(mg Metagraph) (*domain.SubnetRecord, error) {
	if mg == nil {
		return nil, domain.ErrInvalidMetagraph.WithDetails("nil metagraph")
	}
	uids := mg.UIDs()
	hotkeys := mg.Hotkeys()
	if len(uids) != len(hotkeys) {
		return nil, domain.ErrInvalidMetagraph.WithDetails(
			fmt.Sprintf("%d uids but %d hotkeys", len(uids), len(hotkeys)))
	}

	table := make(map[int]string, len(uids))
	for i, uid := range uids {
		if uid < 0 {
			return nil, domain.ErrInvalidMetagraph.WithDetails(fmt.Sprintf("negative uid %d", uid))
		}
		if _, dup := table[uid]; dup {
			return nil, domain.ErrInvalidMetagraph.WithDetails(fmt.Sprintf("duplicate uid %d", uid))
		}
		table[uid] = hotkeys[i]
	}

	return &domain.SubnetRecord{
		UIDHotkeys: table,
		NNeurons:   len(uids),
		Block:      mg.BlockHeight(),
	}, nil
}
