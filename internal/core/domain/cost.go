package domain

// Registration barrier thresholds, in TAO.
const (
	LowBarrierMax    = 0.005
	MediumBarrierMax = 0.02
)

// Barrier classifies how strongly the registration burn filters entrants.
type Barrier string

const (
	BarrierLow    Barrier = "low"
	BarrierMedium Barrier = "medium"
	BarrierHigh   Barrier = "high"
)

// ClassifyBarrier maps a burn cost to a barrier level.
func ClassifyBarrier(burnTAO float64) Barrier {
	switch {
	case burnTAO < LowBarrierMax:
		return BarrierLow
	case burnTAO < MediumBarrierMax:
		return BarrierMedium
	default:
		return BarrierHigh
	}
}

// RegistrationCost describes what it takes to register on a subnet.
type RegistrationCost struct {
	Netuid           int     `json:"netuid"`
	BurnTAO          float64 `json:"burn_tao"`
	MaxNeurons       int     `json:"max_neurons"`
	CurrentNeurons   int     `json:"current_neurons"`
	OccupancyPercent float64 `json:"occupancy_percent"`
	IsFull           bool    `json:"is_full"`
	Difficulty       int64   `json:"difficulty"`
	ImmunityPeriod   int     `json:"immunity_period_blocks"`
	Tempo            int     `json:"tempo"`
	Barrier          Barrier `json:"barrier"`
	CostUSD          float64 `json:"cost_usd,omitempty"`
}

// NewRegistrationCost derives occupancy, fullness and barrier level.
// A non-positive taoPriceUSD leaves CostUSD unset.
func NewRegistrationCost(netuid int, burnTAO float64, maxNeurons, currentNeurons int, taoPriceUSD float64) *RegistrationCost {
	c := &RegistrationCost{
		Netuid:         netuid,
		BurnTAO:        burnTAO,
		MaxNeurons:     maxNeurons,
		CurrentNeurons: currentNeurons,
		IsFull:         currentNeurons >= maxNeurons,
		Barrier:        ClassifyBarrier(burnTAO),
	}
	if maxNeurons > 0 {
		c.OccupancyPercent = float64(currentNeurons) / float64(maxNeurons) * 100
	}
	if taoPriceUSD > 0 {
		c.CostUSD = burnTAO * taoPriceUSD
	}
	return c
}

// OpenSlots returns the number of unoccupied UID slots.
func (c *RegistrationCost) OpenSlots() int {
	if c.CurrentNeurons >= c.MaxNeurons {
		return 0
	}
	return c.MaxNeurons - c.CurrentNeurons
}
