package output

import (
	"fmt"
	"io"

	"github.com/yndnr/subtrack-go/internal/core/domain"
)

// CostSummary compares registration costs across the reported subnets.
type CostSummary struct {
	Cheapest          int     `json:"cheapest_netuid"`
	CheapestBurn      float64 `json:"cheapest_burn_tao"`
	MostExpensive     int     `json:"most_expensive_netuid"`
	MostExpensiveBurn float64 `json:"most_expensive_burn_tao"`

	// PriceRatio is unset when the cheapest burn is zero.
	PriceRatio float64 `json:"price_ratio,omitempty"`

	// Averages over full and open subnets, set only when both groups exist.
	AvgFullBurn *float64 `json:"avg_full_burn_tao,omitempty"`
	AvgOpenBurn *float64 `json:"avg_open_burn_tao,omitempty"`
}

// CostReport is the result of the costs command.
type CostReport struct {
	Network     string                     `json:"network"`
	TaoPriceUSD float64                    `json:"tao_price_usd,omitempty"`
	Subnets     []*domain.RegistrationCost `json:"subnets"`
	Summary     *CostSummary               `json:"summary,omitempty"`
}

// NewCostReport wraps costs, already ordered, and derives the summary.
func NewCostReport(network string, costs []*domain.RegistrationCost, taoPriceUSD float64) *CostReport {
	if costs == nil {
		costs = []*domain.RegistrationCost{}
	}
	r := &CostReport{
		Network:     network,
		TaoPriceUSD: taoPriceUSD,
		Subnets:     costs,
	}
	if len(costs) == 0 {
		return r
	}

	cheap, dear := costs[0], costs[0]
	var fullSum, openSum float64
	var full, open int
	for _, c := range costs {
		if c.BurnTAO < cheap.BurnTAO || (c.BurnTAO == cheap.BurnTAO && c.Netuid < cheap.Netuid) {
			cheap = c
		}
		if c.BurnTAO > dear.BurnTAO || (c.BurnTAO == dear.BurnTAO && c.Netuid < dear.Netuid) {
			dear = c
		}
		if c.IsFull {
			fullSum += c.BurnTAO
			full++
		} else {
			openSum += c.BurnTAO
			open++
		}
	}

	s := &CostSummary{
		Cheapest:          cheap.Netuid,
		CheapestBurn:      cheap.BurnTAO,
		MostExpensive:     dear.Netuid,
		MostExpensiveBurn: dear.BurnTAO,
	}
	if cheap.BurnTAO > 0 {
		s.PriceRatio = dear.BurnTAO / cheap.BurnTAO
	}
	if full > 0 && open > 0 {
		avgFull, avgOpen := fullSum/float64(full), openSum/float64(open)
		s.AvgFullBurn, s.AvgOpenBurn = &avgFull, &avgOpen
	}
	r.Summary = s
	return r
}

// RenderTable implements TableRenderer.
func (r *CostReport) RenderTable(w io.Writer, wide bool) error {
	if len(r.Subnets) == 0 {
		_, err := fmt.Fprintln(w, "No registration cost data available.")
		return err
	}

	fmt.Fprintf(w, "SUBNET REGISTRATION COSTS (%s)\n\n", r.Network)

	t := &Table{}
	t.SetHeaders("NETUID", "BURN (TAO)", "SLOTS", "FULL", "OCCUPANCY", "DIFFICULTY", "IMMUNITY", "BARRIER")
	if r.TaoPriceUSD > 0 {
		t.Headers = append(t.Headers, "COST (USD)")
	}
	if wide {
		t.Headers = append(t.Headers, "OPEN SLOTS", "TEMPO")
	}
	for _, c := range r.Subnets {
		full := "no"
		if c.IsFull {
			full = "yes"
		}
		row := []string{
			fmt.Sprint(c.Netuid),
			fmt.Sprintf("%.6f", c.BurnTAO),
			fmt.Sprintf("%d/%d", c.CurrentNeurons, c.MaxNeurons),
			full,
			fmt.Sprintf("%.1f%%", c.OccupancyPercent),
			fmt.Sprint(c.Difficulty),
			fmt.Sprintf("%d blocks", c.ImmunityPeriod),
			string(c.Barrier),
		}
		if r.TaoPriceUSD > 0 {
			row = append(row, fmt.Sprintf("$%.2f", c.CostUSD))
		}
		if wide {
			row = append(row, fmt.Sprint(c.OpenSlots()), fmt.Sprint(c.Tempo))
		}
		t.AddRow(row...)
	}
	if err := t.Render(w); err != nil {
		return err
	}

	s := r.Summary
	fmt.Fprintf(w, "\nCheapest:       subnet %d @ %.6f TAO\n", s.Cheapest, s.CheapestBurn)
	fmt.Fprintf(w, "Most expensive: subnet %d @ %.6f TAO\n", s.MostExpensive, s.MostExpensiveBurn)
	if s.PriceRatio > 0 {
		fmt.Fprintf(w, "Price ratio:    %.1fx\n", s.PriceRatio)
	}
	if s.AvgFullBurn != nil {
		fmt.Fprintf(w, "Average burn, full subnets: %.6f TAO, open subnets: %.6f TAO\n", *s.AvgFullBurn, *s.AvgOpenBurn)
	}
	return nil
}
