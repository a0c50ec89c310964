package output

import (
	"fmt"
	"io"
	"time"

	"github.com/yndnr/subtrack-go/internal/core/domain"
	"github.com/yndnr/subtrack-go/internal/core/service"
)

// RankEntry is one ranked subnet.
type RankEntry struct {
	Rank int `json:"rank"`
	*domain.AggregateStats
}

// RankingReport is the result of the analyze command.
type RankingReport struct {
	Network      string      `json:"network"`
	SortBy       string      `json:"sort_by"`
	Snapshots    int         `json:"snapshots"`
	Required     int         `json:"required_snapshots"`
	Periods      int         `json:"periods"`
	From         *time.Time  `json:"from,omitempty"`
	To           *time.Time  `json:"to,omitempty"`
	Insufficient bool        `json:"insufficient_data"`
	Subnets      []RankEntry `json:"subnets"`
}

// NewRankingReport ranks the analysis by key and keeps the top entries
// (all of them when top is not positive).
func NewRankingReport(network string, a *service.Analysis, key domain.SortKey, top int) *RankingReport {
	r := &RankingReport{
		Network:      network,
		SortBy:       key.String(),
		Snapshots:    a.Snapshots,
		Required:     a.Required,
		Periods:      a.Pairs,
		Insufficient: a.Insufficient(),
		Subnets:      []RankEntry{},
	}
	if !a.From.IsZero() {
		from, to := a.From.UTC(), a.To.UTC()
		r.From, r.To = &from, &to
	}

	for i, s := range service.Top(service.Rank(a.Stats, key), top) {
		r.Subnets = append(r.Subnets, RankEntry{Rank: i + 1, AggregateStats: s})
	}
	return r
}

// RenderTable implements TableRenderer.
func (r *RankingReport) RenderTable(w io.Writer, wide bool) error {
	if r.Insufficient {
		_, err := fmt.Fprintf(w, "Need at least %d snapshots for analysis. Found %d.\n", r.Required, r.Snapshots)
		return err
	}
	if len(r.Subnets) == 0 {
		_, err := fmt.Fprintln(w, "No competition data available.")
		return err
	}

	fmt.Fprintf(w, "SUBNET COMPETITION RANKING (sorted by: %s)\n", r.SortBy)
	fmt.Fprintf(w, "%s: %d snapshots, %d periods", r.Network, r.Snapshots, r.Periods)
	if r.From != nil {
		fmt.Fprintf(w, ", %s to %s", formatTime(*r.From), formatTime(*r.To))
	}
	fmt.Fprint(w, "\n\n")

	t := &Table{}
	t.SetHeaders("RANK", "NETUID", "REPL/PERIOD", "DEREG/PERIOD", "% REPL", "TOTAL REPL", "TOTAL DEREG", "AVG UIDS", "PERIODS")
	if wide {
		t.Headers = append(t.Headers, "TOTAL NEW REG", "TOTAL CHANGES", "CHANGES/PERIOD")
	}
	for _, e := range r.Subnets {
		row := []string{
			fmt.Sprint(e.Rank),
			fmt.Sprint(e.Netuid),
			fmt.Sprintf("%.2f", e.AvgReplacementsPerPeriod),
			fmt.Sprintf("%.2f", e.AvgDeregistrationsPerPeriod),
			fmt.Sprintf("%.2f", e.ReplacementPercentage),
			fmt.Sprint(e.TotalReplacements),
			fmt.Sprint(e.TotalDeregistrations),
			fmt.Sprintf("%.0f", e.AvgUIDs),
			fmt.Sprint(e.TimePeriods),
		}
		if wide {
			row = append(row,
				fmt.Sprint(e.TotalNewRegistrations),
				fmt.Sprint(e.TotalChanges),
				fmt.Sprintf("%.2f", e.AvgTotalChangesPerPeriod))
		}
		t.AddRow(row...)
	}
	if err := t.Render(w); err != nil {
		return err
	}

	top := r.Subnets[0]
	_, err := fmt.Fprintf(w, "\nMost competitive subnet (by %s): netuid %d - replacements %.2f/period, deregistrations %.2f/period, %.1f%% replaced\n",
		r.SortBy, top.Netuid, top.AvgReplacementsPerPeriod, top.AvgDeregistrationsPerPeriod, top.ReplacementPercentage)
	return err
}
