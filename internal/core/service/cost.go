package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yndnr/subtrack-go/internal/chain"
	"github.com/yndnr/subtrack-go/internal/core/domain"
	"github.com/yndnr/subtrack-go/internal/telemetry/logger"
)

// SubnetInfoSource returns registration parameters of a subnet.
type SubnetInfoSource interface {
	SubnetInfo(ctx context.Context, network string, netuid int) (*chain.SubnetInfo, error)
}

// CostService reports what registering on each subnet costs.
type CostService struct {
	lister SubnetLister
	source SubnetInfoSource
}

// NewCostService creates a new CostService.
func NewCostService(lister SubnetLister, source SubnetInfoSource) *CostService {
	return &CostService{lister: lister, source: source}
}

// Costs fetches the registration parameters of netuids (every subnet of
// network when empty) and returns them by burn cost, highest first. Subnets
// that fail to fetch are logged and skipped. taoPriceUSD > 0 fills CostUSD.
func (s *CostService) Costs(ctx context.Context, network string, netuids []int, taoPriceUSD float64) ([]*domain.RegistrationCost, error) {
	if len(netuids) == 0 {
		ids, err := s.lister.ListSubnets(ctx, network)
		if err != nil {
			if !errors.Is(err, domain.ErrConnectivity) {
				err = domain.ErrConnectivity.WithCause(err)
			}
			return nil, err
		}
		netuids = ids
	}

	log := logger.L(ctx)
	costs := make([]*domain.RegistrationCost, 0, len(netuids))
	seen := make(map[int]struct{}, len(netuids))
	for _, netuid := range netuids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := seen[netuid]; ok {
			continue
		}
		seen[netuid] = struct{}{}

		info, err := s.source.SubnetInfo(ctx, network, netuid)
		if err != nil {
			log.Warn("skipping subnet",
				"netuid", netuid,
				"error", domain.ErrSubnetFetch.WithDetails(fmt.Sprintf("netuid %d", netuid)).WithCause(err))
			continue
		}

		c := domain.NewRegistrationCost(netuid, info.Burn, info.MaxUids, info.NumUids, taoPriceUSD)
		c.Difficulty = info.Difficulty
		c.ImmunityPeriod = info.ImmunityPeriod
		c.Tempo = info.Tempo
		costs = append(costs, c)
	}

	sort.SliceStable(costs, func(i, j int) bool {
		if costs[i].BurnTAO != costs[j].BurnTAO {
			return costs[i].BurnTAO > costs[j].BurnTAO
		}
		return costs[i].Netuid < costs[j].Netuid
	})
	return costs, nil
}
