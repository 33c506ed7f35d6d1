package services

import (
	"invitebot/internal/models"
	"invitebot/internal/structures"
)

// TierPolicy decides which community roles an inviter earns.
type TierPolicy struct {
	NewbieLabel  string
	NewbieBelow  int
	ReportLabels []string
}

func NewTierPolicy(conf *structures.Config) TierPolicy {
	return TierPolicy{
		NewbieLabel:  conf.Tier.NewbieLabel,
		NewbieBelow:  conf.Tier.NewbieBelow,
		ReportLabels: append([]string(nil), conf.Tier.ReportLabels...),
	}
}

// Labels lists every label the policy looks at.
func (p TierPolicy) Labels() []string {
	return append([]string{p.NewbieLabel}, p.ReportLabels...)
}

// Decide returns the labels to grant for the given invite use count.
// Report labels are never granted here.
func (p TierPolicy) Decide(uses int, roles models.RoleSet) []string {
	if uses < p.NewbieBelow && !roles.Has(p.NewbieLabel) {
		return []string{p.NewbieLabel}
	}
	return nil
}

// Held lists the report labels the member already has, in configured order.
func (p TierPolicy) Held(roles models.RoleSet) []string {
	var held []string
	for _, label := range p.ReportLabels {
		if roles.Has(label) {
			held = append(held, label)
		}
	}
	return held
}
