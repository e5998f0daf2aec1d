package ai

import "strings"

// AgentType identifies one persona in the agent fleet. CityCore is the
// default orchestrator persona and the fallback when classification fails.
type AgentType string

const (
	SafetySentinel     AgentType = "SAFETY_SENTINEL"
	SpatialArchitect   AgentType = "SPATIAL_ARCHITECT"
	ReputationSteward  AgentType = "REPUTATION_STEWARD"
	MerchantPulse      AgentType = "MERCHANT_PULSE"
	TenantConcierge    AgentType = "TENANT_CONCIERGE"
	InfraJanitor       AgentType = "INFRA_JANITOR"
	SettlementMediator AgentType = "SETTLEMENT_MEDIATOR"
	CityCore           AgentType = "CITY_CORE"
)

// ParseAgentLabel maps a model's free-text label onto the fixed agent
// enumeration. Unrecognized output falls back to CityCore.
func ParseAgentLabel(text string) AgentType {
	label := strings.ToUpper(strings.TrimSpace(text))
	switch {
	case strings.Contains(label, "SAFETY"):
		return SafetySentinel
	case strings.Contains(label, "SPATIAL"), strings.Contains(label, "ARCHITECT"):
		return SpatialArchitect
	case strings.Contains(label, "REPUTATION"), strings.Contains(label, "CREDIT"):
		return ReputationSteward
	case strings.Contains(label, "MERCHANT"), strings.Contains(label, "PULSE"):
		return MerchantPulse
	case strings.Contains(label, "TENANT"), strings.Contains(label, "CONCIERGE"):
		return TenantConcierge
	case strings.Contains(label, "INFRA"), strings.Contains(label, "JANITOR"):
		return InfraJanitor
	case strings.Contains(label, "SETTLEMENT"), strings.Contains(label, "MEDIATOR"):
		return SettlementMediator
	default:
		return CityCore
	}
}
