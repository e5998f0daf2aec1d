package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAgentLabel(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected AgentType
	}{
		{name: "exact id", text: "SAFETY_SENTINEL", expected: SafetySentinel},
		{name: "lowercase", text: "merchant_pulse", expected: MerchantPulse},
		{name: "surrounded by prose", text: "The best match is TENANT_CONCIERGE.", expected: TenantConcierge},
		{name: "keyword only", text: "architect", expected: SpatialArchitect},
		{name: "credit alias", text: "credit check", expected: ReputationSteward},
		{name: "janitor", text: "INFRA_JANITOR", expected: InfraJanitor},
		{name: "mediator", text: "settlement mediator handles this", expected: SettlementMediator},
		{name: "whitespace", text: "  SPATIAL_ARCHITECT\n", expected: SpatialArchitect},
		{name: "unknown falls back", text: "weather forecast", expected: CityCore},
		{name: "empty falls back", text: "", expected: CityCore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAgentLabel(tt.text))
		})
	}
}
