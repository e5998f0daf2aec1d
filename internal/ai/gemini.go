// Package ai is the gateway to the conversational backends: Gemini for
// orchestrated responses and intent classification, Dify for the blocking,
// workflow and streaming chat endpoints.
package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/rebeccawang123/twincity/internal/logging"
)

const (
	orchestratorModel = "gemini-2.5-flash"
	intentModel       = "gemini-3-flash-preview"

	// Chicago Loop — the retrieval anchor for Maps grounding.
	loopLatitude  = 41.8786
	loopLongitude = -87.6251
)

const orchestratorInstruction = `You are the Twin-City OS, the orchestrator of Neo-Chicago's digital twin. You have live access to Google Maps and Google Search.

Core tasks:
1. Use Google Maps grounding for accurate geography, restaurant recommendations, traffic and landmark details.
2. Coordinate the fleet of 7 embodied agents.

Agent cluster:
- [AlphaChicago Safety Sentinel]: analyzes 3D city geometry, lighting occlusion and live crime data to plan maximum-safety routes.
- [Spatial Architect]: parses listing videos, extracts indoor topology and daylight, aligns them with the 3D map.
- [Community Reputation Steward]: evaluates on-chain credit scores and neighborhood interactions of users and landlords.
- [Merchant Pulse]: monitors district vitality and recommends safe amenities.
- [Tenant Concierge]: matches listings to living habits (commute, fitness) and simulates viewings.
- [Infrastructure Janitor]: watches hardware state (street lights, Wi-Fi, door access) and reports faults.
- [Settlement Mediator]: handles smart contracts, deposit refunds and dispute mediation.

Collaboration:
When the user asks about Chicago locations, safety, housing or credit:
- Call the Google Maps tool for real data.
- Steer the conversation to the most relevant agent.
- Prefix responses with [Agent name]: ...
- Always include an <internal_thought> tag.`

const unstableLinkMessage = "WARNING: Neural link unstable. Communication with the city agents has been interrupted."

// GroundingPoint is one grounded source attached to an orchestrated answer.
type GroundingPoint struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// OrchestratedResponse carries the display text plus whatever grounding the
// model attached.
type OrchestratedResponse struct {
	Text      string           `json:"text"`
	Grounding []GroundingPoint `json:"grounding"`
}

// Gateway talks to Gemini. A missing API key leaves the gateway degraded:
// Orchestrate answers with the canned interruption message and Classify
// falls back to CityCore.
type Gateway struct {
	client *genai.Client
	dify   *DifyClient
}

func NewGateway(ctx context.Context, geminiAPIKey string, dify *DifyClient) *Gateway {
	g := &Gateway{dify: dify}
	if geminiAPIKey == "" {
		logging.L.Warn("ai: no Gemini API key, orchestration degraded")
		return g
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logging.L.Errorw("ai: Gemini client init failed", "error", err)
		return g
	}
	g.client = client
	return g
}

// Dify exposes the Dify side of the gateway.
func (g *Gateway) Dify() *DifyClient {
	return g.dify
}

func orchestratorConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(orchestratorInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
		Tools: []*genai.Tool{
			{GoogleMaps: &genai.GoogleMaps{}},
			{GoogleSearch: &genai.GoogleSearch{}},
		},
		ToolConfig: &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr[float64](loopLatitude),
					Longitude: genai.Ptr[float64](loopLongitude),
				},
			},
		},
	}
}

// Orchestrate produces the free-text fleet response with Maps/Search
// grounding anchored to the Loop. Soft-fails to the interruption message.
func (g *Gateway) Orchestrate(ctx context.Context, message string) OrchestratedResponse {
	if g.client == nil {
		return OrchestratedResponse{Text: unstableLinkMessage, Grounding: []GroundingPoint{}}
	}

	cfg := orchestratorConfig()

	resp, err := withRetry(ctx, retryAttempts, retryBaseDelay, func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, orchestratorModel, genai.Text(message), cfg)
	})
	if err != nil {
		logging.L.Errorw("ai: orchestrate failed", "error", err)
		return OrchestratedResponse{Text: unstableLinkMessage, Grounding: []GroundingPoint{}}
	}

	text := resp.Text()
	if text == "" {
		text = "Neural connection established, but no data received."
	}
	return OrchestratedResponse{Text: text, Grounding: extractGrounding(resp)}
}

// Classify runs the single-shot intent router over the fixed agent labels.
// Any failure or unrecognized output maps to CityCore.
func (g *Gateway) Classify(ctx context.Context, prompt string) AgentType {
	if g.client == nil {
		return CityCore
	}

	query := fmt.Sprintf(`Analyze this prompt and return ONLY the most relevant Agent ID: SAFETY_SENTINEL, SPATIAL_ARCHITECT, REPUTATION_STEWARD, MERCHANT_PULSE, TENANT_CONCIERGE, INFRA_JANITOR, SETTLEMENT_MEDIATOR.
Prompt: %q`, prompt)

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	}
	resp, err := withRetry(ctx, retryAttempts, retryBaseDelay, func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, intentModel, genai.Text(query), cfg)
	})
	if err != nil {
		return CityCore
	}
	return ParseAgentLabel(resp.Text())
}

func extractGrounding(resp *genai.GenerateContentResponse) []GroundingPoint {
	points := []GroundingPoint{}
	if resp == nil || len(resp.Candidates) == 0 {
		return points
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return points
	}
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		points = append(points, GroundingPoint{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return points
}
