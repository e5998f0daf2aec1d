package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rebeccawang123/twincity/internal/ai"
	"github.com/rebeccawang123/twincity/internal/api/middleware"
	"github.com/rebeccawang123/twincity/internal/logging"
	"github.com/rebeccawang123/twincity/internal/models"
	"github.com/rebeccawang123/twincity/internal/repositories"
	"github.com/rebeccawang123/twincity/internal/utils"
)

// Discovery states carried between turns by the client.
const (
	stateWelcome     = "WELCOME"
	statePreferences = "PREFERENCES"
)

const (
	welcomeRentReply = "[Neo-Chicago Core]: I see you're looking for a place. To narrow down your search, what is more important to you?\n1. Safety (Path analysis via Safety Sentinel)\n2. Lifestyle (District vitality via Merchant Pulse)"
	merchantDownMsg  = "Merchant Pulse connection error. Please try again later."
	systemBusyMsg    = "System is temporarily busy. Please try again later."

	// Spatial capture scene attached to point-detail responses.
	captureURL = "https://lumalabs.ai/capture/0fd66136-b18e-4389-a99c-092acaeeb1d4"
)

var (
	jsonFenceRe       = regexp.MustCompile("```json\n?|```")
	internalThoughtRe = regexp.MustCompile(`(?s)<internal_thought>.*?</internal_thought>`)
)

// intentResult is the router's JSON verdict, returned fenced inside the
// chat answer.
type intentResult struct {
	Intent     string  `json:"intent"`
	Keywords   string  `json:"keywords"`
	Confidence float64 `json:"confidence"`
}

// chatPoint is a map anchor attached to a reply.
type chatPoint struct {
	ID    string  `json:"id"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
	Type  string  `json:"type"`
}

type chatReply struct {
	Sender    string              `json:"sender"`
	Text      string              `json:"text"`
	State     string              `json:"state"`
	Grounding []ai.GroundingPoint `json:"grounding,omitempty"`
	Points    []chatPoint         `json:"points,omitempty"`
}

// POST /api/v1/chat/messages
// SendMessage godoc
// @Summary Route one chat message through the agent fleet
// @Description Rental keyword short-circuit, then Dify intent routing, then geocoded area search, merchant streaming or the Gemini orchestrator
// @Tags Chat
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/chat/messages [post]
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Text  string `json:"text"`
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || strings.TrimSpace(input.Text) == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}
	if input.State == "" {
		input.State = stateWelcome
	}

	userID := middleware.UserIDFromContext(r.Context())
	h.persistMessage(userID, "USER", input.Text, nil)

	reply := h.routeMessage(r, input.Text, input.State)
	h.persistMessage(userID, reply.Sender, reply.Text, replyMetadata(reply))

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Message routed",
		Data:    reply,
	})
}

// routeMessage walks the routing ladder: rental short-circuit, router
// intent, area search, intent classification, merchant stream, and finally
// the orchestrator.
func (h *Handler) routeMessage(r *http.Request, text, state string) chatReply {
	ctx := r.Context()
	lower := strings.ToLower(text)

	// Fresh sessions asking about housing get the discovery prompt without
	// burning a model call.
	if state == stateWelcome && (strings.Contains(lower, "rent") || strings.Contains(lower, "apartment") || strings.Contains(text, "租房")) {
		return chatReply{Sender: string(ai.CityCore), Text: welcomeRentReply, State: statePreferences}
	}

	if intent := h.routerIntent(ctx, text); intent != nil && intent.Intent == "Area_Search" {
		if reply, ok := h.areaSearch(ctx, intent, state); ok {
			return reply
		}
	}

	agent := h.AI.Classify(ctx, text)

	if agent == ai.MerchantPulse {
		answer, err := h.AI.Dify().MerchantStream(ctx, text)
		answer = strings.TrimSpace(answer)
		if err != nil || answer == "" {
			if err != nil {
				logging.L.Errorw("chat: merchant stream failed", "error", err)
			}
			answer = merchantDownMsg
		}
		return chatReply{Sender: string(ai.MerchantPulse), Text: answer, State: state}
	}

	resp := h.AI.Orchestrate(ctx, text)
	clean := strings.TrimSpace(internalThoughtRe.ReplaceAllString(resp.Text, ""))
	if clean == "" {
		clean = systemBusyMsg
	}
	return chatReply{
		Sender:    string(agent),
		Text:      clean,
		State:     state,
		Grounding: resp.Grounding,
	}
}

// routerIntent asks the Dify router to classify the message. The verdict
// arrives as JSON, usually wrapped in a markdown fence. Any failure means
// no intent, never an error to the caller.
func (h *Handler) routerIntent(ctx context.Context, text string) *intentResult {
	result, err := h.AI.Dify().RouterChat(ctx, text)
	if err != nil {
		logging.L.Debugw("chat: router call failed", "error", err)
		return nil
	}
	if result == nil || result.Answer == "" {
		return nil
	}
	clean := strings.TrimSpace(jsonFenceRe.ReplaceAllString(result.Answer, ""))
	var intent intentResult
	if err := json.Unmarshal([]byte(clean), &intent); err != nil {
		logging.L.Debugw("chat: router verdict not JSON", "answer", result.Answer)
		return nil
	}
	return &intent
}

// areaSearch geocodes the router's keywords and drops two anchors on the
// map: the hit itself plus a nearby hotspot. A geocoding miss falls through
// to the rest of the ladder.
func (h *Handler) areaSearch(ctx context.Context, intent *intentResult, state string) (chatReply, bool) {
	points := h.Geo.Lookup(ctx, intent.Keywords)
	if len(points) == 0 {
		return chatReply{}, false
	}

	center := points[0]
	stamp := time.Now().UnixMilli()
	anchors := []chatPoint{
		{ID: fmt.Sprintf("geo-%d-1", stamp), Lat: center.Lat, Lng: center.Lng, Label: intent.Keywords, Type: "SEARCH_RESULT"},
		{ID: fmt.Sprintf("geo-%d-2", stamp), Lat: center.Lat + 0.0015, Lng: center.Lng + 0.0015, Label: intent.Keywords + " (Hotspot)", Type: "SEARCH_RESULT"},
	}
	text := fmt.Sprintf("[Spatial Architect]: Spatial intent recognized (Confidence: %g). Google GeoAPI data retrieved. Area %q has been locked. 2 key anchors have been generated on the holographic map. Please click to view detailed data.",
		intent.Confidence, intent.Keywords)
	return chatReply{
		Sender: string(ai.SpatialArchitect),
		Text:   text,
		State:  state,
		Points: anchors,
	}, true
}

func replyMetadata(reply chatReply) map[string]any {
	meta := map[string]any{}
	if len(reply.Grounding) > 0 {
		meta["grounding"] = reply.Grounding
	}
	if len(reply.Points) > 0 {
		meta["points"] = reply.Points
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

func (h *Handler) persistMessage(userID, sender, text string, metadata map[string]any) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return
	}
	msg := models.Message{UserID: uid, Sender: sender, Text: text}
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			msg.Metadata = string(raw)
		}
	}
	if err := repositories.DB.Create(&msg).Error; err != nil {
		logging.L.Warnw("chat: message persistence failed", "error", err)
	}
}

// GET /api/v1/chat/messages
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	var messages []models.Message
	if err := repositories.DB.Where("user_id = ?", userID).Order("created_at asc").Find(&messages).Error; err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to load chat history",
		})
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Chat history retrieved",
		Data:    messages,
	})
}

// POST /api/v1/chat/points/details
// PointDetails godoc
// @Summary Fetch spatial details for one map point
// @Tags Chat
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/chat/points/details [post]
func (h *Handler) PointDetails(w http.ResponseWriter, r *http.Request) {
	var point struct {
		ID       string `json:"id"`
		Label    string `json:"label"`
		Category string `json:"category"`
		Address  string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&point); err != nil || point.Label == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	info, _ := json.Marshal(point)
	query := fmt.Sprintf("获取点位详情: %s", info)

	detail := "loading..."
	result, err := h.AI.Dify().Workflow(r.Context(), query)
	if err != nil {
		logging.L.Errorw("chat: point workflow failed", "label", point.Label, "error", err)
	} else if text := result.DisplayText(); text != "" {
		detail = text
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Point details retrieved",
		Data: map[string]any{
			"sender":       string(ai.SpatialArchitect),
			"text":         fmt.Sprintf("[Spatial Architect]: Successfully retrieved details for %q.\n\nLoading spatial topology data...", point.Label),
			"difyResponse": detail,
			"lumalabsUrl":  captureURL,
		},
	})
}
