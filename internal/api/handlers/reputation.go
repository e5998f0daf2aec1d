package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rebeccawang123/twincity/internal/chain"
	"github.com/rebeccawang123/twincity/internal/utils"
)

// GET /api/v1/reputation/{address}
// GetReputation godoc
// @Summary Read the on-chain reputation summary for an address
// @Tags Reputation
// @Produce json
// @Param address path string true "EVM address"
// @Param agentId query int false "Registry agent id, resolved on chain when omitted"
// @Success 200 {object} utils.Payload
// @Router /api/v1/reputation/{address} [get]
func (h *Handler) GetReputation(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	agentID, _ := strconv.ParseInt(r.URL.Query().Get("agentId"), 10, 64)

	summary := h.Chain.GetReputation(r.Context(), address, agentID)
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Reputation retrieved",
		Data:    summary,
	})
}

// GET /api/v1/reputation/by-email/{email}
// Email lookups are a local-vault affair: an unknown email is a caller
// error, not a zero score.
func (h *Handler) GetReputationByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	score, err := h.Chain.GetReputationByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, chain.ErrIdentityNotFound) {
			utils.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		utils.JSONError(w, http.StatusBadGateway, "CHAIN_READ_FAILED", err.Error())
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Reputation retrieved",
		Data:    map[string]any{"email": email, "score": score},
	})
}

// GET /api/v1/reputation/has-rated?auditor=0x..&target=0x..
func (h *Handler) HasRated(w http.ResponseWriter, r *http.Request) {
	auditor := r.URL.Query().Get("auditor")
	target := r.URL.Query().Get("target")
	if auditor == "" || target == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "auditor and target are required",
		})
		return
	}
	rated := h.Chain.HasRated(r.Context(), auditor, target)
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Rating status retrieved",
		Data:    map[string]any{"hasRated": rated},
	})
}

// POST /api/v1/reputation/feedback
// SubmitFeedback godoc
// @Summary Submit score feedback co-signed by the target agent
// @Tags Reputation
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Failure 422 {object} utils.Payload
// @Failure 502 {object} utils.Payload
// @Router /api/v1/reputation/feedback [post]
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RaterEmail    string `json:"raterEmail"`
		TargetAddress string `json:"targetAddress"`
		Score         int    `json:"score"`
		Comment       string `json:"comment"`
		TargetAgentID int64  `json:"targetAgentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.RaterEmail == "" || input.TargetAddress == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	rater, err := h.Vault.FindByEmail(input.RaterEmail)
	if err != nil || rater == nil {
		utils.JSONError(w, http.StatusNotFound, "NOT_FOUND", "rater identity not in vault")
		return
	}

	txHash, err := h.Chain.SubmitFeedback(r.Context(), rater.PrivateKey, input.TargetAddress, input.Score, input.Comment, input.TargetAgentID)
	if err != nil {
		switch {
		case errors.Is(err, chain.ErrTargetKeyNotFound):
			utils.JSONError(w, http.StatusNotFound, "TARGET_KEY_NOT_FOUND", err.Error())
		case errors.Is(err, chain.ErrTargetNotRegistered):
			utils.JSONError(w, http.StatusUnprocessableEntity, "TARGET_NOT_REGISTERED", err.Error())
		default:
			utils.JSONError(w, http.StatusBadGateway, "FEEDBACK_FAILED", err.Error())
		}
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Feedback submitted",
		Data: map[string]any{
			"txHash":      txHash,
			"score":       chain.ClampScore(input.Score),
			"explorerUrl": h.Chain.ExplorerURL(txHash, "tx"),
		},
	})
}
