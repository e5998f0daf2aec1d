package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rebeccawang123/twincity/internal/utils"
)

type transferInput struct {
	FromEmail string `json:"fromEmail"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Asset     string `json:"asset"` // "native" (default) or "token"
}

// POST /api/v1/transfers
// Transfer godoc
// @Summary Send native currency or stable tokens from a vault identity
// @Description Transfers fail loudly: a declined transaction is an error, never a fake success
// @Tags Transfers
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Failure 502 {object} utils.Payload
// @Router /api/v1/transfers [post]
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var input transferInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.FromEmail == "" || input.To == "" || input.Amount == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	sender, err := h.Vault.FindByEmail(input.FromEmail)
	if err != nil || sender == nil {
		utils.JSONError(w, http.StatusNotFound, "NOT_FOUND", "sender identity not in vault")
		return
	}

	var txHash string
	switch input.Asset {
	case "", "native", "eth":
		txHash, err = h.Chain.TransferNative(r.Context(), sender.PrivateKey, input.To, input.Amount)
	case "token", "usdc":
		txHash, err = h.Chain.TransferToken(r.Context(), sender.PrivateKey, input.To, input.Amount)
	default:
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Unknown asset",
		})
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusBadGateway, "TRANSFER_FAILED", err.Error())
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Transfer confirmed",
		Data: map[string]any{
			"txHash":      txHash,
			"from":        sender.Address,
			"to":          input.To,
			"amount":      input.Amount,
			"explorerUrl": h.Chain.ExplorerURL(txHash, "tx"),
		},
	})
}
