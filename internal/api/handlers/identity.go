package handlers

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rebeccawang123/twincity/internal/logging"
	"github.com/rebeccawang123/twincity/internal/models"
	"github.com/rebeccawang123/twincity/internal/repositories"
	"github.com/rebeccawang123/twincity/internal/utils"
)

// identityView is what leaves the server: everything except the private key,
// which never crosses the vault boundary other than to sign.
type identityView struct {
	ID          string         `json:"id"`
	Address     string         `json:"address"`
	Email       string         `json:"email"`
	Description string         `json:"description,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
	Network     string         `json:"network,omitempty"`
	AgentID     int64          `json:"agentId,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Source      string         `json:"source"`
}

func toView(id models.Identity) identityView {
	return identityView{
		ID:          id.ID,
		Address:     id.Address,
		Email:       id.Email,
		Description: id.Description,
		Timestamp:   id.Timestamp,
		Network:     id.Network,
		AgentID:     id.AgentID,
		Metadata:    id.Metadata,
		Source:      string(id.Source),
	}
}

// GET /api/v1/identities
// ListIdentities godoc
// @Summary List all vault identities
// @Tags Identities
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/identities [get]
func (h *Handler) ListIdentities(w http.ResponseWriter, r *http.Request) {
	identities, err := h.Vault.ListAll()
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to read vault",
		})
		return
	}
	views := make([]identityView, 0, len(identities))
	for _, id := range identities {
		views = append(views, toView(id))
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Identities retrieved",
		Data:    views,
	})
}

// GET /api/v1/identities/{email}
func (h *Handler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	identity, err := h.Vault.FindByEmail(email)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to read vault",
		})
		return
	}
	if identity == nil {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Identity not found",
		})
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Identity retrieved",
		Data:    toView(*identity),
	})
}

// POST /api/v1/identities
// SaveIdentity godoc
// @Summary Create or replace a session identity
// @Description Upserts by email. Generates a fresh key when none is supplied; the key never leaves the vault.
// @Tags Identities
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/identities [post]
func (h *Handler) SaveIdentity(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email       string         `json:"email"`
		PrivateKey  string         `json:"privateKey"`
		Description string         `json:"description"`
		Metadata    map[string]any `json:"metadata"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil || input.Email == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	if input.PrivateKey == "" {
		key, err := crypto.GenerateKey()
		if err != nil {
			utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
				Success: false,
				Message: "Key generation failed",
			})
			return
		}
		input.PrivateKey = "0x" + hex.EncodeToString(crypto.FromECDSA(key))
	}

	identity := models.Identity{
		ID:          utils.NewIdentityID(input.Email),
		PrivateKey:  input.PrivateKey,
		Email:       input.Email,
		Description: input.Description,
		Network:     "Base Sepolia",
		Metadata:    input.Metadata,
	}
	if err := h.Vault.SaveIdentity(identity); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	saved, _ := h.Vault.FindByEmail(input.Email)
	var data any
	if saved != nil {
		data = toView(*saved)
	}
	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Identity saved",
		Data:    data,
	})
}

// PATCH /api/v1/identities/{email}/metadata
func (h *Handler) PatchIdentityMetadata(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}
	if err := h.Vault.UpdateMetadata(email, patch); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to update metadata",
		})
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Metadata updated",
	})
}

// DELETE /api/v1/identities/{email}
func (h *Handler) DeleteIdentity(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if err := h.Vault.Delete(email); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to delete identity",
		})
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Identity deleted",
	})
}

// POST /api/v1/identities/reset
// ResetVault wipes the store and reseeds the project accounts.
func (h *Handler) ResetVault(w http.ResponseWriter, r *http.Request) {
	if err := h.Vault.Clear(); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to reset vault",
		})
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Vault reset and reseeded",
	})
}

// GET /api/v1/identities/{email}/balances
// Balances are advisory display data: any read failure renders as "0.0".
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	identity, err := h.Vault.FindByEmail(email)
	if err != nil || identity == nil {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Identity not found",
		})
		return
	}

	eth, err := h.Chain.NativeBalance(r.Context(), identity.Address)
	if err != nil {
		logging.L.Debugw("native balance read failed", "address", identity.Address, "error", err)
		eth = "0.0"
	}
	usdc, err := h.Chain.TokenBalance(r.Context(), identity.Address)
	if err != nil {
		logging.L.Debugw("token balance read failed", "address", identity.Address, "error", err)
		usdc = "0.0"
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Balances retrieved",
		Data: map[string]any{
			"address": identity.Address,
			"eth":     eth,
			"usdc":    usdc,
		},
	})
}

// GET /api/v1/identities/{email}/status
func (h *Handler) GetRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	identity, err := h.Vault.FindByEmail(email)
	if err != nil || identity == nil {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Identity not found",
		})
		return
	}

	status := h.Chain.GetRegistrationStatus(r.Context(), identity.Address)
	profileUploaded, err := repositories.ProfileExists(r.Context(), identity.Address)
	if err != nil {
		profileUploaded = false
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Registration status retrieved",
		Data: map[string]any{
			"active":          status.Active,
			"hasToken":        status.HasToken,
			"agentId":         status.AgentID,
			"needsSync":       status.NeedsSync,
			"profileUploaded": profileUploaded,
		},
	})
}

// POST /api/v1/identities/{email}/register
// RegisterOnChain godoc
// @Summary Register an identity in the on-chain agent registry
// @Description Uploads the agent profile document and submits register(agentURI) signed by the identity's own key
// @Tags Identities
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Failure 502 {object} utils.Payload
// @Router /api/v1/identities/{email}/register [post]
func (h *Handler) RegisterOnChain(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	identity, err := h.Vault.FindByEmail(email)
	if err != nil || identity == nil {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Identity not found",
		})
		return
	}

	agentURI := fmt.Sprintf("did:twin:agent:%s", identity.Address)
	profile, _ := json.Marshal(map[string]any{
		"email":       identity.Email,
		"address":     identity.Address,
		"description": identity.Description,
		"network":     identity.Network,
	})
	if url, err := repositories.UploadAgentProfile(r.Context(), identity.Address, profile); err == nil {
		agentURI = url
	} else {
		logging.L.Warnw("register: profile upload failed, using DID URI", "email", email, "error", err)
	}

	txHash, err := h.Chain.RegisterIdentity(r.Context(), identity.PrivateKey, agentURI)
	if err != nil {
		utils.JSONError(w, http.StatusBadGateway, "REGISTRATION_FAILED", err.Error())
		return
	}

	// Pull the assigned agent id back out of the registry and mirror it into
	// the vault record.
	status := h.Chain.GetRegistrationStatus(r.Context(), identity.Address)
	patch := map[string]any{"registrationTx": txHash}
	if status.AgentID > 0 {
		patch["agentId"] = status.AgentID
	}
	if err := h.Vault.UpdateMetadata(email, patch); err != nil {
		logging.L.Warnw("register: metadata sync failed", "email", email, "error", err)
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Identity registered",
		Data: map[string]any{
			"txHash":      txHash,
			"agentId":     status.AgentID,
			"agentURI":    agentURI,
			"explorerUrl": h.Chain.ExplorerURL(txHash, "tx"),
		},
	})
}
