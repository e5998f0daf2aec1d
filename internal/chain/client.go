// Package chain wraps the EVM JSON-RPC endpoint, the identity registry, the
// reputation contract and the USDC token. Advisory reads fail soft; anything
// that moves value or changes state fails loud with the revert reason when
// one is available.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/rebeccawang123/twincity/internal/config"
	"github.com/rebeccawang123/twincity/internal/models"
	"github.com/rebeccawang123/twincity/internal/vault"
)

// Typed failures for the loud-fail operations. Handlers map these onto
// actionable messages; everything else surfaces the underlying error.
var (
	ErrIdentityNotFound    = errors.New("NOT_FOUND: identity not activated in vault")
	ErrTargetKeyNotFound   = errors.New("TARGET_KEY_NOT_FOUND: target identity not in local vault")
	ErrTargetNotRegistered = errors.New("TARGET_NOT_REGISTERED: target agent not activated in the protocol")
)

// Client issues contract calls against a fixed network endpoint. Each
// operation dials its own connection — request volume is human-interactive,
// a pool buys nothing.
type Client struct {
	cfg   config.ChainConfig
	vault *vault.Vault

	registryAddr   common.Address
	reputationAddr common.Address
	tokenAddr      common.Address
	chainID        *big.Int
}

func NewClient(cfg config.ChainConfig, v *vault.Vault) *Client {
	return &Client{
		cfg:            cfg,
		vault:          v,
		registryAddr:   common.HexToAddress(cfg.RegistryAddress),
		reputationAddr: common.HexToAddress(cfg.ReputationAddress),
		tokenAddr:      common.HexToAddress(cfg.USDCAddress),
		chainID:        big.NewInt(cfg.ChainID),
	}
}

func (c *Client) dial(ctx context.Context) (*ethclient.Client, error) {
	return ethclient.DialContext(ctx, c.cfg.RPCURL)
}

func (c *Client) registry(ec *ethclient.Client) *bind.BoundContract {
	return bind.NewBoundContract(c.registryAddr, registryABI, ec, ec, ec)
}

func (c *Client) reputation(ec *ethclient.Client) *bind.BoundContract {
	return bind.NewBoundContract(c.reputationAddr, reputationABI, ec, ec, ec)
}

func (c *Client) token(ec *ethclient.Client) *bind.BoundContract {
	return bind.NewBoundContract(c.tokenAddr, tokenABI, ec, ec, ec)
}

// ExplorerURL builds a block-explorer link for a tx hash or address.
func (c *Client) ExplorerURL(hashOrAddress, kind string) string {
	if kind == "tx" {
		return fmt.Sprintf("%s/tx/%s", c.cfg.ExplorerBaseURL, hashOrAddress)
	}
	return fmt.Sprintf("%s/address/%s", c.cfg.ExplorerBaseURL, hashOrAddress)
}

// vaultAgentID pulls an agent id from a locally stored identity, checking the
// top-level field first and the legacy nested metadata copy second.
func vaultAgentID(id *models.Identity) int64 {
	if id == nil {
		return 0
	}
	if id.AgentID > 0 {
		return id.AgentID
	}
	if id.Metadata != nil {
		switch n := id.Metadata["agentId"].(type) {
		case float64:
			return int64(n)
		case int64:
			return n
		case int:
			return int64(n)
		}
	}
	return 0
}

// revertReason prefers the contract's human-readable revert string over the
// raw RPC error.
func revertReason(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.Index(msg, "execution reverted:"); i >= 0 {
		return strings.TrimSpace(msg[i+len("execution reverted:"):])
	}
	return msg
}
