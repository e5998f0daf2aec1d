package chain

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/sync/errgroup"
)

// AlreadyActiveTx is the sentinel returned when the registry reports the
// address as already registered instead of minting again.
const AlreadyActiveTx = "0x_ALREADY_ACTIVE"

const registerGasLimit = 800000

// RegistrationStatus reconciles three independent registry views. The
// explicit flag, token holdings and the assigned id can disagree right after
// a registration; needsSync marks on-chain evidence without the flag.
type RegistrationStatus struct {
	Active    bool  `json:"active"`
	HasToken  bool  `json:"hasToken"`
	AgentID   int64 `json:"agentId"`
	NeedsSync bool  `json:"needsSync"`
}

// GetRegistrationStatus runs the three reads in parallel. Each one fails soft
// to its zero value so a single flaky call does not void the others.
func (c *Client) GetRegistrationStatus(ctx context.Context, address string) RegistrationStatus {
	ec, err := c.dial(ctx)
	if err != nil {
		return RegistrationStatus{}
	}
	defer ec.Close()

	var (
		isReg   bool
		balance = new(big.Int)
		agentID = new(big.Int)
	)
	addr := common.HexToAddress(address)
	registry := c.registry(ec)
	opts := &bind.CallOpts{Context: ctx}

	var g errgroup.Group
	g.Go(func() error {
		var out []interface{}
		if err := registry.Call(opts, &out, "isRegistered", addr); err == nil {
			isReg, _ = out[0].(bool)
		}
		return nil
	})
	g.Go(func() error {
		var out []interface{}
		if err := registry.Call(opts, &out, "balanceOf", addr); err == nil {
			if b, ok := out[0].(*big.Int); ok {
				balance = b
			}
		}
		return nil
	})
	g.Go(func() error {
		var out []interface{}
		if err := registry.Call(opts, &out, "getAgentId", addr); err == nil {
			if id, ok := out[0].(*big.Int); ok {
				agentID = id
			}
		}
		return nil
	})
	_ = g.Wait()

	hasToken := balance.Sign() > 0
	hasID := agentID.Sign() > 0
	return RegistrationStatus{
		Active:    isReg || hasID || hasToken,
		HasToken:  hasToken,
		AgentID:   agentID.Int64(),
		NeedsSync: (hasToken || hasID) && !isReg,
	}
}

// RegisterIdentity submits register(agentURI) signed by the identity's own
// key and waits for inclusion. An "already registered" revert short-circuits
// to AlreadyActiveTx rather than an error.
func (c *Client) RegisterIdentity(ctx context.Context, privateKey, agentURI string) (string, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return "", errors.New("invalid private key")
	}

	ec, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer ec.Close()

	opts, err := bind.NewKeyedTransactorWithChainID(key, c.chainID)
	if err != nil {
		return "", err
	}
	opts.Context = ctx
	opts.GasLimit = registerGasLimit

	tx, err := c.registry(ec).Transact(opts, "register", agentURI)
	if err != nil {
		if strings.Contains(revertReason(err), "already registered") {
			return AlreadyActiveTx, nil
		}
		return "", errors.New(revertReason(err))
	}

	receipt, err := bind.WaitMined(ctx, ec, tx)
	if err != nil {
		return "", err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", errors.New("registration transaction reverted")
	}
	return receipt.TxHash.Hex(), nil
}
