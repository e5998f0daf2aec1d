package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	feedbackFallbackGas = 1500000
	feedbackAuthTTL     = 2 * time.Hour
	feedbackIndexLimit  = 1000000
)

// ReputationSummary is the aggregate the reputation contract reports for one
// agent id. {0,0} covers both "no reputation yet" and "query failed" — the
// two are deliberately not distinguished for advisory reads.
type ReputationSummary struct {
	Average int    `json:"average"`
	Count   uint64 `json:"count"`
}

// GetReputation resolves an agent id (explicit argument, then the local
// vault, then the on-chain registry) and reads its summary. Soft-fails to
// {0,0}.
func (c *Client) GetReputation(ctx context.Context, address string, providedAgentID int64) ReputationSummary {
	ec, err := c.dial(ctx)
	if err != nil {
		return ReputationSummary{}
	}
	defer ec.Close()

	agentID := big.NewInt(0)
	switch {
	case providedAgentID > 0:
		agentID = big.NewInt(providedAgentID)
	default:
		local, _ := c.vault.FindByAddress(address)
		if id := vaultAgentID(local); id > 0 {
			agentID = big.NewInt(id)
		} else {
			var out []interface{}
			if err := c.registry(ec).Call(&bind.CallOpts{Context: ctx}, &out, "getAgentId", common.HexToAddress(address)); err == nil {
				if onchain, ok := out[0].(*big.Int); ok {
					agentID = onchain
				}
			}
		}
	}
	if agentID.Sign() == 0 {
		return ReputationSummary{}
	}

	var out []interface{}
	err = c.reputation(ec).Call(&bind.CallOpts{Context: ctx}, &out, "getSummary",
		agentID, []common.Address{}, [32]byte{}, [32]byte{})
	if err != nil || len(out) < 2 {
		return ReputationSummary{}
	}
	count, _ := out[0].(uint64)
	average, _ := out[1].(uint8)
	return ReputationSummary{Average: int(average), Count: count}
}

// GetReputationByEmail is the email-keyed variant. An unknown email is a
// caller programming error and fails loudly with ErrIdentityNotFound; a known
// identity with no on-chain activity returns a zero score without error.
func (c *Client) GetReputationByEmail(ctx context.Context, email string) (int, error) {
	identity, err := c.vault.FindByEmail(email)
	if err != nil {
		return 0, err
	}
	if identity == nil {
		return 0, ErrIdentityNotFound
	}
	summary := c.GetReputation(ctx, identity.Address, identity.AgentID)
	return summary.Average, nil
}

// HasRated reports whether an auditor already left feedback for a target.
// Advisory read, soft-fails to false.
func (c *Client) HasRated(ctx context.Context, auditor, target string) bool {
	ec, err := c.dial(ctx)
	if err != nil {
		return false
	}
	defer ec.Close()

	var out []interface{}
	err = c.reputation(ec).Call(&bind.CallOpts{Context: ctx}, &out, "hasRated",
		common.HexToAddress(auditor), common.HexToAddress(target))
	if err != nil {
		return false
	}
	rated, _ := out[0].(bool)
	return rated
}

// SubmitFeedback sends giveFeedback for a target agent, co-signed by the
// target. The protocol requires the rating target to pre-authorize being
// rated: the authorization payload is signed with the target's key, which is
// why the target must exist in the local vault. No idempotence is guaranteed
// here — duplicate submissions are the contract's business (see HasRated).
func (c *Client) SubmitFeedback(ctx context.Context, raterPrivateKey, targetAddress string, score int, comment string, targetAgentID int64) (string, error) {
	raterKey, err := crypto.HexToECDSA(strings.TrimPrefix(raterPrivateKey, "0x"))
	if err != nil {
		return "", errors.New("invalid rater private key")
	}
	raterAddr := crypto.PubkeyToAddress(raterKey.PublicKey)

	targetIdentity, err := c.vault.FindByAddress(targetAddress)
	if err != nil {
		return "", err
	}
	if targetIdentity == nil {
		return "", ErrTargetKeyNotFound
	}
	targetKey, err := crypto.HexToECDSA(strings.TrimPrefix(targetIdentity.PrivateKey, "0x"))
	if err != nil {
		return "", fmt.Errorf("target key unusable: %w", err)
	}
	targetAddr := crypto.PubkeyToAddress(targetKey.PublicKey)

	ec, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer ec.Close()

	finalTargetID := big.NewInt(targetAgentID)
	if finalTargetID.Sign() <= 0 {
		var out []interface{}
		if err := c.registry(ec).Call(&bind.CallOpts{Context: ctx}, &out, "getAgentId", common.HexToAddress(targetAddress)); err == nil {
			if onchain, ok := out[0].(*big.Int); ok {
				finalTargetID = onchain
			}
		}
	}
	if finalTargetID.Sign() <= 0 {
		return "", ErrTargetNotRegistered
	}

	clamped := ClampScore(score)
	tag1 := encodeBytes32("agent")
	tag2 := encodeBytes32("test")
	var feedbackHash [32]byte
	copy(feedbackHash[:], crypto.Keccak256([]byte(comment)))

	auth, err := buildFeedbackAuth(feedbackAuthParams{
		AgentID:    finalTargetID,
		Rater:      raterAddr,
		IndexLimit: feedbackIndexLimit,
		Expiry:     big.NewInt(time.Now().Add(feedbackAuthTTL).Unix()),
		ChainID:    c.chainID,
		Registry:   c.registryAddr,
		Target:     targetAddr,
	}, targetKey)
	if err != nil {
		return "", err
	}

	callData, err := reputationABI.Pack("giveFeedback",
		finalTargetID, uint8(clamped), tag1, tag2, comment, feedbackHash, auth)
	if err != nil {
		return "", err
	}

	gas := uint64(feedbackFallbackGas)
	if est, err := ec.EstimateGas(ctx, ethereum.CallMsg{
		From: raterAddr,
		To:   &c.reputationAddr,
		Data: callData,
	}); err == nil {
		gas = est
	}

	opts, err := bind.NewKeyedTransactorWithChainID(raterKey, c.chainID)
	if err != nil {
		return "", err
	}
	opts.Context = ctx
	opts.GasLimit = gas * 15 / 10 // 50% safety margin over estimate or fallback

	tx, err := c.reputation(ec).Transact(opts, "giveFeedback",
		finalTargetID, uint8(clamped), tag1, tag2, comment, feedbackHash, auth)
	if err != nil {
		return "", errors.New(revertReason(err))
	}

	receipt, err := bind.WaitMined(ctx, ec, tx)
	if err != nil {
		return "", err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", errors.New("feedback transaction reverted")
	}
	return receipt.TxHash.Hex(), nil
}

// ClampScore floors a score into the contract's [0,100] range before it is
// signed or submitted.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

type feedbackAuthParams struct {
	AgentID    *big.Int
	Rater      common.Address
	IndexLimit uint64
	Expiry     *big.Int
	ChainID    *big.Int
	Registry   common.Address
	Target     common.Address
}

var feedbackAuthArgs = abi.Arguments{
	{Type: mustNewType("uint256")},
	{Type: mustNewType("address")},
	{Type: mustNewType("uint64")},
	{Type: mustNewType("uint256")},
	{Type: mustNewType("uint256")},
	{Type: mustNewType("address")},
	{Type: mustNewType("address")},
}

// buildFeedbackAuth abi-encodes the short-lived authorization tuple, hashes
// it and appends the target's EIP-191 signature over the raw hash. Encoding
// order matches the contract's verifier exactly.
func buildFeedbackAuth(p feedbackAuthParams, targetKey *ecdsa.PrivateKey) ([]byte, error) {
	encoded, err := feedbackAuthArgs.Pack(
		p.AgentID, p.Rater, p.IndexLimit, p.Expiry, p.ChainID, p.Registry, p.Target)
	if err != nil {
		return nil, err
	}

	rawHash := crypto.Keccak256(encoded)
	sig, err := crypto.Sign(accounts.TextHash(rawHash), targetKey)
	if err != nil {
		return nil, err
	}
	sig[64] += 27 // recovery id to Ethereum's 27/28 convention

	return append(encoded, sig...), nil
}

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}
