package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeccawang123/twincity/internal/config"
	"github.com/rebeccawang123/twincity/internal/vault"
)

func TestClampScore(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		expected int
	}{
		{name: "in range", score: 85, expected: 85},
		{name: "lower bound", score: 0, expected: 0},
		{name: "upper bound", score: 100, expected: 100},
		{name: "negative floors to zero", score: -5, expected: 0},
		{name: "over-range caps at hundred", score: 250, expected: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampScore(tt.score))
		})
	}
}

func TestBuildFeedbackAuth(t *testing.T) {
	targetKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	targetAddr := crypto.PubkeyToAddress(targetKey.PublicKey)

	params := feedbackAuthParams{
		AgentID:    big.NewInt(2440),
		Rater:      common.HexToAddress("0x1CBd3b2770909D4e10f157cABC84C7264073C9Ec"),
		IndexLimit: feedbackIndexLimit,
		Expiry:     big.NewInt(1900000000),
		ChainID:    big.NewInt(84532),
		Registry:   common.HexToAddress("0x8004aa63c570c570ebf15376c0db199918bfe9fb"),
		Target:     targetAddr,
	}

	auth, err := buildFeedbackAuth(params, targetKey)
	require.NoError(t, err)

	// 7 words of abi encoding plus a 65-byte signature.
	require.Len(t, auth, 7*32+65)

	// The encoded tuple is deterministic for fixed params.
	again, err := buildFeedbackAuth(params, targetKey)
	require.NoError(t, err)
	assert.Equal(t, auth[:7*32], again[:7*32])

	// The signature recovers to the target's address.
	encoded, sig := auth[:7*32], auth[7*32:]
	sigCopy := make([]byte, 65)
	copy(sigCopy, sig)
	require.True(t, sigCopy[64] == 27 || sigCopy[64] == 28)
	sigCopy[64] -= 27
	pub, err := crypto.SigToPub(accounts.TextHash(crypto.Keccak256(encoded)), sigCopy)
	require.NoError(t, err)
	assert.Equal(t, targetAddr, crypto.PubkeyToAddress(*pub))

	// Encoded fields land at their expected word offsets.
	assert.Equal(t, big.NewInt(2440), new(big.Int).SetBytes(encoded[0:32]))
	assert.Equal(t, params.Rater, common.BytesToAddress(encoded[32:64]))
	assert.Equal(t, big.NewInt(feedbackIndexLimit), new(big.Int).SetBytes(encoded[64:96]))
	assert.Equal(t, big.NewInt(84532), new(big.Int).SetBytes(encoded[128:160]))
}

func TestSubmitFeedbackUnknownTarget(t *testing.T) {
	v := vault.New(vault.NewMemoryStore())
	v.Initialize()
	client := NewClient(config.ChainConfig{
		RPCURL:  "http://127.0.0.1:0", // never dialed before the vault check fails
		ChainID: 84532,
	}, v)

	raterKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	raterHex := "0x" + common.Bytes2Hex(crypto.FromECDSA(raterKey))

	_, err = client.SubmitFeedback(context.Background(), raterHex,
		"0x00000000000000000000000000000000000000aa", 80, "great agent", 0)
	assert.ErrorIs(t, err, ErrTargetKeyNotFound)
}

func TestSubmitFeedbackBadRaterKey(t *testing.T) {
	v := vault.New(vault.NewMemoryStore())
	v.Initialize()
	client := NewClient(config.ChainConfig{ChainID: 84532}, v)

	_, err := client.SubmitFeedback(context.Background(), "not-a-key",
		"0x00000000000000000000000000000000000000aa", 80, "great agent", 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTargetKeyNotFound)
}
