package chain

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	nativeTransferGas = 120000
	tokenTransferGas  = 150000
)

// TransferNative moves ETH and waits for inclusion. Transfers move real
// value, so every error propagates — there is no soft-fail path here.
func (c *Client) TransferNative(ctx context.Context, privateKey, to, amount string) (string, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return "", errors.New("invalid private key")
	}
	value, err := ParseUnits(amount, NativeDecimals)
	if err != nil {
		return "", err
	}

	ec, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer ec.Close()

	from := crypto.PubkeyToAddress(key.PublicKey)
	nonce, err := ec.PendingNonceAt(ctx, from)
	if err != nil {
		return "", err
	}
	gasPrice, err := ec.SuggestGasPrice(ctx)
	if err != nil {
		return "", err
	}

	toAddr := common.HexToAddress(to)
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &toAddr,
		Value:    value,
		Gas:      nativeTransferGas,
		GasPrice: gasPrice,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), key)
	if err != nil {
		return "", err
	}
	if err := ec.SendTransaction(ctx, signed); err != nil {
		return "", errors.New(revertReason(err))
	}
	if _, err := bind.WaitMined(ctx, ec, signed); err != nil {
		return "", err
	}
	return signed.Hash().Hex(), nil
}

// TransferToken moves USDC via the token contract's transfer and waits for
// inclusion. Loud-fail like TransferNative.
func (c *Client) TransferToken(ctx context.Context, privateKey, to, amount string) (string, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return "", errors.New("invalid private key")
	}
	units, err := ParseUnits(amount, TokenDecimals)
	if err != nil {
		return "", err
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
	opts.GasLimit = tokenTransferGas

	tx, err := c.token(ec).Transact(opts, "transfer", common.HexToAddress(to), units)
	if err != nil {
		return "", errors.New(revertReason(err))
	}

	receipt, err := bind.WaitMined(ctx, ec, tx)
	if err != nil {
		return "", err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", errors.New("token transfer reverted")
	}
	return receipt.TxHash.Hex(), nil
}
