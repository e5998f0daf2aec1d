package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// NativeBalance reads an account's ETH balance as a decimal string. Errors
// propagate so the caller can tell "zero" from "unknown"; the HTTP layer
// collapses failures to "0.0" because balances are advisory display data.
func (c *Client) NativeBalance(ctx context.Context, address string) (string, error) {
	ec, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer ec.Close()

	wei, err := ec.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return "", err
	}
	return FormatUnits(wei, NativeDecimals), nil
}

// TokenBalance reads the USDC balance at the token's 6 decimals. Same
// advisory contract as NativeBalance.
func (c *Client) TokenBalance(ctx context.Context, address string) (string, error) {
	ec, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer ec.Close()

	var out []interface{}
	err = c.token(ec).Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", common.HexToAddress(address))
	if err != nil {
		return "", err
	}
	amount, ok := out[0].(*big.Int)
	if !ok {
		return "", fmt.Errorf("unexpected balanceOf result %T", out[0])
	}
	return FormatUnits(amount, TokenDecimals), nil
}
