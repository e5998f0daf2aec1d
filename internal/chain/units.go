package chain

import (
	"fmt"
	"math/big"
	"strings"
)

// On-chain amounts are integers in the asset's smallest unit. These two
// conversions are the only place decimal strings meet wei/micro-USDC; a bug
// here silently moves the wrong amount.
const (
	NativeDecimals = 18 // ETH
	TokenDecimals  = 6  // USDC
)

// ParseUnits converts a decimal string like "0.01" into an integer amount at
// the given number of decimals. More fractional digits than the asset carries
// is an error, not a rounding.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", amount, decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	digits := whole + frac
	if !isDigits(digits) {
		return nil, fmt.Errorf("invalid decimal amount %q", amount)
	}
	out, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal amount %q", amount)
	}
	if neg {
		out.Neg(out)
	}
	return out, nil
}

// FormatUnits renders an integer amount as a decimal string at the given
// number of decimals, trimming trailing fractional zeros but always keeping
// one fractional digit ("1.0", not "1").
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0.0"
	}
	neg := amount.Sign() < 0
	abs := new(big.Int).Abs(amount)

	digits := abs.String()
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}
	split := len(digits) - decimals
	whole, frac := digits[:split], digits[split:]
	if decimals == 0 {
		frac = ""
	}

	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}
	out := whole + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
