package wallet

import (
	"fmt"
	"math/big"
	"strings"
)

// Decimal places of each chain's smallest unit.
const (
	EthereumDecimals = 18 // wei per ETH
	SolanaDecimals   = 9  // lamports per SOL
)

// ParseAmount converts a human-readable decimal string ("1.5") to the
// chain's smallest unit using integer math only. Floats would silently
// lose precision above ~2^53 smallest units.
func ParseAmount(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > decimals {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", s, decimals)
	}
	// Pad the fractional part out to the full decimal width.
	fracPart += strings.Repeat("0", decimals-len(fracPart))

	v, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return nil, fmt.Errorf("malformed amount %q", s)
	}
	if neg {
		v.Neg(v)
	}
	return v, nil
}

// FormatAmount converts a smallest-unit value back to a human-readable
// decimal string, trimming trailing zeros ("1500000000", 9 -> "1.5").
func FormatAmount(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	quo, rem := new(big.Int).QuoRem(v, divisor, new(big.Int))

	sign := ""
	if v.Sign() < 0 {
		sign = "-"
		quo.Abs(quo)
		rem.Abs(rem)
	}
	if rem.Sign() == 0 {
		return sign + quo.String()
	}
	frac := rem.String()
	frac = strings.Repeat("0", decimals-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")
	return fmt.Sprintf("%s%s.%s", sign, quo.String(), frac)
}
