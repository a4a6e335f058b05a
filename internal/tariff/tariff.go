package tariff

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Table maps a paid currency amount to a number of credits granted.
// It is static configuration, never computed from the amount.
type Table map[int64]int64

// Default is the package table used by the payment verification and
// webhook paths (prices in rubles).
func Default() Table {
	return Table{
		99:   10,
		399:  60,
		699:  125,
		2999: 650,
	}
}

// Parse builds a Table from a "price:tokens,price:tokens" string.
// An empty input yields the default table.
func Parse(s string) (Table, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default(), nil
	}
	t := make(Table)
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("tariff: malformed entry %q", pair)
		}
		price, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tariff: bad price in %q: %w", pair, err)
		}
		tokens, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tariff: bad tokens in %q: %w", pair, err)
		}
		if price <= 0 || tokens <= 0 {
			return nil, fmt.Errorf("tariff: non-positive entry %q", pair)
		}
		t[price] = tokens
	}
	return t, nil
}

// Tokens returns the credits granted for a paid amount. Gateways report
// amounts as decimal strings ("399.00"); only whole currency units match.
func (t Table) Tokens(amount decimal.Decimal) (int64, bool) {
	if !amount.Equal(amount.Truncate(0)) {
		return 0, false
	}
	tokens, ok := t[amount.IntPart()]
	return tokens, ok
}

// Prices returns the configured price points in ascending order.
func (t Table) Prices() []int64 {
	prices := make([]int64, 0, len(t))
	for p := range t {
		prices = append(prices, p)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i] < prices[j] })
	return prices
}
