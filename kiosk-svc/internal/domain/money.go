package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a fixed-point amount in hundredths of the currency unit.
type Money int64

var ErrInvalidMoney = errors.New("invalid money amount")

func Won(units int64) Money {
	return Money(units * 100)
}

func MoneyFromFloat(value float64) Money {
	return Money(math.Round(value * 100))
}

// ParseMoney accepts decimal strings such as "4500", "4500.5" or "4500.00".
func ParseMoney(raw string) (Money, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return 0, ErrInvalidMoney
	}

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, fraction, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(fraction) > 2 {
		if strings.Trim(fraction[2:], "0") != "" {
			return 0, fmt.Errorf("%w: %q has more than two decimals", ErrInvalidMoney, raw)
		}
		fraction = fraction[:2]
	}
	for len(fraction) < 2 {
		fraction += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, raw)
	}
	cents, err := strconv.ParseInt(fraction, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, raw)
	}

	amount := Money(units*100 + cents)
	if negative {
		amount = -amount
	}
	return amount, nil
}

func (m Money) Mul(quantity int) Money {
	return m * Money(quantity)
}

func (m Money) Float64() float64 {
	return float64(m) / 100
}

// String drops the fraction for whole amounts: 450000 -> "4500", 450050 -> "4500.50".
func (m Money) String() string {
	sign := ""
	value := int64(m)
	if value < 0 {
		sign = "-"
		value = -value
	}
	if value%100 == 0 {
		return sign + strconv.FormatInt(value/100, 10)
	}
	return fmt.Sprintf("%s%d.%02d", sign, value/100, value%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float64(), 'f', -1, 64)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*m = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	parsed, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan reads NUMERIC columns, which lib/pq returns as text.
func (m *Money) Scan(src any) error {
	switch value := src.(type) {
	case nil:
		*m = 0
		return nil
	case []byte:
		parsed, err := ParseMoney(string(value))
		if err != nil {
			return err
		}
		*m = parsed
	case string:
		parsed, err := ParseMoney(value)
		if err != nil {
			return err
		}
		*m = parsed
	case float64:
		*m = MoneyFromFloat(value)
	case int64:
		*m = Won(value)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidMoney, src)
	}
	return nil
}

func (m Money) Value() (driver.Value, error) {
	value := int64(m)
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	return fmt.Sprintf("%s%d.%02d", sign, value/100, value%100), nil
}
