// Package money holds the price input type used by request payloads.
package money

import (
	"bytes"
	"strconv"

	"github.com/shopspring/decimal"
)

// Amount is a price as supplied by a client. A value that is present but not
// numeric decodes without error and reports Valid() == false, so callers can
// surface it as a field violation instead of a malformed body.
type Amount struct {
	value decimal.Decimal
	valid bool
	raw   string
}

func NewAmount(value decimal.Decimal) *Amount {
	return &Amount{value: value, valid: true, raw: value.String()}
}

func MustParse(value string) *Amount {
	return NewAmount(decimal.RequireFromString(value))
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{raw: string(data)}

	text := string(bytes.TrimSpace(data))
	if len(text) > 0 && text[0] == '"' {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return nil
		}
		text = unquoted
	}

	value, err := decimal.NewFromString(text)
	if err != nil {
		return nil
	}
	a.value = value
	a.valid = true
	return nil
}

func (a *Amount) Valid() bool {
	return a != nil && a.valid
}

// Decimal returns the parsed value; zero when the amount is not valid.
func (a *Amount) Decimal() decimal.Decimal {
	if !a.Valid() {
		return decimal.Zero
	}
	return a.value
}

func (a *Amount) String() string {
	if a == nil {
		return ""
	}
	if a.valid {
		return a.value.String()
	}
	return a.raw
}
