package warden

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormatter formats amounts with a currency symbol for display.
// Currency is a display label only; no conversion happens here.
type CurrencyFormatter struct {
	symbol  string
	printer *message.Printer
}

// NewCurrencyFormatter creates a formatter from a currency identifier. An ISO
// 4217 code is resolved to its symbol; anything else is used verbatim as the
// symbol.
func NewCurrencyFormatter(identifier string) *CurrencyFormatter {
	printer := message.NewPrinter(language.English)

	symbol := identifier
	if unit, err := currency.ParseISO(identifier); err == nil {
		symbol = printer.Sprintf("%v", currency.Symbol(unit))
	}

	return &CurrencyFormatter{
		symbol:  symbol,
		printer: printer,
	}
}

// Symbol returns the resolved currency symbol.
func (f *CurrencyFormatter) Symbol() string {
	return f.symbol
}

// Format renders the amount with grouping and two fraction digits, prefixed
// by the currency symbol. NaN and infinities are rejected rather than
// rendered.
func (f *CurrencyFormatter) Format(amount float64) (string, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", ErrNonFiniteAmount
	}

	formatted := f.printer.Sprint(number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))

	return f.symbol + formatted, nil
}

// FormatDecimal renders a model amount. Decimals are always finite, so no
// error path exists.
func (f *CurrencyFormatter) FormatDecimal(amount decimal.Decimal) string {
	formatted, _ := f.Format(amount.InexactFloat64())
	return formatted
}
