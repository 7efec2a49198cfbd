// Package budget holds the fixed commercial constants and the budget estimate shown on the form
// and embedded into generation requests.
package budget

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/opinity/proposal-generator/internal/types"
)

// HourlyRate is the consultancy rate in euros per engineer hour.
// Changing it is a product decision; prompts and the form read it from here.
const HourlyRate = 140

// VSMSessionPrice is the fixed price in euros of a Value Stream Mapping session.
const VSMSessionPrice = 1600

// Compute returns engineers * hours * HourlyRate using integer arithmetic.
func Compute(engineers, hours int) int64 {
	return int64(engineers) * int64(hours) * HourlyRate
}

// Locale returns the language tag used for number formatting of lang.
func Locale(lang types.Language) language.Tag {
	if lang == types.LanguageDutch {
		return language.Dutch
	}
	return language.AmericanEnglish
}

// FormatNumber renders n with the digit grouping of lang (22,400 for en, 22.400 for nl).
func FormatNumber(n int64, lang types.Language) string {
	return message.NewPrinter(Locale(lang)).Sprintf("%d", n)
}

// FormatEuro renders an amount as a euro figure, for example €22,400.
func FormatEuro(amount int64, lang types.Language) string {
	return "€" + FormatNumber(amount, lang)
}

// Estimate is the computed budget for one generation config.
type Estimate struct {
	Engineers int    `json:"engineers"`
	Hours     int    `json:"hours"`
	Rate      int    `json:"rate"`
	Total     int64  `json:"total"`
	Formatted string `json:"formatted"`
}

// EstimateFor computes the budget of cfg and formats it for lang.
func EstimateFor(cfg types.GenerationConfig, lang types.Language) Estimate {
	total := Compute(cfg.Engineers, cfg.Hours)
	return Estimate{
		Engineers: cfg.Engineers,
		Hours:     cfg.Hours,
		Rate:      HourlyRate,
		Total:     total,
		Formatted: FormatEuro(total, lang),
	}
}
