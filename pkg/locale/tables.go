package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

var symbols = map[string]string{
	"AUD": "$",
	"BRL": "R$",
	"CAD": "$",
	"CHF": "CHF",
	"CNY": "¥",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"NZD": "$",
	"USD": "$",
	"ZAR": "R",
}

// SymbolFor returns the display symbol for an ISO 4217 code, falling back to
// the code itself.
func SymbolFor(code string) string {
	if symbol, ok := symbols[code]; ok {
		return symbol
	}
	return code
}

var telephoneCodes = []TelephoneCode{
	{Country: "AU", Name: "Australia", Code: "+61"},
	{Country: "BR", Name: "Brazil", Code: "+55"},
	{Country: "CA", Name: "Canada", Code: "+1"},
	{Country: "CN", Name: "China", Code: "+86"},
	{Country: "DE", Name: "Germany", Code: "+49"},
	{Country: "ES", Name: "Spain", Code: "+34"},
	{Country: "FR", Name: "France", Code: "+33"},
	{Country: "GB", Name: "United Kingdom", Code: "+44"},
	{Country: "IE", Name: "Ireland", Code: "+353"},
	{Country: "IN", Name: "India", Code: "+91"},
	{Country: "IT", Name: "Italy", Code: "+39"},
	{Country: "JP", Name: "Japan", Code: "+81"},
	{Country: "NL", Name: "Netherlands", Code: "+31"},
	{Country: "NZ", Name: "New Zealand", Code: "+64"},
	{Country: "US", Name: "United States", Code: "+1"},
	{Country: "ZA", Name: "South Africa", Code: "+27"},
}

// DefaultTelephoneCodes returns a copy of the built-in dialling code table.
func DefaultTelephoneCodes() []TelephoneCode {
	return append([]TelephoneCode(nil), telephoneCodes...)
}

// Translations maps a message key to its translation per language.
type Translations map[string]map[language.Tag]string

// CatalogFromTranslations builds a message catalog.
func CatalogFromTranslations(t Translations) (catalog.Catalog, error) {
	ctlg := catalog.NewBuilder()
	for key, byLang := range t {
		for lang, translation := range byLang {
			if err := ctlg.SetString(lang, key, translation); err != nil {
				return nil, err
			}
		}
	}
	return ctlg, nil
}
