// Package locale carries the locale-derived tables a form needs (currency,
// telephone dialling codes, message catalog) as an explicit value instead of
// process-wide state.
package locale

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLanguage is used when no tag is supplied or parsing fails.
var DefaultLanguage = language.BritishEnglish

// Currency is the user's currency.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// TelephoneCode is a dialling prefix for a country.
type TelephoneCode struct {
	Country string `json:"country"`
	Name    string `json:"name"`
	Code    string `json:"code"`
}

// Context is passed to form renderers explicitly.
type Context struct {
	Language       language.Tag
	Currency       Currency
	TelephoneCodes []TelephoneCode
	Catalog        catalog.Catalog
}

// Option customises a Context.
type Option func(*Context)

// WithCurrency overrides the currency derived from the language tag.
func WithCurrency(code string) Option {
	return func(c *Context) {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return
		}
		if unit, err := currency.ParseISO(code); err == nil {
			code = unit.String()
		}
		c.Currency = Currency{Code: code, Symbol: SymbolFor(code)}
	}
}

// WithTelephoneCodes replaces the dialling code table.
func WithTelephoneCodes(codes []TelephoneCode) Option {
	return func(c *Context) {
		c.TelephoneCodes = append([]TelephoneCode(nil), codes...)
	}
}

// WithCatalog installs translated messages.
func WithCatalog(ctlg catalog.Catalog) Option {
	return func(c *Context) {
		c.Catalog = ctlg
	}
}

// New builds a Context for a BCP 47 tag such as "en-GB" or "fr-FR".
func New(tag string, options ...Option) Context {
	lang := DefaultLanguage
	if trimmed := strings.TrimSpace(tag); trimmed != "" {
		if parsed, err := language.Parse(trimmed); err == nil {
			lang = parsed
		}
	}

	ctx := Context{
		Language:       lang,
		Currency:       currencyFor(lang),
		TelephoneCodes: DefaultTelephoneCodes(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&ctx)
		}
	}
	return ctx
}

// Default is the context used when callers do not supply one.
func Default() Context {
	return New("")
}

// Region returns the ISO 3166 region implied by the language tag.
func (c Context) Region() string {
	region, _ := c.Language.Region()
	return region.String()
}

// DefaultTelephoneCode returns the dialling code for the context region.
func (c Context) DefaultTelephoneCode() (TelephoneCode, bool) {
	region := c.Region()
	for _, code := range c.TelephoneCodes {
		if strings.EqualFold(code.Country, region) {
			return code, true
		}
	}
	return TelephoneCode{}, false
}

// Printer returns a message printer bound to the context language.
func (c Context) Printer() *message.Printer {
	if c.Catalog != nil {
		return message.NewPrinter(c.Language, message.Catalog(c.Catalog))
	}
	return message.NewPrinter(c.Language)
}

func currencyFor(tag language.Tag) Currency {
	unit, confidence := currency.FromTag(tag)
	if confidence == language.No {
		return Currency{Code: "GBP", Symbol: SymbolFor("GBP")}
	}
	code := unit.String()
	return Currency{Code: code, Symbol: SymbolFor(code)}
}
