package documents

import (
	"factuur-portal/backoffice-backend/internal/config"
)

// Settings are the document defaults applied by the generation service
type Settings struct {
	Sender           Party
	RecipientCountry string
	LogoPath         string
	AcceptedTaxRates []int
	DefaultTaxRate   int
}

// SettingsFromConfig maps the owner and documents configuration
func SettingsFromConfig(owner config.OwnerConfig, docs config.DocumentsConfig) Settings {
	return Settings{
		Sender: Party{
			Name:    owner.Name,
			Address: owner.Address,
			Country: owner.Country,
		},
		RecipientCountry: docs.RecipientCountry,
		LogoPath:         docs.LogoPath,
		AcceptedTaxRates: docs.AcceptedTaxRates,
		DefaultTaxRate:   docs.DefaultTaxRate,
	}
}

// OwnerFromConfig maps the owner configuration to footer details
func OwnerFromConfig(owner config.OwnerConfig) OwnerDetails {
	return OwnerDetails{
		Name:      owner.Name,
		Address:   owner.Address,
		City:      owner.City,
		IBAN:      owner.IBAN,
		VATNumber: owner.VATNumber,
		Phone:     owner.Phone,
		Email:     owner.Email,
		KVKNumber: owner.KVKNumber,
	}
}

// LayoutFromConfig applies the configurable parts of the layout to the defaults
func LayoutFromConfig(docs config.DocumentsConfig) LayoutOptions {
	options := DefaultLayoutOptions()
	options.PaymentTermDays = docs.PaymentTermDays
	options.QuoteValidityDays = docs.QuoteValidityDays
	options.Attribution = docs.Attribution
	options.Compress = docs.CompressPDF
	return options
}
