package dto

import "github.com/mountainthreads/rental-ops/internal/catalog"

// SizeTableDTO lists the size choices of one clothing type. Tables that do
// not apply to the type are omitted.
type SizeTableDTO struct {
	Shoe       []string              `json:"shoe"`
	Jacket     []string              `json:"jacket,omitempty"`
	Pant       []string              `json:"pant,omitempty"`
	Bib        []string              `json:"bib,omitempty"`
	ToddlerSet []string              `json:"toddlerSet,omitempty"`
	Glove      []string              `json:"glove"`
	Helmet     []catalog.OptionGroup `json:"helmet"`
}

// CatalogDTO is every option list the forms render.
type CatalogDTO struct {
	ClothingTypes  []catalog.Option                      `json:"clothingTypes"`
	YouthGenders   []catalog.Option                      `json:"youthGenders"`
	Handwear       []catalog.Option                      `json:"handwear"`
	Goggles        []catalog.Option                      `json:"goggles"`
	PaymentMethods []catalog.Option                      `json:"paymentMethods"`
	Sizes          map[catalog.ClothingType]SizeTableDTO `json:"sizes"`
}

// NewCatalogDTO assembles the catalog.
func NewCatalogDTO() CatalogDTO {
	sizes := make(map[catalog.ClothingType]SizeTableDTO, len(catalog.ClothingTypes))
	for _, t := range catalog.ClothingTypes {
		sizes[t] = SizeTableDTO{
			Shoe:       catalog.ShoeSizes(t),
			Jacket:     catalog.JacketSizes(t),
			Pant:       catalog.PantSizes(t),
			Bib:        catalog.BibSizes(t),
			ToddlerSet: catalog.ToddlerSetSizes(t),
			Glove:      catalog.GloveSizes(t),
			Helmet:     catalog.HelmetGroups(t),
		}
	}

	return CatalogDTO{
		ClothingTypes:  catalog.ClothingTypeOptions(),
		YouthGenders:   catalog.YouthGenderOptions(),
		Handwear:       catalog.HandwearOptions(),
		Goggles:        catalog.GoggleOptions,
		PaymentMethods: catalog.PaymentOptions,
		Sizes:          sizes,
	}
}
