package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

// Attributes is implemented only by the per-section attribute structs in this package.
type Attributes interface {
	Section() kernel.Section
	isAttributes()
}

// Attribute structs per section. Every field is optional.

type ApparelAttributes struct {
	Size  *string `json:"size,omitempty"`
	Color *string `json:"color,omitempty"`
}

type ElectronicsAttributes struct {
	Brand          *string `json:"brand,omitempty"`
	WarrantyMonths *int    `json:"warrantyMonths,omitempty"`
}

type HomeAttributes struct {
	Material   *string `json:"material,omitempty"`
	Dimensions *string `json:"dimensions,omitempty"`
}

type BeautyAttributes struct {
	VolumeML *int    `json:"volumeMl,omitempty"`
	SkinType *string `json:"skinType,omitempty"`
}

type GroceryAttributes struct {
	WeightGrams *int       `json:"weightGrams,omitempty"`
	BestBefore  *time.Time `json:"bestBefore,omitempty"`
}

func (ApparelAttributes) Section() kernel.Section     { return kernel.SectionApparel }
func (ElectronicsAttributes) Section() kernel.Section { return kernel.SectionElectronics }
func (HomeAttributes) Section() kernel.Section        { return kernel.SectionHome }
func (BeautyAttributes) Section() kernel.Section      { return kernel.SectionBeauty }
func (GroceryAttributes) Section() kernel.Section     { return kernel.SectionGrocery }

func (ApparelAttributes) isAttributes()     {}
func (ElectronicsAttributes) isAttributes() {}
func (HomeAttributes) isAttributes()        {}
func (BeautyAttributes) isAttributes()      {}
func (GroceryAttributes) isAttributes()     {}

// DecodeAttributes parses the JSON attributes of a product filed under section.
// Empty input and JSON null yield nil attributes.
func DecodeAttributes(section kernel.Section, data []byte) (Attributes, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	switch section {
	case kernel.SectionApparel:
		return decode[ApparelAttributes](data)
	case kernel.SectionElectronics:
		return decode[ElectronicsAttributes](data)
	case kernel.SectionHome:
		return decode[HomeAttributes](data)
	case kernel.SectionBeauty:
		return decode[BeautyAttributes](data)
	case kernel.SectionGrocery:
		return decode[GroceryAttributes](data)
	case kernel.SectionMixed:
	}
	return nil, errs.NewValueIsInvalidErrorWithCause("attributes", fmt.Errorf("%q has no attributes", section))
}

func decode[T Attributes](data []byte) (Attributes, error) {
	var attrs T
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("attributes", err)
	}
	return attrs, nil
}
