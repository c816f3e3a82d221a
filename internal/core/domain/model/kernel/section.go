package kernel

import (
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"
)

// Section is the catalog section a product belongs to. Orders carry the section
// shared by all their items, or SectionMixed.
type Section string

const (
	SectionApparel     Section = "apparel"
	SectionElectronics Section = "electronics"
	SectionHome        Section = "home"
	SectionBeauty      Section = "beauty"
	SectionGrocery     Section = "grocery"

	// SectionMixed is only valid on orders whose items span several sections.
	SectionMixed Section = "mixed"
)

// CatalogSections lists the sections a product may be filed under.
func CatalogSections() []Section {
	return []Section{SectionApparel, SectionElectronics, SectionHome, SectionBeauty, SectionGrocery}
}

// ParseSection lower-cases and trims s before validating it.
func ParseSection(s string) (Section, error) {
	section := Section(strings.ToLower(strings.TrimSpace(s)))
	if err := section.Validate(); err != nil {
		return "", err
	}
	return section, nil
}

// Validate accepts catalog sections and SectionMixed.
func (s Section) Validate() error {
	if s == SectionMixed || s.IsCatalogSection() {
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("section", fmt.Errorf("%q is not a known section", string(s)))
}

// IsCatalogSection is false for SectionMixed.
func (s Section) IsCatalogSection() bool {
	switch s {
	case SectionApparel, SectionElectronics, SectionHome, SectionBeauty, SectionGrocery:
		return true
	case SectionMixed:
		return false
	}
	return false
}

func (s Section) String() string {
	return string(s)
}
