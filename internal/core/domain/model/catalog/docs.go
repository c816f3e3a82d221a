// Package catalog models the product records owned by the catalog/inventory subsystem,
// as far as order creation needs them: live price, stock level, display name, SKU,
// section, variants with optional price overrides, and soft-deletion.
//
// Section-specific optional attributes are expressed as a closed set of Attributes
// variants, one struct per section with pointer fields for absent values.
package catalog
