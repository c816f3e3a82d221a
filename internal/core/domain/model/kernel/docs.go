// Package kernel provides the shared value objects of the storefront domain:
//   - UUID: opaque, server-generated identifiers
//   - Money: non-negative amounts rounded half-up to two decimal places
//   - Section: the closed set of catalog sections products and orders are tagged with
//
// Values are immutable and safe for concurrent use.
package kernel
