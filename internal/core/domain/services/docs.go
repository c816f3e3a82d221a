// Package services holds domain services for order checkout that do not belong
// to a single aggregate.
//
// The package includes:
//   - PricingEngine: computes the monetary breakdown of an order
//   - ItemResolver: turns requested lines into catalog-priced order items
//   - DiscountResolver and ShippingPolicy: pluggable pricing inputs
package services
