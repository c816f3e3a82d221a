// Package order provides the Order aggregate root of the storefront: a priced,
// persisted checkout with its line items and optional shipping address, plus the
// two independent state machines that govern it after creation.
//
// The package includes:
//   - Order: the aggregate root owning Items and an optional ShippingAddress
//   - PaymentStatus and FulfillmentStatus: table-driven state machines
//   - Number: the human-readable, monotonic order number ("#1001")
//   - Pricing: the monetary breakdown, always derived from the items
//   - Event: domain events recorded by the aggregate for publication after commit
//
// Key business rules:
//   - Unit prices are fixed at creation; items and money fields never change afterwards
//   - total = subtotal - discount + tax + shippingCost, each field rounded half-up once
//   - Orders that are PAID or FULFILLED cannot be deleted
//   - Soft-deleted orders keep their children but are excluded from normal reads
package order
