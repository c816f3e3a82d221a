// Package customer models the registered-customer records owned by the customer
// subsystem. Order creation reads them to link orders by email and mutates their
// aggregate statistics (order count, lifetime spend, average order value, last order date).
package customer
