// Package ports defines the contracts between the order core and its adapters:
// repositories, the unit of work and the event publisher.
package ports
