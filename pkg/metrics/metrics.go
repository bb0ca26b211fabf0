// Package metrics holds the Prometheus collectors shared by the binaries.
package metrics

const namespace = "bakery"
