// Package api exposes availability operations to the HTTP surface and the
// CLI through one service type, keeping transport concerns out of the
// availability package.
package api
