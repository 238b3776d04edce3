//go:build grdebug

package gr

// debugChecks enables the single-owner guard and per-op validation.
const debugChecks = true
