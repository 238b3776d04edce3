//go:build !grdebug

package gr

const debugChecks = false
