//go:build !kaledebug

package expr

const debugChecks = false
