//go:build kaledebug

package expr

// Built with -tags kaledebug, every Update validates its result and panics
// on duplicate identities.
const debugChecks = true
