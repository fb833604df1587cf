//go:build !hldebug

package rangeset

// Debug reports whether invariant assertions panic.
const Debug = false

func assertf(bool, string, ...any) {}
