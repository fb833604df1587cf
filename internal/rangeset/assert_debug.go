//go:build hldebug

package rangeset

import "fmt"

// Debug reports whether invariant assertions panic.
const Debug = true

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("rangeset: "+format, args...))
	}
}
