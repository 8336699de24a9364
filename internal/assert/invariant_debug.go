//go:build debug

package assert

import "fmt"

// Invariant panics with the formatted message when ok is false.
func Invariant(ok bool, format string, args ...any) {
	if !ok {
		panic("invariant violated: " + fmt.Sprintf(format, args...))
	}
}
