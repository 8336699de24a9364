// Package assert holds internal consistency checks that are compiled in only
// with the debug build tag:
//
//	go test -tags debug ./...
//
// Checks guard results the processor built itself. They never validate
// message input; malformed tokens are reported as errors.
package assert
