//go:build debug

package assert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	inv "github.com/sufield/bst/internal/assert"
)

func TestInvariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ok        bool
		format    string
		args      []any
		wantPanic string
	}{
		{name: "holds", ok: true, format: "never shown"},
		{name: "plain message", ok: false, format: "chain is empty", wantPanic: "invariant violated: chain is empty"},
		{name: "formatted", ok: false, format: "token %d of %s", args: []any{2, "doc"}, wantPanic: "invariant violated: token 2 of doc"},
		{name: "empty message", ok: false, wantPanic: "invariant violated: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			call := func() { inv.Invariant(tt.ok, tt.format, tt.args...) }

			if tt.wantPanic == "" {
				assert.NotPanics(t, call)
				return
			}
			assert.PanicsWithValue(t, tt.wantPanic, call)
		})
	}
}
