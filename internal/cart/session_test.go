package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionFromPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		path string
		want SessionContext
	}{
		{"table token", "/menu/abc123", SessionContext{Token: "abc123"}},
		{"token with trailing slash", "/menu/abc123/", SessionContext{Token: "abc123"}},
		{"delivery page", "/menu/delivery", SessionContext{IsDelivery: true}},
		{"bare delivery", "/delivery", SessionContext{IsDelivery: true}},
		{"root path", "/", SessionContext{IsDelivery: true}},
		{"empty path", "", SessionContext{IsDelivery: true}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, SessionFromPath(tc.path))
		})
	}
}
