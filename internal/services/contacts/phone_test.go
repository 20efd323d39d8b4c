package contacts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"5551234567", "(555) 123-4567"},
		{"555.123.4567", "(555) 123-4567"},
		{"(555) 123-4567", "(555) 123-4567"},
		{"15551234567", "+1 (555) 123-4567"},
		{"+1 555 123 4567", "+1 (555) 123-4567"},
		{"25551234567", "25551234567"},
		{"+44 20 7946 0958", "+44 20 7946 0958"},
		{"555-12", "555-12"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, NormalizePhone(c.in), c.in)
	}
}

func TestDigitsOnly(t *testing.T) {
	require.Equal(t, "15551234567", DigitsOnly("+1 (555) 123-4567"))
	require.Equal(t, "", DigitsOnly("call me"))
	require.Equal(t, "12", DigitsOnly("٣1x2"))
}
