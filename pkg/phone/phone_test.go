package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain ten digits", in: "9876543210", want: "9876543210"},
		{name: "spaces and plus", in: "+91 98765 43210", want: "9876543210"},
		{name: "country code no plus", in: "919876543210", want: "9876543210"},
		{name: "dashes", in: "98765-43210", want: "9876543210"},
		{name: "short number", in: "12345", want: "12345"},
		{name: "empty", in: "", want: ""},
		{name: "letters stripped", in: "call 9876543210 now", want: "9876543210"},
		{name: "long without country code keeps rightmost", in: "009876543210", want: "9876543210"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"+91 98765 43210", "919876543210", "98765", ""}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("+91 98765 43210"))
	assert.True(t, IsValid("9876543210"))
	assert.False(t, IsValid("12345"))
	assert.False(t, IsValid(""))
}

func TestE164(t *testing.T) {
	assert.Equal(t, "919876543210", E164("+91 98765 43210"))
	assert.Equal(t, "919876543210", E164("9876543210"))
	assert.Equal(t, "12345", E164("12345"))
}
