package termimage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbsint(t *testing.T) {
	tests := []struct {
		in   string
		want uint
		ok   bool
	}{
		{"42", 42, true},
		{"  42", 42, true},
		{"\t7\n", 7, true},
		{"42abc", 42, true},
		{"-5", 5, true},
		{"+9", 9, true},
		{"007", 7, true},
		{"0", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"-", 0, true},
		{"4.5", 4, true},
		{"4294967295", 4294967295, true},
		{"4294967296", 0, false},
		{"99999999999999999999999", 0, false},
		{"-99999999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := absint(tt.in)
		assert.Equal(t, tt.want, got, "absint(%q)", tt.in)
		assert.Equal(t, tt.ok, ok, "absint(%q) ok", tt.in)
	}
}
