package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Anna Müller", "anna muller"},
		{"  ANNA   MÜLLER  ", "anna muller"},
		{"José García", "jose garcia"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestSimilar(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "identical", a: "Anna Müller", b: "Anna Müller", want: true},
		{name: "case and diacritics", a: "ANNA MÜLLER", b: "anna muller", want: true},
		{name: "first name only", a: "Anna", b: "Anna Müller", want: true},
		{name: "small typo", a: "Anna Mueller", b: "Anna Müller", want: true},
		{name: "different people", a: "Anna Müller", b: "Alexander Herrmann", want: false},
		{name: "short names stay strict", a: "Tim", b: "Tom", want: false},
		{name: "empty never matches", a: "", b: "Anna", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Similar(tt.a, tt.b))
			assert.Equal(t, tt.want, Similar(tt.b, tt.a))
		})
	}
}
