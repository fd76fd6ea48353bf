package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swarajjadhav12/piggybankai-online/internal/core/phone"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       []string
		wantLast10 string
	}{
		{
			name:       "ten digit number gets country code variants",
			input:      "5550100100",
			want:       []string{"5550100100", "+5550100100", "15550100100", "+15550100100"},
			wantLast10: "5550100100",
		},
		{
			name:       "formatted number is normalized",
			input:      " +1 (555) 010-0100 ",
			want:       []string{"+1 (555) 010-0100", "15550100100", "+15550100100"},
			wantLast10: "5550100100",
		},
		{
			name:       "short number has no suffix",
			input:      "555-0100",
			want:       []string{"555-0100", "5550100", "+5550100"},
			wantLast10: "",
		},
		{
			name:       "no digits at all",
			input:      "n/a",
			want:       []string{"n/a"},
			wantLast10: "",
		},
		{
			name:       "empty input yields nothing",
			input:      "   ",
			want:       nil,
			wantLast10: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, last10 := phone.Candidates(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantLast10, last10)
		})
	}
}

func TestCandidatesDeduplicates(t *testing.T) {
	got, _ := phone.Candidates("+15550100100")
	// raw and "+"+digits collapse to one entry
	assert.Equal(t, []string{"+15550100100", "15550100100"}, got)
}

func TestSameNumber(t *testing.T) {
	assert.True(t, phone.SameNumber("+1 (555) 010-0100", "15550100100"))
	assert.True(t, phone.SameNumber("555 0100", "5550100"))
	assert.False(t, phone.SameNumber("5550100100", "5550100101"))
	assert.False(t, phone.SameNumber("", ""))
	assert.False(t, phone.SameNumber("abc", "def"))
}
