package services

import (
	"math"
	"testing"
)

func TestStructuredScore(t *testing.T) {
	matcher := NewStructuredMatcher()

	tests := []struct {
		name          string
		profileSkills []string
		required      []string
		preferred     []string
		want          float64
	}{
		{
			name:          "no requirements is neutral",
			profileSkills: []string{"Python", "SQL"},
			required:      nil,
			preferred:     nil,
			want:          0.5,
		},
		{
			name:          "no requirements is neutral for empty profile too",
			profileSkills: nil,
			required:      nil,
			preferred:     nil,
			want:          0.5,
		},
		{
			name:          "half required plus full preferred",
			profileSkills: []string{"Python", "SQL"},
			required:      []string{"Python", "Java"},
			preferred:     []string{"SQL"},
			want:          0.8*0.5 + 0.2*1.0,
		},
		{
			name:          "full required with no preferred listed",
			profileSkills: []string{"GHG Accounting", "CSRD Reporting"},
			required:      []string{"GHG Accounting", "CSRD Reporting"},
			preferred:     nil,
			want:          1.0,
		},
		{
			name:          "preferred only",
			profileSkills: []string{"SQL"},
			required:      nil,
			preferred:     []string{"SQL", "Tableau"},
			want:          0.5,
		},
		{
			name:          "no overlap at all",
			profileSkills: []string{"Marketing"},
			required:      []string{"Python"},
			preferred:     []string{"SQL"},
			want:          0.0,
		},
		{
			name:          "matching is case-insensitive",
			profileSkills: []string{"python", " sql "},
			required:      []string{"Python"},
			preferred:     []string{"SQL"},
			want:          1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matcher.Score(tt.profileSkills, tt.required, tt.preferred)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStructuredScoreWithinRange(t *testing.T) {
	matcher := NewStructuredMatcher()

	got := matcher.Score([]string{"a", "b", "c"}, []string{"a", "x"}, []string{"b", "y", "z"})
	if got < 0.0 || got > 1.0 {
		t.Errorf("Score() = %v, want within [0,1]", got)
	}
}
