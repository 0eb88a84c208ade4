package normalize

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Héctor", "hector"},
		{"FRED", "fred"},
		{"Crème Brûlée", "creme brulee"},
		{"", ""},
		{"already plain", "already plain"},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
