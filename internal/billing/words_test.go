package billing

import "testing"

func TestNumberToWords(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, ""},
		{5, "Five"},
		{10, ""}, // legacy teens table has an empty slot where "Ten" would be
		{11, "Eleven"},
		{15, "Fifteen"},
		{19, "Nineteen"},
		{20, "Twenty"},
		{21, "Twenty One"},
		{99, "Ninety Nine"},
		{100, "One Hundred"},
		{105, "One Hundred and Five"},
		{199, "One Hundred and Ninety Nine"},
		{1000, "One Thousand"},
		{1200, "One Thousand Two Hundred"},
		{1205, "One Thousand Two Hundred and Five"},
		{45000, "Forty Five Thousand"},
		{999999, "Nine Hundred and Ninety Nine Thousand Nine Hundred and Ninety Nine"},
		{1000000, "One Million"},
		{2500000, "Two Million Five Hundred Thousand"},
		{1000000000, "Number out of range"},
	}

	for _, tc := range cases {
		if got := NumberToWords(tc.in); got != tc.want {
			t.Errorf("NumberToWords(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNumberToWordsTruncatesFractions(t *testing.T) {
	if got := NumberToWords(21.99); got != "Twenty One" {
		t.Fatalf("expected fractional part to be dropped, got %q", got)
	}
}
