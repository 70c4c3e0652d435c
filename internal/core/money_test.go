package core

import "testing"

func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1.0", true},
		{"1.23", "1.23", true},
		{"12,5", "12.5", true},
		{" 2.50 ", "2.50", true},
		{".5", "0.5", true},
		{"7.", "7", true},
		{"007", "7", true},
		{"0.004", "0.004", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.00", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,2.3", "", false},
		{"1e3", "", false},
		{".", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Errorf("%q expected %q, got %q (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Errorf("%q expected error, got %q", tc.in, got)
		}
	}
}

func TestMoneyFromAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0.1, 10},
		{0.2, 20},
		{12.34, 1234},
		{100, 10000},
		{0, 0},
	}
	for _, tc := range cases {
		if got := MoneyFromAmount(tc.in).Cents; got != tc.want {
			t.Errorf("MoneyFromAmount(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
	sum := MoneyFromAmount(0.1).Add(MoneyFromAmount(0.2))
	if sum.String() != "0.3" {
		t.Errorf("0.1+0.2 = %s, want 0.3", sum)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		150:    "150",
		100.5:  "100.5",
		12.25:  "12.25",
		0:      "0",
		1000.1: "1000.1",
	}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Errorf("FormatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}
