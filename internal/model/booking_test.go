package model

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNights(t *testing.T) {
	cases := []struct {
		name     string
		in, out  string
		expected int
	}{
		{"three nights", "2025-03-10", "2025-03-13", 3},
		{"single night", "2025-03-10", "2025-03-11", 1},
		{"across month boundary", "2025-01-30", "2025-02-02", 3},
		{"across year boundary", "2024-12-30", "2025-01-02", 3},
		{"reversed dates still count magnitude", "2025-03-13", "2025-03-10", 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Nights(day(c.in), day(c.out)); got != c.expected {
				t.Fatalf("Nights(%s, %s) = %d, want %d", c.in, c.out, got, c.expected)
			}
		})
	}
}

func TestStayTotal(t *testing.T) {
	if got := StayTotal(3, 1000); got != 3000 {
		t.Fatalf("3 nights at 1000 = %v, want 3000", got)
	}
	if got := StayTotal(4, 2000); got != 8000 {
		t.Fatalf("4 nights at 2000 = %v, want 8000", got)
	}
	// fractional rates round to cents
	if got := StayTotal(3, 99.99); got != 299.97 {
		t.Fatalf("3 nights at 99.99 = %v, want 299.97", got)
	}
}

func TestRangesOverlap(t *testing.T) {
	cases := []struct {
		name                   string
		aIn, aOut, bIn, bOut   string
		overlap                bool
	}{
		{"identical ranges", "2025-05-01", "2025-05-05", "2025-05-01", "2025-05-05", true},
		{"partial overlap", "2025-05-01", "2025-05-05", "2025-05-03", "2025-05-08", true},
		{"containment", "2025-05-01", "2025-05-10", "2025-05-03", "2025-05-05", true},
		{"touching endpoints do not conflict", "2025-05-01", "2025-05-05", "2025-05-05", "2025-05-08", false},
		{"touching the other way", "2025-05-05", "2025-05-08", "2025-05-01", "2025-05-05", false},
		{"disjoint", "2025-05-01", "2025-05-03", "2025-05-10", "2025-05-12", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := RangesOverlap(day(c.aIn), day(c.aOut), day(c.bIn), day(c.bOut))
			if got != c.overlap {
				t.Fatalf("RangesOverlap(%s..%s, %s..%s) = %v, want %v",
					c.aIn, c.aOut, c.bIn, c.bOut, got, c.overlap)
			}
			// symmetry
			if rev := RangesOverlap(day(c.bIn), day(c.bOut), day(c.aIn), day(c.aOut)); rev != got {
				t.Fatalf("overlap is not symmetric for %s..%s vs %s..%s", c.aIn, c.aOut, c.bIn, c.bOut)
			}
		})
	}
}
