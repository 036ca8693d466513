package repository

import (
	"errors"
	"testing"
)

// Concurrent admissions of a free range gap-lock each other and InnoDB
// kills one with error 1213; Create retries that loser so it surfaces as a
// date collision. This pins down which driver errors count as contention.
func TestIsLockContention(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadlock", errors.New("Error 1213: Deadlock found when trying to get lock; try restarting transaction"), true},
		{"lock wait timeout", errors.New("Error 1205: Lock wait timeout exceeded; try restarting transaction"), true},
		{"duplicate key", errors.New("Error 1062: Duplicate entry 'x' for key 'uq'"), false},
		{"dates unavailable sentinel", ErrDatesUnavailable, false},
		{"booking not found sentinel", ErrBookingNotFound, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := isLockContention(c.err); got != c.want {
				t.Fatalf("isLockContention(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}
