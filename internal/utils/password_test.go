package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Fatal("wrong password accepted")
	}
	if VerifyPassword("not-a-bcrypt-hash", "anything") {
		t.Fatal("garbage hash accepted")
	}
}

func TestNormalizeCost(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero falls back to default", 0, bcrypt.DefaultCost},
		{"negative falls back to default", -3, bcrypt.DefaultCost},
		{"too high falls back to default", 99, bcrypt.DefaultCost},
		{"minimum passes through", bcrypt.MinCost, bcrypt.MinCost},
		{"typical value passes through", 12, 12},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NormalizeCost(c.in); got != c.want {
				t.Fatalf("NormalizeCost(%d) = %d, want %d", c.in, got, c.want)
			}
		})
	}
}

// A misconfigured cost must still yield a verifiable hash.
func TestHashPasswordWithBadCost(t *testing.T) {
	hash, err := HashPassword("some password", 0)
	if err != nil {
		t.Fatalf("HashPassword with cost 0: %v", err)
	}
	if !VerifyPassword(hash, "some password") {
		t.Fatal("hash from normalized cost did not verify")
	}
}
