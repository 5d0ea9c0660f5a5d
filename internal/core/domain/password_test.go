package domain

import "testing"

func TestCheckPasswordPolicy(t *testing.T) {
	valid := []string{"Password123!", "Aa1$aaaa", "Ñandú#2024x"}
	for _, p := range valid {
		if err := CheckPasswordPolicy(p); err != nil {
			t.Errorf("expected %q to pass, got %v", p, err)
		}
	}

	weak := []string{"", "Aa1!", "password123!", "PASSWORD123!", "Password!!!", "Password123"}
	for _, p := range weak {
		if err := CheckPasswordPolicy(p); err != ErrWeakPassword {
			t.Errorf("expected %q to be rejected, got %v", p, err)
		}
	}
}
