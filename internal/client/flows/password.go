package flows

import "strings"

// passwordSymbols is the punctuation set counted as "special character" by
// the strength checklist.
const passwordSymbols = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

// PasswordStrength is the per-criterion result of checking a candidate
// password.
type PasswordStrength struct {
	Length bool // at least 8 characters
	Upper  bool
	Lower  bool
	Digit  bool
	Symbol bool
}

// CheckPassword evaluates the five strength criteria.
func CheckPassword(password string) PasswordStrength {
	s := PasswordStrength{Length: len(password) >= 8}
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			s.Upper = true
		case r >= 'a' && r <= 'z':
			s.Lower = true
		case r >= '0' && r <= '9':
			s.Digit = true
		case strings.ContainsRune(passwordSymbols, r):
			s.Symbol = true
		}
	}
	return s
}

// Score counts how many criteria hold.
func (s PasswordStrength) Score() int {
	n := 0
	for _, ok := range [...]bool{s.Length, s.Upper, s.Lower, s.Digit, s.Symbol} {
		if ok {
			n++
		}
	}
	return n
}

// Strong reports whether at least 4 of the 5 criteria hold.
func (s PasswordStrength) Strong() bool {
	return s.Score() >= 4
}
