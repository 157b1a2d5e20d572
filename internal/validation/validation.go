// Package validation holds the pure input validation and formatting
// rules shared by the signup and admin flows: person/company names,
// CPF/CNPJ document numbers, e-mail syntax and password strength.
// Every function is total — no I/O, no panics; failure is a false
// boolean or a best-effort string.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// ============================================================
// Names
// ============================================================

// NameRules holds the acceptance thresholds for ValidateName. The
// defaults mirror what the signup forms enforce; deployments can tune
// them without touching the logic.
type NameRules struct {
	MinLength int
	MinWords  int
}

// DefaultNameRules is used by ValidateName.
var DefaultNameRules = NameRules{MinLength: 4, MinWords: 2}

// connectors stay lower-case inside a formatted name (not as first word).
var connectors = map[string]bool{
	"de":  true,
	"da":  true,
	"do":  true,
	"dos": true,
	"das": true,
	"e":   true,
}

// FormatName canonicalizes a person or company name: collapses
// whitespace, capitalizes the first letter of each word and lower-cases
// the rest, keeping Portuguese connectors ("de", "da", ...) lower-case
// when they are not the first word. Idempotent; empty input yields "".
func FormatName(raw string) string {
	words := strings.Fields(raw)
	for i, w := range words {
		lower := strings.ToLower(w)
		if i > 0 && connectors[lower] {
			words[i] = lower
			continue
		}
		words[i] = capitalize(lower)
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first rune of an already lower-cased word.
func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ValidateName reports whether a name passes the default thresholds.
func ValidateName(value string) bool {
	return DefaultNameRules.Validate(value)
}

// Validate reports whether value, after trimming, has at least MinWords
// words and MinLength characters in total.
func (r NameRules) Validate(value string) bool {
	trimmed := strings.TrimSpace(value)
	if len([]rune(trimmed)) < r.MinLength {
		return false
	}
	return len(strings.Fields(trimmed)) >= r.MinWords
}

// ============================================================
// Document numbers (CPF / CNPJ)
// ============================================================

const (
	cpfLength  = 11
	cnpjLength = 14
)

// Digits strips every non-digit rune. Submitted document numbers travel
// in this internal digits-only representation.
func Digits(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}

// FormatRegister applies the progressive CPF/CNPJ mask as the user
// types: up to 11 digits it renders ###.###.###-##, from 12 on it
// renders ##.###.###/####-##. Input is truncated at 14 digits.
// Stripping the punctuation back out reproduces the truncated digits.
func FormatRegister(raw string) string {
	digits := Digits(raw)
	if len(digits) > cnpjLength {
		digits = digits[:cnpjLength]
	}

	if len(digits) <= cpfLength {
		return applyMask(digits, "###.###.###-##")
	}
	return applyMask(digits, "##.###.###/####-##")
}

// applyMask fills mask '#' slots with digits, emitting separators only
// while digits remain (partial input gets a matching prefix of the mask).
func applyMask(digits, mask string) string {
	var b strings.Builder
	pos := 0
	for _, m := range mask {
		if pos >= len(digits) {
			break
		}
		if m == '#' {
			b.WriteByte(digits[pos])
			pos++
		} else {
			b.WriteRune(m)
		}
	}
	return b.String()
}

// ValidateRegister reports whether value holds a valid CPF (11 digits)
// or CNPJ (14 digits): correct length after stripping punctuation, not
// a single repeated digit, and both mod-11 check digits matching.
func ValidateRegister(value string) bool {
	digits := Digits(value)

	switch len(digits) {
	case cpfLength:
		return !repeatedDigits(digits) && validCPF(digits)
	case cnpjLength:
		return !repeatedDigits(digits) && validCNPJ(digits)
	default:
		return false
	}
}

// repeatedDigits reports whether every digit is identical ("00000000000"
// passes the checksum but is not a real document).
func repeatedDigits(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// mod11 computes a check digit over digits with the given weights.
// Remainder 0 or 1 maps to 0, anything else to 11 − remainder.
func mod11(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func validCPF(digits string) bool {
	w1 := []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	w2 := []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}

	if mod11(digits[:9], w1) != int(digits[9]-'0') {
		return false
	}
	return mod11(digits[:10], w2) == int(digits[10]-'0')
}

func validCNPJ(digits string) bool {
	w1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	w2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

	if mod11(digits[:12], w1) != int(digits[12]-'0') {
		return false
	}
	return mod11(digits[:13], w2) == int(digits[13]-'0')
}

// ============================================================
// E-mail
// ============================================================

// emailPattern is a syntactic gate only: local part, "@", domain with at
// least one dot, no whitespace anywhere. Deliverability is not checked.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail reports whether value looks like an e-mail address.
func ValidateEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// ============================================================
// Password strength
// ============================================================

// PasswordStrength is the five independent checks recomputed on every
// keystroke of the password fields.
type PasswordStrength struct {
	Length    bool `json:"length"`
	Uppercase bool `json:"uppercase"`
	Lowercase bool `json:"lowercase"`
	Number    bool `json:"number"`
	Symbol    bool `json:"symbol"`
}

// Acceptable reports whether every check passed.
func (p PasswordStrength) Acceptable() bool {
	return p.Length && p.Uppercase && p.Lowercase && p.Number && p.Symbol
}

// CheckPasswordStrength evaluates the five predicates against candidate.
// An empty string yields all-false.
func CheckPasswordStrength(candidate string) PasswordStrength {
	s := PasswordStrength{
		Length: len([]rune(candidate)) >= 8,
	}
	for _, r := range candidate {
		switch {
		case r >= 'A' && r <= 'Z':
			s.Uppercase = true
		case r >= 'a' && r <= 'z':
			s.Lowercase = true
		case r >= '0' && r <= '9':
			s.Number = true
		default:
			s.Symbol = true
		}
	}
	return s
}
