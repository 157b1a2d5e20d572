package validation_test

import (
	"strings"
	"testing"

	"github.com/fluxoclean/console-bfa-go/internal/validation"
)

// ============================================================
// FormatName / ValidateName
// ============================================================

func TestFormatName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"joão da silva", "João da Silva"},
		{"MARIA   DOS SANTOS", "Maria dos Santos"},
		{"  padaria do zé  ", "Padaria do Zé"},
		{"da silva", "Da Silva"}, // connector as first word is capitalized
		{"josé e maria ltda", "José e Maria Ltda"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := validation.FormatName(tt.in); got != tt.want {
			t.Errorf("FormatName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNameIdempotent(t *testing.T) {
	inputs := []string{"joão da silva", "COMÉRCIO DE ALIMENTOS LTDA", "a b c"}
	for _, in := range inputs {
		once := validation.FormatName(in)
		twice := validation.FormatName(once)
		if once != twice {
			t.Errorf("FormatName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Al", false},        // single word, too short
		{"Alberto", false},   // single word
		{"Jo Silva", true},   // two words, length ≥ 4
		{"a b", false},       // two words but total length < 4
		{"  João Silva  ", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := validation.ValidateName(tt.in); got != tt.want {
			t.Errorf("ValidateName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNameRulesCustomThresholds(t *testing.T) {
	strict := validation.NameRules{MinLength: 10, MinWords: 3}
	if strict.Validate("Jo Silva") {
		t.Error("expected Jo Silva to fail with stricter rules")
	}
	if !strict.Validate("João da Silva") {
		t.Error("expected João da Silva to pass with stricter rules")
	}
}

// ============================================================
// FormatRegister / ValidateRegister
// ============================================================

func TestFormatRegister(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"529", "529"},
		{"5299", "529.9"},
		{"52998224", "529.982.24"},
		{"52998224725", "529.982.247-25"},
		{"529982247251", "52.998.224/7251"},
		{"11222333000181", "11.222.333/0001-81"},
		{"11.222.333/0001-81", "11.222.333/0001-81"},
		{"112223330001819999", "11.222.333/0001-81"}, // truncated at 14 digits
		{"abc529def98", "529.98"},
	}
	for _, tt := range tests {
		if got := validation.FormatRegister(tt.in); got != tt.want {
			t.Errorf("FormatRegister(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRegisterRoundTrip(t *testing.T) {
	strip := func(s string) string {
		return strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, s)
	}

	inputs := []string{"5", "52998", "52998224725", "11222333000181", "112223330001819999"}
	for _, in := range inputs {
		digits := strip(in)
		if len(digits) > 14 {
			digits = digits[:14]
		}
		if got := strip(validation.FormatRegister(in)); got != digits {
			t.Errorf("round trip for %q: got digits %q, want %q", in, got, digits)
		}
	}
}

func TestValidateRegisterCPF(t *testing.T) {
	valid := []string{"52998224725", "529.982.247-25", "11144477735"}
	for _, v := range valid {
		if !validation.ValidateRegister(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}

	// Flipping either check digit must invalidate.
	invalid := []string{"52998224735", "52998224726", "529.982.247-26"}
	for _, v := range invalid {
		if validation.ValidateRegister(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestValidateRegisterCNPJ(t *testing.T) {
	if !validation.ValidateRegister("11222333000181") {
		t.Error("expected 11222333000181 to be valid")
	}
	if !validation.ValidateRegister("11.222.333/0001-81") {
		t.Error("expected formatted CNPJ to be valid")
	}
	if validation.ValidateRegister("11222333000191") {
		t.Error("flipped first check digit should be invalid")
	}
	if validation.ValidateRegister("11222333000182") {
		t.Error("flipped second check digit should be invalid")
	}
}

func TestValidateRegisterRejectsRepeatedDigits(t *testing.T) {
	for _, v := range []string{
		"00000000000", "11111111111", "99999999999",
		"00000000000000", "77777777777777",
	} {
		if validation.ValidateRegister(v) {
			t.Errorf("expected repeated-digit %q to be invalid", v)
		}
	}
}

func TestValidateRegisterRejectsWrongLength(t *testing.T) {
	for _, v := range []string{"", "123", "529982247", "123456789012", "123456789012345"} {
		if validation.ValidateRegister(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

// ============================================================
// ValidateEmail
// ============================================================

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"admin@fluxoclean.com.br", true},
		{"a@b.c", true},
		{"no-at-sign.com", false},
		{"missing@dot", false},
		{"with space@domain.com", false},
		{"user@dom ain.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validation.ValidateEmail(tt.in); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// ============================================================
// CheckPasswordStrength
// ============================================================

func TestCheckPasswordStrengthEmpty(t *testing.T) {
	s := validation.CheckPasswordStrength("")
	if s.Length || s.Uppercase || s.Lowercase || s.Number || s.Symbol {
		t.Errorf("empty password should fail every check, got %+v", s)
	}
	if s.Acceptable() {
		t.Error("empty password should not be acceptable")
	}
}

func TestCheckPasswordStrengthAllChecks(t *testing.T) {
	s := validation.CheckPasswordStrength("Abcdef1!")
	if !s.Length || !s.Uppercase || !s.Lowercase || !s.Number || !s.Symbol {
		t.Errorf("Abcdef1! should pass every check, got %+v", s)
	}
	if !s.Acceptable() {
		t.Error("Abcdef1! should be acceptable")
	}
}

func TestCheckPasswordStrengthPartial(t *testing.T) {
	tests := []struct {
		in   string
		want validation.PasswordStrength
	}{
		{"abcdefgh", validation.PasswordStrength{Length: true, Lowercase: true}},
		{"ABC123", validation.PasswordStrength{Uppercase: true, Number: true}},
		{"a1!", validation.PasswordStrength{Lowercase: true, Number: true, Symbol: true}},
	}
	for _, tt := range tests {
		if got := validation.CheckPasswordStrength(tt.in); got != tt.want {
			t.Errorf("CheckPasswordStrength(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
