package core

import "testing"

func TestCanonicalHandle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces removed", "Jane Doe", "janedoe"},
		{"punctuation removed", "jane.doe", "janedoe"},
		{"underscores removed", "Anna_Lena 99", "annalena99"},
		{"umlaut kept", "Jörg Müller", "jörgmüller"},
		{"uppercase umlaut lowered", "ÄRZTE", "ärzte"},
		{"decomposed accent composed", "E\u0301mile", "\u00e9mile"},
		{"precomposed accent", "\u00c9mile", "\u00e9mile"},
		{"emoji dropped", "Lisa ✨", "lisa"},
		{"no letters falls back", "!! ??", "!!??"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalHandle(tt.input); got != tt.want {
				t.Errorf("CanonicalHandle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonicalHandle_EquivalentForms(t *testing.T) {
	decomposed := CanonicalHandle("Zoe\u0308 Kraft")
	precomposed := CanonicalHandle("Zo\u00eb Kraft")
	if decomposed != precomposed {
		t.Errorf("decomposed = %q, precomposed = %q, want equal", decomposed, precomposed)
	}
}
