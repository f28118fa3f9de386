package library

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Our Song", "our song"},
		{"LOVE COLLECTION", "love collection"},
		{"Rock 'n' Roll", "rock n roll"},
		{"What's Going On", "what s going on"},
		{"Love-Song_2024", "love song 2024"},
		{"  Moonlight   (Live)  ", "moonlight live"},
		{"Beyoncé", "beyonce"},
		{"Ça plane pour moi", "ca plane pour moi"},
		{"Sigur Rós · Ágætis byrjun", "sigur ros agætis byrjun"},
		{"愛の歌", "愛の歌"},
		{"", ""},
		{" !? ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
