package episodes

import (
	"regexp"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Attack on Titan: Final Season", "attack-on-titan-final-season"},
		{"One Piece", "one-piece"},
		{"Re:ZERO -Starting Life in Another World-", "rezero-starting-life-in-another-world-"},
		{"Dr. STONE", "dr-stone"},
		{"86 EIGHTY-SIX", "86-eighty-six"},
		{"  Spaced   Out  ", "spaced-out"},
		{"Oshi no Ko", "oshi-no-ko"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := Slug(tt.title); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugDeterministicAndClean(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]*$`)
	titles := []string{
		"Fullmetal Alchemist: Brotherhood",
		"STEINS;GATE",
		"Kaguya-sama: Love Is War",
		"Mob Psycho 100 II",
	}
	for _, title := range titles {
		first := Slug(title)
		if first != Slug(title) {
			t.Fatalf("Slug(%q) not deterministic", title)
		}
		if !valid.MatchString(first) {
			t.Errorf("Slug(%q) = %q contains characters outside [a-z0-9-]", title, first)
		}
	}
}

func TestSlugTransliteratesNonASCII(t *testing.T) {
	got := Slug("Pokémon")
	if got != "pokemon" {
		t.Fatalf("Slug(Pokémon) = %q, want pokemon", got)
	}
}
