package arabic

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace_only", "   \t\n ", ""},
		{"trim_and_collapse", "  بسبوسة   سادة  ", "بسبوسه ساده"},
		{"teh_marbuta_folds_to_heh", "بسبوسه", "بسبوسه"},
		{"teh_marbuta_variant_equal", "بسبوسة", "بسبوسه"},
		{"alef_maksura_folds_to_yeh", "حلوى", "حلوي"},
		{"hamza_alef_folds", "أيس كريم", "ايس كريم"},
		{"hamza_under_alef_folds", "إيس", "ايس"},
		{"madda_alef_folds", "آيس", "ايس"},
		{"tashkeel_stripped", "كَحْك", "كحك"},
		{"punctuation_to_space", "كحك،العيد!", "كحك العيد"},
		{"latin_lowercased", "MENU", "menu"},
		{"mixed_scripts", "سعر Nutella ؟", "سعر nutella"},
		{"digits_kept", "تورتة 2 كيلو", "تورته 2 كيلو"},
		{"tatweel_dropped", "كـحـك", "كحك"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"بسبوسة سادة",
		"  كحك العيد، بالجوز!  ",
		"أَهْلاً وسهلا",
		"Ice-Cream 3.5 LE",
		"ـكـحـكـ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent on %q: first %q, second %q", in, once, twice)
		}
	}
}

// Misspelled and canonical spellings of the same product must collide.
func TestNormalizeFoldsCommonMisspellings(t *testing.T) {
	pairs := [][2]string{
		{"بسبوسة", "بسبوسه"},
		{"كنافة", "كنافه"},
		{"حلاوى", "حلاوي"},
		{"أم علي", "ام علي"},
	}
	for _, p := range pairs {
		if Normalize(p[0]) != Normalize(p[1]) {
			t.Errorf("expected %q and %q to normalize identically, got %q vs %q",
				p[0], p[1], Normalize(p[0]), Normalize(p[1]))
		}
	}
}
