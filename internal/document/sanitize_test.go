package document

import (
	"strings"
	"testing"
)

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Test Cafe",
		"Café Crème Brûlée",
		"Smörgåsbord № 5 ½",
		"中文菜单",
		"tab\tand\nnewline",
		"emoji 🍕 pizza",
		"\xff\xfe broken utf8",
		"~!@#$%^&*()_+",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
		for i := 0; i < len(once); i++ {
			if once[i] < 0x20 || once[i] > 0x7e {
				t.Fatalf("unsafe byte %#x in %q", once[i], once)
			}
		}
	}
}

func TestSanitizeFoldsAccents(t *testing.T) {
	if got := Sanitize("Café Crème"); got != "Cafe Creme" {
		t.Fatalf("unexpected fold: %q", got)
	}
}

func TestSanitizeOnlyDisallowed(t *testing.T) {
	if got := Sanitize("中文🍕"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := SanitizeStrict("§¶•"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestSanitizeStrictAllowList(t *testing.T) {
	got := SanitizeStrict("Menu #1: 50% off (today)\tonly!")
	if got != "Menu 1 50% off (today) only" {
		t.Fatalf("unexpected strict output: %q", got)
	}
	if again := Sanitize(got); again != got {
		t.Fatalf("strict output changed by Sanitize: %q", again)
	}
}

func TestDrawTextFallsBackWhenRejected(t *testing.T) {
	rec := newRecorder()
	rec.reject = func(s string) bool { return strings.ContainsRune(s, '#') }
	DrawText(rec, 1, 2, "Table #4 - 20%")
	texts := rec.texts()
	if len(texts) != 1 || texts[0] != "Table 4 - 20%" {
		t.Fatalf("expected strict fallback, got %v", texts)
	}
}
