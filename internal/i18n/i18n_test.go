package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestPrinterTranslates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  language.Tag
		want string
	}{
		{tag: language.BrazilianPortuguese, want: "Evento 1 de 4"},
		{tag: language.AmericanEnglish, want: "Event 1 of 4"},
	}
	for _, tt := range tests {
		if got := Printer(tt.tag).Sprintf("progress.counter", 1, 4); got != tt.want {
			t.Fatalf("Sprintf(progress.counter) for %s = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	t.Parallel()

	base := messages[Default]
	for tag, msgs := range messages {
		if len(msgs) != len(base) {
			t.Fatalf("%s has %d messages, want %d", tag, len(msgs), len(base))
		}
		for key := range base {
			if _, ok := msgs[key]; !ok {
				t.Fatalf("%s missing %q", tag, key)
			}
		}
	}
}

func TestParseTag(t *testing.T) {
	t.Parallel()

	if tag, ok := ParseTag("en"); !ok || tag != language.AmericanEnglish {
		t.Fatalf("ParseTag(en) = %v, %v", tag, ok)
	}
	if tag, ok := ParseTag("pt"); !ok || tag != language.BrazilianPortuguese {
		t.Fatalf("ParseTag(pt) = %v, %v", tag, ok)
	}
	if _, ok := ParseTag("not a tag!"); ok {
		t.Fatal("ParseTag(garbage) ok = true")
	}
	if _, ok := ParseTag(""); ok {
		t.Fatal("ParseTag(\"\") ok = true")
	}
}

func TestParseAcceptLanguage(t *testing.T) {
	t.Parallel()

	if tag, ok := ParseAcceptLanguage("en-GB,en;q=0.8"); !ok || tag != language.AmericanEnglish {
		t.Fatalf("ParseAcceptLanguage() = %v, %v", tag, ok)
	}
}

func TestLiteralPercentSurvivesFormatting(t *testing.T) {
	t.Parallel()

	if got := Printer(language.AmericanEnglish).Sprintf("footer.love"); got != "100% Love" {
		t.Fatalf("Sprintf(footer.love) = %q, want %q", got, "100% Love")
	}
}
