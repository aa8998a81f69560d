package document

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const strictPunct = "-.,()%"

// Sanitize makes s safe for the canvas font: accents are folded to their
// base letter and anything outside printable 7-bit ASCII is dropped.
// It never panics and Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	if isPrintableASCII(s) {
		return s
	}
	out, err := foldASCII(s)
	if err != nil {
		return SanitizeStrict(s)
	}
	return out
}

// SanitizeStrict keeps ASCII letters, digits, spaces and -.,()% only.
// Any whitespace becomes a single space character.
func SanitizeStrict(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < 0x80 && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case strings.ContainsRune(strictPunct, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DrawText draws s at (x, y). If the canvas rejects the sanitized text,
// it retries once with the strict subset.
func DrawText(c Canvas, x, y float64, s string) {
	if err := c.Text(x, y, Sanitize(s)); err != nil {
		if errors.Is(err, ErrUnencodable) {
			_ = c.Text(x, y, SanitizeStrict(s))
		}
	}
}

func foldASCII(s string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", errors.New("text transform panicked")
		}
	}()
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), runes.Remove(runes.Predicate(notPrintableASCII)))
	out, _, err = transform.String(t, s)
	return out, err
}

func notPrintableASCII(r rune) bool {
	return r < 0x20 || r > 0x7e
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
