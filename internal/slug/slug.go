package slug

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases text, folds diacritics on Latin letters ("Brontë" ->
// "bronte") and collapses every run of characters that are not letters or
// digits into a single "-". Letters of other scripts are kept as they are, so
// "村上春樹" stays "村上春樹". Text with no letters or digits at all gets a
// placeholder derived from its hash; only blank input yields "".
func Slugify(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingSep := false
	for _, r := range strings.ToLower(foldLatin(text)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	if b.Len() == 0 && strings.TrimSpace(text) != "" {
		return placeholder(text)
	}
	return b.String()
}

// foldLatin drops combining marks that follow a Latin base letter. Marks on
// other scripts (kana voicing, Devanagari vowel signs) carry meaning and stay.
func foldLatin(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	latin := false
	for _, r := range norm.NFD.String(text) {
		if unicode.Is(unicode.Mn, r) {
			if latin {
				continue
			}
		} else {
			latin = unicode.Is(unicode.Latin, r)
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

func placeholder(text string) string {
	h := fnv.New32a()
	h.Write([]byte(text))
	return fmt.Sprintf("n-%08x", h.Sum32())
}

// Deslugify turns a slug back into something displayable. It is lossy:
// punctuation is gone and only the first letter of each word is upper-cased.
func Deslugify(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Resolve is the single place that decides between a persisted slug and one
// derived from the display name. Derived slugs are never written back here.
func Resolve(stored, name string) string {
	if s := strings.TrimSpace(stored); s != "" {
		return s
	}
	return Slugify(name)
}
