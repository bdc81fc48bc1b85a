package document

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations lists lowercase tokens (without their final period) whose
// period never ends a sentence.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "sr": {}, "jr": {}, "st": {},
	"vs": {}, "etc": {}, "e.g": {}, "i.e": {}, "cf": {}, "al": {}, "inc": {}, "ltd": {},
	"co": {}, "corp": {}, "fig": {}, "no": {}, "vol": {}, "approx": {}, "dept": {},
	"est": {}, "mt": {}, "u.s": {}, "u.k": {}, "a.m": {}, "p.m": {}, "ph.d": {},
}

const closers = "\"')]”’"

// SplitSentences splits text into sentences. Whitespace is normalized to single
// spaces first. A sentence ends at '.', '!' or '?' (plus any closing quotes or
// brackets) followed by whitespace and a character that is not a lowercase
// letter. Periods that close a known abbreviation or a single-letter initial
// never end a sentence.
func SplitSentences(text string) []string {
	text = normalizeSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		end := i
		for end < len(text) {
			c, n := utf8.DecodeRuneInString(text[end:])
			if !strings.ContainsRune(closers, c) {
				break
			}
			end += n
		}
		if end >= len(text) || text[end] != ' ' {
			continue
		}
		next, _ := utf8.DecodeRuneInString(text[end+1:])
		if unicode.IsLower(next) {
			continue
		}
		if r == '.' && isAbbreviation(text[start:i]) {
			continue
		}

		sentences = append(sentences, text[start:end])
		start = end + 1
		i = start
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// isAbbreviation reports whether the last word of s, which ends with a period,
// is an abbreviation or an initial.
func isAbbreviation(s string) bool {
	word := s
	if idx := strings.LastIndexByte(s, ' '); idx >= 0 {
		word = s[idx+1:]
	}
	word = strings.TrimLeft(word, `"'([`)
	word = strings.TrimSuffix(word, ".")
	if word == "" {
		return false
	}
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		return unicode.IsLetter(r)
	}
	_, ok := abbreviations[strings.ToLower(word)]
	return ok
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
