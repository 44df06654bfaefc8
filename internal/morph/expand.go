package morph

import (
    "strings"
    "unicode"
    "unicode/utf8"

    "github.com/jinzhu/inflection"
    "github.com/kljensen/snowball/english"

    "github.com/hyperifyio/mdmodify/internal/terms"
)

// osPlurals end in a consonant followed by "o" but take a plain -s.
var osPlurals = map[string]struct{}{
    "photo": {}, "piano": {}, "halo": {}, "solo": {}, "canto": {}, "memo": {},
    "kilo": {}, "zero": {}, "dynamo": {}, "kimono": {}, "logo": {}, "macro": {},
    "metro": {}, "auto": {}, "disco": {}, "casino": {}, "albino": {}, "rhino": {},
    "inferno": {}, "ghetto": {}, "manifesto": {}, "commando": {}, "lingo": {},
    "espresso": {}, "euro": {}, "hippo": {}, "typo": {}, "combo": {}, "demo": {},
    "promo": {}, "silo": {}, "todo": {}, "limo": {}, "credo": {}, "jumbo": {},
}

// Stem returns the English stem of word, lowercased.
func Stem(word string) string {
    return english.Stem(word, true)
}

// Plural returns the plural of a single word. A consonant followed by "o"
// takes -oes ("hero", "two") unless the word is listed in osPlurals.
func Plural(word string) string {
    lower := strings.ToLower(word)
    if n := len(lower); n >= 2 && lower[n-1] == 'o' && !strings.ContainsRune("aeiouy", rune(lower[n-2])) {
        if _, ok := osPlurals[lower]; !ok {
            return word + "es"
        }
        return word + "s"
    }
    return inflection.Plural(word)
}

// Units returns the multi-word units for matchers that request Stemming or
// Lemmatisation. Besides the term itself, a unit with the last word in its
// plural form is added when that form differs.
func Units(matchers []*terms.Matcher) [][]string {
    var units [][]string
    for _, m := range matchers {
        if m.Type&(terms.Stemming|terms.Lemmatisation) == 0 || !strings.Contains(m.Term, " ") {
            continue
        }
        words := strings.Split(m.Term, " ")
        units = append(units, words)

        lastWord := words[len(words)-1]
        if plural := Plural(lastWord); plural != lastWord {
            alt := make([]string, len(words))
            copy(alt, words)
            alt[len(alt)-1] = plural
            units = append(units, alt)
        }
    }
    return units
}

// Expand returns matchers followed by clones for inflected forms found in
// content. A token becomes a clone of the first Stemming matcher that accepts
// its stem; the clone links the token's literal text to the same anchor.
func Expand(content string, matchers []*terms.Matcher) ([]*terms.Matcher, error) {
    stemming := false
    for _, m := range matchers {
        if m.Type&terms.Lemmatisation != 0 {
            return nil, terms.ErrNotImplemented
        }
        if m.Type&terms.Stemming != 0 {
            stemming = true
        }
    }
    if !stemming {
        return matchers, nil
    }

    original := matchers
    out := make([]*terms.Matcher, len(matchers), len(matchers)+16)
    copy(out, matchers)

    processed := make(map[string]struct{}, len(matchers))
    for _, m := range matchers {
        processed[m.Term] = struct{}{}
    }

    for _, token := range Tokenize(content, Units(matchers)) {
        if _, ok := processed[token]; ok {
            continue
        }
        processed[token] = struct{}{}

        stem := matchCase(token, Stem(token))
        for _, m := range original {
            if m.Type&terms.Stemming != 0 && m.MatchTerm(stem) {
                out = append(out, m.Clone(token))
                break
            }
        }
    }
    return out, nil
}

// matchCase capitalizes stem when token is capitalized and both start with
// the same letter.
func matchCase(token, stem string) string {
    t, _ := utf8.DecodeRuneInString(token)
    if !unicode.IsUpper(t) {
        return stem
    }
    s, size := utf8.DecodeRuneInString(stem)
    if size == 0 || unicode.ToUpper(s) != t {
        return stem
    }
    return string(t) + stem[size:]
}
