package inflect

import "strings"

func singularRules(protected func(token) (string, bool)) []rule {
	return []rule{
		{"corrections", protected},
		{"irregular-noun", func(t token) (string, bool) {
			out, ok := irregularNouns[t.word]
			return out, ok
		}},
		{"short-word", when(func(t token) bool { return len(t.word) <= 3 }, keepWord)},

		// -es plurals. The final rule of this group catches every -es word.
		{"ices-ix", when(wordIn(ixPlurals), func(t token) string { return trim(t.word, 3) + "x" })},
		{"ices-ex", when(wordIn(exPlurals), func(t token) string { return trim(t.word, 4) + "ex" })},
		{"ses-sis", when(wordIn(isPlurals), func(t token) string { return trim(t.word, 2) + "is" })},
		{"sibilant-es", when(isSibilantPlural, func(t token) string {
			if sePlurals.has(t.word) || zePlurals.has(t.word) || chePlurals.has(t.word) {
				return trim(t.word, 1)
			}
			return trim(t.word, 2)
		})},
		{"ies-y", when(func(t token) bool {
			return strings.HasSuffix(t.word, "ies") && len(t.word) > 4
		}, func(t token) string { return trim(t.word, 3) + "y" })},
		{"oes-o", when(wordSuffix("oes"), func(t token) string { return trim(t.word, 2) })},
		{"ves-ve", when(wordIn(vePlurals), func(t token) string { return trim(t.word, 1) })},
		{"ives-ife", when(wordSuffix("ives"), func(t token) string { return trim(t.word, 3) + "fe" })},
		{"ves-f", when(wordSuffix("ves"), func(t token) string { return trim(t.word, 3) + "f" })},
		{"es-e", when(wordSuffix("es"), func(t token) string { return trim(t.word, 1) })},

		// Latin and Greek plurals.
		{"a-um", when(wordIn(umPlurals), func(t token) string { return trim(t.word, 1) + "um" })},
		{"a-on", when(wordIn(onPlurals), func(t token) string { return trim(t.word, 1) + "on" })},
		{"i-us", when(wordIn(usPlurals), func(t token) string { return trim(t.word, 1) + "us" })},

		{"vowel-ys", when(func(t token) bool {
			return strings.HasSuffix(t.word, "ys") && isVowel(t.word[len(t.word)-3])
		}, func(t token) string { return trim(t.word, 1) })},
		{"ss-unchanged", when(wordSuffix("ss"), keepWord)},
		{"as-singular", when(wordIn(asWords), keepWord)},
		{"s-drop", when(func(t token) bool {
			if !strings.HasSuffix(t.word, "s") {
				return false
			}
			prev := t.word[len(t.word)-2]
			return prev != 'i' && prev != 'u'
		}, func(t token) string { return trim(t.word, 1) })},
	}
}

// isSibilantPlural matches -ses, -xes, -zes, -shes and -ches.
func isSibilantPlural(t token) bool {
	w := t.word
	if !strings.HasSuffix(w, "es") {
		return false
	}
	switch w[len(w)-3] {
	case 's', 'x', 'z':
		return true
	}
	pair := w[len(w)-4 : len(w)-2]
	return pair == "sh" || pair == "ch"
}

func isVowel(b byte) bool {
	return strings.IndexByte("aeiou", b) >= 0
}

func trim(word string, n int) string {
	return word[:len(word)-n]
}

func wordIn(s set) func(t token) bool {
	return func(t token) bool { return s.has(t.word) }
}

func wordSuffix(suffix string) func(t token) bool {
	return func(t token) bool { return strings.HasSuffix(t.word, suffix) }
}
