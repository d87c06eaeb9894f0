package inflect

import "strings"

func tenseRules(protected func(token) (string, bool)) []rule {
	return []rule{
		{"corrections", protected},
		{"irregular-verb", func(t token) (string, bool) {
			out, ok := irregularVerbs[t.word]
			return out, ok
		}},
		{"prefixed-irregular-verb", func(t token) (string, bool) {
			prefix := verbPrefixes.FindString(t.word)
			if prefix == "" {
				return "", false
			}
			if out, ok := irregularVerbs[t.word[len(prefix):]]; ok {
				return prefix + out, true
			}
			return "", false
		}},
		{"no-tense-suffix", when(func(t token) bool { return t.suffix == "" }, keepWord)},
		{"short-stem", when(func(t token) bool { return len(t.stem) <= 1 }, keepWord)},
		{"ing-non-verb", when(func(t token) bool { return t.suffix == "ing" && ingNonVerbs.has(t.word) }, keepWord)},
		{"consonant-only-stem", when(func(t token) bool { return consonantOnlyStem.MatchString(t.stem) }, keepWord)},

		// One syllable roots.
		{"one-syllable-ll", when(func(t token) bool { return oneSyllableLL.MatchString(t.stem) }, keepStem)},
		{"two-syllable-ying", when(func(t token) bool { return twoSyllableYing.MatchString(t.word) }, func(t token) string {
			return t.word[:1] + "ie"
		})},
		{"one-syllable-yed", when(func(t token) bool { return oneSyllableYed.MatchString(t.word) }, func(t token) string {
			return t.word[:len(t.word)-1]
		})},
		{"one-syllable-ied", when(func(t token) bool { return oneSyllableIed.MatchString(t.word) }, func(t token) string {
			return t.word[:1] + "ie"
		})},
		{"vowel-consonant-stem", when(func(t token) bool { return vowelConsonantStem.MatchString(t.stem) }, stemPlusE)},

		// Letter patterns.
		{"double-consonant", when(func(t token) bool {
			return endsInDoubledConsonant(t.stem) && !keepDoubleStems.has(t.stem)
		}, func(t token) string { return t.stem[:len(t.stem)-1] })},
		{"consonant-vowel-consonant", when(func(t token) bool { return consonantVowelConso.MatchString(t.stem) }, stemPlusE)},

		// Vowel pairs pronounced as two syllables.
		{"syllable-division", when(func(t token) bool {
			return syllableDivisionStems.has(t.stem) ||
				strings.HasSuffix(t.stem, "creat") ||
				strings.HasSuffix(t.stem, "lineat") ||
				strings.HasSuffix(t.stem, "caseat")
		}, stemPlusE)},
		{"ias-stem", when(func(t token) bool {
			return strings.HasSuffix(t.stem, "alias") || strings.HasSuffix(t.stem, "bias")
		}, keepStem)},
		{"ia-consonant", when(func(t token) bool { return iaConsonant.MatchString(t.stem) }, stemPlusE)},

		// Vowel digraphs.
		{"aug-stem", when(stemSuffix("aug"), stemPlusE)},
		{"eath-keep", when(stemIn(eathKeepStems), keepStem)},
		{"eath-stem", when(stemSuffix("eath"), stemPlusE)},
		{"eeth-stem", when(stemIn(eethAddEStems), stemPlusE)},
		{"eed-verb", when(func(t token) bool { return eedVerbs.has(t.word) }, func(t token) string {
			return t.word[:len(t.word)-1]
		})},
		{"eed-non-verb", when(func(t token) bool { return strings.HasSuffix(t.word, "eed") }, keepWord)},
		{"eun-stem", when(stemSuffix("eun"), stemPlusE)},
		{"ie-digraph", when(stemIs("julienn"), stemPlusE)},
		{"oo-digraph", when(stemIs("sooge"), stemPlusE)},
		{"ou-digraph", when(func(t token) bool {
			return ouAddEStems.has(t.stem) || strings.HasSuffix(t.stem, "oug")
		}, stemPlusE)},
		{"ua-digraph", when(func(t token) bool { return uaConsonant.MatchString(t.stem) }, stemPlusE)},
		{"ue-digraph", when(stemIs("queu"), stemPlusE)},
		{"ui-digraph", when(func(t token) bool {
			return uiConsonant.MatchString(t.stem) || t.stem == "requit"
		}, stemPlusE)},

		// Remaining stems by final letter.
		{"c-stem", when(stemSuffix("c"), stemPlusE)},
		{"ff-stem", when(stemIn(ffAddEStems), stemPlusE)},
		{"rdl-g-stem", when(func(t token) bool { return rdlG.MatchString(t.stem) }, stemPlusE)},
		{"ang-stem", when(func(t token) bool {
			return strings.HasSuffix(t.stem, "chang") ||
				(strings.HasSuffix(t.stem, "rang") && !rangKeepStems.has(t.stem))
		}, stemPlusE)},
		{"eng-stem", when(stemSuffix("eng"), stemPlusE)},
		{"ing-stem", when(func(t token) bool {
			return ingStemAddE.MatchString(t.stem) && !ingingVerbs.has(t.word) && !ingingStems.has(t.stem)
		}, stemPlusE)},
		{"ung-stem", when(func(t token) bool {
			return strings.HasSuffix(t.stem, "ung") && !ungKeepStems.has(t.stem)
		}, stemPlusE)},
		{"ng-stem", when(stemIn(ngAddEStems), stemPlusE)},
		{"ied-verb", when(func(t token) bool { return strings.HasSuffix(t.word, "ied") }, func(t token) string {
			return t.stem[:len(t.stem)-1] + "y"
		})},
		{"multi-syllable-ll", when(stemIn(multiSyllabLL), keepStem)},
		{"all-stem", when(func(t token) bool {
			return allStem.MatchString(t.stem) && !allDropStems.has(t.stem)
		}, keepStem)},
		{"ell-stem", when(stemIn(ellAddEStems), stemPlusE)},
		{"tell-stem", when(stemSuffix("tell"), keepStem)},
		{"ill-stem", when(func(t token) bool {
			return illStem.MatchString(t.stem) && !illDropStems.has(t.stem)
		}, keepStem)},
		{"ll-stem", when(stemSuffix("ll"), func(t token) string { return t.stem[:len(t.stem)-1] })},
		{"consonant-l", when(func(t token) bool { return consonantL.MatchString(t.stem) }, stemPlusE)},
		{"consonant-vowel-r", when(func(t token) bool { return consonantAIUR.MatchString(t.stem) }, stemPlusE)},
		{"er-stem", when(stemIn(erAddEStems), stemPlusE)},
		{"or-stem", when(func(t token) bool {
			return orAddEStems.has(t.stem) ||
				consonantsOr.MatchString(t.stem) ||
				(ldhpOr.MatchString(t.stem) && !orNounEndings.MatchString(t.stem))
		}, stemPlusE)},
		{"uir-stem", when(stemSuffix("uir"), stemPlusE)},
		{"ss-stem", when(stemSuffix("ss"), keepStem)},
		{"s-stem", when(stemSuffix("s"), stemPlusE)},
		{"u-stem", when(stemSuffix("u"), stemPlusE)},
		{"v-stem", when(stemSuffix("v"), stemPlusE)},
		{"zz-drop", when(stemIn(zzDropStems), func(t token) string { return t.stem[:len(t.stem)-1] })},
		{"zz-stem", when(stemSuffix("zz"), keepStem)},
		{"z-stem", when(stemSuffix("z"), stemPlusE)},
		{"bare-stem", func(t token) (string, bool) { return t.stem, true }},
	}
}

// endsInDoubledConsonant matches a final pair such as "pp" or "gg". Doubled
// f, l, s and z are excluded.
func endsInDoubledConsonant(stem string) bool {
	n := len(stem)
	if n < 2 || stem[n-1] != stem[n-2] {
		return false
	}
	return strings.IndexByte("bcdghjkmnpqrtv", stem[n-1]) >= 0
}
