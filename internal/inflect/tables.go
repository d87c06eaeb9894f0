package inflect

import "regexp"

type set map[string]struct{}

func newSet(words ...string) set {
	s := make(set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s set) has(word string) bool {
	_, ok := s[word]
	return ok
}

// Irregular forms are matched before any suffix rule.
var (
	irregularVerbs = map[string]string{
		"was":     "is",
		"were":    "are",
		"had":     "has",
		"have":    "has",
		"did":     "do",
		"went":    "go",
		"ran":     "run",
		"been":    "be",
		"bled":    "bleed",
		"bred":    "breed",
		"brought": "bring",
		"chose":   "choose",
		"fed":     "feed",
		"fled":    "flee",
		"led":     "lead",
		"saw":     "see",
		"sped":    "speed",
		"threw":   "throw",
		"knew":    "know",
	}

	irregularNouns = map[string]string{
		"children": "child",
		"geese":    "goose",
		"men":      "man",
		"women":    "woman",
		"teeth":    "tooth",
		"feet":     "foot",
		"mice":     "mouse",
		"people":   "person",
		"sheep":    "sheep",
		"deer":     "deer",
		"fish":     "fish",
		"moose":    "moose",
		"series":   "series",
		"species":  "species",
		"corps":    "corps",
		"lens":     "lens",
		"quizzes":  "quiz",
	}

	// "under" must precede "un".
	verbPrefixes = regexp.MustCompile(`^(re|under|un|over|dis|mis|out)`)
)

// Tense tables.
var (
	ingNonVerbs = newSet(
		"bearing", "beesting", "beeswing", "building", "cabling", "ceiling", "cladding",
		"coupling", "cowling", "darling", "duckling", "fastening", "fitting", "fledgling",
		"hamstring", "hireling", "inkling", "lightning", "missing", "monitoring", "morning",
		"outing", "packing", "quisling", "underling", "upbringing", "unwilling", "sapling",
		"shilling", "sibling", "siding", "tailing", "warning", "willing", "wiring",
	)

	consonantOnlyStem   = regexp.MustCompile(`^[b-df-hj-np-tv-xz]+$`)
	oneSyllableLL       = regexp.MustCompile(`^[b-df-hj-np-tv-z]+[aeiou]ll$`)
	twoSyllableYing     = regexp.MustCompile(`^[b-df-hj-np-tv-z]ying$`)
	oneSyllableYed      = regexp.MustCompile(`^[b-df-hj-np-tv-z]yed$`)
	oneSyllableIed      = regexp.MustCompile(`^[b-df-hj-np-tv-z]ied$`)
	vowelConsonantStem  = regexp.MustCompile(`^[aeiou][b-df-hj-np-tv-z]$`)
	consonantVowelConso = regexp.MustCompile(`[b-df-hj-np-tv-z][aeiou][b-df-hj-npqstvz]$`)

	// Stems whose final doubled consonant belongs to the root.
	keepDoubleStems = newSet(
		"ebb", "add", "superadd", "odd", "redd", "egg", "inn", "err", "shirr", "burr",
		"deburr", "flurr", "skirr", "purr", "putt", "vaxx",
	)

	syllableDivisionStems = newSet(
		"enucleat", "ideat", "malleat", "nucleat", "permeat", "illaqueat", "laureat", "nauseat",
	)
	iaConsonant = regexp.MustCompile(`ia[b-df-hjkmnp-tv-z]$`)

	eathKeepStems = newSet("bequeath", "freath")
	eethAddEStems = newSet("teeth", "seeth")
	eedVerbs      = newSet(
		"agreed", "decreed", "demareed", "disagreed", "emceed", "farseed", "filigreed", "freed",
		"fricasseed", "garnisheed", "gratineed", "guaranteed", "kneed", "leveed", "peed", "pureed",
		"shivareed", "squeegeed", "squeed", "teed", "treed", "trusteed",
	)
	ouAddEStems   = newSet("rout", "misrout", "rerout", "douch", "accouch")
	uaConsonant   = regexp.MustCompile(`ua[dgktr]$`)
	uiConsonant   = regexp.MustCompile(`ui[rdl]$`)
	ffAddEStems   = newSet("coiff", "piaff")
	rdlG          = regexp.MustCompile(`[rdl]g$`)
	rangKeepStems = newSet("boomerang", "prang")
	ingStemAddE   = regexp.MustCompile(`[bcf-hjkmp-rtv]ing$`)
	ingingVerbs   = newSet("bringing", "outringing", "outspringing", "understringing", "unstringing", "upspringing")
	ingingStems   = newSet("ping", "overstring", "ring", "spring", "string", "wring")
	ungKeepStems  = newSet("dung", "bung")
	ngAddEStems   = newSet("flang", "twing", "spong")
	multiSyllabLL = newSet(
		"bankroll", "bespell", "booksell", "bushfell", "doomscroll", "farewell", "hairpull",
		"handsell", "inscroll", "kvell", "logroll", "misspell", "outpoll", "outpull", "outroll",
		"outsell", "outswell", "outwell", "outyell", "oversell", "outsmell", "overswell", "presell",
		"reenroll", "repoll", "reroll", "resell", "respell", "steamroll", "unroll", "undersell",
		"uproll", "upsell", "upswell", "upwell",
	)
	allStem       = regexp.MustCompile(`([bct]all|thrall)$`)
	allDropStems  = newSet("caball", "gimball", "metall", "pedastall", "totall")
	ellAddEStems  = newSet("chandell", "cordell")
	illStem       = regexp.MustCompile(`[bdf-hj-np-tw-z]ill$`)
	illDropStems  = newSet("imperill", "perill", "postill")
	consonantL    = regexp.MustCompile(`[b-df-hj-np-tvz]l$`)
	consonantAIUR = regexp.MustCompile(`[b-df-hj-np-tv-z]+[aiu]r$`)
	erAddEStems   = newSet("adher", "interfer", "premier", "rever")
	orAddEStems   = newSet("snor", "stor", "restor", "bor", "chokebor", "rebor", "counterbor")
	consonantsOr  = regexp.MustCompile(`^[b-df-hj-np-tv-z]+or$`)
	ldhpOr        = regexp.MustCompile(`[ldhp]or$`)
	orNounEndings = regexp.MustCompile(`(color|tailor|sailor|author|anchor|vapor)$`)
	zzDropStems   = newSet("whizz", "quizz")
)

// Plural tables.
var (
	ixPlurals = newSet("matrices", "appendices")
	exPlurals = newSet("indices", "vertices", "vortices")
	isPlurals = newSet(
		"theses", "analyses", "crises", "diagnoses", "oases", "parentheses", "syntheses",
		"ellipses", "hypotheses", "emphases",
	)

	// Plurals that only drop the final "s" (case -> cases, size -> sizes).
	sePlurals = newSet(
		"abuses", "accuses", "advises", "analyses", "arises", "bases", "bruises", "cases", "causes",
		"ceases", "chases", "cheeses", "chooses", "clauses", "closes", "collapses", "comprises",
		"compromises", "confuses", "corpses", "courses", "cruises", "curses", "databases",
		"decreases", "defenses", "diagnoses", "diseases", "doses", "endorses", "enterprises",
		"excuses", "exercises", "expenses", "exposes", "franchises", "fuses", "glimpses", "horses", "hoses",
		"houses", "imposes", "impulses", "increases", "leases", "licenses", "loses", "muses",
		"noises", "noses", "nurses", "offenses", "opposes", "pauses", "phases", "phrases", "pleases",
		"poses", "praises", "premises", "promises", "proposes", "pulses", "purchases", "purposes",
		"purses", "raises", "realises", "recognises", "refuses", "releases", "responses",
		"reverses", "rises", "rinses", "roses", "senses", "showcases", "specialises", "spouses",
		"suitcases", "surprises", "universes", "uses", "vases", "verses", "warehouses",
	)
	zePlurals  = newSet("analyzes", "amazes", "blazes", "freezes", "prizes", "sizes")
	chePlurals = newSet("aches", "headaches", "niches")

	// -ves plurals of -ve nouns; these must not become -f or -fe.
	vePlurals = newSet(
		"valves", "drives", "curves", "grooves", "sleeves", "detectives", "archives", "motives",
		"objectives", "gloves", "moves", "nerves", "serves", "saves", "waves", "receives",
		"achieves", "believes", "relieves", "reserves", "preserves", "removes", "improves",
		"approves", "solves", "resolves", "involves", "revolves", "dissolves", "derives",
		"arrives", "survives", "olives", "natives", "incentives", "adhesives", "explosives",
		"abrasives", "alternatives", "representatives", "additives", "preservatives",
		"locomotives", "hives", "dives", "gives", "caves", "graves", "slaves",
	)

	umPlurals = newSet("data", "bacteria", "memoranda", "strata", "curricula", "millennia", "spectra", "referenda")
	onPlurals = newSet("criteria", "phenomena", "automata")
	usPlurals = newSet("radii", "foci", "fungi", "nuclei", "cacti", "stimuli")
	asWords   = newSet("alias", "atlas", "bias", "canvas", "pancreas", "whereas")
)
