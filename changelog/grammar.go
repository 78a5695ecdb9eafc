package changelog

import "regexp"

// grammar is the compiled pattern table for the changelog format. It is
// built once, never mutated afterwards, and handed by reference to every
// parser instance.
type grammar struct {
	heading      *regexp.Regexp
	blank        *regexp.Regexp
	change       *regexp.Regexp
	trailer      *regexp.Regexp
	emptyTrailer *regexp.Regexp
	keyValue     *regexp.Regexp
	urgencyValue *regexp.Regexp
	xbcsKey      *regexp.Regexp
	emacsVars    *regexp.Regexp
	vimVars      *regexp.Regexp
	vcsKeyword   *regexp.Regexp
	comment      *regexp.Regexp
	blockComment *regexp.Regexp
	oldHeadings  []*regexp.Regexp
	version      *regexp.Regexp
}

var defaultGrammar = newGrammar()

func newGrammar() *grammar {
	// Character set of package names, shared by the current and one of
	// the legacy heading shapes.
	const nameChars = `[-+0-9a-z.]`
	// Trailer timestamp, e.g. "Mon, 02 Jan 2006 15:04:05 -0700". The
	// trailing whitespace run stays inside the capture so rendering
	// reproduces it.
	const date = `(\w+,\s*)?\d{1,2}\s+\w+\s+\d{4}\s+\d{1,2}:\d\d:\d\d\s+[-+]\d{4}(\s+\([^\\()]\))?`

	return &grammar{
		heading:      regexp.MustCompile(`(?i)^(\w` + nameChars + `*) \(([^() \t]+)\)((\s+` + nameChars + `+)+);`),
		blank:        regexp.MustCompile(`^\s*$`),
		change:       regexp.MustCompile(`^\s\s+.*$`),
		trailer:      regexp.MustCompile(`^ -- (.*) <(.*)>(  ?)(` + date + `\s*)$`),
		emptyTrailer: regexp.MustCompile(`^ --(?: (.*) <(.*)>(  ?)(` + date + `))?\s*$`),
		keyValue:     regexp.MustCompile(`(?i)^([-0-9a-z]+)=\s*(.*\S)$`),
		urgencyValue: regexp.MustCompile(`(?i)^([-0-9a-z]+)((\s+.*)?)$`),
		xbcsKey:      regexp.MustCompile(`(?i)^X[BCS]+-`),
		emacsVars:    regexp.MustCompile(`(?i)^(;;\s*)?Local variables:`),
		vimVars:      regexp.MustCompile(`(?i)^vim:`),
		vcsKeyword:   regexp.MustCompile(`^\$\w+:.*\$`),
		comment:      regexp.MustCompile(`^# `),
		blockComment: regexp.MustCompile(`^/\*.*\*/`),
		oldHeadings: []*regexp.Regexp{
			regexp.MustCompile(`^(\w+\s+\w+\s+\d{1,2} \d{1,2}:\d{1,2}:\d{1,2}\s+[\w\s]*\d{4})\s+(.*)\s+(<|\()(.*)(\)|>)`),
			regexp.MustCompile(`^(\w+\s+\w+\s+\d{1,2},?\s*\d{4})\s+(.*)\s+(<|\()(.*)(\)|>)`),
			regexp.MustCompile(`(?i)^(\w` + nameChars + `*) \(([^() \t]+)\);?`),
			regexp.MustCompile(`(?i)^([\w.+-]+)(-| )(\S+) Debian (\S+)`),
			regexp.MustCompile(`(?i)^Changes from version (.*) to (.*):`),
			regexp.MustCompile(`(?i)^Changes for [\w.+-]+-[\w.+-]+:?\s*$`),
			regexp.MustCompile(`(?i)^Old Changelog:\s*$`),
			regexp.MustCompile(`^(?:\d+:)?\w[\w.+~-]*:?\s*$`),
		},
		version: regexp.MustCompile(`^(?:(\d+):)?([A-Za-z0-9.+:~-]+?)(?:-([A-Za-z0-9.~+]+))?$`),
	}
}

func (g *grammar) matchesOldHeading(line string) bool {
	for _, re := range g.oldHeadings {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
