package changelog

import (
	"errors"
	"fmt"
	"strings"
)

// ParseOption configures a single parse run.
type ParseOption func(*parseConfig)

type parseConfig struct {
	maxBlocks        int
	allowEmptyAuthor bool
	lenient          bool
}

// WithMaxBlocks stops parsing once n blocks have been read. Hitting the
// limit is not an error, even if the remaining input is malformed. n <= 0
// means no limit.
func WithMaxBlocks(n int) ParseOption {
	return func(c *parseConfig) { c.maxBlocks = n }
}

// WithAllowEmptyAuthor accepts trailer lines whose author and date are
// omitted, leaving both unset on the finalized block.
func WithAllowEmptyAuthor() ParseOption {
	return func(c *parseConfig) { c.allowEmptyAuthor = true }
}

// WithLenient downgrades grammar violations to warnings recorded on the
// document and continues scanning with best-effort recovery. The default
// is strict, where the first violation aborts the parse.
func WithLenient() ParseOption {
	return func(c *parseConfig) { c.lenient = true }
}

// parsePhase identifies what the scanner expects next.
type parsePhase int

const (
	phaseFirstHeading parsePhase = iota
	phaseNextHeadingOrEOF
	phaseStartOfChangeData
	phaseMoreChangesOrTrailer
	phaseSlurpToEnd
)

func (p parsePhase) String() string {
	switch p {
	case phaseFirstHeading:
		return "first heading"
	case phaseNextHeadingOrEOF:
		return "next heading or eof"
	case phaseStartOfChangeData:
		return "start of change data"
	case phaseMoreChangesOrTrailer:
		return "more change data or trailer"
	case phaseSlurpToEnd:
		return "slurp to end"
	default:
		return fmt.Sprintf("parsePhase(%d)", int(p))
	}
}

// parseState tags the phase with the phase that was active when slurp mode
// began. Keeping both in one value means the slurp target and the
// end-of-input check cannot disagree.
type parseState struct {
	phase  parsePhase
	resume parsePhase
}

func stateOf(phase parsePhase) parseState { return parseState{phase: phase} }

func slurpFrom(prior parsePhase) parseState {
	return parseState{phase: phaseSlurpToEnd, resume: prior}
}

// accepting reports whether end of input is legal in this state.
func (s parseState) accepting() bool {
	if s.phase == phaseNextHeadingOrEOF {
		return true
	}
	return s.phase == phaseSlurpToEnd && s.resume == phaseNextHeadingOrEOF
}

// errBlockLimit stops the scan loop once the configured number of blocks
// has been read.
var errBlockLimit = errors.New("block limit reached")

// Parse reads a complete changelog from text. The text is split on
// newlines; a trailing newline does not produce an extra empty line.
func Parse(text string, opts ...ParseOption) (*Changelog, error) {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return ParseLines(lines, opts...)
}

// ParseLines reads a complete changelog from pre-split lines. Lines must
// not contain newline characters.
func ParseLines(lines []string, opts ...ParseOption) (*Changelog, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &parser{
		g:     defaultGrammar,
		cfg:   cfg,
		doc:   New(),
		block: NewChangeBlock(),
		notes: []string{},
		state: stateOf(phaseFirstHeading),
	}
	if err := p.run(lines); err != nil {
		return nil, err
	}
	return p.doc, nil
}

// parser is one scan over one line sequence. Instances share nothing but
// the immutable grammar, so independent documents parse concurrently.
type parser struct {
	g     *grammar
	cfg   parseConfig
	doc   *Changelog
	block *ChangeBlock
	notes []string
	state parseState
}

func (p *parser) run(lines []string) error {
	if allBlank(lines) {
		if err := p.recoverable("empty changelog"); err != nil {
			return err
		}
		p.doc.initialBlankLines = append(p.doc.initialBlankLines, lines...)
		return nil
	}
	for _, line := range lines {
		var err error
		switch p.state.phase {
		case phaseFirstHeading, phaseNextHeadingOrEOF:
			err = p.scanHeading(line)
		case phaseStartOfChangeData, phaseMoreChangesOrTrailer:
			err = p.scanChanges(line)
		case phaseSlurpToEnd:
			p.slurp(line)
		}
		if errors.Is(err, errBlockLimit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return p.finish()
}

// recoverable raises err in strict mode and records it as a warning in
// lenient mode.
func (p *parser) recoverable(format string, args ...any) error {
	err := &ParseError{Message: fmt.Sprintf(format, args...)}
	if !p.cfg.lenient {
		return err
	}
	p.doc.warnings = append(p.doc.warnings, err)
	return nil
}

// scanHeading handles the heading-seeking phases: the next entry heading,
// blank separation, annotation lines and legacy tails.
func (p *parser) scanHeading(line string) error {
	if m := p.g.heading.FindStringSubmatch(line); m != nil {
		if p.cfg.maxBlocks > 0 && len(p.doc.blocks) >= p.cfg.maxBlocks {
			return errBlockLimit
		}
		return p.openBlock(line, m)
	}
	if p.g.blank.MatchString(line) {
		p.archive(line)
		return nil
	}
	if p.state.phase != phaseFirstHeading &&
		(p.g.emacsVars.MatchString(line) || p.g.vimVars.MatchString(line)) {
		p.lastBlock().AddTrailingLine(line)
		p.state = slurpFrom(p.state.phase)
		return nil
	}
	if p.g.vcsKeyword.MatchString(line) || p.g.comment.MatchString(line) || p.g.blockComment.MatchString(line) {
		p.archive(line)
		return nil
	}
	if p.state.phase != phaseFirstHeading && p.g.matchesOldHeading(line) {
		// Legacy tails are archived verbatim, never re-parsed.
		p.lastBlock().AddTrailingLine(line)
		p.state = slurpFrom(p.state.phase)
		return nil
	}
	if err := p.recoverable("unexpected line while looking for %s: %s", p.state.phase, line); err != nil {
		return err
	}
	p.archive(line)
	return nil
}

// openBlock starts a new block from a matched heading line and consumes
// the key=value list after the semicolon.
func (p *parser) openBlock(line string, m []string) error {
	p.block.Package = m[1]
	p.block.rawVersion = m[2]
	p.block.Distributions = strings.TrimSpace(m[3])

	_, rest, _ := strings.Cut(line, ";")
	seen := make(map[string]bool)
	for _, pair := range strings.Split(rest, ",") {
		pair = strings.TrimSpace(pair)
		kv := p.g.keyValue.FindStringSubmatch(pair)
		if kv == nil {
			if err := p.recoverable("invalid key-value pair after ';': %s", pair); err != nil {
				return err
			}
			continue
		}
		key, value := kv[1], kv[2]
		lower := strings.ToLower(key)
		if seen[lower] {
			if err := p.recoverable("repeated key-value: %s", lower); err != nil {
				return err
			}
		}
		seen[lower] = true
		if lower == "urgency" {
			um := p.g.urgencyValue.FindStringSubmatch(value)
			if um == nil {
				if err := p.recoverable("badly formatted urgency value: %s", value); err != nil {
					return err
				}
				continue
			}
			p.block.Urgency = um[1]
			p.block.UrgencyComment = um[2]
			continue
		}
		p.block.SetOtherPair(key, value)
	}
	p.state = stateOf(phaseStartOfChangeData)
	return nil
}

// scanChanges handles the change-body phases: note lines, the closing
// trailer and everything tolerated in between.
func (p *parser) scanChanges(line string) error {
	if p.g.change.MatchString(line) {
		p.notes = append(p.notes, line)
		p.state = stateOf(phaseMoreChangesOrTrailer)
		return nil
	}
	if m := p.g.trailer.FindStringSubmatch(line); m != nil {
		if m[3] != defaultSeparator {
			if err := p.recoverable("badly formatted trailer line: %s", line); err != nil {
				return err
			}
			p.block.trailerSep = m[3]
		}
		p.block.Author = fmt.Sprintf("%s <%s>", m[1], m[2])
		p.block.Date = m[4]
		p.closeBlock()
		return nil
	}
	if p.g.emptyTrailer.MatchString(line) {
		if !p.cfg.allowEmptyAuthor {
			return p.recoverable("badly formatted trailer line: %s", line)
		}
		p.closeBlock()
		return nil
	}
	if p.g.blank.MatchString(line) {
		p.notes = append(p.notes, line)
		return nil
	}
	if p.g.vcsKeyword.MatchString(line) || p.g.comment.MatchString(line) || p.g.blockComment.MatchString(line) {
		p.notes = append(p.notes, line)
		return nil
	}
	if err := p.recoverable("unexpected line while looking for %s: %s", p.state.phase, line); err != nil {
		return err
	}
	p.notes = append(p.notes, line)
	return nil
}

// closeBlock attaches the pending notes, appends the block to the document
// and resets for the next entry.
func (p *parser) closeBlock() {
	p.block.changes = p.notes
	p.doc.blocks = append(p.doc.blocks, p.block)
	p.notes = []string{}
	p.block = NewChangeBlock()
	p.state = stateOf(phaseNextHeadingOrEOF)
}

// slurp archives one line while in slurp-to-end mode.
func (p *parser) slurp(line string) {
	if p.state.resume == phaseNextHeadingOrEOF {
		p.lastBlock().AddTrailingLine(line)
		return
	}
	p.notes = append(p.notes, line)
}

// archive keeps a line that is not part of any block: before the first
// heading it joins the document's leading buffer, afterwards it trails the
// previous block.
func (p *parser) archive(line string) {
	if p.state.phase == phaseFirstHeading {
		p.doc.initialBlankLines = append(p.doc.initialBlankLines, line)
		return
	}
	p.lastBlock().AddTrailingLine(line)
}

func (p *parser) lastBlock() *ChangeBlock {
	return p.doc.blocks[len(p.doc.blocks)-1]
}

// finish validates the final state. A lenient parse salvages a truncated
// document by finalizing the in-progress block without a trailer.
func (p *parser) finish() error {
	if p.state.accepting() {
		return nil
	}
	if err := p.recoverable("found eof where expected %s", p.state.phase); err != nil {
		return err
	}
	p.block.changes = p.notes
	p.block.noTrailer = true
	p.doc.blocks = append(p.doc.blocks, p.block)
	return nil
}

func allBlank(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
