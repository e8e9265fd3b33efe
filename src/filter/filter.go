// Package filter implements classification of compiler command lines.
//
// Every flag the classifier understands carries an arity: the number of
// following tokens that belong to it and must be consumed along with it.
// Flags recognisable by literal equality live in an exact-match table; the
// rest are matched by regular expressions, tried in table order with the
// first match winning. Anything unmatched is kept as a compile-phase
// argument, so unfamiliar flags degrade gracefully rather than breaking
// the underlying build.
package filter

import (
	"fmt"

	"github.com/peterebden/go-deferred-regex"
	"gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("filter")

// Linker group markers; everything between them goes to the link phase verbatim.
const (
	startGroup = "-Wl,--start-group"
	endGroup   = "-Wl,--end-group"
)

var assemblySuffix = deferredregex.DeferredRegex{Re: `\.(s|S)$`}

// A Handler applies one matched flag, and any extra tokens it consumed, to the
// filter state.
type Handler func(f *Filter, flag string, args []string)

// A Rule pairs a flag's arity with the handler that receives it.
type Rule struct {
	Arity   int
	Handler Handler
}

// A PatternRule is a Rule keyed by a regular expression instead of a literal
// token. The expression must match the whole token.
type PatternRule struct {
	Pattern string
	Arity   int
	Handler Handler
}

// Options control the construction of a Filter.
type Options struct {
	// Exact adds or replaces exact-match rules. A key equal to a default's
	// shadows it; defaults are never dropped.
	Exact map[string]Rule
	// Patterns adds or replaces pattern rules. A pattern string equal to a
	// default's replaces it in place, keeping its priority; new patterns are
	// appended after the defaults. Duplicates are a configuration error,
	// since priority between overlapping patterns would otherwise be an
	// accident of table order.
	Patterns []PatternRule
	// Dump logs the classified partition once parsing finishes.
	Dump bool
}

// A Filter holds the classified partition of one compiler command line.
// It is populated by New and read-only afterwards.
type Filter struct {
	// Args is the original token list, as given.
	Args []string

	InputFiles    []string // source files, in appearance order
	ObjectFiles   []string // pre-built objects and libraries
	CompileArgs   []string // flags destined for the compile phase
	LinkArgs      []string // flags destined for the link phase
	ForbiddenArgs []string // recognised flags we refuse to pass through
	OutputFile    string   // the -o argument, empty if there was none

	IsVerbose        bool
	IsDependencyOnly bool
	IsPreprocessOnly bool
	IsAssembleOnly   bool
	IsAssembly       bool
	IsCompileOnly    bool
	IsEmitLLVM       bool
	IsStandardIn     bool

	dump bool
}

// New classifies the given compiler argument list.
// It fails if the rule tables are misconfigured or if the command line ends
// in the middle of a flag's arguments; unrecognised flags merely warn.
func New(args []string, opts Options) (*Filter, error) {
	exact, patterns, err := buildTables(opts)
	if err != nil {
		return nil, err
	}
	f := &Filter{Args: args, dump: opts.Dump}
	q := &queue{tokens: args}
	// Bail out as soon as we know there will be no second phase.
	for !q.empty() && !f.IsPreprocessOnly && !f.IsAssembleOnly {
		tok := q.pop()
		log.Debug("Trying to match token %s", tok)
		if tok == startGroup {
			f.linkerGroup(tok, q)
		} else if rule, present := exact[tok]; present {
			extra, err := q.shift(tok, rule.Arity)
			if err != nil {
				return nil, err
			}
			rule.Handler(f, tok, extra)
		} else if i := matchPattern(patterns, tok); i >= 0 {
			extra, err := q.shift(tok, patterns[i].rule.Arity)
			if err != nil {
				return nil, err
			}
			patterns[i].rule.Handler(f, tok, extra)
		} else {
			log.Warning("Did not recognise the compiler flag %q", tok)
			CompileUnary(f, tok, nil)
		}
	}
	if f.dump {
		f.dumpPartition()
	}
	return f, nil
}

// linkerGroup consumes tokens up to and including the end-group marker and
// appends the whole block, markers included, to the link arguments.
// A missing end marker is tolerated; the group is flushed as captured.
func (f *Filter) linkerGroup(tok string, q *queue) {
	group := []string{tok}
	terminated := false
	for !q.empty() {
		cur := q.pop()
		group = append(group, cur)
		if cur == endGroup {
			terminated = true
			break
		}
	}
	if !terminated {
		log.Warning("Did not find a closing %q to match %q", endGroup, startGroup)
	}
	f.LinkArgs = append(f.LinkArgs, group...)
}

// dumpPartition logs how the command line was split up. Useful when working
// out why a rule table does not do what you thought it did.
func (f *Filter) dumpPartition() {
	log.Notice("inputFiles: %v", f.InputFiles)
	log.Notice("objectFiles: %v", f.ObjectFiles)
	log.Notice("compileArgs: %v", f.CompileArgs)
	log.Notice("linkArgs: %v", f.LinkArgs)
	log.Notice("forbiddenArgs: %v", f.ForbiddenArgs)
	log.Notice("outputFilename: %s", f.OutputFilename())
	for _, src := range f.InputFiles {
		obj, bc := ArtifactNames(src, false)
		log.Notice("%s ===> (%s, %s)", src, obj, bc)
	}
}

// queue is the remaining-token cursor. It only ever moves forward, which keeps
// the arity-consumption contract easy to test in isolation.
type queue struct {
	tokens []string
	next   int
}

func (q *queue) empty() bool {
	return q.next >= len(q.tokens)
}

func (q *queue) pop() string {
	tok := q.tokens[q.next]
	q.next++
	return tok
}

// shift consumes the next n tokens for the given flag. Underflow means the
// command line ended in the middle of the flag's arguments, which makes the
// whole invocation unclassifiable.
func (q *queue) shift(flag string, n int) ([]string, error) {
	if remaining := len(q.tokens) - q.next; remaining < n {
		return nil, fmt.Errorf("flag %s expects %d following argument(s) but only %d remain", flag, n, remaining)
	}
	extra := q.tokens[q.next : q.next+n]
	q.next += n
	return extra, nil
}
