package filter

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/peterebden/go-deferred-regex"
)

// defaultExact covers the flags that are recognisable by literal equality.
// Any flag that takes a parameter must appear in one of the tables so the
// parser knows to consume the extra tokens along with it.
func defaultExact() map[string]Rule {
	return map[string]Rule{
		"-": {0, StandardIn},

		"-o": {1, OutputFile},
		"-c": {0, CompileOnly},
		"-E": {0, PreprocessOnly},
		"-S": {0, AssembleOnly},

		"--verbose": {0, Verbose},
		"--version": {0, CompileOnly},
		"-v":        {0, CompileOnly},

		// Optimisation levels are ours to control, so the underlying
		// invocation does not get to choose them.
		"-O":     {0, WarnForbidden},
		"-O0":    {0, WarnForbidden},
		"-O1":    {0, WarnForbidden},
		"-O2":    {0, WarnForbidden},
		"-O3":    {0, WarnForbidden},
		"-Os":    {0, WarnForbidden},
		"-Ofast": {0, WarnForbidden},
		"-Og":    {0, WarnForbidden},
	}
}

// defaultPatterns matches everything else we care about: source files, object
// files and libraries (including versioned shared-library names), and the
// remaining optimisation spellings. Order matters; the first match wins.
func defaultPatterns() []PatternRule {
	return []PatternRule{
		{Pattern: `^.+\.(c|cc|cpp|C|cxx|i|s|S|bc)$`, Handler: InputFile},
		// FORTRAN file types
		{Pattern: `^.+\.([fF](|[0-9][0-9]|or|OR|pp|PP))$`, Handler: InputFile},
		{Pattern: `^.+\.(o|lo|So|so|po|a|dylib)$`, Handler: ObjectFile},
		{Pattern: `^.+\.dylib(\.\d+)+$`, Handler: ObjectFile},
		{Pattern: `^.+\.(So|so)(\.\d+)+$`, Handler: ObjectFile},
		{Pattern: `^-O[0-9]+$`, Handler: WarnForbidden},
	}
}

// patternEntry pairs a pattern rule with its lazily-compiled expression.
type patternEntry struct {
	re   deferredregex.DeferredRegex
	rule PatternRule
}

// buildTables merges caller overrides into the default tables.
// Overrides shadow same-key defaults in place; they never remove them.
func buildTables(opts Options) (map[string]Rule, []patternEntry, error) {
	exact := defaultExact()
	for k, rule := range opts.Exact {
		exact[k] = rule
	}
	patterns := defaultPatterns()
	index := make(map[string]int, len(patterns))
	for i, p := range patterns {
		index[p.Pattern] = i
	}
	var errs *multierror.Error
	seen := map[string]bool{}
	for _, p := range opts.Patterns {
		if seen[p.Pattern] {
			errs = multierror.Append(errs, fmt.Errorf("duplicate pattern rule %s", p.Pattern))
			continue
		}
		seen[p.Pattern] = true
		if i, present := index[p.Pattern]; present {
			patterns[i] = p
		} else {
			index[p.Pattern] = len(patterns)
			patterns = append(patterns, p)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, nil, err
	}
	entries := make([]patternEntry, len(patterns))
	for i, p := range patterns {
		entries[i] = patternEntry{re: deferredregex.DeferredRegex{Re: p.Pattern}, rule: p}
	}
	return exact, entries, nil
}

// matchPattern returns the index of the first pattern matching the token, or -1.
func matchPattern(patterns []patternEntry, tok string) int {
	for i := range patterns {
		if patterns[i].re.MatchString(tok) {
			return i
		}
	}
	return -1
}

// The handlers below are the vocabulary the rule tables are built from.
// They are exported so that callers can reuse them in override tables.

// StandardIn notes that the compiler will read its input from stdin.
func StandardIn(f *Filter, flag string, args []string) {
	f.IsStandardIn = true
}

// InputFile records a source file, noting assembly sources as such.
func InputFile(f *Filter, flag string, args []string) {
	f.InputFiles = append(f.InputFiles, flag)
	if assemblySuffix.MatchString(flag) {
		f.IsAssembly = true
	}
}

// ObjectFile records a pre-built object or library.
func ObjectFile(f *Filter, flag string, args []string) {
	f.ObjectFiles = append(f.ObjectFiles, flag)
}

// OutputFile records the explicit output path given with -o.
func OutputFile(f *Filter, flag string, args []string) {
	f.OutputFile = args[0]
}

// PreprocessOnly marks a preprocess-only run; classification stops after it.
func PreprocessOnly(f *Filter, flag string, args []string) {
	f.IsPreprocessOnly = true
}

// AssembleOnly marks an assemble-only run; classification stops after it.
func AssembleOnly(f *Filter, flag string, args []string) {
	f.IsAssembleOnly = true
}

// Verbose marks a verbose invocation.
func Verbose(f *Filter, flag string, args []string) {
	f.IsVerbose = true
}

// CompileOnly marks an invocation that will not reach the link phase.
func CompileOnly(f *Filter, flag string, args []string) {
	f.IsCompileOnly = true
}

// EmitLLVM marks an invocation that already emits IR itself; it implies
// compile-only since no native link can follow.
func EmitLLVM(f *Filter, flag string, args []string) {
	f.IsEmitLLVM = true
	f.IsCompileOnly = true
}

// DependencyUnary marks a dependency-generation run, keeping the flag for the
// compile phase.
func DependencyUnary(f *Filter, flag string, args []string) {
	f.IsDependencyOnly = true
	f.CompileArgs = append(f.CompileArgs, flag)
}

// DependencyBinary is DependencyUnary for flags that take an argument.
func DependencyBinary(f *Filter, flag string, args []string) {
	f.IsDependencyOnly = true
	f.CompileArgs = append(append(f.CompileArgs, flag), args...)
}

// CompileUnary keeps a flag for the compile phase.
func CompileUnary(f *Filter, flag string, args []string) {
	f.CompileArgs = append(f.CompileArgs, flag)
}

// CompileBinary keeps a flag and its arguments for the compile phase.
func CompileBinary(f *Filter, flag string, args []string) {
	f.CompileArgs = append(append(f.CompileArgs, flag), args...)
}

// LinkUnary keeps a flag for the link phase.
func LinkUnary(f *Filter, flag string, args []string) {
	f.LinkArgs = append(f.LinkArgs, flag)
}

// LinkBinary keeps a flag and its arguments for the link phase.
func LinkBinary(f *Filter, flag string, args []string) {
	f.LinkArgs = append(append(f.LinkArgs, flag), args...)
}

// CompileLinkUnary keeps a flag for both phases (coverage flags, for example).
func CompileLinkUnary(f *Filter, flag string, args []string) {
	f.CompileArgs = append(f.CompileArgs, flag)
	f.LinkArgs = append(f.LinkArgs, flag)
}

// WarnForbidden strips a recognised flag that this tool reserves for itself;
// it reaches neither the compile nor the link phase.
func WarnForbidden(f *Filter, flag string, args []string) {
	log.Warning("The flag %q cannot be used with this tool; ignoring it", flag)
	f.ForbiddenArgs = append(f.ForbiddenArgs, flag)
}

// IgnoredBinary drops a flag and its argument entirely.
func IgnoredBinary(f *Filter, flag string, args []string) {
	log.Warning("Ignoring compiler argument pair %q %q", flag, args[0])
}
