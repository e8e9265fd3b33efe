// Package wrapper drives the real compiler invocation and stages a parallel
// bitcode build for the source files it compiles.
package wrapper

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"
	"gopkg.in/op/go-logging.v1"

	"github.com/copa-build/copa/src/filter"
)

var log = logging.MustGetLogger("wrapper")

// A Mode says which language frontend the wrapper is standing in for.
type Mode int

const (
	ModeC Mode = iota
	ModeCXX
)

// ModeFromInvocation works out which compiler we are wrapping from the name
// we were invoked under.
func ModeFromInvocation(prog string) Mode {
	if strings.Contains(filepath.Base(prog), "++") {
		return ModeCXX
	}
	return ModeC
}

func (c Config) compiler(mode Mode) string {
	if mode == ModeCXX {
		return c.CXX
	}
	return c.CC
}

func (c Config) bitcodeCompiler(mode Mode) string {
	if mode == ModeCXX {
		return c.BitcodeCXX
	}
	return c.BitcodeCC
}

// An Invocation is one concrete command the wrapper will run.
type Invocation struct {
	Argv []string
}

// String returns the invocation as a correctly shell-quoted command line.
func (i Invocation) String() string {
	return shellescape.QuoteCommand(i.Argv)
}

// SkipBitcodeGeneration decides whether the bitcode pass is worth running for
// this invocation, returning the reason when it is not.
func SkipBitcodeGeneration(f *filter.Filter, cfg Config) (bool, string) {
	switch {
	case cfg.ConfigureOnly:
		return true, "configure-only mode"
	case f.IsPreprocessOnly:
		return true, "preprocess-only invocation"
	case f.IsAssembleOnly || f.IsAssembly:
		return true, "assembly compilation"
	case f.IsEmitLLVM:
		return true, "invocation already emits IR"
	case f.IsDependencyOnly:
		return true, "dependency-generation invocation"
	case f.IsStandardIn:
		return true, "input comes from standard input"
	case len(f.InputFiles) == 0:
		return true, "no source files on the command line"
	}
	return false, ""
}

// CompilerInvocation rebuilds the real compiler command: the original
// arguments in their original order, with the forbidden flags stripped out.
// Forbidden flags are always zero-arity so removal by equality is safe.
func CompilerInvocation(f *filter.Filter, cfg Config, mode Mode) Invocation {
	forbidden := make(map[string]bool, len(f.ForbiddenArgs))
	for _, arg := range f.ForbiddenArgs {
		forbidden[arg] = true
	}
	argv := []string{cfg.compiler(mode)}
	for _, arg := range f.Args {
		if !forbidden[arg] {
			argv = append(argv, arg)
		}
	}
	return Invocation{Argv: argv}
}

// BitcodeInvocations returns the commands that produce the hidden bitcode
// artifacts. A compile-only run with an explicit output gets a single pass
// staged next to that output; otherwise each source is staged beside itself.
func BitcodeInvocations(f *filter.Filter, cfg Config, mode Mode) []Invocation {
	if f.IsCompileOnly && f.OutputFile != "" && len(f.InputFiles) == 1 {
		return []Invocation{bitcodeInvocation(f, cfg, mode, f.InputFiles[0], f.BitcodeFilename())}
	}
	invocations := make([]Invocation, 0, len(f.InputFiles))
	for _, src := range f.InputFiles {
		_, bc := filter.ArtifactNames(src, false)
		invocations = append(invocations, bitcodeInvocation(f, cfg, mode, src, filepath.Join(filepath.Dir(src), bc)))
	}
	return invocations
}

func bitcodeInvocation(f *filter.Filter, cfg Config, mode Mode, src, out string) Invocation {
	argv := []string{cfg.bitcodeCompiler(mode), "-emit-llvm", "-c"}
	argv = append(argv, cfg.ExtraFlags...)
	argv = append(argv, f.CompileArgs...)
	argv = append(argv, src, "-o", out)
	return Invocation{Argv: argv}
}

// Wrap classifies the given compiler argv tail, runs the real compiler, and
// stages the bitcode pass when the invocation calls for one. It returns the
// process exit code: always the real compiler's outcome, since a failed
// bitcode pass must never break the underlying build.
func Wrap(ctx context.Context, prog string, args []string, cfg Config) int {
	mode := ModeFromInvocation(prog)
	f, err := filter.New(args, filter.Options{Dump: cfg.DumpArgs})
	if err != nil {
		log.Error("Cannot classify command line: %s", err)
		return 1
	}
	e := &Executor{Timeout: cfg.Timeout}
	if err := e.Run(ctx, CompilerInvocation(f, cfg, mode)); err != nil {
		return ExitCode(err)
	}
	if skip, reason := SkipBitcodeGeneration(f, cfg); skip {
		log.Info("Skipping bitcode generation: %s", reason)
		return 0
	}
	for _, inv := range BitcodeInvocations(f, cfg, mode) {
		if err := e.Run(ctx, inv); err != nil {
			log.Warning("Bitcode pass failed, build continues: %s", err)
		}
	}
	return 0
}
