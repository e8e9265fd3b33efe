package wrapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copa-build/copa/src/filter"
)

func classify(t *testing.T, args []string) *filter.Filter {
	f, err := filter.New(args, filter.Options{})
	require.NoError(t, err)
	return f
}

func TestModeFromInvocation(t *testing.T) {
	assert.Equal(t, ModeC, ModeFromInvocation("copa"))
	assert.Equal(t, ModeC, ModeFromInvocation("/usr/bin/gcc"))
	assert.Equal(t, ModeCXX, ModeFromInvocation("g++"))
	assert.Equal(t, ModeCXX, ModeFromInvocation("/usr/local/bin/clang++"))
	assert.Equal(t, ModeCXX, ModeFromInvocation("copa++"))
}

func TestSkipBitcodeGeneration(t *testing.T) {
	cases := []struct {
		name string
		args []string
		cfg  Config
		skip bool
	}{
		{"plain compile", []string{"-c", "foo.c"}, Config{}, false},
		{"compile and link", []string{"a.c", "b.c", "-o", "prog"}, Config{}, false},
		{"configure only", []string{"-c", "foo.c"}, Config{ConfigureOnly: true}, true},
		{"preprocess only", []string{"-E", "foo.c"}, Config{}, true},
		{"assemble only", []string{"-S", "foo.c"}, Config{}, true},
		{"assembly source", []string{"-c", "foo.s"}, Config{}, true},
		{"standard input", []string{"-c", "-"}, Config{}, true},
		{"link only", []string{"a.o", "b.o", "-o", "prog"}, Config{}, true},
		{"version query", []string{"--version"}, Config{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			skip, reason := SkipBitcodeGeneration(classify(t, c.args), c.cfg)
			assert.Equal(t, c.skip, skip)
			if skip {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestCompilerInvocationStripsForbiddenFlags(t *testing.T) {
	f := classify(t, []string{"-O2", "-c", "foo.c", "-o", "foo.o"})
	inv := CompilerInvocation(f, Config{CC: "cc"}, ModeC)
	assert.Equal(t, []string{"cc", "-c", "foo.c", "-o", "foo.o"}, inv.Argv)
}

func TestCompilerInvocationKeepsOriginalOrder(t *testing.T) {
	args := []string{"-Wall", "a.c", "-Wl,--start-group", "-la", "-Wl,--end-group", "-o", "prog"}
	f := classify(t, args)
	inv := CompilerInvocation(f, Config{CC: "gcc"}, ModeC)
	assert.Equal(t, append([]string{"gcc"}, args...), inv.Argv)
}

func TestCompilerInvocationSelectsFrontend(t *testing.T) {
	f := classify(t, []string{"-c", "foo.cpp"})
	inv := CompilerInvocation(f, Config{CC: "gcc", CXX: "g++"}, ModeCXX)
	assert.Equal(t, "g++", inv.Argv[0])
}

func TestBitcodeInvocationForExplicitOutput(t *testing.T) {
	f := classify(t, []string{"-c", "foo.c", "-o", "out/foo.o"})
	invs := BitcodeInvocations(f, Config{BitcodeCC: "clang"}, ModeC)
	require.Len(t, invs, 1)
	argv := invs[0].Argv
	assert.Equal(t, "clang", argv[0])
	assert.Contains(t, argv, "-emit-llvm")
	assert.Contains(t, argv, "foo.c")
	assert.Equal(t, "out/.foo.o.bc", argv[len(argv)-1])
}

func TestBitcodeInvocationsPerSource(t *testing.T) {
	f := classify(t, []string{"src/a.c", "src/b.c", "-o", "prog"})
	invs := BitcodeInvocations(f, Config{BitcodeCC: "clang"}, ModeC)
	require.Len(t, invs, 2)
	assert.Equal(t, "src/.a.o.bc", invs[0].Argv[len(invs[0].Argv)-1])
	assert.Equal(t, "src/.b.o.bc", invs[1].Argv[len(invs[1].Argv)-1])
}

func TestBitcodeInvocationCarriesCompileArgsAndExtraFlags(t *testing.T) {
	f := classify(t, []string{"-c", "-DFOO", "-Iinclude", "foo.c"})
	cfg := Config{BitcodeCXX: "clang++", ExtraFlags: []string{"-g"}}
	invs := BitcodeInvocations(f, cfg, ModeCXX)
	require.Len(t, invs, 1)
	argv := invs[0].Argv
	assert.Equal(t, "clang++", argv[0])
	assert.Contains(t, argv, "-g")
	assert.Contains(t, argv, "-DFOO")
	assert.Contains(t, argv, "-Iinclude")
}

func TestInvocationString(t *testing.T) {
	inv := Invocation{Argv: []string{"cc", "-c", "my file.c"}}
	assert.Equal(t, `cc -c 'my file.c'`, inv.String())
}
