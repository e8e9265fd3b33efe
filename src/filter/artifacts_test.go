package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactNames(t *testing.T) {
	obj, bc := ArtifactNames("dir/x.cpp", true)
	assert.Equal(t, ".x.o", obj)
	assert.Equal(t, ".x.o.bc", bc)

	obj, bc = ArtifactNames("dir/x.cpp", false)
	assert.Equal(t, "x.o", obj)
	assert.Equal(t, ".x.o.bc", bc)

	obj, bc = ArtifactNames("foo.c", false)
	assert.Equal(t, "foo.o", obj)
	assert.Equal(t, ".foo.o.bc", bc)
}

func TestOutputFilenameDefaults(t *testing.T) {
	f := mustNew(t, []string{"a.c", "b.c"})
	assert.Equal(t, "a.out", f.OutputFilename())

	f = mustNew(t, []string{"-c", "sub/dir/a.c"})
	assert.Equal(t, "a.o", f.OutputFilename())

	f = mustNew(t, []string{"-o", "bin/thing", "a.c"})
	assert.Equal(t, "bin/thing", f.OutputFilename())
}

func TestBitcodeFilename(t *testing.T) {
	f, err := New([]string{"-o", "bin/thing", "a.c"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "bin/.thing.bc", f.BitcodeFilename())

	f = mustNew(t, []string{"a.c"})
	assert.Equal(t, ".a.out.bc", f.BitcodeFilename())

	f = mustNew(t, []string{"-c", "foo.c"})
	assert.Equal(t, ".foo.o.bc", f.BitcodeFilename())
}
