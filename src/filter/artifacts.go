package filter

import (
	"path/filepath"
	"strings"
)

// OutputFilename returns where the final artifact of this invocation will go:
// the explicit -o argument if there was one, the conventional object name for
// compile-only runs, or the linker's default.
func (f *Filter) OutputFilename() string {
	if f.OutputFile != "" {
		return f.OutputFile
	}
	if f.IsCompileOnly && len(f.InputFiles) > 0 {
		// -c with no -o leaves the object in the working directory.
		return fileRoot(filepath.Base(f.InputFiles[0])) + ".o"
	}
	return "a.out"
}

// BitcodeFilename returns the name of the hidden bitcode file staged in the
// same directory as the invocation's output.
func (f *Filter) BitcodeFilename() string {
	dir, base := filepath.Split(f.OutputFilename())
	return filepath.Join(dir, "."+base+".bc")
}

// ArtifactNames returns the object and bitcode filenames staged for a single
// source file. hidden hides the object the same way the bitcode file is.
func ArtifactNames(src string, hidden bool) (string, string) {
	root := fileRoot(filepath.Base(src))
	obj := root + ".o"
	if hidden {
		obj = "." + obj
	}
	return obj, "." + root + ".o.bc"
}

// fileRoot strips the final extension from a filename.
func fileRoot(base string) string {
	return strings.TrimSuffix(base, filepath.Ext(base))
}
