// Package main implements copa_filter, a tool that prints how copa would
// classify a compiler command line. Useful when debugging rule tables.
package main

import (
	"fmt"

	"gopkg.in/op/go-logging.v1"

	"github.com/copa-build/copa/src/cli"
	"github.com/copa-build/copa/src/filter"
)

var log = logging.MustGetLogger("copa_filter")

var opts = struct {
	Usage     string
	Verbosity cli.Verbosity `short:"v" long:"verbosity" default:"warning" description:"Verbosity of output (higher number = more output)"`
	Dump      bool          `short:"d" long:"dump" description:"Also log the partition through the normal logging backends"`
	Args      struct {
		CompilerArgs []string `positional-arg-name:"args" description:"Compiler arguments to classify"`
	} `positional-args:"true" required:"true"`
}{
	Usage: `
copa_filter prints the classification copa applies to a compiler command line.

Compiler arguments must be separated from copa_filter's own flags with --, e.g.
  copa_filter -v debug -- -c foo.c -o foo.o
`,
}

func main() {
	cli.ParseFlagsOrDie("copa_filter", &opts)
	cli.InitLogging(opts.Verbosity)
	f, err := filter.New(opts.Args.CompilerArgs, filter.Options{Dump: opts.Dump})
	if err != nil {
		log.Fatalf("%s", err)
	}
	fmt.Printf("inputFiles: %v\n", f.InputFiles)
	fmt.Printf("objectFiles: %v\n", f.ObjectFiles)
	fmt.Printf("compileArgs: %v\n", f.CompileArgs)
	fmt.Printf("linkArgs: %v\n", f.LinkArgs)
	fmt.Printf("forbiddenArgs: %v\n", f.ForbiddenArgs)
	fmt.Printf("outputFilename: %s\n", f.OutputFilename())
	for _, src := range f.InputFiles {
		obj, bc := filter.ArtifactNames(src, false)
		fmt.Printf("%s ===> (%s, %s)\n", src, obj, bc)
	}
}
