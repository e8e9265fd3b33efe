// Package main implements copa, a wrapper around the real compiler that
// additionally stages LLVM bitcode for the source files it compiles.
//
// The wrapper deliberately takes no flags of its own: everything on its
// command line belongs to the compiler being wrapped, and configuration
// happens through COPA_* environment variables instead. Invoke it under a
// name containing "++" (or point COPA_CXX at your C++ compiler) to wrap a
// C++ frontend.
package main

import (
	"context"
	"os"

	"gopkg.in/op/go-logging.v1"

	"github.com/copa-build/copa/src/cli"
	"github.com/copa-build/copa/src/wrapper"
)

var log = logging.MustGetLogger("copa")

func main() {
	cfg, err := wrapper.ConfigFromEnv()
	cli.InitLogging(cli.Verbosity(cfg.Verbosity))
	if cfg.LogFile != "" {
		cli.InitFileLogging(cfg.LogFile, cli.Verbosity(cfg.Verbosity))
	}
	if err != nil {
		log.Fatalf("%s", err)
	}
	os.Exit(wrapper.Wrap(context.Background(), os.Args[0], os.Args[1:], cfg))
}
