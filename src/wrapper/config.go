package wrapper

import (
	"fmt"
	"time"

	"github.com/google/shlex"
	"github.com/xyproto/env/v2"
)

// A Config holds the wrapper's environment-driven settings. The wrapper takes
// no flags of its own since its whole command line belongs to the compiler
// being wrapped; everything is configured through COPA_* variables instead.
type Config struct {
	CC            string        // real C compiler to invoke
	CXX           string        // real C++ compiler to invoke
	BitcodeCC     string        // compiler used for the C bitcode pass
	BitcodeCXX    string        // compiler used for the C++ bitcode pass
	ExtraFlags    []string      // extra flags appended to the bitcode pass
	ConfigureOnly bool          // suppress bitcode staging entirely, for ./configure runs
	DumpArgs      bool          // log the classified partition of each command line
	Timeout       time.Duration // per-subprocess timeout, zero for none
	LogFile       string        // optional file to copy log output to
	Verbosity     int           // log level, in increasing verbosity
}

// ConfigFromEnv reads the wrapper configuration from the environment.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		CC:            env.Str("COPA_CC", "cc"),
		CXX:           env.Str("COPA_CXX", "c++"),
		BitcodeCC:     env.Str("COPA_BITCODE_CC", "clang"),
		BitcodeCXX:    env.Str("COPA_BITCODE_CXX", "clang++"),
		ConfigureOnly: env.Bool("COPA_CONFIGURE_ONLY"),
		DumpArgs:      env.Bool("COPA_DUMP_ARGS"),
		Timeout:       time.Duration(env.Int("COPA_TIMEOUT", 0)) * time.Second,
		LogFile:       env.Str("COPA_LOG_FILE"),
		Verbosity:     env.Int("COPA_LOG_LEVEL", 1),
	}
	if s := env.Str("COPA_EXTRA_FLAGS"); s != "" {
		flags, err := shlex.Split(s)
		if err != nil {
			return cfg, fmt.Errorf("malformed COPA_EXTRA_FLAGS: %w", err)
		}
		cfg.ExtraFlags = flags
	}
	return cfg, nil
}
