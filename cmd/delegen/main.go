package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/sys/unix"

	delegeninternal "github.com/sublee/delegen/internal/delegen"
)

var Version = "dev"

var (
	bFlag       = flag.String("b", "", "comma-separated build tags")
	tFlag       = flag.Bool("t", false, "include tests")
	oFlag       = flag.String("o", "delegen_gen.go", "output file name")
	cFlag       = flag.String("c", "auto", "colorize (auto|always|never)")
	reqRecvFlag = flag.Bool("require-receiver", false, "reject interface methods without a receiver")
	configFlag  = flag.String("config", "", "YAML config file")
	vFlag       = flag.Bool("v", false, "verbose logging")
	debugFlag   = flag.Bool("debug", false, "dump parsed interfaces and wirings to stderr")
)

func init() {
	delegeninternal.Version = Version
}

func main() {
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	color := false
	switch *cFlag {
	case "auto":
		color = isatty()
	case "always":
		color = true
	case "never":
		color = false
	default:
		fmt.Fprintln(os.Stderr, "invalid -c value:", *cFlag)
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := cfg.Options()
	if *vFlag {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	if *debugFlag {
		opts.Debug = os.Stderr
	}

	outs, err := delegeninternal.Main(context.Background(), wd, os.Environ(), cfg, opts, flag.Args())
	if err != nil {
		message := err.Error()
		if color {
			message = colorize(message)
		}
		fmt.Fprintln(os.Stderr, message)
		os.Exit(1)
	}

	for out, code := range outs {
		if err := os.WriteFile(out, code, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if relOut, err := filepath.Rel(wd, out); err == nil {
			out = relOut
		}
		fmt.Println("Generated:", out)
	}
}

// loadConfig reads the config file if given, and then applies the flags set
// explicitly on the command line.
func loadConfig() (delegeninternal.Config, error) {
	cfg := delegeninternal.DefaultConfig()
	if *configFlag != "" {
		var err error
		if cfg, err = delegeninternal.LoadConfig(*configFlag); err != nil {
			return cfg, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "b":
			cfg.Tags = *bFlag
		case "t":
			cfg.Tests = *tFlag
		case "o":
			cfg.Output = *oFlag
		case "require-receiver":
			cfg.Receivers = delegeninternal.ReceiversOptional
			if *reqRecvFlag {
				cfg.Receivers = delegeninternal.ReceiversRequired
			}
		}
	})
	return cfg, nil
}

// isatty reports whether the program is running in a terminal. If it is true,
// we can use ANSI color codes.
func isatty() bool {
	_, err := unix.IoctlGetWinsize(int(os.Stderr.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

var reDiagnostic = regexp.MustCompile(`(?m)^(\S+:\d+:\d+:)(.+)$`)

// colorize adds ANSI color codes to the message.
func colorize(message string) string {
	const (
		red   = "\033[31m"
		dim   = "\033[2m"
		reset = "\033[0m"
	)
	return reDiagnostic.ReplaceAllString(message, dim+"$1"+reset+red+"$2"+reset)
}
