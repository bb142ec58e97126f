// Command attendancectl runs reports and maintenance jobs against the
// postgres attendance store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/logger"
)

const usage = `Usage: attendancectl [-v] <command> [flags]

Commands:
  summary      print an attendance summary
  export       write records as csv or xlsx
  mark-absent  create absent records for a day
  close-stale  check out sessions left open on earlier days

Run "attendancectl <command> -h" for command flags.
`

// command parses its flags and returns the work to run once the services are
// up, so "-h" and flag errors never touch the database.
type command func(args []string, stderr io.Writer) (func(ctx context.Context, a *app) error, error)

var commands = map[string]command{
	"summary":     runSummary,
	"export":      runExport,
	"mark-absent": runMarkAbsent,
	"close-stale": runCloseStale,
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("attendancectl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	verbose := global.Bool("v", false, "verbose logging")
	if err := global.Parse(args); err != nil {
		return 2
	}

	logger.SetupConsole(stderr, *verbose)

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", rest[0])
		global.Usage()
		return 2
	}

	run, err := cmd(rest[1:], stderr)
	if err != nil {
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, stdout)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start")
		return 1
	}
	defer a.Close()

	if err := run(ctx, a); err != nil {
		log.Error().Err(err).Str("command", rest[0]).Msg("Command failed")
		return 1
	}
	return 0
}
