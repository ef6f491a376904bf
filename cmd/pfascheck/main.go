// Command pfascheck checks zip codes against the PFAS reference set from the command line
//
//	pfascheck -zip 02134
//	pfascheck -file clients.xlsx [-column "Zip Code"] [-out results.csv]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"pfascheck/internal/core/version"
	"pfascheck/internal/modkit"
	"pfascheck/internal/modkit/module"
	"pfascheck/internal/platform/config"
	"pfascheck/internal/platform/logger"
	"pfascheck/internal/platform/store"
	zcsvc "pfascheck/internal/services/api/zipcheck/service"
	refdom "pfascheck/internal/services/reference/domain"
	refmod "pfascheck/internal/services/reference/module"

	"github.com/joho/godotenv"
)

// exit codes
const (
	exitOK     = 0
	exitInput  = 1
	exitConfig = 2
)

type options struct {
	zip     string
	file    string
	column  string
	out     string
	version bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("pfascheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.zip, "zip", "", "check a single 5-digit zip code")
	fs.StringVar(&o.file, "file", "", "process a csv, tsv, xlsx or xls file of clients")
	fs.StringVar(&o.column, "column", "", "zip code column in -file (auto-detected when empty)")
	fs.StringVar(&o.out, "out", "", "report path (default <name>_with_pfas_status.csv next to -file)")
	fs.BoolVar(&o.version, "version", false, "print build info and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if !o.version && (o.zip == "") == (o.file == "") {
		fs.Usage()
		return o, errors.New("exactly one of -zip or -file is required")
	}
	return o, nil
}

func main() {
	_ = godotenv.Load()
	// stdout carries verdicts and summaries; logs go to stderr
	lo := logger.FromEnv()
	lo.Writer = os.Stderr
	logger.Init(lo)
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitConfig
	}
	if o.version {
		fmt.Fprintln(stdout, version.InfoFor(version.CLI).String())
		return exitOK
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lookup, closeFn, err := openReference(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "configuration error:", err)
		return exitConfig
	}
	defer closeFn()

	return execute(ctx, o, zcsvc.New(lookup, nil), stdout, stderr)
}

// openReference opens the configured source; config panics become errors
func openReference(ctx context.Context) (lookup refdom.Lookup, closeFn func(), err error) {
	var st *store.Store
	defer func() {
		if r := recover(); r != nil {
			_ = st.Close(context.Background())
			lookup, closeFn, err = nil, nil, fmt.Errorf("%v", r)
		}
	}()

	root := config.New()
	l := logger.Named("cli")
	backend := root.Prefix("CORE_REFERENCE_").MayEnum("SOURCE", store.BackendMongo, store.BackendMongo, store.BackendPG)
	st, err = store.Open(ctx, store.FromEnv(root, "pfascheck-cli", backend), store.WithLogger(*l))
	if err != nil {
		return nil, nil, err
	}
	ref := refmod.New(modkit.Deps{Log: *l, Cfg: root, Store: st}, refmod.FromConfig(root))
	closeFn = func() {
		if cerr := st.Close(context.Background()); cerr != nil {
			l.Error().Err(cerr).Msg("failed to close store")
		}
	}
	return module.MustPortsOf[refdom.Lookup](ref), closeFn, nil
}
