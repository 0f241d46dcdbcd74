// Package cli implements the finc command.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/funvibe/finlang/internal/analyzer"
	"github.com/funvibe/finlang/internal/astyaml"
	"github.com/funvibe/finlang/internal/config"
	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/prettyprinter"
	"github.com/funvibe/finlang/internal/store"
	"github.com/funvibe/finlang/internal/transport"
)

const usage = `usage:
  finc check [-arch file] [-db file] [-v] unit.yaml|dir...
  finc signature [-db file | -addr host:port] name
  finc serve [-addr host:port] (-db file | unit.yaml|dir...)
  finc print unit.yaml|dir...
  finc -version
`

const defaultAddr = "127.0.0.1:7410"

// Run executes the command line of the current process and exits.
func Run() {
	os.Exit(Main(os.Args[1:], os.Stdout, os.Stderr))
}

// Main executes one finc command and returns its exit status.
func Main(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	switch args[0] {
	case "-v", "-version", "--version", "version":
		fmt.Fprintln(stdout, "finc "+config.Version)
		return 0
	case "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	case "check":
		return handleCheck(args[1:], stdout, stderr)
	case "signature":
		return handleSignature(args[1:], stdout, stderr)
	case "serve":
		return handleServe(args[1:], stderr)
	case "print":
		return handlePrint(args[1:], stdout, stderr)
	}
	fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
	return 2
}

// isUnitFile checks if a file has a recognized unit extension
func isUnitFile(path string) bool {
	for _, ext := range config.UnitFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// collectUnits expands directories into the unit files they contain, in
// lexical order.
func collectUnits(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isUnitFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// printer writes diagnostics, coloured when the destination is a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) *printer {
	p := &printer{w: w}
	if f, ok := w.(*os.File); ok && os.Getenv("NO_COLOR") == "" {
		fd := f.Fd()
		p.color = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return p
}

func (p *printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func (p *printer) failure(file string, err error) {
	var agg *diagnostics.AggregateError
	if !errors.As(err, &agg) {
		fmt.Fprintf(p.w, "%s %s: %s\n", p.paint("31", "FAIL"), file, err)
		return
	}
	fmt.Fprintf(p.w, "%s %s (%s)\n", p.paint("31", "FAIL"), file, agg.Phase)
	for _, e := range agg.Errors {
		fmt.Fprintf(p.w, "- %s: %s [%s]: %s\n", e.Token.Position(), p.paint("1;31", "error"), e.Code, e.Message)
	}
}

func handleCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	archPath := fs.String("arch", "", "architecture YAML file")
	dbPath := fs.String("db", "", "store accepted units in this SQLite database")
	verbose := fs.Bool("v", false, "trace analysis phases")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	files, err := collectUnits(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	arch := config.DefaultArchitecture()
	if *archPath != "" {
		if arch, err = config.LoadArchitecture(*archPath); err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
			return 1
		}
	}
	var opts []analyzer.Option
	if *verbose {
		opts = append(opts, analyzer.WithLogger(log.New(stderr, "", 0)))
	}
	program := analyzer.NewProgram(arch, opts...)

	var db *store.Store
	if *dbPath != "" {
		if db, err = store.Open(*dbPath); err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
			return 1
		}
		defer db.Close()
	}

	ctx := context.Background()
	out := newPrinter(stderr)
	failed := false
	for _, file := range files {
		units, err := astyaml.Load(file)
		if err != nil {
			out.failure(file, err)
			failed = true
			continue
		}
		for _, unit := range units {
			art, err := program.Add(unit)
			if err != nil {
				out.failure(file, err)
				failed = true
				continue
			}
			fmt.Fprintf(stdout, "ok   %s %s cost %d of %d\n", file, unit.NamespacePath(), art.CostValue, program.Architecture().CostCeiling)
			if db == nil {
				continue
			}
			saved, inserted, err := db.Save(ctx, art)
			if err != nil {
				fmt.Fprintf(stderr, "%s\n", err)
				return 1
			}
			if *verbose && !inserted {
				fmt.Fprintf(stderr, "%s already stored as %s\n", file, saved.ID)
			}
		}
	}
	if failed {
		return 1
	}
	fmt.Fprintf(stdout, "total cost %d\n", program.Cost())
	return 0
}

func handleSignature(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("signature", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", "", "SQLite database written by finc check -db")
	addr := fs.String("addr", "", "address of a finc serve process")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || (*dbPath == "") == (*addr == "") {
		fmt.Fprint(stderr, usage)
		return 2
	}
	name := fs.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var src transport.SignatureSource
	if *addr != "" {
		conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
			return 1
		}
		defer conn.Close()
		src = transport.NewSignaturesClient(conn)
	} else {
		db, err := store.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
			return 1
		}
		defer db.Close()
		src = db
	}

	sig, ok, err := src.Lookup(ctx, name)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	if !ok {
		fmt.Fprintf(stderr, "no function %s\n", name)
		return 1
	}
	data, err := transport.SignatureJSON(sig)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "%s\n", data)
	return 0
}

func handleServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", "", "serve the signatures stored in this database")
	addr := fs.String("addr", defaultAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var src transport.SignatureSource
	switch {
	case *dbPath != "":
		db, err := store.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
			return 1
		}
		defer db.Close()
		src = db
	case fs.NArg() > 0:
		files, err := collectUnits(fs.Args())
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
			return 1
		}
		program := analyzer.NewProgram(nil)
		for _, file := range files {
			units, err := astyaml.Load(file)
			if err != nil {
				newPrinter(stderr).failure(file, err)
				return 1
			}
			for _, unit := range units {
				if _, err := program.Add(unit); err != nil {
					newPrinter(stderr).failure(file, err)
					return 1
				}
			}
		}
		src = transport.ProgramSource{Program: program}
	default:
		fmt.Fprint(stderr, usage)
		return 2
	}

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	server := grpc.NewServer()
	transport.RegisterSignatures(server, src)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		server.GracefulStop()
	}()

	log.Printf("serving %s on %s", transport.ServiceName, lis.Addr())
	if err := server.Serve(lis); err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	return 0
}

func handlePrint(args []string, stdout, stderr io.Writer) int {
	files, err := collectUnits(args)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	for i, file := range files {
		units, err := astyaml.Load(file)
		if err != nil {
			newPrinter(stderr).failure(file, err)
			return 1
		}
		for j, unit := range units {
			if i > 0 || j > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "// %s\n%s", file, prettyprinter.Print(unit))
		}
	}
	return 0
}
