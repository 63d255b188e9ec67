// Command labblog serves a directory of Markdown posts as a blog and a
// JSON API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jugwang/labblog"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: .env: %v\n", err)
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	var err error
	switch args[0] {
	case "serve":
		err = runServe(args[1:])
	case "list":
		err = runList(args[1:], stdout)
	case "new":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "Usage: labblog new <dir>")
			return 1
		}
		err = runNew(args[1], stdout)
	case "version":
		fmt.Fprintf(stdout, "labblog %s\n", version)
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig(name string, args []string) (labblog.SiteConfig, error) {
	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fset.String("config", labblog.EnvOr("LABBLOG_CONFIG", ""), "path to labblog.yaml")
	if err := fset.Parse(args); err != nil {
		return labblog.SiteConfig{}, err
	}
	return labblog.LoadConfig(*path)
}

func runServe(args []string) error {
	cfg, err := loadConfig("serve", args)
	if err != nil {
		return err
	}
	app := labblog.New(cfg, labblog.WithStaticDir("static"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func runList(args []string, stdout io.Writer) error {
	cfg, err := loadConfig("list", args)
	if err != nil {
		return err
	}
	posts, err := labblog.NewLibrary(cfg).Summaries()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(posts)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `labblog - a Markdown blog server built with Go, Echo, and templ

Usage:
  labblog <command> [arguments]

Commands:
  serve [-config file]   Serve the site (default config: labblog.yaml)
  list [-config file]    Print the post listing as JSON
  new <dir>              Create a starter site in dir
  version                Print the labblog version
  help                   Show this help message`)
}
