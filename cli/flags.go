package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/abiiranathan/goflag"
	"github.com/abiiranathan/pdfscan/search"
)

func printResults(w io.Writer, results []search.Result) {
	for _, result := range results {
		for _, match := range result.Pages {
			page := "?"
			if match.Resolved() {
				page = fmt.Sprint(match.Page)
			}
			fmt.Fprintf(w, "%s Page: %s : %s\n", result.Path, page, match.Text)
		}
	}
}

// printProgress writes events to w until ch is closed.
func printProgress(w io.Writer, ch <-chan search.Progress, done chan<- struct{}) {
	for p := range ch {
		fmt.Fprintf(w, "(%d/%d) Processing: %s\n", p.Current, p.Total, p.File)
	}
	close(done)
}

// RunSearch runs the search described by config and prints the results.
func RunSearch(ctx context.Context, config *Config, engine *search.Engine, stdout, stderr io.Writer) error {
	mode, err := search.ParseMode(config.Mode)
	if err != nil {
		return err
	}

	query, err := search.NewQuery(config.Directory, config.Pattern, mode, config.QueryOptions()...)
	if err != nil {
		return err
	}

	progress := make(chan search.Progress, 64)
	done := make(chan struct{})
	go printProgress(stderr, progress, done)

	report, err := engine.Run(ctx, query, search.Hooks{Progress: search.ChannelProgress(progress)})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	printResults(stdout, report.Results)
	for _, skipped := range report.Skipped {
		fmt.Fprintf(stderr, "skipped %s: %s\n", skipped.Document.Path, skipped.Reason)
	}
	fmt.Fprintf(stderr, "%d of %d files matched in %s\n", report.Matched, report.Total, report.Elapsed)
	return nil
}

// RunLocate prints the page of config.Filename that contains config.Text.
func RunLocate(ctx context.Context, config *Config, engine *search.Engine, stdout io.Writer) error {
	page, ok := engine.LocatePage(ctx, config.Filename, config.Text)
	if !ok {
		return fmt.Errorf("%q not found in %s", config.Text, config.Filename)
	}
	fmt.Fprintf(stdout, "%s Page: %d\n", config.Filename, page)
	return nil
}

// MustEngine builds the engine for config or exits.
func MustEngine(config *Config) *search.Engine {
	engine, err := NewEngine(config, config.Logger())
	if err != nil {
		log.Fatalln(err)
	}
	return engine
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func DefineFlags(config *Config, runserver, runmcp func()) *goflag.Context {
	// Flags required by multiple subcomands
	patternFlag := goflag.Flag{
		FlagType:  goflag.FlagString,
		Name:      "pattern",
		ShortName: "p",
		Value:     &config.Pattern,
		Usage:     "Keywords separated by spaces, commas or semicolons",
		Required:  true,
		Validator: nil,
	}

	modeFlag := goflag.Flag{
		FlagType:  goflag.FlagString,
		Name:      "mode",
		ShortName: "m",
		Value:     &config.Mode,
		Usage:     "Match mode: pages, text or multi",
		Required:  false,
		Validator: nil,
	}

	// Create flag context.
	ctx := goflag.NewContext()

	// global flags
	ctx.AddFlag(goflag.FlagInt, "concurrency", "c",
		&config.MaxConcurrency,
		"No of concurrent files to be processed at once (0 = one per CPU)",
		false, goflag.Min(0), goflag.Max(100))
	ctx.AddFlag(goflag.FlagString, "config", "C", &config.ConfigFile,
		"YAML configuration file read before the flags", false)
	ctx.AddFlag(goflag.FlagString, "backend", "b", &config.Backend,
		"PDF text backend: poppler or docconv", false)
	ctx.AddFlag(goflag.FlagString, "cache-policy", "cp", &config.CachePolicy,
		"Text cache policy: fill or lru", false)
	ctx.AddFlag(goflag.FlagInt, "cache-size", "cs", &config.CacheSize,
		"Documents kept in the text cache", false, goflag.Min(1))
	ctx.AddFlag(goflag.FlagString, "log-level", "l", &config.LogLevel,
		"Log level: debug, info, warn or error", false)

	// register subcommands
	ctx.AddSubCommand("search", "Search directory of PDF files recursively", func() {
		ictx, stop := interruptible()
		defer stop()

		err := RunSearch(ictx, config, MustEngine(config), os.Stdout, os.Stderr)
		if err != nil {
			log.Fatalln(err)
		}
	}).AddFlag(goflag.FlagDirPath, "directory", "d", &config.Directory, "The directory to search", true).
		AddFlagPtr(&patternFlag).
		AddFlagPtr(&modeFlag).
		AddFlag(goflag.FlagBool, "stopwords", "s", &config.Stopwords, "Drop English stop words from the keywords", false).
		AddFlag(goflag.FlagBool, "path-order", "po", &config.PathOrder, "Search files in path order, not smallest first", false)

	ctx.AddSubCommand("locate", "Find the page of a PDF file containing some text", func() {
		ictx, stop := interruptible()
		defer stop()

		if err := RunLocate(ictx, config, MustEngine(config), os.Stdout); err != nil {
			log.Fatalln(err)
		}
	}).AddFlag(goflag.FlagFilePath, "file", "f", &config.Filename, "The PDF file", true).
		AddFlag(goflag.FlagString, "text", "t", &config.Text, "The text to look for", true).
		AddFlag(goflag.FlagInt, "lines-per-page", "lp", &config.LinesPerPage, "Lines per page assumed by the estimate", false, goflag.Min(1))

	// Run server
	ctx.AddSubCommand("serve", "Start an Http server for search", runserver).
		AddFlag(goflag.FlagInt, "port", "p", &config.Port, "The port to run the server on", false).
		AddFlag(goflag.FlagString, "host", "H", &config.Host, "The address to bind, 0.0.0.0 for every interface", false)

	ctx.AddSubCommand("mcp", "Serve the search tools over MCP on stdio", runmcp)

	return ctx
}
