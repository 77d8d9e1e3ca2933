package main

import (
	"log"
	"os"

	"github.com/abiiranathan/pdfscan/cli"
	"github.com/abiiranathan/pdfscan/pdf"
	"github.com/abiiranathan/pdfscan/server"
)

// Default configuration for the CLI
var config = &cli.DefaultConfig

func startServer() {
	server.Run(config, cli.MustEngine(config))
}

func startMCP() {
	if err := server.ServeMCP(cli.MustEngine(config), server.RouteOptions(config)); err != nil {
		log.Fatalln(err)
	}
}

func main() {
	log.SetPrefix("[pdfscan]: ")
	log.SetFlags(log.Lshortfile)

	// Set the locale to the system's default
	pdf.SetLocale()

	// Settings from the config file are overridden by the flags.
	if path := cli.ConfigPath(os.Args); path != "" {
		if err := cli.LoadFile(config, path, false); err != nil {
			log.Fatalln(err)
		}
	}

	// Parse the command line arguments
	ctx := cli.DefineFlags(config, startServer, startMCP)
	subcmd, err := ctx.Parse(os.Args)
	if err != nil {
		log.Fatalln(err)
	}

	// If the subcommand is nil, print the usage and exit
	if subcmd == nil {
		ctx.PrintUsage(os.Stdout)
		os.Exit(1)
	}

	// Run the subcommand
	subcmd.Handler()
}
