package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/abiiranathan/pdfscan/cli"
	"github.com/abiiranathan/pdfscan/routes"
	"github.com/abiiranathan/pdfscan/search"
)

// NewHandler builds the API handler for engine.
func NewHandler(config *cli.Config, engine *search.Engine) http.Handler {
	mux := http.NewServeMux()
	routes.SetupRoutes(mux, engine, RouteOptions(config))
	return routes.Logger(os.Stdout)(mux)
}

// RouteOptions derives handler options from the configuration.
func RouteOptions(config *cli.Config) routes.Options {
	mode, err := search.ParseMode(config.Mode)
	if err != nil {
		mode = search.ModePages
	}

	return routes.Options{
		MaxDocumentBytes: config.MaxDocumentBytes,
		Stopwords:        config.Stopwords,
		DefaultMode:      mode,
	}
}

func listenAddr(config *cli.Config) string {
	return net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
}

func Run(config *cli.Config, engine *search.Engine) {
	// Create a new http server to customize the timeouts.
	// Searches over large folders stream for a long time, so there is no
	// write timeout.
	server := &http.Server{
		Addr:              listenAddr(config),
		Handler:           NewHandler(config, engine),
		ReadTimeout:       time.Second * 10,
		ReadHeaderTimeout: time.Second * 5,
	}

	go func() {
		log.Printf("Listening on http://%s\n", server.Addr)

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server terminated with error: %v\n", err)
		}
	}()

	GracefulShutdown(server)
}

// Gracefully shuts down the server. The default timeout is 10 seconds
// To wait for pending connections.
func GracefulShutdown(server *http.Server, timeout ...time.Duration) {
	var t time.Duration
	if len(timeout) > 0 {
		t = timeout[0]
	} else {
		t = 10 * time.Second
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	log.Println("waiting on os.Interrupt")

	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), t)
	defer cancel()

	log.Println("Shutting down the server")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalln(err)
	}
	log.Println("shutting down gracefully")
}
