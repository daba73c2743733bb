package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/coder/websocket"
	"github.com/spf13/cobra"

	"github.com/willbeason/mandelspiral/pkg/config"
	"github.com/willbeason/mandelspiral/pkg/render"
	"github.com/willbeason/mandelspiral/pkg/viewport"
)

//go:embed index.html
var indexHTML []byte

func mainCmd() *cobra.Command {
	opts := &config.Options{}
	port := 8080

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an explorer for the Mandelbrot set, or a Julia set, to web browsers",
		Long: `Serve an explorer for the Mandelbrot set, or a Julia set, to web browsers.

Every browser connection gets its own view. Pixels are computed on the server
in spiral order from the center and streamed over a websocket as they are drawn.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCmd(cmd, *opts, port)
		},
	}

	opts.Bind(cmd.Flags())
	cmd.Flags().IntVar(&port, "port", port, "HTTP port to listen on")

	return cmd
}

func runCmd(cmd *cobra.Command, opts config.Options, port int) error {
	v, err := opts.Viewport()
	if err != nil {
		return err
	}

	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newHandler(ctx, v, opts.Settings(), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("listening on http://localhost:%d", port)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// newHandler serves the explorer page at / and streams sessions on /ws.
// Sessions end when ctx is cancelled.
func newHandler(ctx context.Context, v viewport.Viewport, s render.Settings, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			logger.Println(err)
			return
		}
		defer c.CloseNow()

		logger.Printf("got connection from: %s", r.RemoteAddr)

		connCtx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go func() {
			select {
			case <-ctx.Done():
				cancel()
			case <-connCtx.Done():
			}
		}()

		err = newStream(c, v, s, logger).run(connCtx)
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			err = nil
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("connection from %s: %v", r.RemoteAddr, err)
			return
		}

		c.Close(websocket.StatusNormalClosure, "")
		logger.Printf("connection from %s closed", r.RemoteAddr)
	})

	return mux
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
