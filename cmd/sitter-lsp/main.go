package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	glspserver "github.com/tliron/glsp/server"

	"github.com/CWBudde/go-sitter-lsp/internal/config"
	"github.com/CWBudde/go-sitter-lsp/internal/lang"
	"github.com/CWBudde/go-sitter-lsp/internal/lsp"
	"github.com/CWBudde/go-sitter-lsp/internal/metrics"
	"github.com/CWBudde/go-sitter-lsp/internal/server"
)

var (
	tcpMode     bool
	tcpPort     int
	logLevel    string
	logFile     string
	configPath  string
	metricsAddr string
)

var log = commonlog.GetLogger("sitter-lsp")

func init() {
	flag.BoolVar(&tcpMode, "tcp", false, "Run server in TCP mode (for debugging)")
	flag.IntVar(&tcpPort, "port", 8765, "TCP port to listen on (used with -tcp)")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off (overrides the config file)")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	flag.StringVar(&configPath, "config", "", "Path to a TOML configuration file")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090 (overrides the config file)")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, "%s version %s\n\n", lsp.Name, lsp.Version)
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", lsp.Name)
	fmt.Fprintf(os.Stderr, "Language server driven by declarative rule tables over concrete syntax trees\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	if flag.NArg() > 0 && flag.Arg(0) == "version" {
		fmt.Printf("%s version %s\n", lsp.Name, lsp.Version)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", lsp.Name, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Server.LogLevel = logLevel
	}
	if metricsAddr != "" {
		cfg.Server.MetricsAddr = metricsAddr
	}

	if err := setupLogging(cfg.Server.LogLevel); err != nil {
		return err
	}

	srv, err := server.New(cfg, lang.Builtin())
	if err != nil {
		return err
	}
	lsp.SetServer(srv)

	if cfg.Server.MetricsAddr != "" {
		go serveMetrics(cfg.Server.MetricsAddr)
	}

	glspServer := glspserver.NewServer(lsp.NewHandler(), lsp.Name, false)

	if tcpMode {
		addr := fmt.Sprintf("127.0.0.1:%d", tcpPort)
		log.Noticef("starting TCP server on %s", addr)
		if err := glspServer.RunTCP(addr); err != nil {
			return fmt.Errorf("TCP server: %w", err)
		}
		return nil
	}

	log.Notice("starting stdio server")
	if err := glspServer.RunStdio(); err != nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

// setupLogging configures commonlog's simple backend. Logs go to stderr
// unless -log-file is set, since stdout carries the protocol.
func setupLogging(level string) error {
	verbosity, err := config.Verbosity(level)
	if err != nil {
		return err
	}
	if logFile != "" {
		commonlog.Configure(verbosity, &logFile)
	} else {
		commonlog.Configure(verbosity, nil)
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Infof("serving metrics on %s/metrics", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("metrics server: %v", err)
	}
}
