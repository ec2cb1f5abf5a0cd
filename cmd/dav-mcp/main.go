package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/PhilflowIO/dav-mcp-sub001/internal/cache"
	"github.com/PhilflowIO/dav-mcp-sub001/internal/config"
	"github.com/PhilflowIO/dav-mcp-sub001/internal/davclient"
	"github.com/PhilflowIO/dav-mcp-sub001/internal/logging"
	"github.com/PhilflowIO/dav-mcp-sub001/internal/tools"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "path to YAML config file (env vars override)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)

	client, err := davclient.New(cfg.ServerURL, cfg.Username, cfg.Password, cfg.HTTPTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build dav client")
	}

	svc := tools.New(tools.Options{
		Client:          client,
		CalendarPath:    cfg.CalendarPath,
		AddressBookPath: cfg.AddressBookPath,
		Listings:        cache.New[string, []davclient.Object](cfg.CacheTTL),
		Log:             log,
	})

	srv := server.NewMCPServer("dav-mcp", version)
	svc.Register(srv)

	log.Info().Str("server", cfg.ServerURL).Msg("serving tools over stdio")
	if err := server.ServeStdio(srv); err != nil {
		log.Fatal().Err(err).Msg("stdio server stopped")
	}
}
