package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sarpt/goutils/pkg/listflag"

	"github.com/sarpt/hifi-web-api/cmd/hifi-web-api/internal/utils"
	"github.com/sarpt/hifi-web-api/internal/config"
	"github.com/sarpt/hifi-web-api/internal/store"
	"github.com/sarpt/hifi-web-api/pkg/api"
)

const (
	defaultSocketTimeoutSecs = 15

	addrFlag          = "addr"
	allowOriginFlag   = "allow-origin"
	configFlag        = "config"
	mpvSocketPathFlag = "mpv-socket-path"
	socketTimeoutFlag = "socket-timeout"
	startMpvFlag      = "start-mpv"
)

var (
	address        *string
	allowedOrigins *listflag.StringList
	configPath     *string
	mpvSocketPath  *string
	socketTimeout  *int
	startMpv       *bool
)

func init() {
	allowedOrigins = listflag.NewStringList([]string{})

	address = flag.String(addrFlag, "", "address the server should listen on. overrides the address from the config file")
	flag.Var(allowedOrigins, allowOriginFlag, "origin allowed to open channels and issue commands. can be provided multiple times. overrides origins from the config file")
	configPath = flag.String(configFlag, "", "path to the TOML config file. when left empty, ~/.hifi-web-api/config.toml is used")
	mpvSocketPath = flag.String(mpvSocketPathFlag, "", "path to the socket used for communication with mpv. overrides the path from the config file")
	socketTimeout = flag.Int(socketTimeoutFlag, defaultSocketTimeoutSecs, "seconds to wait for the mpv socket to accept a connection")
	startMpv = flag.Bool(startMpvFlag, false, "when provided, the server starts and owns an mpv instance instead of expecting one on the socket")

	flag.Parse()
}

func main() {
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)

		return
	}

	if err := utils.EnsureConfigDir(cfg.Path); err != nil {
		fmt.Fprintf(os.Stderr, "could not prepare config directory: %s\n", err)
	}

	if *address != "" {
		cfg.Address = *address
	}
	if *mpvSocketPath != "" {
		cfg.MpvSocketPath = *mpvSocketPath
	}
	if len(allowedOrigins.Values()) > 0 {
		cfg.AllowedOrigins = allowedOrigins.Values()
	}

	server, err := api.NewServer(api.Config{
		Address:                 cfg.Address,
		AllowedOrigins:          cfg.AllowedOrigins,
		CatalogAddress:          cfg.Catalog.Address,
		CatalogAppID:            cfg.Catalog.AppID,
		CatalogUserToken:        cfg.Catalog.UserToken,
		ConfigPath:              cfg.Path,
		ErrWriter:               os.Stderr,
		MpvSocketPath:           cfg.MpvSocketPath,
		OutWriter:               os.Stdout,
		SocketConnectionTimeout: time.Duration(*socketTimeout) * time.Second,
		StartMpvInstance:        *startMpv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)

		return
	}
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RedisAddress != "" {
		sessionStore, err := store.NewStore(store.Config{
			Address:    cfg.RedisAddress,
			ErrWriter:  os.Stderr,
			OutWriter:  os.Stdout,
			Repository: server.Repository(),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)

			return
		}
		defer sessionStore.Close()

		if err := sessionStore.Restore(); err != nil {
			fmt.Fprintf(os.Stderr, "could not restore the persisted session: %s\n", err)
		}

		sessionStore.Observe()
		go sessionStore.Serve(ctx)
	}

	fmt.Fprintf(os.Stdout, "configuration loaded from '%s'\n", cfg.Path)

	err = server.Serve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)

		return
	}
}
