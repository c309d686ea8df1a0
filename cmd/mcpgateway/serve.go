package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcpgateway/gateway/internal/backend"
	"github.com/mcpgateway/gateway/internal/frontend"
	"github.com/mcpgateway/gateway/internal/groups"
	"github.com/mcpgateway/gateway/internal/gwconfig"
	"github.com/mcpgateway/gateway/internal/gwlog"
	"github.com/mcpgateway/gateway/internal/proxysvc"
	"github.com/viant/jsonrpc/transport"
	mcpclientproto "github.com/viant/mcp-protocol/client"
	mcplogger "github.com/viant/mcp-protocol/logger"
	mcpserverproto "github.com/viant/mcp-protocol/server"
	mcpserver "github.com/viant/mcp/server"
)

// ServeCmd starts the aggregating proxy over stdio, serving the union of
// tools/resources/prompts visible through the named groups.
type ServeCmd struct {
	BackendsPath string `long:"backends" description:"Path to backend-servers.json (default: platform config dir)"`
	GroupsPath   string `long:"groups" description:"Path to groups.json (default: platform config dir)"`
	Silent       bool   `long:"silent" description:"Discard backend child processes' stderr instead of inheriting it"`
	Args         struct {
		Groups []string `positional-arg-name:"groupnames" required:"1"`
	} `positional-args:"yes"`
}

func (s *ServeCmd) Execute(_ []string) error {
	logger := gwlog.New(os.Stderr)

	cfg, err := loadConfig(s.BackendsPath, s.GroupsPath)
	if err != nil {
		return err
	}
	if err := gwconfig.ValidateReferences(cfg.groups, s.Args.Groups, cfg.backends); err != nil {
		return fmt.Errorf("mcpgateway: %w", err)
	}

	model := groups.New(cfg.groups, logger)
	required := model.GetRequiredServersForGroups(s.Args.Groups)

	manager := backend.New(cfg.backends, logger).WithSilent(s.Silent)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if errs := manager.ConnectAll(ctx, required); len(errs) > 0 {
		for name, cerr := range errs {
			logger.Warnf("mcpgateway: backend %s failed initial connect: %v", name, cerr)
		}
	}

	catalog := manager.DiscoverCatalog(ctx, manager.GetConnectedServerNames())
	proxy := proxysvc.New(manager, logger)
	router := frontend.New(model, catalog, proxy, s.Args.Groups, logger)

	srv, err := mcpserver.New(
		mcpserver.WithNewHandler(func(_ context.Context, _ transport.Notifier, _ mcplogger.Logger, _ mcpclientproto.Operations) (mcpserverproto.Handler, error) {
			return router, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("mcpgateway: building mcp server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	serveErrCh := make(chan error, 1)
	go func() {
		serveErrCh <- srv.Stdio(ctx)
	}()

	select {
	case <-sigCh:
		log.Printf("mcpgateway: shutdown signal received")
		cancel()
		<-serveErrCh
	case err := <-serveErrCh:
		if err != nil {
			logger.Errorf("mcpgateway: stdio server stopped: %v", err)
		}
	}

	manager.DisconnectAll()
	return nil
}
