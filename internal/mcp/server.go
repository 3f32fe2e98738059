package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	mcptools "github.com/felixgeelhaar/lifecycles/adapter/mcp"
	"github.com/felixgeelhaar/lifecycles/internal/app"
	"github.com/felixgeelhaar/lifecycles/pkg/config"
)

// ServerName is the name advertised to MCP clients.
const ServerName = "lifecycles-mcp"

// Run wires a container from cfg and serves it until ctx is canceled.
// Cancellation is a clean shutdown.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize container: %w", err)
	}
	defer container.Close()

	if err := container.Start(ctx); err != nil {
		return fmt.Errorf("start container: %w", err)
	}

	err = Serve(ctx, cfg, NewCLIApp(container), logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Serve exposes the CLI app's handlers as MCP tools over HTTP and blocks
// until ctx is canceled.
func Serve(ctx context.Context, cfg *config.Config, cliApp *cli.App, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := NewServer(cli.Version, cliApp)
	if err != nil {
		return err
	}

	logger.Info("mcp server listening", "addr", cfg.MCPAddr, "auth", cfg.MCPAuthToken != "")
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.MCPAddr, nil,
		mcpgo.WithMiddleware(middlewareStack(cfg.MCPAuthToken, logger)...))
}

// NewServer creates the MCP server with every lifecycle tool registered.
func NewServer(version string, cliApp *cli.App) (*mcpgo.Server, error) {
	srv := mcpgo.NewServer(mcpgo.ServerInfo{
		Name:         ServerName,
		Version:      version,
		Capabilities: mcpgo.Capabilities{Tools: true},
	})
	if err := mcptools.RegisterCLITools(srv, mcptools.ToolDependencies{App: cliApp}); err != nil {
		return nil, err
	}
	return srv, nil
}

// middlewareStack puts bearer-token authentication in front of the default
// stack when token is set.
func middlewareStack(token string, logger *slog.Logger) []middleware.Middleware {
	log := slogFields{logger}
	stack := middleware.DefaultStack(log)
	if token == "" {
		logger.Warn("MCP auth token not set; requests will be unauthenticated")
		return stack
	}

	auth := middleware.BearerTokenAuthenticator(middleware.StaticTokens(map[string]*middleware.Identity{
		token: {ID: "mcp", Name: "mcp"},
	}))
	return append([]middleware.Middleware{middleware.Auth(auth, middleware.WithAuthLogger(log))}, stack...)
}

// slogFields adapts slog to the middleware logger.
type slogFields struct {
	logger *slog.Logger
}

func (l slogFields) Debug(msg string, fields ...middleware.Field) { l.log(slog.LevelDebug, msg, fields) }
func (l slogFields) Info(msg string, fields ...middleware.Field)  { l.log(slog.LevelInfo, msg, fields) }
func (l slogFields) Warn(msg string, fields ...middleware.Field)  { l.log(slog.LevelWarn, msg, fields) }
func (l slogFields) Error(msg string, fields ...middleware.Field) { l.log(slog.LevelError, msg, fields) }

func (l slogFields) log(level slog.Level, msg string, fields []middleware.Field) {
	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
