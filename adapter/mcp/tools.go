// Package mcp exposes the lifecycle registry operations as MCP tools. Each
// tool calls the same handler as the matching CLI command.
package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

type registrar func(srv *mcp.Server, deps ToolDependencies) error

// RegisterCLITools registers the core, lifecycle and map tools on srv.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	switch {
	case srv == nil:
		return errors.New("server is required")
	case deps.App == nil:
		return errors.New("app is required")
	}

	for _, register := range []registrar{registerCoreTools, registerLifecycleTools, registerMapTools} {
		if err := register(srv, deps); err != nil {
			return err
		}
	}
	return nil
}
