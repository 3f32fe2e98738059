package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/commands"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/queries"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	sharedApplication "github.com/felixgeelhaar/lifecycles/internal/shared/application"
)

type mapStatusInput struct {
	From   string `json:"from" jsonschema:"required"`
	To     string `json:"to" jsonschema:"required"`
	Status string `json:"status" jsonschema:"required"`
}

type setMapInput struct {
	From    string            `json:"from" jsonschema:"required"`
	To      string            `json:"to" jsonschema:"required"`
	Mapping map[string]string `json:"mapping"`
}

type mapTools struct {
	app *cli.App
}

func registerMapTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := mapTools{app: deps.App}

	srv.Tool("lifecycle.map_status").
		Description("Translate a status when a ticket moves from one lifecycle to another").
		Handler(tools.mapStatus)

	srv.Tool("lifecycle.set_map").
		Description("Replace the status map between two lifecycles").
		Handler(tools.setMap)

	srv.Tool("lifecycle.unmapped_pairs").
		Description("List ordered pairs of same-type lifecycles that lack a map").
		Handler(tools.unmappedPairs)

	return nil
}

func (t mapTools) mapStatus(ctx context.Context, input mapStatusInput) (*queries.MapStatusDTO, error) {
	if t.app.MapsHandler == nil {
		return nil, errRegistryUnavailable
	}
	return t.app.MapsHandler.MapStatus(ctx, queries.MapStatusQuery{
		From:   input.From,
		To:     input.To,
		Status: input.Status,
	})
}

func (t mapTools) setMap(ctx context.Context, input setMapInput) (*mutationResult, error) {
	if t.app.SetMapHandler == nil {
		return nil, errRegistryUnavailable
	}
	err := t.app.SetMapHandler.Handle(ctx, commands.SetMapCommand{
		From:    input.From,
		To:      input.To,
		Mapping: input.Mapping,
	})
	res := sharedApplication.NewCommandResult(nil, err)
	result := &mutationResult{Success: res.Success, Message: res.Message()}
	if res.Success {
		result.Map = domain.TransitionKey(input.From, input.To)
	}
	return result, nil
}

func (t mapTools) unmappedPairs(ctx context.Context, input struct{}) ([]domain.MapPair, error) {
	if t.app.MapsHandler == nil {
		return nil, errRegistryUnavailable
	}
	return t.app.MapsHandler.Unmapped(ctx), nil
}
