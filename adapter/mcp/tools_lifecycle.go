package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/commands"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/queries"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	sharedApplication "github.com/felixgeelhaar/lifecycles/internal/shared/application"
)

var errRegistryUnavailable = errors.New("lifecycle registry not initialized")

// mutationResult reports a registry change as a success flag and the
// failure message. Rejected changes are results, not tool errors.
type mutationResult struct {
	Success   bool                      `json:"success"`
	Message   string                    `json:"message,omitempty"`
	Lifecycle *application.LifecycleDTO `json:"lifecycle,omitempty"`
	Map       string                    `json:"map,omitempty"`
}

func lifecycleResult(dto *application.LifecycleDTO, err error) (*mutationResult, error) {
	res := sharedApplication.NewCommandResult(dto, err)
	result := &mutationResult{Success: res.Success, Message: res.Message()}
	if res.Success {
		result.Lifecycle = dto
	}
	return result, nil
}

type lifecycleListInput struct {
	Types []string `json:"types,omitempty"`
}

type lifecycleGetInput struct {
	Name string `json:"name,omitempty"`
}

type checkTransitionInput struct {
	Lifecycle string `json:"lifecycle" jsonschema:"required"`
	From      string `json:"from" jsonschema:"required"`
	To        string `json:"to" jsonschema:"required"`
}

type actionsInput struct {
	Lifecycle string `json:"lifecycle" jsonschema:"required"`
	From      string `json:"from,omitempty"`
}

type lifecycleCreateInput struct {
	Name       string            `json:"name" jsonschema:"required"`
	Definition domain.Definition `json:"definition"`
}

type setStatusesInput struct {
	Name     string   `json:"name" jsonschema:"required"`
	Initial  []string `json:"initial,omitempty"`
	Active   []string `json:"active,omitempty"`
	Inactive []string `json:"inactive,omitempty"`
}

type setTransitionsInput struct {
	Name        string              `json:"name" jsonschema:"required"`
	Transitions map[string][]string `json:"transitions"`
}

type setRightsInput struct {
	Name   string            `json:"name" jsonschema:"required"`
	Rights map[string]string `json:"rights"`
}

type setActionsInput struct {
	Name    string         `json:"name" jsonschema:"required"`
	Actions domain.Actions `json:"actions"`
}

type setDefaultsInput struct {
	Name       string            `json:"name" jsonschema:"required"`
	Initial    string            `json:"initial,omitempty"`
	Inactive   string            `json:"inactive,omitempty"`
	Situations map[string]string `json:"situations,omitempty"`
}

// lifecycleTools adapts the CLI handlers to MCP tool handlers.
type lifecycleTools struct {
	app *cli.App
}

func registerLifecycleTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := lifecycleTools{app: deps.App}

	srv.Tool("lifecycle.list").
		Description("List lifecycles in configuration order, optionally filtered by type").
		Handler(tools.list)

	srv.Tool("lifecycle.get").
		Description("Get a lifecycle's statuses, transitions, rights and actions; an empty name returns the global lifecycle").
		Handler(tools.get)

	srv.Tool("lifecycle.check_transition").
		Description("Check whether a status change is allowed and which right it requires").
		Handler(tools.checkTransition)

	srv.Tool("lifecycle.actions").
		Description("List the actions offered from a status, or every action when no status is given").
		Handler(tools.actions)

	srv.Tool("lifecycle.create").
		Description("Create a lifecycle").
		Handler(tools.create)

	srv.Tool("lifecycle.set_statuses").
		Description("Replace the initial, active and inactive statuses of a lifecycle").
		Handler(tools.setStatuses)

	srv.Tool("lifecycle.set_transitions").
		Description("Replace the transition graph of a lifecycle").
		Handler(tools.setTransitions)

	srv.Tool("lifecycle.set_rights").
		Description("Replace the right table of a lifecycle").
		Handler(tools.setRights)

	srv.Tool("lifecycle.set_actions").
		Description("Replace the actions of a lifecycle").
		Handler(tools.setActions)

	srv.Tool("lifecycle.set_defaults").
		Description("Set the default statuses of a lifecycle").
		Handler(tools.setDefaults)

	srv.Tool("lifecycle.rights").
		Description("List the rights lifecycles require with their descriptions").
		Handler(tools.rights)

	srv.Tool("lifecycle.localization").
		Description("List status names, action labels and right descriptions that need translation").
		Handler(tools.localization)

	srv.Tool("lifecycle.validate").
		Description("Report inconsistencies in the stored lifecycle configuration").
		Handler(tools.validate)

	return nil
}

func (t lifecycleTools) list(ctx context.Context, input lifecycleListInput) ([]queries.LifecycleSummaryDTO, error) {
	if t.app.ListLifecyclesHandler == nil {
		return nil, errRegistryUnavailable
	}
	return t.app.ListLifecyclesHandler.Handle(ctx, queries.ListLifecyclesQuery{Types: input.Types})
}

func (t lifecycleTools) get(ctx context.Context, input lifecycleGetInput) (*application.LifecycleDTO, error) {
	if t.app.GetLifecycleHandler == nil {
		return nil, errRegistryUnavailable
	}
	return t.app.GetLifecycleHandler.Handle(ctx, queries.GetLifecycleQuery{Name: input.Name})
}

func (t lifecycleTools) checkTransition(ctx context.Context, input checkTransitionInput) (*queries.TransitionCheckDTO, error) {
	if t.app.CheckTransitionHandler == nil {
		return nil, errRegistryUnavailable
	}
	if input.From == "" || input.To == "" {
		return nil, errors.New("from and to are required")
	}
	return t.app.CheckTransitionHandler.Handle(ctx, queries.CheckTransitionQuery{
		Lifecycle: input.Lifecycle,
		From:      input.From,
		To:        input.To,
	})
}

func (t lifecycleTools) actions(ctx context.Context, input actionsInput) (domain.Actions, error) {
	if t.app.GetActionsHandler == nil {
		return nil, errRegistryUnavailable
	}
	return t.app.GetActionsHandler.Handle(ctx, queries.GetActionsQuery{Lifecycle: input.Lifecycle, From: input.From})
}

func (t lifecycleTools) create(ctx context.Context, input lifecycleCreateInput) (*mutationResult, error) {
	if t.app.CreateLifecycleHandler == nil {
		return nil, errRegistryUnavailable
	}
	return lifecycleResult(t.app.CreateLifecycleHandler.Handle(ctx, commands.CreateLifecycleCommand{
		Name:       input.Name,
		Definition: input.Definition,
	}))
}

func (t lifecycleTools) setStatuses(ctx context.Context, input setStatusesInput) (*mutationResult, error) {
	if t.app.UpdateLifecycleHandler == nil {
		return nil, errRegistryUnavailable
	}
	return lifecycleResult(t.app.UpdateLifecycleHandler.SetStatuses(ctx, commands.SetStatusesCommand{
		Name:     input.Name,
		Initial:  input.Initial,
		Active:   input.Active,
		Inactive: input.Inactive,
	}))
}

func (t lifecycleTools) setTransitions(ctx context.Context, input setTransitionsInput) (*mutationResult, error) {
	if t.app.UpdateLifecycleHandler == nil {
		return nil, errRegistryUnavailable
	}
	return lifecycleResult(t.app.UpdateLifecycleHandler.SetTransitions(ctx, commands.SetTransitionsCommand{
		Name:        input.Name,
		Transitions: input.Transitions,
	}))
}

func (t lifecycleTools) setRights(ctx context.Context, input setRightsInput) (*mutationResult, error) {
	if t.app.UpdateLifecycleHandler == nil {
		return nil, errRegistryUnavailable
	}
	return lifecycleResult(t.app.UpdateLifecycleHandler.SetRights(ctx, commands.SetRightsCommand{
		Name:   input.Name,
		Rights: input.Rights,
	}))
}

func (t lifecycleTools) setActions(ctx context.Context, input setActionsInput) (*mutationResult, error) {
	if t.app.UpdateLifecycleHandler == nil {
		return nil, errRegistryUnavailable
	}
	return lifecycleResult(t.app.UpdateLifecycleHandler.SetActions(ctx, commands.SetActionsCommand{
		Name:    input.Name,
		Actions: input.Actions,
	}))
}

func (t lifecycleTools) setDefaults(ctx context.Context, input setDefaultsInput) (*mutationResult, error) {
	if t.app.UpdateLifecycleHandler == nil {
		return nil, errRegistryUnavailable
	}
	return lifecycleResult(t.app.UpdateLifecycleHandler.SetDefaults(ctx, commands.SetDefaultsCommand{
		Name:       input.Name,
		Initial:    input.Initial,
		Inactive:   input.Inactive,
		Situations: input.Situations,
	}))
}

func (t lifecycleTools) rights(ctx context.Context, input struct{}) ([]domain.Right, error) {
	if t.app.RightsHandler == nil {
		return nil, errRegistryUnavailable
	}
	return t.app.RightsHandler.Handle(ctx), nil
}

func (t lifecycleTools) localization(ctx context.Context, input struct{}) ([]string, error) {
	if t.app.LocalizationHandler == nil {
		return nil, errRegistryUnavailable
	}
	strs := t.app.LocalizationHandler.Handle(ctx)
	if strs == nil {
		strs = []string{}
	}
	return strs, nil
}

func (t lifecycleTools) validate(ctx context.Context, input struct{}) ([]domain.Issue, error) {
	if t.app.ValidateConfigHandler == nil {
		return nil, errRegistryUnavailable
	}
	return t.app.ValidateConfigHandler.Handle(ctx)
}
