// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"io"
	"log/slog"

	"github.com/pdiddy/transform-engine/internal/actions"
	"github.com/pdiddy/transform-engine/internal/query"
	"github.com/pdiddy/transform-engine/internal/validation"
	"github.com/pdiddy/transform-engine/pkg/types"
)

// Runtime bundles the dependencies an orchestrator needs. It is assembled by
// the CLI from configuration; tests build it directly.
type Runtime struct {
	Service   query.Service
	Catalog   *actions.Catalog
	Validator *validation.Engine
	Glossary  []types.GlossaryEntry
	Redaction types.RedactionStatus
	Observer  Observer
	Logger    *slog.Logger
	Config    types.OrchestratorConfig
}

func (rt Runtime) withDefaults() Runtime {
	def := types.DefaultConfig().Orchestrator
	if rt.Catalog == nil {
		rt.Catalog = actions.NewCatalog()
	}
	if rt.Validator == nil {
		rt.Validator = validation.NewEngine(types.DefaultValidationConfig())
	}
	if rt.Observer == nil {
		rt.Observer = NopObserver{}
	}
	if rt.Logger == nil {
		rt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if rt.Config.SettleDelay <= 0 {
		rt.Config.SettleDelay = def.SettleDelay
	}
	if rt.Config.Concurrency <= 0 {
		rt.Config.Concurrency = def.Concurrency
	}
	return rt
}
