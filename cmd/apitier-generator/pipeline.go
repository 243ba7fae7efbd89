package main

import (
	"context"

	"go.uber.org/zap"

	"apitier-generator/internal/diagnostic"
	"apitier-generator/internal/gen"
	"apitier-generator/internal/plan"
	"apitier-generator/internal/registry"
)

// loadDeclarations reads the manifest, then the annotated headers, in that
// order.
func (a *app) loadDeclarations(ctx context.Context) ([]registry.Declaration, *diagnostic.Diagnostics, error) {
	if a.cfg.Registry == "" && len(a.cfg.Headers) == 0 {
		return nil, nil, errNoInput
	}

	var (
		decls []registry.Declaration
		diags diagnostic.Diagnostics
	)

	if a.cfg.Registry != "" {
		m, err := registry.LoadManifest(a.cfg.Registry)
		if err != nil {
			return nil, nil, err
		}

		decls = append(decls, m.Declarations()...)
		a.logger.Debug("loaded manifest",
			zap.String("path", a.cfg.Registry), zap.Int("symbols", len(m.Symbols)))
	}

	if len(a.cfg.Headers) > 0 {
		paths, err := registry.ExpandHeaderPaths(a.cfg.Headers)
		if err != nil {
			return nil, nil, err
		}

		scanned, scanDiags, err := registry.ScanHeaders(ctx, paths, registry.ScanOptions{
			Workers: a.cfg.Scan.Workers,
			Logger:  a.logger,
		})
		if err != nil {
			return nil, nil, err
		}

		diags.Merge(scanDiags)
		decls = append(decls, scanned...)
	}

	return decls, &diags, nil
}

// loadRegistry builds the registry from all configured inputs.
func (a *app) loadRegistry(ctx context.Context) (*registry.Registry, error) {
	decls, diags, err := a.loadDeclarations(ctx)
	if err != nil {
		return nil, err
	}

	reg, buildDiags := registry.Build(decls)
	diags.Merge(buildDiags)
	a.report(diags)

	if err := diags.Err(); err != nil {
		return nil, err
	}

	return reg, nil
}

// resolve builds the rename plan for the configured tiers.
func (a *app) resolve(ctx context.Context) (*plan.RenamePlan, error) {
	reg, err := a.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}

	tiers, err := a.cfg.EmitTiers()
	if err != nil {
		return nil, err
	}

	p, err := plan.NewResolver(reg, plan.ResolutionConfig{Tiers: tiers}).Resolve()
	if err != nil {
		return nil, err
	}

	a.report(&p.Diagnostics)

	return p, nil
}

// generate renders the headers in memory. Nothing is written here.
func (a *app) generate(ctx context.Context) ([]gen.GeneratedFile, error) {
	p, err := a.resolve(ctx)
	if err != nil {
		return nil, err
	}

	genConfig, err := a.cfg.GeneratorConfig()
	if err != nil {
		return nil, err
	}

	files, err := gen.NewGenerator(genConfig).Generate(p)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("generated headers",
		zap.Int("files", len(files)), zap.Int("rules", p.RuleCount()))

	return files, nil
}

// report logs warnings and infos. Errors are returned to the caller instead.
func (a *app) report(diags *diagnostic.Diagnostics) {
	for _, d := range diags.Warnings {
		a.logger.Warn(d.Message, zap.String("code", d.Code), zap.String("source", d.Source))
	}

	for _, d := range diags.Infos {
		a.logger.Info(d.Message, zap.String("code", d.Code))
	}
}
