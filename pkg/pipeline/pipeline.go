// Package pipeline provides the core composition pipeline for mapgrid.
//
// This package implements the complete assemble → plan → render pipeline
// that can be used by CLI, server, and library entry points. By centralizing
// this logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Assemble: Normalize heterogeneous widget inputs into an ordered panel set
//  2. Plan: Compute grid geometry, resolve sync groups, and generate link commands
//  3. Render: Generate output in various formats (HTML, JSON, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.SyncOptions()
//	opts.Ncol = 2
//	opts.Formats = []string{"html"}
//	result, err := runner.Compose(ctx, widgets, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
//
// Run individual stages:
//
//	// Assemble only
//	panels, err := runner.Assemble(widgets, opts)
//
//	// Plan with existing panels
//	plan, err := pipeline.BuildPlan(panels, opts)
//
//	// Render with existing plan
//	artifacts, err := runner.Render(ctx, plan, panels, opts)
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/cartolab/mapgrid/pkg/cache"
	"github.com/cartolab/mapgrid/pkg/errors"
	"github.com/cartolab/mapgrid/pkg/panel"
	"github.com/cartolab/mapgrid/pkg/wiring"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server, and Library
// =============================================================================

// DefaultNcol is the default number of grid columns.
const DefaultNcol = 2

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the composition pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Plan options
	Ncol          int         `json:"ncol,omitempty"`
	Sync          wiring.Spec `json:"sync,omitempty"`
	SyncCursor    bool        `json:"sync_cursor,omitempty"`
	NoInitialSync bool        `json:"no_initial_sync,omitempty"`
	Title         string      `json:"title,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// SourceHash is the content hash of the input source (manifest bytes).
	// Artifact caching is enabled only when it is set: generated panel ids
	// change per invocation, so the source content is the only stable
	// identity a cached artifact can be keyed on.
	SourceHash string `json:"-"`

	// Runtime options (not serialized)
	Adapter panel.Adapter `json:"-"`
	Logger  *log.Logger   `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// LatticeOptions returns options for a plain lattice view: panels arranged
// in a grid with no synchronization between them.
func LatticeOptions() Options {
	return Options{Sync: wiring.None()}
}

// SyncOptions returns options for a synchronized view: every panel linked
// to every other panel, with cursor sharing enabled.
func SyncOptions() Options {
	return Options{Sync: wiring.All(), SyncCursor: true}
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: html, json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForPlan(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForPlan checks required fields for plan computation.
func (o *Options) ValidateForPlan() error {
	if o.Ncol == 0 {
		o.Ncol = DefaultNcol
	}
	if o.Ncol < 1 {
		return errors.New(errors.ErrCodeInvalidGrid, "ncol must be positive, got %d", o.Ncol)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// LinkOptions returns the per-command flags applied to generated links.
func (o *Options) LinkOptions() wiring.LinkOptions {
	return wiring.LinkOptions{
		SyncCursor:    o.SyncCursor,
		NoInitialSync: o.NoInitialSync,
	}
}

// ViewKeyOpts returns cache key options identifying this composition.
func (o *Options) ViewKeyOpts() cache.ViewKeyOpts {
	return cache.ViewKeyOpts{
		Ncol:          o.Ncol,
		Sync:          o.Sync.String(),
		SyncCursor:    o.SyncCursor,
		NoInitialSync: o.NoInitialSync,
		Title:         o.Title,
	}
}
