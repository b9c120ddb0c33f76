// Package tui provides an interactive terminal chat for docqa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Pipeline ingests the document and answers questions.
	Pipeline driving.PipelineService

	// Settings exposes the active configuration. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(pipeline driving.PipelineService, settings driving.SettingsService) *Ports {
	return &Ports{
		Pipeline: pipeline,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	return nil
}
