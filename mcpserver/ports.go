package mcpserver

import (
	"context"

	"github.com/poiesic/syllabus"
	"github.com/poiesic/syllabus/tools"
)

// Toolbox runs the course tools by name.
type Toolbox interface {
	Execute(ctx context.Context, name, arguments string) (*tools.Result, error)
}

// Asker answers questions through the language model.
type Asker interface {
	Query(ctx context.Context, query, sessionID string) (*syllabus.QueryResult, error)
}

// Catalog lists the indexed courses.
type Catalog interface {
	Courses(ctx context.Context) (*syllabus.CourseAnalytics, error)
}

// Ports aggregates what the server needs. Toolbox is required; without
// Asker the ask tool is not registered, and without Catalog the courses
// resource is not registered.
type Ports struct {
	Toolbox Toolbox
	Asker   Asker
	Catalog Catalog
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Toolbox == nil {
		return ErrMissingToolbox
	}
	return nil
}

// PortsFor wires every port to one System.
func PortsFor(sys *syllabus.System) *Ports {
	return &Ports{Toolbox: sys.Tools(), Asker: sys, Catalog: sys}
}
