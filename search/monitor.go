package search

import "github.com/poiesic/syllabus/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query Query)
	CourseResolved(partial, title string, ok bool)
	AfterContentSearch(hits []core.ScoredChunk)
	Finish(outcome *Outcome)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Query)                           {}
func (n *noopMonitor) CourseResolved(_, _ string, _ bool)      {}
func (n *noopMonitor) AfterContentSearch(_ []core.ScoredChunk) {}
func (n *noopMonitor) Finish(_ *Outcome)                       {}
