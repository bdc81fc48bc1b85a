package mcpserver

import (
	"context"

	"github.com/poiesic/syllabus"
	"github.com/poiesic/syllabus/tools"
)

type mockToolbox struct {
	executeFunc func(ctx context.Context, name, arguments string) (*tools.Result, error)
	lastName    string
	lastArgs    string
}

func (m *mockToolbox) Execute(ctx context.Context, name, arguments string) (*tools.Result, error) {
	m.lastName = name
	m.lastArgs = arguments
	if m.executeFunc != nil {
		return m.executeFunc(ctx, name, arguments)
	}
	return &tools.Result{Text: "ok"}, nil
}

type mockAsker struct {
	queryFunc func(ctx context.Context, query, sessionID string) (*syllabus.QueryResult, error)
}

func (m *mockAsker) Query(ctx context.Context, query, sessionID string) (*syllabus.QueryResult, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, query, sessionID)
	}
	return &syllabus.QueryResult{Answer: "answer", SessionID: "session-1"}, nil
}

type mockCatalog struct {
	coursesFunc func(ctx context.Context) (*syllabus.CourseAnalytics, error)
}

func (m *mockCatalog) Courses(ctx context.Context) (*syllabus.CourseAnalytics, error) {
	if m.coursesFunc != nil {
		return m.coursesFunc(ctx)
	}
	return &syllabus.CourseAnalytics{}, nil
}
