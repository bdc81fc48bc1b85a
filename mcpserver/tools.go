package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/tools"
)

// AskToolName is the MCP-only tool that runs the full question answering flow.
const AskToolName = "ask"

// SearchInput is the input schema for the content search tool.
type SearchInput struct {
	Query        string `json:"query" jsonschema:"what to search for in the course content"`
	CourseName   string `json:"course_name,omitempty" jsonschema:"course title, partial matches work"`
	LessonNumber *int   `json:"lesson_number,omitempty" jsonschema:"lesson number to filter by"`
}

// OutlineInput is the input schema for the course outline tool.
type OutlineInput struct {
	CourseName string `json:"course_name" jsonschema:"course title, partial matches work"`
}

// ToolOutput is the output schema of the course tools.
type ToolOutput struct {
	Text    string        `json:"text"`
	Sources []core.Source `json:"sources"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"question about the course materials"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session to continue; omit to start a new one"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string        `json:"answer"`
	Sources   []core.Source `json:"sources"`
	SessionID string        `json:"session_id"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        tools.SearchToolName,
		Description: "Search course materials with smart course name matching and lesson filtering",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        tools.OutlineToolName,
		Description: "Get a course outline: title, course link, instructor and every lesson with its link",
	}, s.handleOutline)

	if s.ports.Asker != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        AskToolName,
			Description: "Answer a question about the course materials, citing the lessons used",
		}, s.handleAsk)
	}
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, ToolOutput, error) {
	return s.execute(ctx, tools.SearchToolName, input)
}

func (s *Server) handleOutline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OutlineInput,
) (*mcp.CallToolResult, ToolOutput, error) {
	return s.execute(ctx, tools.OutlineToolName, input)
}

// execute runs a course tool with input encoded as its JSON arguments.
func (s *Server) execute(ctx context.Context, name string, input any) (*mcp.CallToolResult, ToolOutput, error) {
	args, err := json.Marshal(input)
	if err != nil {
		return nil, ToolOutput{}, err
	}
	result, err := s.ports.Toolbox.Execute(ctx, name, string(args))
	if err != nil {
		return nil, ToolOutput{}, err
	}
	return textResult(result.Text), ToolOutput{Text: result.Text, Sources: nonNil(result.Sources)}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	result, err := s.ports.Asker.Query(ctx, input.Question, input.SessionID)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return textResult(result.Answer), AskOutput{
		Answer:    result.Answer,
		Sources:   nonNil(result.Sources),
		SessionID: result.SessionID,
	}, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func nonNil(sources []core.Source) []core.Source {
	if sources == nil {
		return []core.Source{}
	}
	return sources
}
