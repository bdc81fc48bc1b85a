package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "syllabus://"

// CoursesURI lists the indexed course titles.
const CoursesURI = uriScheme + "courses"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Catalog == nil {
		return
	}
	s.server.AddResource(&mcp.Resource{
		URI:         CoursesURI,
		Name:        "courses",
		Description: "Number and titles of the indexed courses",
		MIMEType:    "application/json",
	}, s.handleCoursesResource)
}

func (s *Server) handleCoursesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	analytics, err := s.ports.Catalog.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}

	out := struct {
		TotalCourses int      `json:"total_courses"`
		Titles       []string `json:"course_titles"`
	}{analytics.TotalCourses, analytics.Titles}
	if out.Titles == nil {
		out.Titles = []string{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling courses: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
