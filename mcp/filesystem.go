package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/renderloop/genui/catalog"
)

// FilesystemServer exposes a small in-memory file tree. Nothing touches the
// real filesystem; the content is fixture data for demos and tests.
type FilesystemServer struct {
	files map[string]string
}

// NewFilesystemServer creates the filesystem server with its fixture tree.
func NewFilesystemServer() *FilesystemServer {
	return &FilesystemServer{
		files: map[string]string{
			"/README.md":           "# Workspace\n\nSample files served by the filesystem server.",
			"/reports/q1.md":       "# Q1 Report\n\nRevenue grew 12.5% quarter over quarter.",
			"/reports/q2.md":       "# Q2 Report\n\nChurn fell to 2.1%.",
			"/data/customers.json": `[{"name":"Acme","plan":"enterprise"},{"name":"Globex","plan":"starter"}]`,
		},
	}
}

// Name implements Server.
func (s *FilesystemServer) Name() string { return "filesystem" }

// Description implements Server.
func (s *FilesystemServer) Description() string {
	return "Read files from the workspace"
}

// Tools implements Server.
func (s *FilesystemServer) Tools() []Tool {
	return []Tool{
		{
			Name:        "list_files",
			Description: "List files under a directory",
			Params: catalog.ObjectSchema(map[string]catalog.PropertyDef{
				"path": {Type: "string", Description: "Directory to list, defaults to /"},
			}),
		},
		{
			Name:        "read_file",
			Description: "Read the contents of a file",
			Params: catalog.ObjectSchema(map[string]catalog.PropertyDef{
				"path": {Type: "string", Description: "File path to read"},
			}, "path"),
		},
	}
}

// Execute implements Server.
func (s *FilesystemServer) Execute(ctx context.Context, toolName string, args json.RawMessage) (string, error) {
	var input struct {
		Path string `json:"path"`
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &input); err != nil {
			return "", fmt.Errorf("%s: %w", toolName, err)
		}
	}

	switch toolName {
	case "list_files":
		dir := path.Clean("/" + strings.TrimPrefix(input.Path, "/"))
		var names []string
		for file := range s.files {
			if dir == "/" || strings.HasPrefix(file, dir+"/") {
				names = append(names, file)
			}
		}
		sort.Strings(names)
		out, _ := json.Marshal(map[string]any{"path": dir, "files": names})
		return string(out), nil

	case "read_file":
		file := path.Clean("/" + strings.TrimPrefix(input.Path, "/"))
		content, ok := s.files[file]
		if !ok {
			return "", fmt.Errorf("file not found: %s", file)
		}
		out, _ := json.Marshal(map[string]any{"path": file, "content": content})
		return string(out), nil
	}

	return "", fmt.Errorf("%w: %s", ErrToolNotFound, toolName)
}
