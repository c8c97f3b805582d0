// Package hooks parses the JSON payloads that agent runtimes pipe to
// guard hook commands on stdin.
package hooks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ActiveTaskEnvVar names the environment variable carrying the agent's
// current task ID.
const ActiveTaskEnvVar = "TASKCTL_TASK_ID"

// PreToolUseInput is the stdin JSON for pre-edit and pre-write hooks.
type PreToolUseInput struct {
	ToolName  string                 `json:"tool_name"`
	ToolInput map[string]interface{} `json:"tool_input"`
}

// FilePath returns the file_path from tool_input, or empty string if absent or non-string.
func (p PreToolUseInput) FilePath() string {
	return toolInputFilePath(p.ToolInput)
}

// ParseStdin reads JSON from the given reader into a new instance of T.
func ParseStdin[T any](r io.Reader) (*T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if len(data) == 0 {
		// Return zero-value struct when no input is provided.
		var zero T
		return &zero, nil
	}
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing stdin JSON: %w", err)
	}
	return &result, nil
}

// ActiveTaskID returns the task ID declared by the agent runtime, or
// empty string when none is set.
func ActiveTaskID() string {
	return os.Getenv(ActiveTaskEnvVar)
}

// toolInputFilePath extracts the file_path string from a tool_input map.
// Returns empty string if the map is nil or file_path is not a string.
func toolInputFilePath(toolInput map[string]interface{}) string {
	if toolInput == nil {
		return ""
	}
	fp, ok := toolInput["file_path"].(string)
	if !ok {
		return ""
	}
	return fp
}
