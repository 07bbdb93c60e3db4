package terminal

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/420btc/mymac/internal/shared/types"
)

// Provider implements the Terminal pane backend.
type Provider struct {
	manager *Manager
}

// NewProvider creates a terminal provider.
func NewProvider(defaultShell string, maxSessions int) *Provider {
	return &Provider{
		manager: NewManager(defaultShell, maxSessions),
	}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "terminal",
		Name:        "Terminal Service",
		Description: "PTY-backed interactive shell sessions",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"pty",
			"shell",
			"interactive",
			"sessions",
			"resize",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to the requested operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "terminal.create_session":
		return p.createSession(params)
	case "terminal.write":
		return p.write(params)
	case "terminal.read":
		return p.read(params)
	case "terminal.resize":
		return p.resize(params)
	case "terminal.list_sessions":
		return p.listSessions()
	case "terminal.get_session":
		return p.getSession(params)
	case "terminal.kill":
		return p.kill(params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "terminal.create_session",
			Name:        "Create Terminal Session",
			Description: "Create a new interactive terminal session with PTY",
			Parameters: []types.Parameter{
				{Name: "shell", Type: "string", Description: "Shell to use, defaults to the configured shell", Required: false},
				{Name: "working_dir", Type: "string", Description: "Initial working directory, defaults to home", Required: false},
				{Name: "cols", Type: "number", Description: "Terminal width in columns, defaults to 80", Required: false},
				{Name: "rows", Type: "number", Description: "Terminal height in rows, defaults to 24", Required: false},
				{Name: "env", Type: "object", Description: "Extra environment variables", Required: false},
			},
			Returns: "session_info",
		},
		{
			ID:          "terminal.write",
			Name:        "Write to Terminal",
			Description: "Send input to a terminal session",
			Parameters: []types.Parameter{
				{Name: "session_id", Type: "string", Description: "Terminal session ID", Required: true},
				{Name: "input", Type: "string", Description: "Input to send", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.read",
			Name:        "Read from Terminal",
			Description: "Drain buffered output from a terminal session",
			Parameters: []types.Parameter{
				{Name: "session_id", Type: "string", Description: "Terminal session ID", Required: true},
			},
			Returns: "output_data",
		},
		{
			ID:          "terminal.resize",
			Name:        "Resize Terminal",
			Description: "Change terminal dimensions",
			Parameters: []types.Parameter{
				{Name: "session_id", Type: "string", Description: "Terminal session ID", Required: true},
				{Name: "cols", Type: "number", Description: "New width in columns", Required: true},
				{Name: "rows", Type: "number", Description: "New height in rows", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.list_sessions",
			Name:        "List Terminal Sessions",
			Description: "List all terminal sessions",
			Parameters:  []types.Parameter{},
			Returns:     "sessions_list",
		},
		{
			ID:          "terminal.get_session",
			Name:        "Get Session Info",
			Description: "Get information about a terminal session",
			Parameters: []types.Parameter{
				{Name: "session_id", Type: "string", Description: "Terminal session ID", Required: true},
			},
			Returns: "session_info",
		},
		{
			ID:          "terminal.kill",
			Name:        "Kill Terminal Session",
			Description: "Terminate a terminal session",
			Parameters: []types.Parameter{
				{Name: "session_id", Type: "string", Description: "Terminal session ID", Required: true},
			},
			Returns: "success",
		},
	}
}

func (p *Provider) createSession(params map[string]interface{}) (*types.Result, error) {
	shell, _ := params["shell"].(string)
	workingDir, _ := params["working_dir"].(string)

	cols := 0
	if c, ok := params["cols"].(float64); ok {
		cols = int(c)
	}
	rows := 0
	if r, ok := params["rows"].(float64); ok {
		rows = int(r)
	}

	env := make(map[string]string)
	if envMap, ok := params["env"].(map[string]interface{}); ok {
		for k, v := range envMap {
			if str, ok := v.(string); ok {
				env[k] = str
			}
		}
	}

	session, err := p.manager.CreateSession(shell, workingDir, cols, rows, env)
	if err != nil {
		return failure(err.Error())
	}

	return success(sessionData(session))
}

func (p *Provider) write(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok || sessionID == "" {
		return failure("session_id is required")
	}
	input, ok := params["input"].(string)
	if !ok {
		return failure("input is required")
	}

	if err := p.manager.Write(sessionID, []byte(input)); err != nil {
		return failure(err.Error())
	}

	return success(map[string]interface{}{"written": len(input)})
}

func (p *Provider) read(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok || sessionID == "" {
		return failure("session_id is required")
	}

	output, err := p.manager.Read(sessionID)
	if err != nil {
		return failure(err.Error())
	}

	// Base64 alongside raw so binary-heavy output survives JSON transport.
	return success(map[string]interface{}{
		"output":        string(output),
		"output_base64": base64.StdEncoding.EncodeToString(output),
		"length":        len(output),
	})
}

func (p *Provider) resize(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok || sessionID == "" {
		return failure("session_id is required")
	}
	cols, ok := params["cols"].(float64)
	if !ok || cols <= 0 {
		return failure("cols is required")
	}
	rows, ok := params["rows"].(float64)
	if !ok || rows <= 0 {
		return failure("rows is required")
	}

	if err := p.manager.Resize(sessionID, int(cols), int(rows)); err != nil {
		return failure(err.Error())
	}

	return success(map[string]interface{}{"resized": true})
}

func (p *Provider) listSessions() (*types.Result, error) {
	sessions := p.manager.ListSessions()
	return success(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (p *Provider) getSession(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok || sessionID == "" {
		return failure("session_id is required")
	}

	session, err := p.manager.GetSession(sessionID)
	if err != nil {
		return failure(err.Error())
	}

	return success(sessionData(session))
}

func (p *Provider) kill(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok || sessionID == "" {
		return failure("session_id is required")
	}

	if err := p.manager.Kill(sessionID); err != nil {
		return failure(err.Error())
	}

	return success(map[string]interface{}{"killed": true})
}

func sessionData(s *SessionInfo) map[string]interface{} {
	return map[string]interface{}{
		"id":          s.ID,
		"shell":       s.Shell,
		"working_dir": s.WorkingDir,
		"cols":        s.Cols,
		"rows":        s.Rows,
		"started_at":  s.StartedAt,
		"active":      s.Active,
	}
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}
