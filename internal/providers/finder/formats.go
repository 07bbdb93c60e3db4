package finder

import (
	"fmt"
	"os"
	"strings"

	"github.com/420btc/mymac/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	toml "github.com/pelletier/go-toml/v2"
)

// formatOps covers structured-file preview and conversion.
type formatOps struct {
	*finderOps
}

func (f *formatOps) getTools() []types.Tool {
	pathParam := types.Parameter{Name: "path", Type: "string", Description: "Workspace-relative path", Required: true}
	return []types.Tool{
		{
			ID:          "finder.json.read",
			Name:        "Read JSON",
			Description: "Parse a JSON file into structured data",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "object",
		},
		{
			ID:          "finder.yaml.read",
			Name:        "Read YAML",
			Description: "Parse a YAML file into structured data",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "object",
		},
		{
			ID:          "finder.toml.read",
			Name:        "Read TOML",
			Description: "Parse a TOML file into structured data",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "object",
		},
		{
			ID:          "finder.convert",
			Name:        "Convert Format",
			Description: "Convert a structured file between JSON, YAML and TOML",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Source file", Required: true},
				{Name: "output", Type: "string", Description: "Output file", Required: true},
				{Name: "to", Type: "string", Description: "Target format (json/yaml/toml)", Required: true},
			},
			Returns: "object",
		},
	}
}

func (f *formatOps) readStructured(params map[string]interface{}, format string) (*types.Result, error) {
	rel, ok := getString(params, "path")
	if !ok {
		return failure("path parameter required")
	}

	data, err := f.readBounded(rel)
	if err != nil {
		return failure(err.Error())
	}

	value, err := unmarshalAs(data, format)
	if err != nil {
		return failure(fmt.Sprintf("parse failed: %v", err))
	}

	return success(map[string]interface{}{
		"path":   rel,
		"format": format,
		"data":   value,
	})
}

func (f *formatOps) convert(params map[string]interface{}) (*types.Result, error) {
	source, ok := getString(params, "source")
	if !ok {
		return failure("source parameter required")
	}
	output, ok := getString(params, "output")
	if !ok {
		return failure("output parameter required")
	}
	to, ok := getString(params, "to")
	if !ok {
		return failure("to parameter required")
	}
	to = strings.ToLower(to)

	from := formatFromExt(source)
	if from == "" {
		return failure("cannot determine source format from extension")
	}

	data, err := f.readBounded(source)
	if err != nil {
		return failure(err.Error())
	}

	value, err := unmarshalAs(data, from)
	if err != nil {
		return failure(fmt.Sprintf("parse failed: %v", err))
	}

	converted, err := marshalAs(value, to)
	if err != nil {
		return failure(fmt.Sprintf("convert failed: %v", err))
	}

	outAbs, err := f.ws.Resolve(output)
	if err != nil {
		return failure(err.Error())
	}
	if err := os.WriteFile(outAbs, converted, 0o644); err != nil {
		return failure(fmt.Sprintf("write failed: %v", err))
	}

	return success(map[string]interface{}{
		"output": output,
		"from":   from,
		"to":     to,
		"size":   len(converted),
	})
}

func (f *formatOps) readBounded(rel string) ([]byte, error) {
	abs, err := f.ws.Resolve(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat failed: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("file exceeds maximum size of %d bytes", MaxFileSize)
	}
	return os.ReadFile(abs)
}

func formatFromExt(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return ""
	}
	switch strings.ToLower(path[idx+1:]) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	}
	return ""
}

func unmarshalAs(data []byte, format string) (interface{}, error) {
	var value interface{}
	switch format {
	case "json":
		if err := sonic.Unmarshal(data, &value); err != nil {
			return nil, err
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, err
		}
	case "toml":
		if err := toml.Unmarshal(data, &value); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return value, nil
}

func marshalAs(value interface{}, format string) ([]byte, error) {
	switch format {
	case "json":
		return sonic.MarshalIndent(value, "", "  ")
	case "yaml":
		return yaml.Marshal(value)
	case "toml":
		return toml.Marshal(value)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
