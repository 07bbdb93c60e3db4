package finder

import (
	"context"
	"fmt"

	"github.com/420btc/mymac/internal/shared/paths"
	"github.com/420btc/mymac/internal/shared/types"
)

// Provider implements the Finder pane backend. Every operation resolves
// against a sandboxed workspace root; paths that escape it are rejected.
type Provider struct {
	basic     *basicOps
	directory *directoryOps
	search    *searchOps
	archives  *archiveOps
	formats   *formatOps
}

// NewProvider creates a finder provider over the given workspace.
func NewProvider(ws *paths.Workspace) *Provider {
	ops := &finderOps{ws: ws}
	return &Provider{
		basic:     &basicOps{finderOps: ops},
		directory: &directoryOps{finderOps: ops},
		search:    &searchOps{finderOps: ops},
		archives:  &archiveOps{finderOps: ops},
		formats:   &formatOps{finderOps: ops},
	}
}

// Definition returns service metadata with all operation groups.
func (p *Provider) Definition() types.Service {
	tools := []types.Tool{}
	tools = append(tools, p.basic.getTools()...)
	tools = append(tools, p.directory.getTools()...)
	tools = append(tools, p.search.getTools()...)
	tools = append(tools, p.archives.getTools()...)
	tools = append(tools, p.formats.getTools()...)

	return types.Service{
		ID:          "finder",
		Name:        "Finder",
		Description: "Sandboxed workspace file management, search, archives and format tools",
		Category:    types.CategoryFiles,
		Capabilities: []string{
			"read",
			"write",
			"list",
			"search",
			"archives",
			"formats",
		},
		Tools: tools,
	}
}

// Execute routes to the appropriate operation group.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "finder.read":
		return p.basic.read(params)
	case "finder.write":
		return p.basic.write(params)
	case "finder.stat":
		return p.basic.stat(params)
	case "finder.exists":
		return p.basic.exists(params)
	case "finder.delete":
		return p.basic.delete(params)

	case "finder.list":
		return p.directory.list(params)
	case "finder.mkdir":
		return p.directory.mkdir(params)
	case "finder.move":
		return p.directory.move(params)
	case "finder.copy":
		return p.directory.copy(params)

	case "finder.glob":
		return p.search.glob(params)
	case "finder.search":
		return p.search.search(params)
	case "finder.recent":
		return p.search.recent(params)

	case "finder.zip.create":
		return p.archives.zipCreate(params)
	case "finder.zip.extract":
		return p.archives.zipExtract(params)
	case "finder.zip.list":
		return p.archives.zipList(params)
	case "finder.gzip.compress":
		return p.archives.gzipCompress(params)
	case "finder.gzip.decompress":
		return p.archives.gzipDecompress(params)

	case "finder.json.read":
		return p.formats.readStructured(params, "json")
	case "finder.yaml.read":
		return p.formats.readStructured(params, "yaml")
	case "finder.toml.read":
		return p.formats.readStructured(params, "toml")
	case "finder.convert":
		return p.formats.convert(params)

	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}
