package finder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/420btc/mymac/internal/shared/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

const maxSearchResults = 500

// searchOps covers glob and recursive search.
type searchOps struct {
	*finderOps
}

func (s *searchOps) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "finder.glob",
			Name:        "Glob",
			Description: "Match files with ** glob patterns",
			Parameters: []types.Parameter{
				{Name: "pattern", Type: "string", Description: "Glob pattern (e.g. 'Documents/**/*.md')", Required: true},
			},
			Returns: "array",
		},
		{
			ID:          "finder.search",
			Name:        "Search",
			Description: "Find files by name substring, recursive",
			Parameters: []types.Parameter{
				{Name: "query", Type: "string", Description: "Name substring", Required: true},
				{Name: "path", Type: "string", Description: "Root directory, defaults to workspace root", Required: false},
			},
			Returns: "array",
		},
		{
			ID:          "finder.recent",
			Name:        "Recent Files",
			Description: "Find recently modified files",
			Parameters: []types.Parameter{
				{Name: "hours", Type: "number", Description: "Hours ago (default 24)", Required: false},
				{Name: "limit", Type: "number", Description: "Max results (default 50)", Required: false},
			},
			Returns: "array",
		},
	}
}

func (s *searchOps) glob(params map[string]interface{}) (*types.Result, error) {
	pattern, ok := getString(params, "pattern")
	if !ok {
		return failure("pattern parameter required")
	}
	if !doublestar.ValidatePattern(pattern) {
		return failure("invalid glob pattern")
	}

	fullPattern := filepath.Join(s.ws.Root(), filepath.Clean("/"+pattern))
	matches, err := doublestar.FilepathGlob(fullPattern)
	if err != nil {
		return failure(fmt.Sprintf("glob failed: %v", err))
	}

	results := []string{}
	for _, match := range matches {
		rel, err := s.ws.Relative(match)
		if err != nil {
			continue
		}
		results = append(results, rel)
		if len(results) >= maxSearchResults {
			break
		}
	}
	sort.Strings(results)

	return success(map[string]interface{}{
		"matches": results,
		"count":   len(results),
	})
}

func (s *searchOps) search(params map[string]interface{}) (*types.Result, error) {
	query, ok := getString(params, "query")
	if !ok {
		return failure("query parameter required")
	}
	root, _ := params["path"].(string)
	if root == "" {
		root = "/"
	}

	abs, err := s.ws.Resolve(root)
	if err != nil {
		return failure(err.Error())
	}

	needle := strings.ToLower(query)
	var mu sync.Mutex
	results := []string{}

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !strings.Contains(strings.ToLower(d.Name()), needle) {
			return nil
		}
		rel, relErr := s.ws.Relative(path)
		if relErr != nil {
			return nil
		}
		mu.Lock()
		defer mu.Unlock()
		if len(results) >= maxSearchResults {
			return filepath.SkipAll
		}
		results = append(results, rel)
		return nil
	})
	if err != nil {
		return failure(fmt.Sprintf("search failed: %v", err))
	}
	sort.Strings(results)

	return success(map[string]interface{}{
		"matches": results,
		"count":   len(results),
	})
}

func (s *searchOps) recent(params map[string]interface{}) (*types.Result, error) {
	hours := getInt(params, "hours", 24)
	limit := getInt(params, "limit", 50)
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)

	type recentFile struct {
		Path     string    `json:"path"`
		Modified time.Time `json:"modified"`
	}

	var mu sync.Mutex
	files := []recentFile{}

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, s.ws.Root(), func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil || info.ModTime().Before(cutoff) {
			return nil
		}
		rel, relErr := s.ws.Relative(path)
		if relErr != nil {
			return nil
		}
		mu.Lock()
		files = append(files, recentFile{Path: rel, Modified: info.ModTime()})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return failure(fmt.Sprintf("walk failed: %v", err))
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Modified.After(files[j].Modified) })
	if len(files) > limit {
		files = files[:limit]
	}

	return success(map[string]interface{}{
		"files": files,
		"count": len(files),
	})
}
