package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/420btc/mymac/internal/infrastructure/store"
	"github.com/420btc/mymac/internal/shared/types"
	"github.com/420btc/mymac/internal/shared/utils"
)

// Provider implements persistent per-app key-value storage. Each app gets
// its own collection on disk; a write-through cache fronts the store.
type Provider struct {
	store *store.Store
	cache sync.Map // "<appID>:<key>" -> value
}

// NewProvider creates a storage provider over the given store.
func NewProvider(st *store.Store) *Provider {
	return &Provider{store: st}
}

// Definition returns service metadata.
func (s *Provider) Definition() types.Service {
	return types.Service{
		ID:          "storage",
		Name:        "Storage Service",
		Description: "Persistent key-value storage for applications",
		Category:    types.CategoryStorage,
		Capabilities: []string{
			"read",
			"write",
			"delete",
			"list",
		},
		Tools: []types.Tool{
			{
				ID:          "storage.set",
				Name:        "Set Value",
				Description: "Store a value by key",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Storage key", Required: true},
					{Name: "value", Type: "any", Description: "Value to store", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "storage.get",
				Name:        "Get Value",
				Description: "Retrieve a value by key",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Storage key", Required: true},
				},
				Returns: "any",
			},
			{
				ID:          "storage.remove",
				Name:        "Remove Value",
				Description: "Delete a value by key",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Storage key", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "storage.list",
				Name:        "List Keys",
				Description: "List all storage keys for this app",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
			{
				ID:          "storage.clear",
				Name:        "Clear All",
				Description: "Remove all storage for this app",
				Parameters:  []types.Parameter{},
				Returns:     "boolean",
			},
		},
	}
}

// Execute runs a storage operation. The app context is required: keys are
// namespaced per app so apps cannot read each other's data.
func (s *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	if appCtx == nil || appCtx.AppID == nil {
		return failure("app context required for storage operations")
	}
	appID := *appCtx.AppID

	switch toolID {
	case "storage.set":
		return s.set(appID, params)
	case "storage.get":
		return s.get(appID, params)
	case "storage.remove":
		return s.remove(appID, params)
	case "storage.list":
		return s.list(appID)
	case "storage.clear":
		return s.clear(appID)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

type envelope struct {
	Value interface{} `json:"value"`
}

func (s *Provider) set(appID string, params map[string]interface{}) (*types.Result, error) {
	key, ok := params["key"].(string)
	if !ok || key == "" {
		return failure("key parameter required")
	}
	if err := utils.ValidateString(key, "key", 1, 128, true); err != nil {
		return failure(err.Error())
	}

	value, ok := params["value"]
	if !ok {
		return failure("value parameter required")
	}

	if s.store != nil {
		if err := s.store.Put(s.collection(appID), docID(key), envelope{Value: value}); err != nil {
			return failure(fmt.Sprintf("write failed: %v", err))
		}
	}

	s.cache.Store(s.cacheKey(appID, key), value)

	return success(map[string]interface{}{"stored": true, "key": key})
}

func (s *Provider) get(appID string, params map[string]interface{}) (*types.Result, error) {
	key, ok := params["key"].(string)
	if !ok || key == "" {
		return failure("key parameter required")
	}

	if cached, ok := s.cache.Load(s.cacheKey(appID, key)); ok {
		return success(map[string]interface{}{"value": cached, "key": key})
	}

	if s.store == nil {
		return success(map[string]interface{}{"value": nil, "key": key})
	}

	var env envelope
	if err := s.store.Get(s.collection(appID), docID(key), &env); err != nil {
		if err == store.ErrNotFound {
			return success(map[string]interface{}{"value": nil, "key": key})
		}
		return failure(fmt.Sprintf("read failed: %v", err))
	}

	s.cache.Store(s.cacheKey(appID, key), env.Value)

	return success(map[string]interface{}{"value": env.Value, "key": key})
}

func (s *Provider) remove(appID string, params map[string]interface{}) (*types.Result, error) {
	key, ok := params["key"].(string)
	if !ok || key == "" {
		return failure("key parameter required")
	}

	if s.store != nil {
		if err := s.store.Delete(s.collection(appID), docID(key)); err != nil && err != store.ErrNotFound {
			return failure(fmt.Sprintf("delete failed: %v", err))
		}
	}

	s.cache.Delete(s.cacheKey(appID, key))

	return success(map[string]interface{}{"deleted": true, "key": key})
}

func (s *Provider) list(appID string) (*types.Result, error) {
	keys := []string{}

	if s.store != nil {
		ids, err := s.store.List(s.collection(appID))
		if err != nil {
			return failure(fmt.Sprintf("list failed: %v", err))
		}
		for _, id := range ids {
			keys = append(keys, keyFromDocID(id))
		}
	} else {
		prefix := s.cacheKey(appID, "")
		s.cache.Range(func(k, _ interface{}) bool {
			ks := k.(string)
			if strings.HasPrefix(ks, prefix) {
				keys = append(keys, ks[len(prefix):])
			}
			return true
		})
	}

	return success(map[string]interface{}{"keys": keys, "count": len(keys)})
}

func (s *Provider) clear(appID string) (*types.Result, error) {
	count := 0

	if s.store != nil {
		ids, err := s.store.List(s.collection(appID))
		if err != nil {
			return failure(fmt.Sprintf("clear failed: %v", err))
		}
		for _, id := range ids {
			if err := s.store.Delete(s.collection(appID), id); err == nil {
				count++
			}
		}
	}

	prefix := s.cacheKey(appID, "")
	var stale []interface{}
	s.cache.Range(func(k, _ interface{}) bool {
		if strings.HasPrefix(k.(string), prefix) {
			stale = append(stale, k)
		}
		return true
	})
	for _, k := range stale {
		s.cache.Delete(k)
	}
	if s.store == nil {
		count = len(stale)
	}

	return success(map[string]interface{}{"cleared": true, "count": count})
}

func (s *Provider) collection(appID string) string {
	return "storage-" + appID
}

func (s *Provider) cacheKey(appID, key string) string {
	return appID + ":" + key
}

// Store document IDs cannot contain path separators or dots, so keys are
// escaped on the way in and restored on the way out.
func docID(key string) string {
	return strings.NewReplacer("/", "__", ".", "--").Replace(key)
}

func keyFromDocID(id string) string {
	return strings.NewReplacer("__", "/", "--", ".").Replace(id)
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}
