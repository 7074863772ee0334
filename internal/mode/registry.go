package mode

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var globalRegistry = newRegistry()

type registry struct {
	mu    sync.RWMutex
	modes map[string]Metadata
}

func newRegistry() *registry {
	return &registry{modes: make(map[string]Metadata)}
}

// Register 将模式加入全局注册表，重复键会返回错误。
func Register(meta Metadata) error {
	return globalRegistry.register(meta)
}

// MustRegister 在注册失败时 panic，适合模式 init() 中调用。
func MustRegister(meta Metadata) {
	if err := Register(meta); err != nil {
		panic(err)
	}
}

// Resolve 返回指定键的模式元数据。
func Resolve(key string) (Metadata, bool) {
	return globalRegistry.resolve(key)
}

// List 返回按键排序的模式列表。
func List() []Metadata {
	return globalRegistry.list()
}

// Keys 返回所有已注册模式的键。
func Keys() []string {
	items := List()
	result := make([]string, len(items))
	for i, meta := range items {
		result[i] = meta.Key
	}
	return result
}

// NormalizeKey 统一模式键的大小写与空白。
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (r *registry) register(meta Metadata) error {
	key := NormalizeKey(meta.Key)
	if key == "" {
		return fmt.Errorf("mode key is required")
	}
	if meta.Resolve == nil {
		return fmt.Errorf("mode %s: resolver is required", key)
	}
	if meta.Configured == nil {
		return fmt.Errorf("mode %s: configured check is required", key)
	}
	meta.Key = key

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modes[key]; exists {
		return fmt.Errorf("mode %s already registered", key)
	}
	r.modes[key] = meta
	return nil
}

func (r *registry) resolve(key string) (Metadata, bool) {
	normalized := NormalizeKey(key)
	if normalized == "" {
		return Metadata{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.modes[normalized]
	return meta, ok
}

func (r *registry) list() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.modes) == 0 {
		return nil
	}

	keys := make([]string, 0, len(r.modes))
	for key := range r.modes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]Metadata, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.modes[key])
	}
	return result
}
