package file

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
	"github.com/custodia-labs/ypsync/internal/logger"
)

var (
	_ driven.ConfigStore   = (*ConfigStore)(nil)
	_ driven.ConfigWatcher = (*ConfigStore)(nil)
)

// FileName is the configuration file inside the config directory.
const FileName = "config.toml"

// reloadDebounce collapses the burst of events editors emit on save.
const reloadDebounce = 200 * time.Millisecond

// ConfigStore keeps the TOML tables of config.toml as dotted keys:
// [google] page_size = 50 is "google.page_size".
type ConfigStore struct {
	path string

	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore loads config.toml from configDir, creating the directory
// if needed. An empty configDir means DefaultDir.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{
		path:   filepath.Join(configDir, FileName),
		values: map[string]any{},
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultDir is ~/.ypsync.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".ypsync"), nil
}

func (s *ConfigStore) Path() string { return s.path }

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt accepts int64, which is what the TOML decoder produces.
func (s *ConfigStore) GetInt(key string) int {
	switch v, _ := s.Get(key); n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

// Set changes key in memory only.
func (s *ConfigStore) Set(key string, value any) error {
	if key == "" {
		return errors.New("empty config key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Save writes all keys as nested tables. The file is replaced atomically so
// a watcher never reads a partial file.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables, err := nest(s.values)
	if err != nil {
		return err
	}

	data, err := toml.Marshal(tables)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.path, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Load replaces every key with the file's contents. A missing file clears
// the store; a file that fails to parse leaves it untouched.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		data, err = nil, nil
	}
	if err != nil {
		return err
	}

	tables := map[string]any{}
	if err := toml.Unmarshal(data, &tables); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}

	values := map[string]any{}
	flatten(values, "", tables)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = values
	return nil
}

// Watch reloads the file after it changed on disk and calls onChange,
// until ctx is done. It watches the directory so the rename done by Save
// and by most editors is seen.
func (s *ConfigStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	debounce := time.NewTimer(reloadDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if s.touches(event) {
				debounce.Reset(reloadDebounce)
			}

		case <-debounce.C:
			if err := s.Load(); err != nil {
				logger.Warn("config: reload failed: %v", err)
				continue
			}
			logger.Debug("config: reloaded %s", s.path)
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config: watcher error: %v", err)
		}
	}
}

func (s *ConfigStore) touches(event fsnotify.Event) bool {
	const ops = fsnotify.Write | fsnotify.Create | fsnotify.Rename
	return filepath.Clean(event.Name) == filepath.Clean(s.path) && event.Op&ops != 0
}

// flatten copies the leaves of tables into dst under dotted keys.
func flatten(dst map[string]any, prefix string, tables map[string]any) {
	for name, v := range tables {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(dst, key, sub)
			continue
		}
		dst[key] = v
	}
}

// nest is the inverse of flatten. A key that is both a value and a table
// ("google" and "google.burst") cannot be written.
func nest(values map[string]any) (map[string]any, error) {
	root := map[string]any{}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		parts := strings.Split(key, ".")
		table := root
		for _, part := range parts[:len(parts)-1] {
			switch child := table[part].(type) {
			case nil:
				next := map[string]any{}
				table[part] = next
				table = next
			case map[string]any:
				table = child
			default:
				return nil, fmt.Errorf("config key %s conflicts with a value", key)
			}
		}
		leaf := parts[len(parts)-1]
		if _, taken := table[leaf]; taken {
			return nil, fmt.Errorf("config key %s conflicts with a table", key)
		}
		table[leaf] = values[key]
	}
	return root, nil
}
