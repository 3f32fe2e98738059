package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// Format is the encoding of a lifecycle configuration file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from a file extension. JSON files may
// carry comments and trailing commas.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// FileStore keeps the whole configuration in a single YAML or JSON file.
type FileStore struct {
	path   string
	format Format
}

// NewFileStore creates a store for path. The format follows the extension.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, format: FormatFromPath(path)}
}

// Path returns the configuration file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the configuration. A missing file is an empty configuration.
func (s *FileStore) Load(ctx context.Context) (*domain.Config, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	cfg, err := Decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return cfg, nil
}

// Persist atomically replaces the file with the encoded configuration.
func (s *FileStore) Persist(ctx context.Context, cfg *domain.Config) error {
	data, err := Encode(cfg, s.format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	pending, err := renameio.NewPendingFile(s.path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending config file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", s.path, err)
	}
	return nil
}

// Ping checks that the configuration file, when present, is readable.
func (s *FileStore) Ping(ctx context.Context) error {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// Decode parses a configuration document.
func Decode(data []byte, format Format) (*domain.Config, error) {
	cfg := domain.NewConfig()
	switch format {
	case FormatJSON:
		stripped := jsonc.ToJSON(data)
		if len(bytes.TrimSpace(stripped)) == 0 {
			return cfg, nil
		}
		if err := json.Unmarshal(stripped, cfg); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Encode renders a configuration document.
func Encode(cfg *domain.Config, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
}
