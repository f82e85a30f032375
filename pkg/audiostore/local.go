package audiostore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const uriScheme = "audio://"

// LocalStore keeps session audio on the local filesystem under
// basePath/<sessionID>/<seq>_<timestamp>.<format>. URIs look like
// audio://<sessionID>/<filename>.
type LocalStore struct {
	basePath string
}

var _ Store = (*LocalStore)(nil)

func NewLocalStore(basePath string) (*LocalStore, error) {
	if basePath == "" {
		return nil, fmt.Errorf("audiostore: base path is required")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("audiostore: failed to create base directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) Store(ctx context.Context, sessionID uuid.UUID, data []byte, format string, metadata map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.basePath, sessionID.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("audiostore: failed to create session directory: %w", err)
	}

	if format == "" {
		format = "raw"
	}
	name := fmt.Sprintf("%d_%s.%s", time.Now().UnixNano(), uuid.New().String()[:8], format)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("audiostore: failed to write audio object: %w", err)
	}

	// Metadata rides in a sidecar file. Best effort: losing it never loses audio.
	if len(metadata) > 0 {
		if meta, err := json.Marshal(metadata); err == nil {
			_ = os.WriteFile(path+".meta.json", meta, 0644)
		}
	}

	return uriScheme + sessionID.String() + "/" + name, nil
}

func (s *LocalStore) Retrieve(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessionID, name, err := parseURI(uri)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.basePath, sessionID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("audiostore: object not found: %s", uri)
		}
		return nil, fmt.Errorf("audiostore: failed to read audio object: %w", err)
	}
	return data, nil
}

func (s *LocalStore) List(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.basePath, sessionID.String())
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("audiostore: failed to list session directory: %w", err)
	}

	uris := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".meta.json") {
			continue
		}
		uris = append(uris, uriScheme+sessionID.String()+"/"+e.Name())
	}
	// Filenames are timestamp-prefixed, so lexical order is storage order.
	sort.Strings(uris)
	return uris, nil
}

func (s *LocalStore) DeleteAll(ctx context.Context, sessionID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.RemoveAll(filepath.Join(s.basePath, sessionID.String())); err != nil {
		return fmt.Errorf("audiostore: failed to delete session objects: %w", err)
	}
	return nil
}

func parseURI(uri string) (sessionID, name string, err error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return "", "", fmt.Errorf("audiostore: invalid uri scheme: %s", uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, uriScheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("audiostore: malformed uri: %s", uri)
	}
	if _, err := uuid.Parse(parts[0]); err != nil {
		return "", "", fmt.Errorf("audiostore: malformed session id in uri: %s", uri)
	}
	if strings.Contains(parts[1], "/") || strings.Contains(parts[1], "..") {
		return "", "", fmt.Errorf("audiostore: malformed object name in uri: %s", uri)
	}
	return parts[0], parts[1], nil
}
