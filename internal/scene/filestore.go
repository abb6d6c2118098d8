package scene

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/etokheim/scene-extrapolation/internal/extrapolate"
)

// FileStore serves scene snapshots from a scenes YAML file: a list of
// scenes, each with an id, a name, and an entity attribute map. The file
// is read once at construction; the agent holds no watch on it.
type FileStore struct {
	scenes map[string]extrapolate.Snapshot
	logger *slog.Logger
}

// NewFileStore loads a scenes YAML file into a lookup table. Scenes are
// addressable by id and, as a convenience, by name when the name does not
// collide with an id.
func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var snapshots []extrapolate.Snapshot
	if err := yaml.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}

	scenes := make(map[string]extrapolate.Snapshot, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot.ID == "" {
			return nil, fmt.Errorf("scene %q in %s has no id", snapshot.Name, path)
		}
		scenes[snapshot.ID] = snapshot
	}
	for _, snapshot := range snapshots {
		if snapshot.Name == "" {
			continue
		}
		if _, taken := scenes[snapshot.Name]; !taken {
			scenes[snapshot.Name] = snapshot
		}
	}

	logger.Info("Loaded scene file", "path", path, "scene_count", len(snapshots))

	return &FileStore{
		scenes: scenes,
		logger: logger,
	}, nil
}

// Lookup returns the snapshot for a scene id or name, or ErrNotFound
func (s *FileStore) Lookup(ctx context.Context, id string) (extrapolate.Snapshot, error) {
	snapshot, ok := s.scenes[id]
	if !ok {
		return extrapolate.Snapshot{}, fmt.Errorf("scene %s: %w", id, ErrNotFound)
	}
	return snapshot, nil
}
