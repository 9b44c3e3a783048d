package repositoryimpl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kazz187/roomez/internal/task"
	"github.com/kazz187/roomez/pkg/cerr"
	"github.com/kazz187/roomez/pkg/storage"
)

const (
	roomsPrefix = "rooms"
	tasksDir    = "tasks"
	yamlExt     = ".yaml"
)

var _ task.Repository = (*YAMLRepository)(nil)

// YAMLRepository keeps one YAML document per task under rooms/<ROOM>/tasks/<id>.yaml.
type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func tasksPath(roomCode string) string {
	return fmt.Sprintf("%s/%s/%s", roomsPrefix, roomCode, tasksDir)
}

func path(roomCode, id string) string {
	return fmt.Sprintf("%s/%s%s", tasksPath(roomCode), id, yamlExt)
}

// Save writes every field of r over the stored document. Keys the record does not
// know about are kept, so concurrent writers only clobber the fields they both set.
func (r *YAMLRepository) Save(ctx context.Context, roomCode string, t *task.Record) error {
	if err := t.Validate(); err != nil {
		return err
	}
	var fresh yaml.Node
	if err := fresh.Encode(task.ToDocument(t)); err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal task: %w", err))
	}
	doc := mapping(&fresh)

	data, err := r.storage.Read(ctx, path(roomCode, t.ID))
	switch {
	case err == nil:
		var existing yaml.Node
		if err := yaml.Unmarshal(data, &existing); err != nil || mapping(&existing) == nil {
			slog.DebugContext(ctx, "overwriting unreadable task document", "room", roomCode, "task_id", t.ID, "error", err)
			break
		}
		doc = mergeMapping(mapping(&existing), doc)
	case errors.Is(err, storage.ErrNotFound):
	default:
		return cerr.WrapStorageReadError("task", err)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal task: %w", err))
	}
	if err := r.storage.Write(ctx, path(roomCode, t.ID), out); err != nil {
		return cerr.WrapStorageWriteError("task", err)
	}
	return nil
}

// mapping unwraps a document node. It returns nil unless n holds a mapping.
func mapping(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	return n
}

// mergeMapping sets every key of src on dst, replacing existing values.
func mergeMapping(dst, src *yaml.Node) *yaml.Node {
	for i := 0; i+1 < len(src.Content); i += 2 {
		key, val := src.Content[i], src.Content[i+1]
		replaced := false
		for j := 0; j+1 < len(dst.Content); j += 2 {
			if dst.Content[j].Value == key.Value {
				dst.Content[j+1] = val
				replaced = true
				break
			}
		}
		if !replaced {
			dst.Content = append(dst.Content, key, val)
		}
	}
	return dst
}

func (r *YAMLRepository) Delete(ctx context.Context, roomCode, id string) error {
	if err := r.storage.Delete(ctx, path(roomCode, id)); err != nil {
		return cerr.WrapStorageDeleteError("task", err)
	}
	return nil
}

func (r *YAMLRepository) List(ctx context.Context, roomCode string) ([]*task.Record, error) {
	paths, err := r.storage.List(ctx, tasksPath(roomCode))
	if err != nil {
		return nil, cerr.WrapStorageReadError("tasks", err)
	}

	sort.Strings(paths)

	all := make([]*task.Record, 0, len(paths))
	for _, p := range paths {
		if !strings.HasSuffix(p, yamlExt) {
			continue
		}
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			slog.DebugContext(ctx, "skipping unreadable task document", "path", p, "error", err)
			continue
		}
		t, err := decode(data)
		if err != nil {
			slog.DebugContext(ctx, "skipping malformed task document", "path", p, "error", err)
			continue
		}
		all = append(all, t)
	}
	sortByCreatedAt(all)
	return all, nil
}

func (r *YAMLRepository) Rooms(ctx context.Context) ([]string, error) {
	rooms, err := r.storage.ListPrefixes(ctx, roomsPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("rooms", err)
	}
	return rooms, nil
}

func decode(data []byte) (*task.Record, error) {
	var d task.Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %w", task.ErrMalformed, err)
	}
	return d.Record()
}

func sortByCreatedAt(all []*task.Record) {
	slices.SortStableFunc(all, func(a, b *task.Record) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
