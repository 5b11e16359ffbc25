package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
)

// MasterListKey is the key the master list is persisted under.
const MasterListKey = "ggv-master-org-list"

//go:embed default_organizations.json
var defaultOrganizations []byte

// DefaultOrganizations returns the list a fresh installation starts with.
func DefaultOrganizations() dto.MasterList {
	var names []string
	if err := json.Unmarshal(defaultOrganizations, &names); err != nil {
		panic(fmt.Sprintf("embedded default organizations: %v", err))
	}
	return names
}

// MasterListStore persists the master list as a JSON array of names.
type MasterListStore struct {
	kv *Store
	mu sync.Mutex
}

func NewMasterListStore(kv *Store) *MasterListStore {
	return &MasterListStore{kv: kv}
}

// Load returns the stored list, seeding it with the defaults on first use.
func (m *MasterListStore) Load(ctx context.Context) (dto.MasterList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

// Save replaces the list. Blank names are dropped and later duplicates
// (by normalized name) are removed.
func (m *MasterListStore) Save(ctx context.Context, names []string) (dto.MasterList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := dedupe(names)
	if err := m.write(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Add appends the names not yet on the list and returns the updated list
// together with the names actually added.
func (m *MasterListStore) Add(ctx context.Context, names []string) (dto.MasterList, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list, err := m.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	added := []string{}
	for _, name := range dedupe(names) {
		if list.Contains(name) {
			continue
		}
		list = append(list, name)
		added = append(added, name)
	}
	if len(added) == 0 {
		return list, added, nil
	}

	if err := m.write(ctx, list); err != nil {
		return nil, nil, err
	}
	return list, added, nil
}

// Remove deletes name (matched by normalized form). removed is false when the
// name was not on the list.
func (m *MasterListStore) Remove(ctx context.Context, name string) (dto.MasterList, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list, err := m.load(ctx)
	if err != nil {
		return nil, false, err
	}

	i := list.Index(name)
	if i < 0 {
		return list, false, nil
	}
	list = append(list[:i:i], list[i+1:]...)

	if err := m.write(ctx, list); err != nil {
		return nil, false, err
	}
	return list, true, nil
}

// Reset drops the stored list and returns the defaults it is re-seeded with.
func (m *MasterListStore) Reset(ctx context.Context) (dto.MasterList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.kv.Delete(ctx, MasterListKey); err != nil {
		return nil, err
	}
	return m.load(ctx)
}

func (m *MasterListStore) load(ctx context.Context) (dto.MasterList, error) {
	raw, ok, err := m.kv.Get(ctx, MasterListKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		list := DefaultOrganizations()
		if err := m.write(ctx, list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("decoding master list: %w", err)
	}
	return dto.MasterList(names), nil
}

func (m *MasterListStore) write(ctx context.Context, list dto.MasterList) error {
	if list == nil {
		list = dto.MasterList{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding master list: %w", err)
	}
	return m.kv.Set(ctx, MasterListKey, string(data))
}

func dedupe(names []string) dto.MasterList {
	list := dto.MasterList{}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := dto.NormalizeName(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		list = append(list, name)
	}
	return list
}
