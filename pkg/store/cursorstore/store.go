package cursorstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fystack/mempool-bridge/internal/poller"
	"github.com/fystack/mempool-bridge/pkg/common/constant"
	"github.com/fystack/mempool-bridge/pkg/infra"
)

func cursorKey(triggerID string) string {
	return fmt.Sprintf("%s/%s", constant.KVPrefixCursors, triggerID)
}

type Store interface {
	Get(triggerID string) (poller.Cursor, bool, error)
	Save(triggerID string, cursor poller.Cursor) error
	Delete(triggerID string) error
	// List returns every stored cursor keyed by trigger id.
	List() (map[string]poller.Cursor, error)
	Close() error
}

// cursorStore encodes cursors with the underlying store's codec.
type cursorStore struct {
	store infra.KVStore
}

func NewCursorStore(store infra.KVStore) Store {
	return &cursorStore{store: store}
}

func (cs *cursorStore) Get(triggerID string) (poller.Cursor, bool, error) {
	if triggerID == "" {
		return poller.Cursor{}, false, errors.New("trigger id is required")
	}
	var cursor poller.Cursor
	found, err := cs.store.GetAny(cursorKey(triggerID), &cursor)
	if err != nil {
		return poller.Cursor{}, false, fmt.Errorf("decode cursor %s: %w", triggerID, err)
	}
	return cursor, found, nil
}

func (cs *cursorStore) Save(triggerID string, cursor poller.Cursor) error {
	if triggerID == "" {
		return errors.New("trigger id is required")
	}
	return cs.store.SetAny(cursorKey(triggerID), cursor)
}

func (cs *cursorStore) Delete(triggerID string) error {
	if triggerID == "" {
		return errors.New("trigger id is required")
	}
	return cs.store.Delete(cursorKey(triggerID))
}

func (cs *cursorStore) List() (map[string]poller.Cursor, error) {
	prefix := constant.KVPrefixCursors + "/"
	pairs, err := cs.store.List(prefix)
	if err != nil {
		return nil, err
	}

	cursors := make(map[string]poller.Cursor, len(pairs))
	for _, pair := range pairs {
		id := strings.TrimPrefix(pair.Key, prefix)
		cursor, found, err := cs.Get(id)
		if err != nil {
			return nil, err
		}
		// deleted between List and Get
		if !found {
			continue
		}
		cursors[id] = cursor
	}
	return cursors, nil
}

func (cs *cursorStore) Close() error {
	return cs.store.Close()
}
