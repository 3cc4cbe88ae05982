package kvstore

import (
	"fmt"

	"github.com/fystack/mempool-bridge/pkg/common/config"
	"github.com/fystack/mempool-bridge/pkg/common/enum"
	"github.com/fystack/mempool-bridge/pkg/infra"
)

// NewFromConfig constructs an infra.KVStore based on kvstore configuration.
func NewFromConfig(cfg config.KVStoreConfig) (infra.KVStore, error) {
	switch cfg.Type {
	case enum.KVStoreTypeBadger, "":
		return NewBadgerStore(BadgerOptions{
			Directory: cfg.Badger.Directory,
			Prefix:    cfg.Badger.Prefix,
			InMemory:  cfg.Badger.InMemory,
		}, infra.JSON)
	default:
		return nil, fmt.Errorf("unsupported kvstore type: %s", cfg.Type)
	}
}
