package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"run", "poll", "call", "cursor", "events"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	cmd, _, err := root.Find([]string{"cursor", "reset"})
	require.NoError(t, err)
	assert.Equal(t, "reset", cmd.Name())
}

func TestCall_ListNeedsNoConfig(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"call", "--list", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.NoError(t, root.Execute())
}

func TestReadItems(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "items.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
- txid: f4184fc596403b9d638783cf57adfe4c75c605f6356fbc91338530e9831e9e16
- blockHeight: 0
- address: bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh
  lastSeenTxid: f4184fc596403b9d638783cf57adfe4c75c605f6356fbc91338530e9831e9e16
`), 0o644))

	items, err := readItems(yamlPath)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "f4184fc596403b9d638783cf57adfe4c75c605f6356fbc91338530e9831e9e16", items[0].TxID)
	require.NotNil(t, items[1].BlockHeight)
	assert.Equal(t, int64(0), *items[1].BlockHeight)
	assert.Nil(t, items[0].BlockHeight)
	assert.NotEmpty(t, items[2].LastSeenTxID)

	jsonPath := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"address":"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"},{"startIndex":25}]`), 0o644))
	items, err = readItems(jsonPath)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 25, items[1].StartIndex)

	emptyPath := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(emptyPath, []byte("[]"), 0o644))
	_, err = readItems(emptyPath)
	assert.Error(t, err)
}
