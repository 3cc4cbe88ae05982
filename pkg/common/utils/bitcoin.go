package utils

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// ValidateAddress decodes addr and checks that it belongs to params.
func ValidateAddress(addr string, params *chaincfg.Params) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return fmt.Errorf("empty address")
	}
	decoded, err := btcutil.DecodeAddress(addr, params)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if !decoded.IsForNet(params) {
		return fmt.Errorf("address %q is not valid on %s", addr, params.Name)
	}
	return nil
}

// ValidateHash accepts a 64 character hex transaction id or block hash.
func ValidateHash(id string) error {
	if len(id) != chainhash.MaxHashStringSize {
		return fmt.Errorf("invalid hash %q: expected %d hex characters", id, chainhash.MaxHashStringSize)
	}
	if _, err := chainhash.NewHashFromStr(id); err != nil {
		return fmt.Errorf("invalid hash %q: %w", id, err)
	}
	return nil
}

// DecodeRawTx parses a hex serialized transaction, with or without witness data.
func DecodeRawTx(rawHex string) (*wire.MsgTx, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(rawHex))
	if err != nil {
		return nil, fmt.Errorf("raw transaction is not hex: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("raw transaction is empty")
	}
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("malformed raw transaction: %w", err)
	}
	return &tx, nil
}
