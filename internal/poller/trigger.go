package poller

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/fystack/mempool-bridge/pkg/common/config"
	"github.com/fystack/mempool-bridge/pkg/common/constant"
	"github.com/fystack/mempool-bridge/pkg/common/enum"
	"github.com/fystack/mempool-bridge/pkg/common/utils"
	"github.com/google/uuid"
)

// Trigger is one resolved polling configuration.
type Trigger struct {
	Name    string
	Event   enum.EventKind
	Network enum.Network
	BaseURL string

	Address            string
	Direction          enum.Direction
	IncludeUnconfirmed bool

	TxID                  string
	RequiredConfirmations int64

	FeeType         enum.FeeTier
	ChangeThreshold float64

	MaxCatchupBlocks int64
}

// TriggerFromConfig resolves a trigger entry against the bitcoin section.
func TriggerFromConfig(tc config.TriggerConfig, btc config.BitcoinConfig) (Trigger, error) {
	baseURL, err := btc.BaseURL()
	if err != nil {
		return Trigger{}, err
	}
	if tc.Event == enum.EventFeeRateChange && !btc.Provider.HasMempoolFees() {
		return Trigger{}, fmt.Errorf("%w: provider %s has no recommended fee endpoint", ErrInvalidTrigger, btc.Provider)
	}

	t := Trigger{
		Name:                  tc.Name,
		Event:                 tc.Event,
		Network:               btc.Network,
		BaseURL:               baseURL,
		Address:               strings.TrimSpace(tc.Address),
		Direction:             tc.Direction,
		IncludeUnconfirmed:    true,
		TxID:                  strings.ToLower(strings.TrimSpace(tc.TxID)),
		RequiredConfirmations: tc.Confirmations,
		FeeType:               tc.FeeType,
		ChangeThreshold:       tc.ChangeThreshold,
		MaxCatchupBlocks:      tc.MaxCatchupBlocks,
	}
	if tc.IncludeUnconfirmed != nil {
		t.IncludeUnconfirmed = *tc.IncludeUnconfirmed
	}
	t.applyDefaults()

	if err := t.Validate(btc.ChainParams()); err != nil {
		return Trigger{}, err
	}
	return t, nil
}

func (t *Trigger) applyDefaults() {
	if t.Direction == "" {
		t.Direction = enum.DirectionAll
	}
	if t.RequiredConfirmations == 0 {
		t.RequiredConfirmations = constant.DefaultRequiredConfirmations
	}
	if t.FeeType == "" {
		t.FeeType = enum.FeeTierFastest
	}
	if t.ChangeThreshold == 0 {
		t.ChangeThreshold = constant.DefaultChangeThreshold
	}
}

// Validate checks the parameters the event kind depends on.
func (t Trigger) Validate(params *chaincfg.Params) error {
	switch t.Event {
	case enum.EventNewBlock:
		if t.MaxCatchupBlocks < 0 {
			return fmt.Errorf("%w: max catchup blocks must not be negative", ErrInvalidTrigger)
		}
	case enum.EventAddressTransaction:
		if t.Address == "" {
			return fmt.Errorf("%w: address is required", ErrInvalidTrigger)
		}
		if err := utils.ValidateAddress(t.Address, params); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTrigger, err)
		}
		if !t.Direction.IsValid() {
			return fmt.Errorf("%w: unknown direction %q", ErrInvalidTrigger, t.Direction)
		}
	case enum.EventTransactionConfirmed:
		if t.TxID == "" {
			return fmt.Errorf("%w: txid is required", ErrInvalidTrigger)
		}
		if err := utils.ValidateHash(t.TxID); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTrigger, err)
		}
		if t.RequiredConfirmations < 1 {
			return fmt.Errorf("%w: confirmations must be at least 1", ErrInvalidTrigger)
		}
	case enum.EventFeeRateChange:
		if !t.FeeType.IsValid() {
			return fmt.Errorf("%w: unknown fee type %q", ErrInvalidTrigger, t.FeeType)
		}
		if t.ChangeThreshold <= 0 {
			return fmt.Errorf("%w: change threshold must be positive", ErrInvalidTrigger)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, t.Event)
	}
	return nil
}

// identity lists what makes two triggers track the same remote state.
func (t Trigger) identity() string {
	parts := []string{string(t.Event), string(t.Network), t.BaseURL}
	switch t.Event {
	case enum.EventNewBlock:
		// max catchup only bounds a cycle; it does not change what is tracked.
	case enum.EventAddressTransaction:
		parts = append(parts, t.Address, string(t.Direction), strconv.FormatBool(t.IncludeUnconfirmed))
	case enum.EventTransactionConfirmed:
		parts = append(parts, t.TxID, strconv.FormatInt(t.RequiredConfirmations, 10))
	case enum.EventFeeRateChange:
		parts = append(parts, string(t.FeeType), strconv.FormatFloat(t.ChangeThreshold, 'f', -1, 64))
	}
	return strings.Join(parts, "|")
}

// ID is a name-based UUID of the trigger identity; it keys the cursor.
func (t Trigger) ID() string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(t.identity())).String()
}
