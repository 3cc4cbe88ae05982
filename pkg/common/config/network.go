package config

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/fystack/mempool-bridge/pkg/common/constant"
	"github.com/fystack/mempool-bridge/pkg/common/enum"
)

// BaseURL resolves the explorer API root for the configured network and provider.
func (b BitcoinConfig) BaseURL() (string, error) {
	switch b.Provider {
	case enum.ProviderCustom:
		if b.CustomAPIURL == "" {
			return "", fmt.Errorf("provider %q requires custom_api_url", b.Provider)
		}
		return strings.TrimSuffix(b.CustomAPIURL, "/"), nil
	case enum.ProviderEsplora:
		switch b.Network {
		case enum.NetworkMainnet, "":
			return constant.EsploraMainnetURL, nil
		case enum.NetworkTestnet:
			return constant.EsploraTestnetURL, nil
		}
	case enum.ProviderMempool, "":
		switch b.Network {
		case enum.NetworkMainnet, "":
			return constant.MempoolMainnetURL, nil
		case enum.NetworkTestnet:
			return constant.MempoolTestnetURL, nil
		case enum.NetworkSignet:
			return constant.MempoolSignetURL, nil
		}
	default:
		return "", fmt.Errorf("unsupported provider %q", b.Provider)
	}
	return "", fmt.Errorf("network %q has no public %s endpoint, use provider custom", b.Network, b.Provider)
}

// ChainParams returns the address encoding parameters for the configured network.
func (b BitcoinConfig) ChainParams() *chaincfg.Params {
	switch b.Network {
	case enum.NetworkTestnet:
		return &chaincfg.TestNet3Params
	case enum.NetworkSignet:
		return &chaincfg.SigNetParams
	case enum.NetworkRegtest:
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}
