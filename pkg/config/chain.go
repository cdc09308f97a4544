package config

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
)

// Default platform referral address credited on every deployment unless the
// request overrides it.
const DefaultPlatformReferrer = "0x58Cf8f0B3e37F371CB1A18aa7bdD9418E54D9a23"

// ChainConfig is the per-request snapshot of the operator-controlled chain
// settings. Resolved once before a pipeline run so a request cannot switch
// networks partway through execution.
type ChainConfig struct {
	ChainID          int64
	RPCURL           string
	FactoryAddress   common.Address
	TrackerAddress   common.Address // zero address disables telemetry
	PlatformReferrer common.Address
	SponsorEndpoint  string
	SponsorAPIKey    string
	DeployerKeyHex   string
	GasFeeCap        int64
	GasTipCap        int64
	MetadataPrimary  string
	MetadataFallback string
	MetadataAPIKey   string
}

// TelemetryEnabled reports whether the activity tracker is configured.
func (c ChainConfig) TelemetryEnabled() bool {
	return c.TrackerAddress != (common.Address{})
}

// LoadChainConfig resolves the chain configuration from the environment.
// CHAIN selects the network (base or base-sepolia); everything else is
// operator-controlled, not per-request.
func LoadChainConfig() (ChainConfig, error) {
	cfg := ChainConfig{
		RPCURL:           os.Getenv("RPC_URL"),
		SponsorEndpoint:  os.Getenv("SPONSOR_ENDPOINT"),
		SponsorAPIKey:    os.Getenv("SPONSOR_API_KEY"),
		DeployerKeyHex:   os.Getenv("DEPLOYER_PRIVATE_KEY"),
		GasFeeCap:        envInt64("GAS_FEE_CAP", 2_000_000_000),
		GasTipCap:        envInt64("GAS_TIP_CAP", 1_000_000_000),
		MetadataPrimary:  os.Getenv("METADATA_PIN_URL"),
		MetadataFallback: os.Getenv("METADATA_PIN_FALLBACK_URL"),
		MetadataAPIKey:   os.Getenv("METADATA_PIN_API_KEY"),
	}

	switch os.Getenv("CHAIN") {
	case "", "base":
		cfg.ChainID = 8453
	case "base-sepolia":
		cfg.ChainID = 84532
	default:
		return ChainConfig{}, fmt.Errorf("unsupported CHAIN %q", os.Getenv("CHAIN"))
	}

	factory := os.Getenv("FACTORY_ADDRESS")
	if !common.IsHexAddress(factory) {
		return ChainConfig{}, fmt.Errorf("FACTORY_ADDRESS %q is not a valid address", factory)
	}
	cfg.FactoryAddress = common.HexToAddress(factory)

	// Absence of the tracker address disables telemetry without error.
	if tracker := os.Getenv("ACTIVITY_TRACKER_ADDRESS"); tracker != "" {
		if !common.IsHexAddress(tracker) {
			return ChainConfig{}, fmt.Errorf("ACTIVITY_TRACKER_ADDRESS %q is not a valid address", tracker)
		}
		cfg.TrackerAddress = common.HexToAddress(tracker)
	}

	referrer := os.Getenv("PLATFORM_REFERRER")
	if referrer == "" {
		referrer = DefaultPlatformReferrer
	}
	if !common.IsHexAddress(referrer) {
		return ChainConfig{}, fmt.Errorf("PLATFORM_REFERRER %q is not a valid address", referrer)
	}
	cfg.PlatformReferrer = common.HexToAddress(referrer)

	if cfg.RPCURL == "" {
		return ChainConfig{}, fmt.Errorf("RPC_URL is required")
	}

	return cfg, nil
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var n int64
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}
	return n
}
