package evm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Chain IDs the factory is deployed on.
const (
	ChainIDBase        int64 = 8453
	ChainIDBaseSepolia int64 = 84532
)

// Pool configuration protocol constants. Tick bounds and the discovery
// position count must match what the deployed factory version expects;
// a mismatch reverts at simulation time.
const (
	PoolConfigVersion       = 4
	DefaultTickLower        = -208200
	DefaultTickUpper        = -105000
	NumDiscoveryPositions   = 11
	maxDiscoveryShareWadStr = "50000000000000000" // 5% of total supply, 1e18-scaled
)

// WETH on Base and Base Sepolia (OP-stack predeploy, same address on both).
var wethAddress = common.HexToAddress("0x4200000000000000000000000000000000000006")

// PoolConfiguration describes a coin's initial liquidity/discovery curve.
type PoolConfiguration struct {
	Version                 uint8
	PairedCurrency          common.Address
	TickLower               int64
	TickUpper               int64
	NumDiscoveryPositions   uint16
	MaxDiscoverySupplyShare *big.Int // 1e18-scaled fraction of total supply
}

var poolConfigArgs = abi.Arguments{
	{Type: mustABIType("address")},
	{Type: mustABIType("int24")},
	{Type: mustABIType("int24")},
	{Type: mustABIType("uint16")},
	{Type: mustABIType("uint256")},
}

// DefaultPoolConfiguration returns the protocol defaults for chainID. Pure:
// no network access, no randomness.
func DefaultPoolConfiguration(chainID int64) (PoolConfiguration, error) {
	switch chainID {
	case ChainIDBase, ChainIDBaseSepolia:
	default:
		return PoolConfiguration{}, fmt.Errorf("unsupported chain id %d", chainID)
	}

	maxShare, ok := new(big.Int).SetString(maxDiscoveryShareWadStr, 10)
	if !ok {
		return PoolConfiguration{}, fmt.Errorf("invalid max discovery share constant")
	}

	return PoolConfiguration{
		Version:                 PoolConfigVersion,
		PairedCurrency:          wethAddress,
		TickLower:               DefaultTickLower,
		TickUpper:               DefaultTickUpper,
		NumDiscoveryPositions:   NumDiscoveryPositions,
		MaxDiscoverySupplyShare: maxShare,
	}, nil
}

// Encode serializes the configuration as the factory expects: a one-byte
// version tag followed by the ABI-encoded curve parameters. Identical inputs
// always yield identical bytes.
func (c PoolConfiguration) Encode() ([]byte, error) {
	packed, err := poolConfigArgs.Pack(
		c.PairedCurrency,
		big.NewInt(c.TickLower),
		big.NewInt(c.TickUpper),
		c.NumDiscoveryPositions,
		c.MaxDiscoverySupplyShare,
	)
	if err != nil {
		return nil, fmt.Errorf("pack pool config: %w", err)
	}
	return append([]byte{c.Version}, packed...), nil
}

// EncodePoolConfig builds and encodes the default configuration for chainID.
func EncodePoolConfig(chainID int64) ([]byte, error) {
	cfg, err := DefaultPoolConfiguration(chainID)
	if err != nil {
		return nil, err
	}
	return cfg.Encode()
}
