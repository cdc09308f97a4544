package evm

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDeployCall(t *testing.T) {
	factory := common.HexToAddress("0xFA00000000000000000000000000000000000001")
	creator := common.HexToAddress("0xC000000000000000000000000000000000000001")
	referrer := common.HexToAddress("0xBB00000000000000000000000000000000000002")

	base := DeploymentRequest{
		Creator:          creator,
		Name:             "Demo Coin",
		Symbol:           "DEMO",
		MetadataURI:      "ipfs://QmDemo",
		PlatformReferrer: referrer,
	}

	t.Run("Calldata Roundtrips", func(t *testing.T) {
		call, salt, err := BuildDeployCall(factory, ChainIDBase, base)
		require.NoError(t, err)
		assert.Equal(t, factory, call.To)
		assert.Equal(t, creator, call.From)

		var (
			payout, gotReferrer common.Address
			owners              []common.Address
			uri, name, symbol   string
			poolConfig          []byte
			gotSalt             [32]byte
		)
		require.NoError(t, funcDeployCoin.DecodeArgs(call.Data,
			&payout, &owners, &uri, &name, &symbol, &poolConfig, &gotReferrer, &gotSalt,
		))
		assert.Equal(t, creator, payout)
		assert.Equal(t, []common.Address{creator}, owners)
		assert.Equal(t, base.MetadataURI, uri)
		assert.Equal(t, base.Name, name)
		assert.Equal(t, base.Symbol, symbol)
		assert.Equal(t, gotReferrer, referrer)
		assert.Equal(t, salt, common.Hash(gotSalt))

		expectedPool, err := EncodePoolConfig(ChainIDBase)
		require.NoError(t, err)
		assert.Equal(t, expectedPool, poolConfig)
	})

	t.Run("Salt Matches Standalone Derivation", func(t *testing.T) {
		_, salt, err := BuildDeployCall(factory, ChainIDBase, base)
		require.NoError(t, err)

		expected, err := ComputeSalt(creator, base.Name, base.Symbol, base.MetadataURI)
		require.NoError(t, err)
		assert.Equal(t, expected, salt)
	})

	t.Run("Hook Variant Selects The Extended Selector", func(t *testing.T) {
		plain, _, err := BuildDeployCall(factory, ChainIDBase, base)
		require.NoError(t, err)

		hooked := base
		hooked.PostDeployHook = common.HexToAddress("0x9900000000000000000000000000000000000009")
		hooked.PostDeployHookData = []byte{0x01, 0x02}
		withHook, _, err := BuildDeployCall(factory, ChainIDBase, hooked)
		require.NoError(t, err)

		assert.NotEqual(t, plain.Data[:4], withHook.Data[:4])

		var (
			payout, gotReferrer, hook common.Address
			owners                    []common.Address
			uri, name, symbol         string
			poolConfig, hookData      []byte
			gotSalt                   [32]byte
		)
		require.NoError(t, funcDeployCoinWithHook.DecodeArgs(withHook.Data,
			&payout, &owners, &uri, &name, &symbol, &poolConfig,
			&gotReferrer, &hook, &hookData, &gotSalt,
		))
		assert.Equal(t, hooked.PostDeployHook, hook)
		assert.Equal(t, hooked.PostDeployHookData, hookData)
	})

	t.Run("Pool Currency Override Reaches The Blob", func(t *testing.T) {
		custom := base
		custom.PoolCurrency = common.HexToAddress("0x7700000000000000000000000000000000000007")
		call, _, err := BuildDeployCall(factory, ChainIDBase, custom)
		require.NoError(t, err)

		defaultCall, _, err := BuildDeployCall(factory, ChainIDBase, base)
		require.NoError(t, err)
		assert.NotEqual(t, defaultCall.Data, call.Data)
	})

	t.Run("Unsupported Chain Is Rejected", func(t *testing.T) {
		_, _, err := BuildDeployCall(factory, 1, base)
		assert.Error(t, err)
	})
}

func TestBuildWithdrawCall(t *testing.T) {
	coin := common.HexToAddress("0xD400000000000000000000000000000000000004")
	creator := common.HexToAddress("0xC000000000000000000000000000000000000001")
	recipient := common.HexToAddress("0xEE00000000000000000000000000000000000005")
	amount := big.NewInt(1_000_000)

	call, err := BuildWithdrawCall(coin, creator, recipient, amount)
	require.NoError(t, err)
	assert.Equal(t, coin, call.To)
	assert.Equal(t, creator, call.From)

	var (
		gotTo     common.Address
		gotAmount *big.Int
	)
	require.NoError(t, funcWithdraw.DecodeArgs(call.Data, &gotTo, &gotAmount))
	assert.Equal(t, recipient, gotTo)
	assert.Zero(t, amount.Cmp(gotAmount))
}
