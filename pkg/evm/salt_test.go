package evm

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSalt(t *testing.T) {
	creator := common.HexToAddress("0xAAA0000000000000000000000000000000000001")

	t.Run("Deterministic Across Invocations", func(t *testing.T) {
		first, err := ComputeSalt(creator, "Song", "SONG", "ipfs://x")
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			again, err := ComputeSalt(creator, "Song", "SONG", "ipfs://x")
			require.NoError(t, err)
			assert.Equal(t, first, again, "identical inputs must yield identical salts")
		}
		assert.NotEqual(t, common.Hash{}, first)
	})

	t.Run("Each Input Changes The Salt", func(t *testing.T) {
		base, err := ComputeSalt(creator, "Song", "SONG", "ipfs://x")
		require.NoError(t, err)

		otherCreator, err := ComputeSalt(common.HexToAddress("0xBBB0000000000000000000000000000000000002"), "Song", "SONG", "ipfs://x")
		require.NoError(t, err)
		assert.NotEqual(t, base, otherCreator, "creator must affect the salt")

		otherName, err := ComputeSalt(creator, "Song2", "SONG", "ipfs://x")
		require.NoError(t, err)
		assert.NotEqual(t, base, otherName, "name must affect the salt")

		otherSymbol, err := ComputeSalt(creator, "Song", "SONG2", "ipfs://x")
		require.NoError(t, err)
		assert.NotEqual(t, base, otherSymbol, "symbol must affect the salt")

		otherURI, err := ComputeSalt(creator, "Song", "SONG", "ipfs://y")
		require.NoError(t, err)
		assert.NotEqual(t, base, otherURI, "metadata uri must affect the salt")
	})
}
