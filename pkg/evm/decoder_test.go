package evm

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testCaller   = common.HexToAddress("0xC100000000000000000000000000000000000001")
	testReferrer = common.HexToAddress("0xC200000000000000000000000000000000000002")
	testCurrency = common.HexToAddress("0x4200000000000000000000000000000000000006")
	testCoin     = common.HexToAddress("0xD400000000000000000000000000000000000004")
)

func currentSchemaLog(t *testing.T, coin common.Address) *types.Log {
	t.Helper()
	dataArgs := abi.Arguments{
		{Type: mustABIType("address")}, // currency
		{Type: mustABIType("string")},  // uri
		{Type: mustABIType("string")},  // name
		{Type: mustABIType("string")},  // symbol
		{Type: mustABIType("address")}, // coin
		{Type: mustABIType("bytes32")}, // poolKeyHash
		{Type: mustABIType("string")},  // version
	}
	data, err := dataArgs.Pack(testCurrency, "ipfs://abc", "Demo", "DEMO", coin, [32]byte{0x01}, "4.1")
	require.NoError(t, err)

	return &types.Log{
		Topics: []common.Hash{
			eventCreatorCoinCreated.Topic0,
			common.BytesToHash(testCaller.Bytes()),
			common.BytesToHash(testCaller.Bytes()),
			common.BytesToHash(testReferrer.Bytes()),
		},
		Data: data,
	}
}

func legacySchemaLog(t *testing.T, coin common.Address) *types.Log {
	t.Helper()
	dataArgs := abi.Arguments{
		{Type: mustABIType("address")}, // currency
		{Type: mustABIType("string")},  // uri
		{Type: mustABIType("string")},  // name
		{Type: mustABIType("string")},  // symbol
		{Type: mustABIType("address")}, // coin
		{Type: mustABIType("string")},  // version
	}
	data, err := dataArgs.Pack(testCurrency, "ipfs://abc", "Demo", "DEMO", coin, "4.0")
	require.NoError(t, err)

	return &types.Log{
		Topics: []common.Hash{
			eventCoinCreatedV4.Topic0,
			common.BytesToHash(testCaller.Bytes()),
			common.BytesToHash(testCaller.Bytes()),
			common.BytesToHash(testReferrer.Bytes()),
		},
		Data: data,
	}
}

func receiptWithLogs(logs ...*types.Log) *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		Logs:        logs,
		BlockNumber: big.NewInt(123),
		TxHash:      common.HexToHash("0xfeed"),
	}
}

func TestDecodeCoinCreation(t *testing.T) {
	t.Run("Current Schema", func(t *testing.T) {
		coin, schema, err := DecodeCoinCreation(receiptWithLogs(currentSchemaLog(t, testCoin)))
		require.NoError(t, err)
		assert.Equal(t, testCoin, coin)
		assert.Equal(t, SchemaCreatorCoinCreated, schema)
	})

	t.Run("Legacy Schema Yields Same Address", func(t *testing.T) {
		currentCoin, _, err := DecodeCoinCreation(receiptWithLogs(currentSchemaLog(t, testCoin)))
		require.NoError(t, err)

		legacyCoin, schema, err := DecodeCoinCreation(receiptWithLogs(legacySchemaLog(t, testCoin)))
		require.NoError(t, err)
		assert.Equal(t, currentCoin, legacyCoin, "both schemas must recover the same coin address")
		assert.Equal(t, SchemaCoinCreatedV4, schema)
	})

	t.Run("Unrelated Logs Are Skipped", func(t *testing.T) {
		noise := &types.Log{Topics: []common.Hash{common.HexToHash("0xdead")}}
		coin, _, err := DecodeCoinCreation(receiptWithLogs(noise, legacySchemaLog(t, testCoin)))
		require.NoError(t, err)
		assert.Equal(t, testCoin, coin)
	})

	t.Run("No Match Is A Hard Error", func(t *testing.T) {
		noise := &types.Log{Topics: []common.Hash{common.HexToHash("0xdead")}}
		_, _, err := DecodeCoinCreation(receiptWithLogs(noise))
		assert.ErrorIs(t, err, ErrUndecodedReceipt)
	})

	t.Run("Empty Receipt Is A Hard Error", func(t *testing.T) {
		_, _, err := DecodeCoinCreation(receiptWithLogs())
		assert.ErrorIs(t, err, ErrUndecodedReceipt)
	})
}
