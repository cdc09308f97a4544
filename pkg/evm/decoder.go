package evm

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/lmittmann/w3"
)

// The factory has shipped two differently-shaped "coin created" events across
// protocol versions. Both carry the deployed coin address; the decoder must
// accept either so a factory upgrade does not break in-flight deployments.
const (
	SchemaCreatorCoinCreated = "CreatorCoinCreated"
	SchemaCoinCreatedV4      = "CoinCreatedV4"
)

var (
	eventCreatorCoinCreated = w3.MustNewEvent(
		"CreatorCoinCreated(address indexed caller, address indexed payoutRecipient, address indexed platformReferrer, address currency, string uri, string name, string symbol, address coin, bytes32 poolKeyHash, string version)",
	)
	eventCoinCreatedV4 = w3.MustNewEvent(
		"CoinCreatedV4(address indexed caller, address indexed payoutRecipient, address indexed platformReferrer, address currency, string uri, string name, string symbol, address coin, string version)",
	)
)

// coinEventSchemas is the ordered list of decode strategies; the first shape
// that decodes a log wins. Current schema first.
var coinEventSchemas = []struct {
	name   string
	decode func(l *types.Log) (common.Address, bool)
}{
	{SchemaCreatorCoinCreated, decodeCreatorCoinCreated},
	{SchemaCoinCreatedV4, decodeCoinCreatedV4},
}

func decodeCreatorCoinCreated(l *types.Log) (common.Address, bool) {
	var (
		caller, payoutRecipient, platformReferrer common.Address
		currency, coin                            common.Address
		uri, name, symbol, version                string
		poolKeyHash                               [32]byte
	)
	err := eventCreatorCoinCreated.DecodeArgs(l,
		&caller, &payoutRecipient, &platformReferrer,
		&currency, &uri, &name, &symbol, &coin, &poolKeyHash, &version,
	)
	return coin, err == nil
}

func decodeCoinCreatedV4(l *types.Log) (common.Address, bool) {
	var (
		caller, payoutRecipient, platformReferrer common.Address
		currency, coin                            common.Address
		uri, name, symbol, version                string
	)
	err := eventCoinCreatedV4.DecodeArgs(l,
		&caller, &payoutRecipient, &platformReferrer,
		&currency, &uri, &name, &symbol, &coin, &version,
	)
	return coin, err == nil
}

// ExecutionReceipt is the decoded outcome of a confirmed transaction.
type ExecutionReceipt struct {
	TxHash          common.Hash
	BlockNumber     uint64
	BlockTimestamp  time.Time
	DeployedAddress common.Address
	SchemaMatched   string
}

// DecodeCoinCreation scans the receipt's logs against the known event shapes.
// A confirmed receipt with no matching log is a hard error: the transaction
// succeeded on-chain but the resulting coin cannot be identified, which must
// never be silently treated as success.
func DecodeCoinCreation(receipt *types.Receipt) (common.Address, string, error) {
	for _, l := range receipt.Logs {
		for _, schema := range coinEventSchemas {
			if coin, ok := schema.decode(l); ok {
				return coin, schema.name, nil
			}
		}
	}
	return common.Address{}, "", ErrUndecodedReceipt
}
