package evm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func mustABIType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("abi type %s: %v", t, err))
	}
	return typ
}

var saltArgs = abi.Arguments{
	{Type: mustABIType("address")},
	{Type: mustABIType("string")},
	{Type: mustABIType("string")},
	{Type: mustABIType("string")},
}

// ComputeSalt derives the CREATE2 salt from the deployment identity. It is a
// pure function: retrying the identical request targets the same predicted
// coin address instead of minting a duplicate token.
func ComputeSalt(creator common.Address, name, symbol, metadataURI string) (common.Hash, error) {
	packed, err := saltArgs.Pack(creator, name, symbol, metadataURI)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack salt inputs: %w", err)
	}
	return crypto.Keccak256Hash(packed), nil
}
