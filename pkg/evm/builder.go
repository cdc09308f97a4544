package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/lmittmann/w3"
)

// ExecutionMode selects who pays and signs. It never changes what is
// deployed, only the executor the call is routed through.
type ExecutionMode string

const (
	ModeSponsored ExecutionMode = "sponsored"
	ModeDirect    ExecutionMode = "direct"
)

// Factory function codecs. The hook variant is used when a post-deploy hook
// is attached; both deploy the same coin.
var (
	funcDeployCoin = w3.MustNewFunc(
		"deployCreatorCoin(address payoutRecipient, address[] owners, string uri, string name, string symbol, bytes poolConfig, address platformReferrer, bytes32 coinSalt)",
		"address",
	)
	funcDeployCoinWithHook = w3.MustNewFunc(
		"deployCreatorCoin(address payoutRecipient, address[] owners, string uri, string name, string symbol, bytes poolConfig, address platformReferrer, address postDeployHook, bytes postDeployHookData, bytes32 coinSalt)",
		"address",
	)
	funcWithdraw  = w3.MustNewFunc("withdraw(address to, uint256 amount)", "")
	funcBalanceOf = w3.MustNewFunc("balanceOf(address owner)", "uint256")
)

// DeploymentRequest parameterizes one coin deployment. Ephemeral: it exists
// only to feed the builder, never persisted.
type DeploymentRequest struct {
	Creator            common.Address
	Name               string
	Symbol             string
	MetadataURI        string
	PlatformReferrer   common.Address
	PoolCurrency       common.Address
	Mode               ExecutionMode
	PostDeployHook     common.Address
	PostDeployHookData []byte
}

// CallDescription is the executor-agnostic output of the builder: everything
// needed to simulate or submit the call regardless of who pays for it.
type CallDescription struct {
	From  common.Address
	To    common.Address
	Data  []byte
	Value *big.Int
}

// Msg converts the call into an eth_call message for simulation.
func (c *CallDescription) Msg() ethereum.CallMsg {
	to := c.To
	return ethereum.CallMsg{
		From:  c.From,
		To:    &to,
		Data:  c.Data,
		Value: c.Value,
	}
}

// BuildDeployCall assembles the factory call for req. The salt is derived
// from the request identity, and the pool configuration from chain defaults
// unless the request overrides the paired currency.
func BuildDeployCall(factory common.Address, chainID int64, req DeploymentRequest) (*CallDescription, common.Hash, error) {
	salt, err := ComputeSalt(req.Creator, req.Name, req.Symbol, req.MetadataURI)
	if err != nil {
		return nil, common.Hash{}, err
	}

	poolCfg, err := DefaultPoolConfiguration(chainID)
	if err != nil {
		return nil, common.Hash{}, err
	}
	if req.PoolCurrency != (common.Address{}) {
		poolCfg.PairedCurrency = req.PoolCurrency
	}
	encodedPool, err := poolCfg.Encode()
	if err != nil {
		return nil, common.Hash{}, err
	}

	owners := []common.Address{req.Creator}

	var data []byte
	if req.PostDeployHook != (common.Address{}) {
		data, err = funcDeployCoinWithHook.EncodeArgs(
			req.Creator, owners, req.MetadataURI, req.Name, req.Symbol,
			encodedPool, req.PlatformReferrer,
			req.PostDeployHook, req.PostDeployHookData, salt,
		)
	} else {
		data, err = funcDeployCoin.EncodeArgs(
			req.Creator, owners, req.MetadataURI, req.Name, req.Symbol,
			encodedPool, req.PlatformReferrer, salt,
		)
	}
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("encode deploy call: %w", err)
	}

	return &CallDescription{
		From: req.Creator,
		To:   factory,
		Data: data,
	}, salt, nil
}

// BuildWithdrawCall assembles the creator-coin earnings withdrawal call.
func BuildWithdrawCall(coin common.Address, caller, to common.Address, amount *big.Int) (*CallDescription, error) {
	data, err := funcWithdraw.EncodeArgs(to, amount)
	if err != nil {
		return nil, fmt.Errorf("encode withdraw call: %w", err)
	}
	return &CallDescription{From: caller, To: coin, Data: data}, nil
}

// PairedCurrencyBalance reads the caller's balance of the pool's paired ERC20.
// Used to fail fast before gas is risked when the paired currency is a token
// the caller must hold rather than the chain's native asset.
func PairedCurrencyBalance(ctx context.Context, backend Backend, token, holder common.Address) (*big.Int, error) {
	data, err := funcBalanceOf.EncodeArgs(holder)
	if err != nil {
		return nil, fmt.Errorf("encode balanceOf: %w", err)
	}

	out, err := backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("read balance of %s: %w", token.Hex(), err)
	}

	balance := new(big.Int)
	if err := funcBalanceOf.DecodeReturns(out, &balance); err != nil {
		return nil, fmt.Errorf("decode balanceOf return: %w", err)
	}
	return balance, nil
}
