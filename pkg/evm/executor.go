package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

const fallbackGasLimit uint64 = 3_000_000

// Executor submits a built call and returns the transaction hash. The two
// implementations differ only in who pays and signs; the call itself is
// executor-agnostic.
type Executor interface {
	Mode() ExecutionMode
	Submit(ctx context.Context, call *CallDescription) (common.Hash, error)
}

// Signer signs transactions on behalf of the creator. A signer that declines
// returns an error, which the executor maps to ErrSubmissionRejected.
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction) (*types.Transaction, error)
}

// PrivateKeySigner signs with an in-process secp256k1 key.
type PrivateKeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
	signer  types.Signer
}

func NewPrivateKeySigner(key *ecdsa.PrivateKey, chainID *big.Int) *PrivateKeySigner {
	return &PrivateKeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		signer:  types.LatestSignerForChainID(chainID),
	}
}

func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

func (s *PrivateKeySigner) SignTx(tx *types.Transaction) (*types.Transaction, error) {
	return types.SignTx(tx, s.signer, s.key)
}

// DirectBackend is the chain surface needed to submit a self-paid
// transaction. *ethclient.Client satisfies it.
type DirectBackend interface {
	Backend
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// DirectExecutor signs and pays with the creator's own funded key.
// EIP-1559 only.
type DirectExecutor struct {
	backend   DirectBackend
	signer    Signer
	gasFeeCap *big.Int
	gasTipCap *big.Int
}

func NewDirectExecutor(backend DirectBackend, signer Signer, gasFeeCap, gasTipCap *big.Int) *DirectExecutor {
	return &DirectExecutor{
		backend:   backend,
		signer:    signer,
		gasFeeCap: gasFeeCap,
		gasTipCap: gasTipCap,
	}
}

func (e *DirectExecutor) Mode() ExecutionMode {
	return ModeDirect
}

func (e *DirectExecutor) Submit(ctx context.Context, call *CallDescription) (common.Hash, error) {
	nonce, err := e.backend.PendingNonceAt(ctx, e.signer.Address())
	if err != nil {
		return common.Hash{}, fmt.Errorf("get nonce: %w", err)
	}

	gasLimit, err := e.backend.EstimateGas(ctx, call.Msg())
	if err != nil {
		log.Warnf("gas estimate failed, using fallback limit %d: %v", fallbackGasLimit, err)
		gasLimit = fallbackGasLimit
	}

	to := call.To
	tx := types.NewTx(&types.DynamicFeeTx{
		Nonce:     nonce,
		To:        &to,
		GasFeeCap: e.gasFeeCap,
		GasTipCap: e.gasTipCap,
		Gas:       gasLimit,
		Value:     call.Value,
		Data:      call.Data,
	})

	signedTx, err := e.signer.SignTx(tx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrSubmissionRejected, err)
	}

	if err := e.backend.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("send transaction: %w", err)
	}
	return signedTx.Hash(), nil
}

// SponsoredExecutor routes the call through the fee-sponsorship service: the
// creator's balance is irrelevant, a delegated account pays gas. The logical
// owner stays the creator address carried inside the call data.
type SponsoredExecutor struct {
	rest     *resty.Client
	endpoint string
}

type sponsoredSubmitRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value,omitempty"`
}

type sponsoredSubmitResponse struct {
	TxHash string `json:"tx_hash"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

func NewSponsoredExecutor(endpoint, apiKey string) *SponsoredExecutor {
	rest := resty.New().
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey)
	return &SponsoredExecutor{rest: rest, endpoint: endpoint}
}

func (e *SponsoredExecutor) Mode() ExecutionMode {
	return ModeSponsored
}

func (e *SponsoredExecutor) Submit(ctx context.Context, call *CallDescription) (common.Hash, error) {
	req := sponsoredSubmitRequest{
		From: call.From.Hex(),
		To:   call.To.Hex(),
		Data: hexutil.Encode(call.Data),
	}
	if call.Value != nil && call.Value.Sign() > 0 {
		req.Value = hexutil.EncodeBig(call.Value)
	}

	var out sponsoredSubmitResponse
	resp, err := e.rest.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post(e.endpoint)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sponsorship service: %w", err)
	}

	if out.Status == "rejected" {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrSubmissionRejected, out.Error)
	}
	if resp.IsError() {
		return common.Hash{}, fmt.Errorf("sponsorship service returned %s: %s", resp.Status(), out.Error)
	}
	if out.TxHash == "" {
		return common.Hash{}, fmt.Errorf("sponsorship service returned no transaction hash")
	}
	return common.HexToHash(out.TxHash), nil
}
