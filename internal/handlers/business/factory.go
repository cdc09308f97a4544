package business

import (
	"fmt"
	"math/big"
	"strings"

	dbconfig "coinlaunch/pkg/config"
	"coinlaunch/pkg/evm"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"gorm.io/gorm"
)

// NewDeployPipeline wires a deployment pipeline from a resolved chain config.
// Called once per request; the config snapshot cannot change mid-run.
func NewDeployPipeline(cfg dbconfig.ChainConfig, db *gorm.DB) (*DeployPipeline, error) {
	client, executors, operator, err := dialExecutors(cfg)
	if err != nil {
		return nil, err
	}

	tracker := &ActivityTracker{
		DB:       db,
		Executor: pickTrackerExecutor(executors),
		Tracker:  cfg.TrackerAddress,
		Operator: operator,
	}

	return &DeployPipeline{
		DB:        db,
		Backend:   client,
		Executors: executors,
		Cfg:       cfg,
		Tracker:   tracker,
	}, nil
}

// NewWithdrawPipeline wires a withdrawal pipeline from a resolved chain config.
func NewWithdrawPipeline(cfg dbconfig.ChainConfig, db *gorm.DB) (*WithdrawPipeline, error) {
	client, executors, _, err := dialExecutors(cfg)
	if err != nil {
		return nil, err
	}
	return &WithdrawPipeline{
		DB:        db,
		Backend:   client,
		Executors: executors,
		Cfg:       cfg,
	}, nil
}

// NewActivityTracker wires a standalone tracker for the telemetry endpoints.
func NewActivityTracker(cfg dbconfig.ChainConfig, db *gorm.DB) (*ActivityTracker, error) {
	_, executors, operator, err := dialExecutors(cfg)
	if err != nil {
		return nil, err
	}
	return &ActivityTracker{
		DB:       db,
		Executor: pickTrackerExecutor(executors),
		Tracker:  cfg.TrackerAddress,
		Operator: operator,
	}, nil
}

func dialExecutors(cfg dbconfig.ChainConfig) (*ethclient.Client, map[evm.ExecutionMode]evm.Executor, common.Address, error) {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, nil, common.Address{}, fmt.Errorf("dial rpc: %w", err)
	}

	executors := make(map[evm.ExecutionMode]evm.Executor)
	var operator common.Address

	if cfg.SponsorEndpoint != "" {
		executors[evm.ModeSponsored] = evm.NewSponsoredExecutor(cfg.SponsorEndpoint, cfg.SponsorAPIKey)
	}

	if cfg.DeployerKeyHex != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.DeployerKeyHex, "0x"))
		if err != nil {
			return nil, nil, common.Address{}, fmt.Errorf("parse deployer key: %w", err)
		}
		signer := evm.NewPrivateKeySigner(key, big.NewInt(cfg.ChainID))
		operator = signer.Address()
		executors[evm.ModeDirect] = evm.NewDirectExecutor(
			client, signer,
			big.NewInt(cfg.GasFeeCap), big.NewInt(cfg.GasTipCap),
		)
	}

	if len(executors) == 0 {
		return nil, nil, common.Address{}, fmt.Errorf("no execution path configured: set SPONSOR_ENDPOINT or DEPLOYER_PRIVATE_KEY")
	}
	return client, executors, operator, nil
}

// pickTrackerExecutor prefers the direct path for telemetry so sponsorship
// quota is not spent on best-effort writes.
func pickTrackerExecutor(executors map[evm.ExecutionMode]evm.Executor) evm.Executor {
	if e, ok := executors[evm.ModeDirect]; ok {
		return e
	}
	return executors[evm.ModeSponsored]
}
