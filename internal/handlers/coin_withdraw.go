package handlers

import (
	"errors"
	"net/http"

	"coinlaunch/internal/handlers/business"
	dbconfig "coinlaunch/pkg/config"
	"coinlaunch/pkg/evm"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// WithdrawRequest represents the request body for an earnings withdrawal.
// No amount field: the claimable amount is read from the coin contract.
type WithdrawRequest struct {
	Creator       string `json:"creator" binding:"required"`
	Recipient     string `json:"recipient" binding:"required"`
	ExecutionMode string `json:"execution_mode"`
}

// WithdrawEarnings moves accrued creator earnings to the recipient, waiting
// for on-chain confirmation before reporting completion.
func WithdrawEarnings(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !common.IsHexAddress(req.Creator) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "creator is not a valid address"})
		return
	}

	mode := evm.ExecutionMode(req.ExecutionMode)
	if mode == "" {
		mode = evm.ModeDirect
	}
	if mode != evm.ModeSponsored && mode != evm.ModeDirect {
		c.JSON(http.StatusBadRequest, gin.H{"error": "execution_mode must be sponsored or direct"})
		return
	}

	cfg, err := dbconfig.LoadChainConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pipeline, err := business.NewWithdrawPipeline(cfg, dbconfig.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	record, err := pipeline.Withdraw(c.Request.Context(), business.WithdrawInput{
		CoinAddress: c.Param("address"),
		Recipient:   req.Recipient,
		Creator:     common.HexToAddress(req.Creator),
		Mode:        mode,
	})
	if err != nil {
		body := gin.H{"error": err.Error()}
		if record != nil {
			body["settlement"] = record
		}
		var precondition *business.PreconditionError
		var revert *evm.RevertError
		switch {
		case errors.As(err, &precondition):
			c.JSON(http.StatusBadRequest, body)
		case errors.As(err, &revert):
			c.JSON(http.StatusUnprocessableEntity, body)
		case errors.Is(err, evm.ErrSubmissionRejected):
			c.JSON(http.StatusConflict, body)
		default:
			c.JSON(http.StatusInternalServerError, body)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"settlement": record})
}
