package handlers

import (
	"errors"
	"net/http"

	"coinlaunch/internal/handlers/business"
	"coinlaunch/internal/models"
	dbconfig "coinlaunch/pkg/config"
	"coinlaunch/pkg/evm"
	"coinlaunch/pkg/metadata"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DeployCoinRequest represents the request body for coin deployment
type DeployCoinRequest struct {
	Creator          string `json:"creator" binding:"required"`
	Name             string `json:"name" binding:"required"`
	Symbol           string `json:"symbol" binding:"required"`
	Description      string `json:"description"`
	Image            string `json:"image"`
	ExecutionMode    string `json:"execution_mode"`
	PoolCurrency     string `json:"pool_currency"`
	PlatformReferrer string `json:"platform_referrer"`
}

// DeployCoin packages the metadata, then runs the full deployment pipeline:
// pending ledger row, simulation, sponsored/direct execution, receipt decode,
// ledger reconciliation.
func DeployCoin(c *gin.Context) {
	var req DeployCoinRequest
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
		mode = evm.ModeSponsored
	}
	if mode != evm.ModeSponsored && mode != evm.ModeDirect {
		c.JSON(http.StatusBadRequest, gin.H{"error": "execution_mode must be sponsored or direct"})
		return
	}

	in := business.DeployInput{
		Creator: common.HexToAddress(req.Creator),
		Name:    req.Name,
		Symbol:  req.Symbol,
		Mode:    mode,
		Metadata: models.JSONB{
			"name":        req.Name,
			"description": req.Description,
			"image":       req.Image,
		},
	}
	if req.PoolCurrency != "" {
		if !common.IsHexAddress(req.PoolCurrency) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pool_currency is not a valid address"})
			return
		}
		in.PoolCurrency = common.HexToAddress(req.PoolCurrency)
	}
	if req.PlatformReferrer != "" {
		if !common.IsHexAddress(req.PlatformReferrer) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "platform_referrer is not a valid address"})
			return
		}
		in.PlatformReferrer = common.HexToAddress(req.PlatformReferrer)
	}

	cfg, err := dbconfig.LoadChainConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	packager := metadata.NewPackager(cfg.MetadataPrimary, cfg.MetadataFallback, cfg.MetadataAPIKey)
	uri, err := packager.Package(c.Request.Context(), metadata.Content{
		Title:       req.Name,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		logrus.Errorf("metadata packaging failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	in.MetadataURI = uri

	pipeline, err := business.NewDeployPipeline(cfg, dbconfig.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	outcome, err := pipeline.Deploy(c.Request.Context(), in)
	if err != nil {
		respondPipelineError(c, outcome, err)
		return
	}

	resp := gin.H{"coin": outcome.Record}
	if outcome.Receipt != nil {
		resp["receipt"] = gin.H{
			"tx_hash":         outcome.Receipt.TxHash.Hex(),
			"block_number":    outcome.Receipt.BlockNumber,
			"block_timestamp": outcome.Receipt.BlockTimestamp,
			"address":         outcome.Receipt.DeployedAddress.Hex(),
			"event_schema":    outcome.Receipt.SchemaMatched,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// respondPipelineError maps the pipeline error taxonomy onto HTTP statuses.
// The caller always learns whether gas was spent: the record (with its tx
// hash, when known) rides along on every error response.
func respondPipelineError(c *gin.Context, outcome *business.DeployOutcome, err error) {
	body := gin.H{"error": err.Error()}
	if outcome != nil && outcome.Record != nil {
		body["coin"] = outcome.Record
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
	case errors.Is(err, business.ErrAttemptInFlight):
		c.JSON(http.StatusConflict, body)
	case errors.Is(err, evm.ErrUndecodedReceipt):
		// Succeeded on-chain but undecodable: distinct from plain failure.
		body["needs_reconciliation"] = true
		c.JSON(http.StatusBadGateway, body)
	default:
		c.JSON(http.StatusInternalServerError, body)
	}
}
