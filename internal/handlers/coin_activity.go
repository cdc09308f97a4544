package handlers

import (
	"math/big"
	"net/http"

	"coinlaunch/internal/handlers/business"
	dbconfig "coinlaunch/pkg/config"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// ActivityRequest represents the request body for telemetry writes.
// Amounts are wei decimal strings.
type ActivityRequest struct {
	Kind        string `json:"kind" binding:"required"` // fees / market_cap / trade
	TradeFees   string `json:"trade_fees"`
	CreatorFees string `json:"creator_fees"`
	MarketCap   string `json:"market_cap"`
	Trader      string `json:"trader"`
	Amount      string `json:"amount"`
	Side        string `json:"side"`
}

// RecordActivity pushes fee/market-cap/trade telemetry to the on-chain
// activity tracker. Best-effort by design: an unconfigured tracker yields a
// null tx_hash, never an error, so telemetry cannot block trading flows.
func RecordActivity(c *gin.Context) {
	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coinAddr := c.Param("address")
	if !common.IsHexAddress(coinAddr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coin address is not a valid address"})
		return
	}
	coin := common.HexToAddress(coinAddr)

	cfg, err := dbconfig.LoadChainConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tracker, err := business.NewActivityTracker(cfg, dbconfig.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var txHash *common.Hash
	switch req.Kind {
	case "fees":
		tradeFees, ok1 := parseWei(req.TradeFees)
		creatorFees, ok2 := parseWei(req.CreatorFees)
		if !ok1 || !ok2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "trade_fees and creator_fees must be decimal wei strings"})
			return
		}
		txHash = tracker.RecordFees(c.Request.Context(), coin, tradeFees, creatorFees)
	case "market_cap":
		marketCap, ok := parseWei(req.MarketCap)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "market_cap must be a decimal wei string"})
			return
		}
		txHash = tracker.UpdateMarketCap(c.Request.Context(), coin, marketCap)
	case "trade":
		if !common.IsHexAddress(req.Trader) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "trader is not a valid address"})
			return
		}
		amount, ok := parseWei(req.Amount)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a decimal wei string"})
			return
		}
		txHash = tracker.RecordTrade(c.Request.Context(), coin, common.HexToAddress(req.Trader), amount, req.Side)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be fees, market_cap or trade"})
		return
	}

	resp := gin.H{"tx_hash": nil}
	if txHash != nil {
		resp["tx_hash"] = txHash.Hex()
	}
	c.JSON(http.StatusOK, resp)
}

func parseWei(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, false
	}
	return n, true
}
