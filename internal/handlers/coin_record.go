package handlers

import (
	"net/http"
	"strconv"

	"coinlaunch/internal/models"
	dbconfig "coinlaunch/pkg/config"

	"github.com/gin-gonic/gin"
)

// ListCoins returns paginated coin records, newest first.
// Query parameters: page (default: 1), page_size (default: 20, max: 100),
// status (optional filter), creator (optional filter)
func ListCoins(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	pageSize := 20
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}

	query := dbconfig.DB.Model(&models.CoinRecord{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if creator := c.Query("creator"); creator != "" {
		query = query.Where("creator_wallet = ?", creator)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var coins []models.CoinRecord
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&coins).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coins":     coins,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetCoin returns a single coin record, looked up by on-chain address or by
// internal id when the path segment is numeric.
func GetCoin(c *gin.Context) {
	key := c.Param("address")

	var coin models.CoinRecord
	var err error
	if id, parseErr := strconv.ParseUint(key, 10, 32); parseErr == nil {
		err = dbconfig.DB.First(&coin, uint(id)).Error
	} else {
		err = dbconfig.DB.Where("address = ?", key).First(&coin).Error
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "coin not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"coin": coin})
}

// ListSettlements returns withdrawal audit rows for a coin.
func ListSettlements(c *gin.Context) {
	var settlements []models.SettlementRecord
	if err := dbconfig.DB.Where("coin_address = ?", c.Param("address")).
		Order("created_at DESC").
		Find(&settlements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settlements": settlements})
}
