package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/scanner"
)

// ScanRequest 收据扫描请求
type ScanRequest struct {
	FilePath string `json:"filePath" binding:"required"`
}

// ScanReceipt 对收据文件做正则抽取
// POST /api/scan
func (h *Handler) ScanReceipt(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}

	c.JSON(http.StatusOK, scanner.Scan(req.FilePath))
}
