package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	TotalImports int    `json:"totalImports"` // 累计导入次数
	LastImportAt string `json:"lastImportAt"` // 最后导入时间
	SheetName    string `json:"sheetName"`    // 当前配置的数据 Sheet 名
}

// Health 健康检查
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "ipmds-data-service"})
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	total, lastImportAt, err := h.store.CountImportLogs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		TotalImports: total,
		LastImportAt: lastImportAt,
		SheetName:    h.cfg.Diff.SheetName,
	})
}
