package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/excel"
	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/matcher"
	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/model"
)

// AnalyzeRequest 表头分析请求
type AnalyzeRequest struct {
	FilePath string `json:"filePath" binding:"required"`
}

// AnalyzeResponse 表头分析响应：原始表头、全部标准字段与映射建议
type AnalyzeResponse struct {
	RawHeaders  []string             `json:"rawHeaders"`
	Fields      []model.Field        `json:"fields"`
	Suggestions []matcher.Suggestion `json:"suggestions"`
}

// AnalyzeHeaders 分析 Excel 表头并给出映射建议，供人工确认
// POST /api/excel/analyze
func (h *Handler) AnalyzeHeaders(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}

	table, err := excel.ReadSheet(req.FilePath, h.cfg.Diff.SheetName)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, excel.ErrSheetMissing) {
			c.JSON(status, gin.H{"error": "目标 Sheet 不存在: " + h.cfg.Diff.SheetName})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		RawHeaders:  table.Headers,
		Fields:      model.CatalogFields(),
		Suggestions: matcher.Suggest(table.Headers, h.cfg.Diff.ConfirmThreshold),
	})
}
