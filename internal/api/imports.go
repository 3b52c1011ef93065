package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/model"
	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/store"
)

// ListImports 列出导入日志
// GET /api/imports
func (h *Handler) ListImports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.store.ListImportLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if logs == nil {
		logs = []*model.ImportLog{}
	}
	c.JSON(http.StatusOK, gin.H{"imports": logs})
}

// ImportDetailResponse 导入日志详情
type ImportDetailResponse struct {
	*model.ImportLog
	Rows []model.DiffRow `json:"rows"`
}

// GetImport 读取单条导入日志及其明细行
// GET /api/imports/:id
func (h *Handler) GetImport(c *gin.Context) {
	logID := c.Param("id")
	log, err := h.store.GetImportLog(logID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	rows, err := h.store.GetImportRows(logID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if rows == nil {
		rows = []model.DiffRow{}
	}
	c.JSON(http.StatusOK, ImportDetailResponse{ImportLog: log, Rows: rows})
}

// CommitImport 确认导入，生成字段级审计
// POST /api/imports/:id/commit
func (h *Handler) CommitImport(c *gin.Context) {
	logID := c.Param("id")
	if err := h.store.CommitImportLog(logID); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(model.StatusConfirmed)})
}

// RollbackImport 回滚已确认的导入
// POST /api/imports/:id/rollback
func (h *Handler) RollbackImport(c *gin.Context) {
	logID := c.Param("id")
	if err := h.store.RollbackImportLog(logID); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(model.StatusRolledBack)})
}

// GetImportAudits 读取字段级审计记录
// GET /api/imports/:id/audits
func (h *Handler) GetImportAudits(c *gin.Context) {
	logID := c.Param("id")
	audits, err := h.store.GetChangeAudits(logID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if audits == nil {
		audits = []model.ChangeAudit{}
	}
	c.JSON(http.StatusOK, gin.H{"audits": audits})
}

// respondStoreError 存储层错误到 HTTP 状态码的映射
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrLogNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "导入日志不存在"})
	case errors.Is(err, store.ErrBadStatus):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
