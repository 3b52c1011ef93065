package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/excel"
	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/model"
)

// DiffRequest 比对请求。existingRows 是调用方提供的存量快照，
// headerOverride 覆盖自动映射（人工确认结果优先）。
type DiffRequest struct {
	FilePath       string            `json:"filePath" binding:"required"`
	ExistingRows   []map[string]any  `json:"existingRows"`
	HeaderOverride map[string]string `json:"headerOverride"`
}

// DiffResponse 比对响应：报告本体加持久化后的日志 ID
type DiffResponse struct {
	ImportLogID string `json:"importLogId"`
	*model.DiffReport
}

// ComputeDiff 读取数据表并与存量快照做字段级比对，结果落库
// POST /api/excel/diff
func (h *Handler) ComputeDiff(c *gin.Context) {
	var req DiffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}

	table, err := excel.ReadSheet(req.FilePath, h.cfg.Diff.SheetName)
	if err != nil {
		if errors.Is(err, excel.ErrSheetMissing) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "目标 Sheet 不存在: " + h.cfg.Diff.SheetName})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	priorRows := make([]model.Row, 0, len(req.ExistingRows))
	for _, raw := range req.ExistingRows {
		priorRows = append(priorRows, model.RowFromAny(raw))
	}

	override := make(map[string]model.Field, len(req.HeaderOverride))
	for raw, field := range req.HeaderOverride {
		override[raw] = model.Field(field)
	}

	report := h.engine.Compute(table.Headers, table.Rows, priorRows, override)

	logID := uuid.NewString()
	fileSHA, err := fileSHA256(req.FilePath)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.SaveDiffReport(logID, filepath.Base(req.FilePath), req.FilePath, fileSHA, report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slog.Info("diff computed",
		"importLogId", logID,
		"file", filepath.Base(req.FilePath),
		"totalRows", report.Summary.TotalRows,
		"newRows", report.Summary.NewRows,
		"changedRows", report.Summary.ChangedRows,
		"errorRows", report.Summary.ErrorRows)

	c.JSON(http.StatusOK, DiffResponse{ImportLogID: logID, DiffReport: report})
}

// fileSHA256 计算文件内容摘要，用于导入日志溯源
func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
