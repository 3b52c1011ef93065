package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Upload 接收上传文件并保存到数据目录的 uploads 子目录，
// 返回后续 analyze/diff 调用使用的文件路径
// POST /api/upload
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	// 文件名加时间戳与随机前缀，避免覆盖
	storedName := fmt.Sprintf("%d_%s_%s",
		time.Now().Unix(), uuid.NewString()[:8], filepath.Base(file.Filename))
	storedPath := filepath.Join(h.dataDir, "uploads", storedName)

	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileName": file.Filename,
		"filePath": storedPath,
		"size":     file.Size,
	})
}
