package api

import (
	"github.com/gin-gonic/gin"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/config"
	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/differ"
	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/store"
)

// Handler API 处理器
type Handler struct {
	store   *store.Store
	cfg     *config.AppConfig
	engine  *differ.Engine
	dataDir string
}

// NewHandler 创建 API 处理器
func NewHandler(store *store.Store, cfg *config.AppConfig, dataDir string) *Handler {
	return &Handler{
		store:   store,
		cfg:     cfg,
		engine:  differ.NewEngine(cfg.Diff.MatchThreshold, cfg.Diff.RatioTolerance),
		dataDir: dataDir,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/health", h.Health)
	router.GET("/status", h.GetStatus)

	// 文件上传
	router.POST("/upload", h.Upload)

	// Excel 表头分析与比对
	router.POST("/excel/analyze", h.AnalyzeHeaders)
	router.POST("/excel/diff", h.ComputeDiff)

	// 导入日志
	router.GET("/imports", h.ListImports)
	router.GET("/imports/:id", h.GetImport)
	router.POST("/imports/:id/commit", h.CommitImport)
	router.POST("/imports/:id/rollback", h.RollbackImport)
	router.GET("/imports/:id/audits", h.GetImportAudits)

	// 收据扫描
	router.POST("/scan", h.ScanReceipt)
}
