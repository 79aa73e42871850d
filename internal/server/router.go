package server

import (
	"keeper-client/internal/devkeeper"
	"keeper-client/internal/handler/response"

	"keeper-client/pkg/monitor"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPRouter 初始化并返回一个 Gin Engine
func NewHTTPRouter(k *devkeeper.Keeper) *gin.Engine {
	// 0. 初始化监控指标
	monitor.Init()

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware()) // 监控埋点

	// 3. 注册基础路由
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler())) // 暴露给 Prometheus

	// 4. 注册 API 路由组
	h := devkeeper.NewHandler(k)
	api := r.Group("/api/v1")
	{
		api.GET("/ready", h.Ready)
		api.GET("/state", h.State)
		api.POST("/auth", h.Auth)

		sign := api.Group("/sign")
		{
			sign.POST("/tx", h.SignTx)
			sign.POST("/tx/publish", h.SignTx)
			sign.POST("/package", h.SignPackage)
			sign.POST("/order", h.SignText)
			sign.POST("/order/publish", h.SignText)
			sign.POST("/cancel", h.SignText)
			sign.POST("/cancel/publish", h.SignText)
			sign.POST("/request", h.SignText)
		}

		// 开发专用: 模拟锁定/解锁
		dev := api.Group("/dev")
		{
			dev.POST("/lock", h.Lock)
			dev.POST("/unlock", h.Unlock)
		}
	}

	return r
}
