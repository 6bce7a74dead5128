// Package server 提供导出与草稿的 HTTP 接口。
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/cvpress/config"
	"github.com/ByLCY/cvpress/logger"
)

// NewRouter 创建注册好中间件与路由的 gin 引擎。
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(
		RequestID(),
		Logging(),
		Recovery(),
	)
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

// New 按配置创建 http.Server。
func New(cfg config.ServerConfig, h *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	if h.MaxBody <= 0 {
		h.MaxBody = cfg.MaxBodyBytes
	}
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      NewRouter(h),
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout, 60*time.Second),
	}
}

// Run 启动服务，ctx 结束后在 shutdownTimeout 内优雅退出。
func Run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", srv.Addr).Msg("HTTP 服务已启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("接收到终止信号，正在优雅退出...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("优雅退出完成")
	return nil
}
