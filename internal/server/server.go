package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"countrydash/internal/api"
	"countrydash/internal/dashboard"
	"countrydash/internal/store"
)

//go:embed all:dist
var staticFiles embed.FS

// Options 服务器参数
type Options struct {
	Addr    string
	DevMode bool
	// DevProxy 开发模式下前端开发服务器地址
	DevProxy string
	Source   string
}

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	http   *http.Server
	store  *store.Store
	api    *api.Handler
}

// NewServer 创建服务器
func NewServer(dash *dashboard.Dashboard, st *store.Store, opts Options) *Server {
	if !opts.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.DevMode {
		router.Use(gin.Logger())
	} else {
		router.Use(requestLogger())
	}

	s := &Server{
		router: router,
		store:  st,
		api:    api.NewHandler(dash, st, opts.Source),
	}
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.setupRoutes(opts)
	return s
}

// requestLogger 生产模式下用 klog 记录非 2xx 请求
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			klog.InfoS("request", "method", c.Request.Method, "path", c.Request.URL.Path,
				"status", status, "latency", time.Since(start))
		} else {
			klog.V(4).InfoS("request", "method", c.Request.Method, "path", c.Request.URL.Path,
				"status", status, "latency", time.Since(start))
		}
	}
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(opts Options) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	s.api.RegisterRoutes(s.router.Group("/api"))

	// 静态资源
	if opts.DevMode && opts.DevProxy != "" {
		// 开发模式：页面请求重定向到前端开发服务器，API 仍由本进程处理
		proxy := strings.TrimRight(opts.DevProxy, "/")
		s.router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.Redirect(http.StatusTemporaryRedirect, proxy+c.Request.URL.RequestURI())
		})
		return
	}

	sub, err := fs.Sub(staticFiles, "dist")
	if err != nil {
		klog.ErrorS(err, "embedded dist missing")
		return
	}
	assetsSub, err := fs.Sub(sub, "assets")
	if err == nil {
		s.router.StaticFS("/assets", http.FS(assetsSub))
	}

	index := func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
	s.router.GET("/", index)

	// 未知的 /api 路径返回 JSON 404，其余回退到首页
	s.router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		index(c)
	})
}

// Handler 路由（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，阻塞直到关闭
func (s *Server) Run() error {
	klog.InfoS("http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
