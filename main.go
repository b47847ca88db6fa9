package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/consts"
	"tiny-blog-server/internal/di"
	"tiny-blog-server/internal/modules/image/storage"

	"github.com/gin-gonic/gin"
	flag "github.com/spf13/pflag"
)

func main() {
	configDir := flag.String("config", "config", "配置文件目录")
	exportRoutes := flag.Bool("export", false, "导出路由到 routes.json 并退出")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}

	if cfg.Upload.Backend == storage.BackendLocal || cfg.Upload.Backend == "" {
		checkSecurePath(cfg.Upload.Path)
	}

	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()
	app, cleanup, err := di.InitializeApplication(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ 应用初始化失败: %v", err)
	}
	defer cleanup()

	r := gin.Default()
	if err := r.SetTrustedProxies(splitTrustedProxyList(cfg.Server.TrustedProxies)); err != nil {
		log.Fatalf("❌ 受信任代理配置错误: %v", err)
	}
	app.Router.Init(r)

	// 导出模式
	if *exportRoutes {
		if err := exportAPI(r, "routes.json"); err != nil {
			log.Fatalf("❌ 导出路由失败: %v", err)
		}
		fmt.Println("✅ 路由已成功导出到 routes.json")
		return // 导出后直接退出程序，不启动 Web 服务
	}

	printWelcomeMessage(cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 服务启动成功，运行在 :%s\n", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ 服务启动失败: %s\n", err)
		}
	}()

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 正在关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ 服务强制关闭: %v", err)
		return
	}
	log.Println("✅ 服务已退出")
}

func printWelcomeMessage(cfg *config.Config) {
	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🚀  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  版本     : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   🗂️   图片存储 : %s\n", cfg.Upload.Backend)
	fmt.Printf(" │   🔥  服务端口 : %s\n", cfg.Server.Port)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

// splitTrustedProxyList 按逗号、分号与空白拆分代理列表
func splitTrustedProxyList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func exportAPI(r *gin.Engine, filename string) error {
	routes := r.Routes()

	// 简单的结构体，只留关键信息
	type RouteInfo struct {
		Method  string `json:"method"`
		Path    string `json:"path"`
		Handler string `json:"handler"`
	}

	exportList := make([]RouteInfo, 0, len(routes))
	for _, route := range routes {
		exportList = append(exportList, RouteInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	file, err := json.MarshalIndent(exportList, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, file, 0644)
}

func checkSecurePath(path string) {
	if err := validateSecurePath(path); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// validateSecurePath 本地图片目录若位于项目目录内，必须落在允许的静态资源子目录中
func validateSecurePath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("路径解析失败: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("无法获取当前工作目录: %w", err)
	}

	// 检查是否直接指向项目根目录
	if absPath == cwd {
		return fmt.Errorf("安全配置错误: 图片目录 '%s' 不能设置为项目根目录", path)
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}

	allowedDirs := []string{"uploads", "public", "assets", "static", "tmp"}
	firstComponent := strings.Split(filepath.ToSlash(rel), "/")[0]
	for _, allowed := range allowedDirs {
		if strings.EqualFold(firstComponent, allowed) {
			return nil
		}
	}
	return fmt.Errorf("安全配置错误: 图片目录 '%s' 必须位于项目根目录下的安全子目录中 (如 %v)", path, allowedDirs)
}
