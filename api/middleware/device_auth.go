/*
 * @module api/middleware/device_auth
 * @description 设备令牌鉴权中间件，校验Bearer Token与配置的令牌哈希
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow Token提取 -> bcrypt比对 -> 校验结果缓存 -> 下一个处理器
 * @rules 未配置DEVICE_TOKEN_HASH时跳过鉴权；健康检查和文档路径在白名单中
 * @dependencies net/http, golang.org/x/crypto/bcrypt
 * @refs api/routes.go
 */

package middleware

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"
)

// DeviceAuthMiddleware 设备令牌鉴权中间件
type DeviceAuthMiddleware struct {
	tokenHash string
	// 已通过校验的令牌缓存，避免每次请求都执行bcrypt比对
	verified      map[string]time.Time
	verifiedMutex sync.RWMutex
	cacheTTL      time.Duration
	// 白名单路径（不需要鉴权）
	whitelistPaths []string
}

// NewDeviceAuthMiddleware 创建设备令牌鉴权中间件实例
func NewDeviceAuthMiddleware() *DeviceAuthMiddleware {
	return &DeviceAuthMiddleware{
		tokenHash: os.Getenv("DEVICE_TOKEN_HASH"),
		verified:  make(map[string]time.Time),
		cacheTTL:  5 * time.Minute, // 缓存5分钟
		whitelistPaths: []string{
			"/health",  // 健康检查
			"/ready",   // 就绪检查
			"/swagger", // Swagger文档
			"/metrics", // Prometheus指标
		},
	}
}

// AddWhitelistPath 添加白名单路径
func (m *DeviceAuthMiddleware) AddWhitelistPath(path string) {
	m.whitelistPaths = append(m.whitelistPaths, path)
}

// IsWhitelistPath 检查路径是否在白名单中
func (m *DeviceAuthMiddleware) IsWhitelistPath(path string) bool {
	for _, whitelistPath := range m.whitelistPaths {
		// 支持前缀匹配
		if strings.HasPrefix(path, whitelistPath) {
			return true
		}
	}
	return false
}

// Middleware 鉴权中间件处理函数
func (m *DeviceAuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 未配置令牌哈希时跳过鉴权
		if m.tokenHash == "" {
			next.ServeHTTP(w, r)
			return
		}

		if m.IsWhitelistPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.respondUnauthorized(w, r, "缺少Authorization头")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.respondUnauthorized(w, r, "无效的Authorization格式，需要Bearer Token")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			m.respondUnauthorized(w, r, "Token为空")
			return
		}

		// 先检查缓存
		if m.isVerified(token) {
			next.ServeHTTP(w, r)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(m.tokenHash), []byte(token)); err != nil {
			m.respondUnauthorized(w, r, "Token验证失败")
			return
		}

		m.markVerified(token)
		next.ServeHTTP(w, r)
	})
}

// isVerified 检查令牌是否在缓存有效期内
func (m *DeviceAuthMiddleware) isVerified(token string) bool {
	m.verifiedMutex.RLock()
	defer m.verifiedMutex.RUnlock()

	expiresAt, exists := m.verified[token]
	if !exists {
		return false
	}
	return time.Now().Before(expiresAt)
}

// markVerified 记录已通过校验的令牌
func (m *DeviceAuthMiddleware) markVerified(token string) {
	m.verifiedMutex.Lock()
	defer m.verifiedMutex.Unlock()
	m.verified[token] = time.Now().Add(m.cacheTTL)
}

// respondUnauthorized 返回401未授权响应
func (m *DeviceAuthMiddleware) respondUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"status":  http.StatusUnauthorized,
		"message": message,
		"error":   "Unauthorized",
	})
}
