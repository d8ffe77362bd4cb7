package security

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS 中间件 仅允许白名单中的Origin，支持Credentials；白名单为空时允许所有来源但不带凭证
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Cache-Control", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// Secure 中间件
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止MIME嗅探
		c.Header("X-Content-Type-Options", "nosniff")
		// 防止点击劫持
		c.Header("X-Frame-Options", "DENY")
		// XSS保护
		c.Header("X-XSS-Protection", "1; mode=block")
		// HSTS
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}

// visitor 包装限流器和最后活跃时间，用于定期清理
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter 按IP限流，参数可在配置热更新时调整
type Limiter struct {
	mu      sync.Mutex
	store   map[string]*visitor
	limit   rate.Limit
	burst   int
	window  time.Duration
	enabled bool
}

func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	l := &Limiter{store: make(map[string]*visitor)}
	l.Update(maxRequests, window)
	return l
}

// Update 修改速率后清空已有条目，新请求按新速率计算
func (l *Limiter) Update(maxRequests int, window time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = maxRequests > 0 && window > 0
	if l.enabled {
		l.limit = rate.Every(window / time.Duration(maxRequests))
		l.burst = maxRequests
		l.window = window
	}
	l.store = make(map[string]*visitor)
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return true
	}
	v, exists := l.store[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.store[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Cleanup 清理长时间不活跃的条目
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	expiry := l.window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	for ip, v := range l.store {
		if time.Since(v.lastSeen) > expiry {
			delete(l.store, ip)
		}
	}
}

// Middleware 限流中间件，每分钟清理一次过期条目
func (l *Limiter) Middleware() gin.HandlerFunc {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			l.Cleanup()
		}
	}()

	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"code": http.StatusTooManyRequests, "message": "too many requests"})
			return
		}
		c.Next()
	}
}
