package middleware

import (
	"github.com/gin-gonic/gin"
)

const CtxRealIPKey = "real_ip"

// TrustProxies limits which peers may set forwarding headers. With no proxies
// the socket peer is the client and X-Forwarded-For / X-Real-IP are ignored.
// platform "cloudflare" additionally trusts CF-Connecting-IP; only set it when
// every request arrives through Cloudflare.
func TrustProxies(r *gin.Engine, proxies []string, platform string) error {
	if platform == "cloudflare" {
		r.TrustedPlatform = gin.PlatformCloudflare
	}
	if len(proxies) == 0 {
		proxies = nil
	}
	return r.SetTrustedProxies(proxies)
}

// RealIP sets the client IP into Gin context (key: "real_ip"). The address
// comes from c.ClientIP, so forwarding headers count only when sent by a
// proxy configured through TrustProxies.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, c.ClientIP())
		c.Next()
	}
}
