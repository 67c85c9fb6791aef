package handlers

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// bodyCacheWriter holds the response body back until the handler has finished,
// so caching headers can still be added once the status is known.
// bodyCacheWriter 在处理器结束前缓冲响应正文，以便根据状态码补充缓存头。
type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCacheWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *bodyCacheWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// ETagCache serves GET responses that only change together with the loaded
// model. The tag is a SHA-256 digest of the request path and version(); a
// matching If-None-Match is answered with 304 before the handler runs.
// ETagCache 为仅随模型变化的 GET 响应提供 ETag 缓存。
func ETagCache(version func() string, maxAge time.Duration) gin.HandlerFunc {
	cacheControl := fmt.Sprintf("public, max-age=%d, must-revalidate", int(maxAge.Seconds()))

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		etag := fmt.Sprintf(`"%x"`, sha256.Sum256([]byte(c.Request.URL.Path+"\x00"+version())))
		if c.GetHeader("If-None-Match") == etag {
			c.Header("ETag", etag)
			c.Header("Cache-Control", cacheControl)
			c.AbortWithStatus(http.StatusNotModified)
			return
		}

		bcw := &bodyCacheWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = bcw
		c.Next()
		c.Writer = bcw.ResponseWriter

		if c.Writer.Status() == http.StatusOK {
			c.Header("ETag", etag)
			c.Header("Cache-Control", cacheControl)
		}
		_, _ = c.Writer.Write(bcw.body.Bytes())
	}
}
