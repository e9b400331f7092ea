package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"

	"github.com/xiebiao/bookclub/pkg/tracing"
)

// Tracing 为每个HTTP请求创建一个根Span
//
// 设计说明:
// 1. 先从请求头提取上游的追踪上下文(W3C traceparent),
//    有则本请求的Span挂在上游链路下,没有则开新链路
// 2. Span名用"方法 路由模板"(如"PUT /api/v1/books/:id/relation"),
//    不用实际路径,避免每个ID一个Span名
// 3. 替换c.Request的Context,下游的数据库/缓存操作都能接上这条链路
func Tracing(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(
			c.Request.Context(),
			propagation.HeaderCarrier(c.Request.Header),
		)

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		ctx, span := tracing.StartSpan(ctx, serviceName, c.Request.Method+" "+path)
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", path),
		)

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}
