// Package tracing 提供基于OpenTelemetry的分布式追踪
//
// # 核心概念
//
// 1. **Trace（追踪）**：一个完整的请求链路
//   - 示例：一次"给图书评分"请求从HTTP入口到事务提交的全过程
//   - 包含多个Span
//
// 2. **Span（跨度）**：一个操作单元
//   - 示例：重算图书平均分的数据库事务
//   - 包含：操作名称、开始时间、结束时间、耗时、状态
//
// 3. **SpanContext（上下文）**：跨进程传递的元数据
//   - TraceID：标识整个请求链路
//   - SpanID：标识当前操作
//   - ParentSpanID：标识父操作（构建调用树）
//
// # 追踪示例
//
//	Trace: 给图书评分（TraceID=abc123）
//	├─ Span1: HTTP PUT /books/:id/relation（耗时60ms）
//	│  ├─ Span2: 行锁+读取关系（耗时10ms）
//	│  ├─ Span3: 重算平均分（耗时40ms）← 慢！
//	│  └─ Span4: 失效读视图缓存（耗时2ms）
//	总耗时：60ms，瓶颈在Span3
//
// # 为什么选OpenTelemetry
//
// OpenTelemetry（OTel）是CNCF的可观测性标准：
// - 厂商中立（不绑定Jaeger、Zipkin、Datadog）
// - 上下文传播（TraceID/SpanID通过W3C traceparent头自动传递）
// - Metrics/Logging/Tracing三者统一的API
//
// # 使用示例
//
//	// 1. 初始化全局Tracer Provider
//	shutdown, err := tracing.InitTracer("bookclub-api", "localhost:4317", 1.0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer shutdown(context.Background())
//
//	// 2. 在业务代码中使用
//	func (uc *UpsertRelationUseCase) Execute(ctx context.Context, req UpsertRelationRequest) error {
//	    ctx, span := tracing.StartSpan(ctx, "bookclub-api", "UpsertRelation")
//	    defer span.End()
//
//	    span.SetAttributes(
//	        attribute.Int64("book_id", int64(req.BookID)),
//	        attribute.Int64("user_id", int64(req.UserID)),
//	    )
//
//	    if err := uc.recompute(ctx, req); err != nil {
//	        span.RecordError(err)
//	        span.SetStatus(codes.Error, err.Error())
//	        return err
//	    }
//	    return nil
//	}
//
// # 最佳实践
//
// 1. Span命名用操作名而非变量值：`GetBook`（✅） vs `GetBook-123`（❌），
// 动态值放属性里：span.SetAttributes(attribute.Int64("book_id", 123))
//
// 2. 错误处理：总是span.RecordError(err)，再SetStatus(codes.Error, ...)
//
// 3. 采样：开发环境100%（sampleRate=1.0），生产环境按比例（如0.01）
package tracing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer 初始化全局Tracer Provider
//
// 参数：
//   - serviceName: 服务名称（在Jaeger UI中显示）
//   - endpoint: OTLP gRPC端点（如：localhost:4317）
//   - sampleRate: 采样比例，0~1；>=1表示全采样
//
// 返回：
//   - shutdown: 关闭函数（程序退出时调用，刷新未发送的Span）
//
// 设计要点：
// 1. 使用OTLP协议而非Jaeger原生协议——厂商中立，未来可无缝切换后端
// 2. BatchSpanProcessor批量发送（默认每2秒或512个Span一批），
//    程序退出时必须调用shutdown()强制刷新，否则丢最后一批
func InitTracer(serviceName, endpoint string, sampleRate float64) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// endpoint只要host:port,允许配置里带scheme
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "http://"), "https://")

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // 生产环境应启用TLS
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// Resource描述产生遥测数据的实体,属性附加到所有Span上
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// ParentBased保证同一条链路的Span要么都采要么都不采
	sampler := sdktrace.AlwaysSample()
	if sampleRate > 0 && sampleRate < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 全局Provider：业务代码直接otel.Tracer()获取，第三方库也自动使用
	otel.SetTracerProvider(tp)

	// W3C Trace Context（traceparent头）+ Baggage（自定义键值对）
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// StartSpan 创建一个新的Span（便捷函数）
//
// 如果ctx已包含Span，新Span自动成为其子Span；否则成为根Span。
// 必须用返回的ctx调用下游函数，否则无法构建调用树。
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, spanName)
}

// ExtractTraceID 从Context提取TraceID（32位十六进制）
//
// 用于日志关联：日志里带上TraceID，就能从一条慢日志跳到Jaeger里的完整链路。
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// ExtractSpanID 从Context提取SpanID（16位十六进制）
func ExtractSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
