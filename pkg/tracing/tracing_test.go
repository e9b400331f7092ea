package tracing

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TestInitTracer 测试Tracer初始化
func TestInitTracer(t *testing.T) {
	t.Run("成功初始化Tracer", func(t *testing.T) {
		shutdown, err := InitTracer("test-service", "localhost:4317", 1.0)
		if err != nil {
			t.Fatalf("初始化Tracer失败: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				t.Errorf("关闭Tracer失败: %v", err)
			}
		}()

		// 验证全局TracerProvider已设置
		tracer := otel.Tracer("test")
		if tracer == nil {
			t.Error("全局TracerProvider未设置")
		}
	})

	t.Run("带scheme的endpoint也能初始化", func(t *testing.T) {
		shutdown, err := InitTracer("test-service", "http://localhost:4317", 0.1)
		if err != nil {
			t.Fatalf("初始化Tracer失败: %v", err)
		}
		defer shutdown(context.Background())
	})
}

// TestStartSpan 测试Span创建
func TestStartSpan(t *testing.T) {
	shutdown, err := InitTracer("test-service", "localhost:4317", 1.0)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("创建根Span", func(t *testing.T) {
		ctx := context.Background()

		ctx, span := StartSpan(ctx, "test-service", "TestOperation")
		defer span.End()

		if !span.SpanContext().IsValid() {
			t.Error("Span无效")
		}

		traceID := span.SpanContext().TraceID().String()
		if traceID == "" || traceID == "00000000000000000000000000000000" {
			t.Errorf("TraceID无效: %s", traceID)
		}
	})

	t.Run("创建子Span", func(t *testing.T) {
		ctx := context.Background()

		ctx, rootSpan := StartSpan(ctx, "test-service", "RootOperation")
		defer rootSpan.End()

		rootTraceID := rootSpan.SpanContext().TraceID().String()
		rootSpanID := rootSpan.SpanContext().SpanID().String()

		ctx, childSpan := StartSpan(ctx, "test-service", "ChildOperation")
		defer childSpan.End()

		// 子Span继承根Span的TraceID，但有自己的SpanID
		childTraceID := childSpan.SpanContext().TraceID().String()
		if childTraceID != rootTraceID {
			t.Errorf("子Span的TraceID不匹配: root=%s, child=%s", rootTraceID, childTraceID)
		}

		childSpanID := childSpan.SpanContext().SpanID().String()
		if childSpanID == rootSpanID {
			t.Error("子Span的SpanID不应与根Span相同")
		}
	})
}

// TestExtractTraceID 测试TraceID提取
func TestExtractTraceID(t *testing.T) {
	shutdown, err := InitTracer("test-service", "localhost:4317", 1.0)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("从有效Context提取TraceID", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := StartSpan(ctx, "test-service", "TestExtract")
		defer span.End()

		traceID := ExtractTraceID(ctx)
		if traceID == "" {
			t.Error("TraceID为空")
		}
		if len(traceID) != 32 {
			t.Errorf("TraceID长度错误: expected=32, got=%d", len(traceID))
		}
	})

	t.Run("从无Span的Context提取返回空", func(t *testing.T) {
		traceID := ExtractTraceID(context.Background())
		if traceID != "" {
			t.Errorf("期望空字符串，实际: %s", traceID)
		}
	})
}

// TestExtractSpanID 测试SpanID提取
func TestExtractSpanID(t *testing.T) {
	shutdown, err := InitTracer("test-service", "localhost:4317", 1.0)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("从有效Context提取SpanID", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := StartSpan(ctx, "test-service", "TestExtractSpanID")
		defer span.End()

		spanID := ExtractSpanID(ctx)
		if spanID == "" {
			t.Error("SpanID为空")
		}
		if len(spanID) != 16 {
			t.Errorf("SpanID长度错误: expected=16, got=%d", len(spanID))
		}
	})

	t.Run("从无Span的Context提取返回空", func(t *testing.T) {
		spanID := ExtractSpanID(context.Background())
		if spanID != "" {
			t.Errorf("期望空字符串，实际: %s", spanID)
		}
	})
}

// TestRatingScenario 真实场景：模拟评分重算链路
func TestRatingScenario(t *testing.T) {
	shutdown, err := InitTracer("test-service", "localhost:4317", 1.0)
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	ctx := context.Background()

	if err := upsertRelationFlow(ctx, 1, 42, 5); err != nil {
		t.Errorf("评分流程失败: %v", err)
	}
}

// 模拟业务函数：评分请求的完整链路
func upsertRelationFlow(ctx context.Context, userID, bookID uint, rate int) error {
	ctx, span := StartSpan(ctx, "test-service", "UpsertRelation")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", int64(userID)),
		attribute.Int64("book_id", int64(bookID)),
		attribute.Int("rate", rate),
	)

	if err := lockAndLoadRelation(ctx, userID, bookID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := recomputeRating(ctx, bookID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := invalidateProjection(ctx, bookID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "评分完成")
	return nil
}

// 模拟业务函数：加行锁并读取关系
func lockAndLoadRelation(ctx context.Context, userID, bookID uint) error {
	ctx, span := StartSpan(ctx, "test-service", "LockAndLoadRelation")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", int64(userID)),
		attribute.Int64("book_id", int64(bookID)),
	)

	time.Sleep(5 * time.Millisecond)
	span.SetStatus(codes.Ok, "关系已加载")
	return nil
}

// 模拟业务函数：重算平均分
func recomputeRating(ctx context.Context, bookID uint) error {
	ctx, span := StartSpan(ctx, "test-service", "RecomputeRating")
	defer span.End()

	span.SetAttributes(attribute.Int64("book_id", int64(bookID)))

	time.Sleep(15 * time.Millisecond)
	span.SetStatus(codes.Ok, "平均分已更新")
	return nil
}

// 模拟业务函数：失效读视图缓存
func invalidateProjection(ctx context.Context, bookID uint) error {
	ctx, span := StartSpan(ctx, "test-service", "InvalidateProjection")
	defer span.End()

	span.SetAttributes(attribute.Int64("book_id", int64(bookID)))

	time.Sleep(2 * time.Millisecond)
	span.SetStatus(codes.Ok, "缓存已失效")
	return nil
}
