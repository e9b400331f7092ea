package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/pkg/circuitbreaker"
	"github.com/xiebiao/bookclub/pkg/metrics"
)

// ProjectionCache 图书读视图缓存（Cache-Aside模式）
// 设计说明:
// 1. 只缓存单本图书的读视图;列表查询参数组合太多,命中率低,不缓存
// 2. 读路径:先查缓存,未命中回源MySQL并回填
// 3. 失效策略:写路径主动删除(图书更新/删除、关系变更都会打到
//    这本书的读视图),TTL只是兜底
// 4. 缓存永远只是加速:Redis故障时降级为直接回源,绝不让读请求失败
// 5. 熔断器包住所有Redis调用:Redis持续超时时快速失败,
//    避免每个读请求都等一次超时
type ProjectionCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// cacheName 指标里的缓存名称
const cacheName = "book_projection"

// NewProjectionCache 创建读视图缓存
func NewProjectionCache(client *redis.Client, ttl time.Duration) *ProjectionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	cb := circuitbreaker.NewCircuitBreaker("book-projection-cache", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	// 状态变化同步到监控指标
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("熔断器[%s]状态变化: %s → %s", name, from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState,
			map[string]string{"name": name}, float64(to))
	})

	return &ProjectionCache{
		client:  client,
		ttl:     ttl,
		breaker: cb,
	}
}

// key 缓存Key:book:projection:{id}
func (c *ProjectionCache) key(bookID uint) string {
	return fmt.Sprintf("book:projection:%d", bookID)
}

// execute 经过熔断器执行Redis操作,并按结果上报指标
func (c *ProjectionCache) execute(fn func() error) error {
	err := c.breaker.Execute(fn)

	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests,
		map[string]string{"name": "book-projection-cache", "result": result})

	return err
}

// Get 查询缓存
// 返回(projection, true)表示命中;(nil, false)表示未命中或缓存不可用
// 缓存层的任何错误都不向上传播,调用方直接回源
func (c *ProjectionCache) Get(ctx context.Context, bookID uint) (*book.Projection, bool) {
	var data string
	err := c.execute(func() error {
		var err error
		data, err = c.client.Get(ctx, c.key(bookID)).Result()
		if errors.Is(err, redis.Nil) {
			// 未命中不算失败,不应该触发熔断
			data = ""
			return nil
		}
		return err
	})

	if err != nil {
		metrics.IncCounterVec(metrics.CacheRequestsTotal,
			map[string]string{"cache": cacheName, "result": "error"})
		return nil, false
	}

	if data == "" {
		metrics.IncCounterVec(metrics.CacheRequestsTotal,
			map[string]string{"cache": cacheName, "result": "miss"})
		return nil, false
	}

	var p book.Projection
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		// 脏数据直接删掉,当作未命中
		log.Printf("缓存数据损坏,删除: %s", c.key(bookID))
		_ = c.client.Del(ctx, c.key(bookID)).Err()
		metrics.IncCounterVec(metrics.CacheRequestsTotal,
			map[string]string{"cache": cacheName, "result": "error"})
		return nil, false
	}

	metrics.IncCounterVec(metrics.CacheRequestsTotal,
		map[string]string{"cache": cacheName, "result": "hit"})
	return &p, true
}

// Set 回填缓存
// 写失败只记日志,不影响主流程
func (c *ProjectionCache) Set(ctx context.Context, p *book.Projection) {
	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("序列化读视图失败: %v", err)
		return
	}

	err = c.execute(func() error {
		return c.client.Set(ctx, c.key(p.ID), data, c.ttl).Err()
	})
	if err != nil {
		log.Printf("回填缓存失败(book_id=%d): %v", p.ID, err)
	}
}

// Invalidate 删除某本图书的缓存
// 写路径在事务提交后调用:图书更新/删除、关系变更都走这里
// 删除失败只记日志——TTL兜底,最坏情况是短暂读到旧视图
func (c *ProjectionCache) Invalidate(ctx context.Context, bookID uint) {
	err := c.execute(func() error {
		return c.client.Del(ctx, c.key(bookID)).Err()
	})
	if err != nil {
		log.Printf("删除缓存失败(book_id=%d): %v", bookID, err)
	}
}
