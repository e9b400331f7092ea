package book

import (
	"context"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/redis"
)

// GetBookUseCase 图书详情查询用例
// 设计说明:
// 1. Cache-Aside模式:先查Redis,未命中回源MySQL并回填
// 2. 缓存不可用时直接回源,读请求永远不因为缓存失败
// 3. 回源固定2次数据库往返(主查询+读者查询),与读者数量无关
type GetBookUseCase struct {
	bookService book.Service
	cache       *redis.ProjectionCache
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service, cache *redis.ProjectionCache) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// Execute 执行详情查询
func (uc *GetBookUseCase) Execute(ctx context.Context, bookID uint) (*BookView, error) {
	// 1. 查缓存
	if p, ok := uc.cache.Get(ctx, bookID); ok {
		return toBookView(p), nil
	}

	// 2. 未命中,回源数据库
	p, err := uc.bookService.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	// 3. 回填缓存(失败只记日志,不影响响应)
	uc.cache.Set(ctx, p)

	return toBookView(p), nil
}
