package book

import (
	"context"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/redis"
)

// DeleteBookUseCase 图书删除用例
// 设计说明:
// 1. 权限检查(owner或管理员)由领域服务负责
// 2. 读者关系由数据库CASCADE删除,应用层不用管
// 3. 删除成功后清掉读视图缓存
type DeleteBookUseCase struct {
	bookService book.Service
	cache       *redis.ProjectionCache
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service, cache *redis.ProjectionCache) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// Execute 执行删除用例
func (uc *DeleteBookUseCase) Execute(ctx context.Context, bookID, actorID uint, actorIsStaff bool) error {
	if err := uc.bookService.DeleteBook(ctx, bookID, actorID, actorIsStaff); err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, bookID)
	return nil
}
