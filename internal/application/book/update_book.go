package book

import (
	"context"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/redis"
)

// UpdateBookUseCase 图书更新用例
// 设计说明:
// 1. 权限检查(owner或管理员)由领域服务负责
// 2. 更新成功后删除这本书的读视图缓存
type UpdateBookUseCase struct {
	bookService book.Service
	cache       *redis.ProjectionCache
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service, cache *redis.ProjectionCache) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// UpdateBookRequest 更新请求DTO
// Price为nil表示不修改;Name/AuthorName为空串表示不修改
type UpdateBookRequest struct {
	ID           uint
	ActorID      uint // 当前操作者ID
	ActorIsStaff bool // 当前操作者是否管理员
	Name         string
	Price        *int64
	AuthorName   string
}

// UpdateBookResponse 更新响应DTO
type UpdateBookResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"` // 价格(分)
	AuthorName string `json:"author_name"`
	OwnerID    *uint  `json:"owner_id"`
	UpdatedAt  string `json:"updated_at"`
}

// Execute 执行更新用例
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*UpdateBookResponse, error) {
	// 1. 领域服务完成权限检查与更新
	b, err := uc.bookService.UpdateBook(ctx, req.ID, req.ActorID, req.ActorIsStaff, req.Name, req.Price, req.AuthorName)
	if err != nil {
		return nil, err
	}

	// 2. 删除读视图缓存
	uc.cache.Invalidate(ctx, req.ID)

	return &UpdateBookResponse{
		ID:         b.ID,
		Name:       b.Name,
		Price:      b.Price,
		AuthorName: b.AuthorName,
		OwnerID:    b.OwnerID,
		UpdatedAt:  b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
