package book

import (
	"context"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/pkg/metrics"
)

// CreateBookUseCase 图书创建用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO(Data Transfer Object),与HTTP层解耦
// 3. owner强制为当前操作者,客户端传什么都不认
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建图书创建用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
	}
}

// CreateBookRequest 创建请求DTO
type CreateBookRequest struct {
	ActorID    uint   // 当前操作者ID(从认证中间件获取)
	Name       string // 书名
	Price      int64  // 价格(分)
	AuthorName string // 作者名
}

// CreateBookResponse 创建响应DTO
type CreateBookResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"` // 价格(分)
	AuthorName string `json:"author_name"`
	OwnerID    *uint  `json:"owner_id"`
	CreatedAt  string `json:"created_at"`
}

// Execute 执行创建用例
// 学习要点:
// 1. 应用层不直接操作Repository,通过领域服务间接操作
// 2. 业务规则校验由领域服务负责(书名非空、价格范围等)
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*CreateBookResponse, error) {
	// 调用领域服务创建图书
	b, err := uc.bookService.CreateBook(ctx, req.ActorID, req.Name, req.Price, req.AuthorName)
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.BooksCreatedTotal)

	// 构建响应DTO
	return &CreateBookResponse{
		ID:         b.ID,
		Name:       b.Name,
		Price:      b.Price,
		AuthorName: b.AuthorName,
		OwnerID:    b.OwnerID,
		CreatedAt:  b.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
