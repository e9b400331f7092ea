package relation

import (
	"context"
)

// Repository 用户-图书关系仓储接口
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. GetOrCreate与ListRates会在评分重算事务内被调用,
//    实现必须通过context参与TxManager的事务
type Repository interface {
	// GetOrCreate 查询或懒创建(用户,图书)关系
	// 已存在则返回现有行,created=false;
	// 不存在则以默认值(like=false, in_bookmarks=false, rate=NULL)
	// 创建并返回,created=true
	GetOrCreate(ctx context.Context, userID, bookID uint) (rel *UserBookRelation, created bool, err error)

	// Update 更新关系字段
	Update(ctx context.Context, rel *UserBookRelation) error

	// ListRates 查询某本图书全部非空评分
	// 评分重算的输入,只返回rate非NULL的值
	ListRates(ctx context.Context, bookID uint) ([]int, error)
}
