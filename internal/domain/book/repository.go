package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 写路径操作Book实体,读路径返回Projection投影
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// LockByID 悲观锁查询图书(SELECT FOR UPDATE)
	// 用于评分重算:同一本书的并发评分请求在这里排队,
	// 保证"读全部评分→算均值→写回"不交错
	// 必须在事务内调用(通过TxManager传递的context)
	LockByID(ctx context.Context, id uint) (*Book, error)

	// Update 更新图书信息(不含rating字段)
	Update(ctx context.Context, book *Book) error

	// UpdateRating 写入反范式的平均评分
	// rating为nil时将列置NULL("无评分"与"0分"是两种状态)
	// 这是rating字段唯一的写入口
	UpdateRating(ctx context.Context, id uint, rating *int64) error

	// Delete 删除图书
	// 该图书的读者关系由数据库CASCADE删除
	Delete(ctx context.Context, id uint) error

	// GetProjection 查询单本图书的读视图
	GetProjection(ctx context.Context, id uint) (*Projection, error)

	// ListProjections 查询图书读视图列表
	//
	// 往返次数契约:无论返回多少本书,对数据库的往返固定为3次——
	// 1. COUNT总数(分页用)
	// 2. 主查询: books LEFT JOIN owner LEFT JOIN relations,
	//    GROUP BY算出annotated_likes和owner_name
	// 3. 读者列表: 对本页全部book_id一次IN查询
	// 绝不允许每本书单独发查询(N+1)
	ListProjections(ctx context.Context, params QueryParams) ([]*Projection, int64, error)
}
