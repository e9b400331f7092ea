package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,包含图书的核心属性
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. OwnerID可为空:创建者注销账号后图书保留,owner置NULL
// 4. Rating是反范式的派生值,存储平均评分×100(如467表示4.67),
//    无任何评分时为nil;唯一合法的写入方是评分聚合逻辑,
//    其它代码只读不写
type Book struct {
	ID         uint
	Name       string // 书名
	Price      int64  // 价格(单位:分,1元=100分)
	AuthorName string // 作者名
	OwnerID    *uint  // 图书录入者用户ID,可为空
	Rating     *int64 // 平均评分×100,nil表示尚无评分
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewBook 创建新图书(工厂方法)
// ownerID是当前登录用户,客户端传入的owner一律忽略
func NewBook(name string, price int64, authorName string, ownerID uint) *Book {
	now := time.Now()
	owner := ownerID
	return &Book{
		Name:       name,
		Price:      price,
		AuthorName: authorName,
		OwnerID:    &owner,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// MutableBy 检查actor是否有权修改/删除此图书
// 业务规则:管理员 或 图书owner本人
// 读操作不做任何检查,任何人(包括未登录)都可以读
func (b *Book) MutableBy(actorID uint, actorIsStaff bool) bool {
	if actorIsStaff {
		return true
	}
	return b.OwnerID != nil && *b.OwnerID == actorID
}

// UpdateInfo 更新图书基本信息(领域行为)
// 空值字段保持原值,价格必须合法
func (b *Book) UpdateInfo(name string, price *int64, authorName string) error {
	if price != nil {
		if *price < 1 || *price > 9999999 {
			return ErrInvalidPrice
		}
		b.Price = *price
	}
	if name != "" {
		b.Name = name
	}
	if authorName != "" {
		b.AuthorName = authorName
	}
	b.UpdatedAt = time.Now()
	return nil
}
