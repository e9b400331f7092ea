package relation

import (
	"time"
)

// UserBookRelation 用户-图书关系实体
// DDD设计说明:
// 1. 每个(用户,图书)对最多一行,由数据库联合唯一索引保证
// 2. 首次交互(点赞/收藏/评分任意一种)时懒创建,默认值:
//    like=false, in_bookmarks=false, rate=NULL
// 3. Rate取值1-5,nil表示未评分;0不是合法评分
// 4. 图书或用户删除时本行被CASCADE删除
type UserBookRelation struct {
	ID          uint
	UserID      uint
	BookID      uint
	Like        bool
	InBookmarks bool
	Rate        *int // 1-5,nil表示未评分
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRelation 创建默认关系(懒创建入口)
func NewRelation(userID, bookID uint) *UserBookRelation {
	now := time.Now()
	return &UserBookRelation{
		UserID:    userID,
		BookID:    bookID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Changes 局部更新集
// 字段为nil表示"不修改",客户端可以只改like而不碰rate
type Changes struct {
	Like        *bool
	InBookmarks *bool
	Rate        *int
}

// Validate 校验更新集
// rate必须在1-5之间,非法评分在进入聚合逻辑之前就被拒绝
func (c Changes) Validate() error {
	if c.Rate != nil && (*c.Rate < 1 || *c.Rate > 5) {
		return ErrInvalidRate
	}
	return nil
}

// Empty 是否没有任何字段需要修改
func (c Changes) Empty() bool {
	return c.Like == nil && c.InBookmarks == nil && c.Rate == nil
}

// Apply 将更新集逐字段应用到实体
// 返回rate相对调用前是否发生变化——这是评分重算的触发依据之一,
// 对比的是"本次保存前"的值,由调用方在同一事务内读出并传给Apply,
// 不依赖实体构造时的快照
func (r *UserBookRelation) Apply(c Changes) (rateChanged bool) {
	if c.Like != nil {
		r.Like = *c.Like
	}
	if c.InBookmarks != nil {
		r.InBookmarks = *c.InBookmarks
	}
	if c.Rate != nil {
		if r.Rate == nil || *r.Rate != *c.Rate {
			rateChanged = true
		}
		rate := *c.Rate
		r.Rate = &rate
	}
	r.UpdatedAt = time.Now()
	return rateChanged
}
