package relation

import (
	"context"
	"time"

	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/domain/relation"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookclub/pkg/metrics"
)

// UpsertRelationUseCase 用户-图书关系更新用例
// 教学要点:这是整个项目最核心的用例
// 涉及:事务处理、并发控制、反范式字段的同步维护
type UpsertRelationUseCase struct {
	bookRepo     book.Repository
	relationRepo relation.Repository
	txManager    *mysql.TxManager
	cache        *redis.ProjectionCache
}

// NewUpsertRelationUseCase 创建关系更新用例
func NewUpsertRelationUseCase(
	bookRepo book.Repository,
	relationRepo relation.Repository,
	txManager *mysql.TxManager,
	cache *redis.ProjectionCache,
) *UpsertRelationUseCase {
	return &UpsertRelationUseCase{
		bookRepo:     bookRepo,
		relationRepo: relationRepo,
		txManager:    txManager,
		cache:        cache,
	}
}

// UpsertRelationRequest 关系更新请求DTO
// 三个字段都是可选的:nil表示"不修改",客户端可以只改like不碰rate
type UpsertRelationRequest struct {
	UserID      uint  // 当前用户ID(从JWT中提取)
	BookID      uint  // 图书ID
	Like        *bool // 是否点赞
	InBookmarks *bool // 是否收藏
	Rate        *int  // 评分1-5
}

// UpsertRelationResponse 关系更新响应DTO
type UpsertRelationResponse struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	BookID      uint   `json:"book_id"`
	Like        bool   `json:"like"`
	InBookmarks bool   `json:"in_bookmarks"`
	Rate        *int   `json:"rate"` // nil表示未评分
	Created     bool   `json:"created"`
	UpdatedAt   string `json:"updated_at"`
}

// Execute 执行关系更新用例
// 教学重点:平均评分的同步维护
//
// 核心问题:评分丢更新
// 场景:两个用户同时给同一本书评分
// 错误实现:
//  1. 各自更新自己的rate
//  2. 各自读出全部评分算均值
//  3. 各自写回books.rating
//     结果:两次重算交错执行,后写回的均值可能漏掉先提交的评分
//
// 正确实现:悲观锁串行化
//  1. SELECT FOR UPDATE 锁定图书行(同一本书的评分请求在此排队)
//  2. 懒创建/更新关系
//  3. 关系是新建的、或rate发生了变化 → 读全部评分重算均值并写回
//  4. COMMIT释放锁
//
// 只改like/in_bookmarks且关系已存在时不触发重算,
// 把同一个值再评一遍也不触发(幂等)
func (uc *UpsertRelationUseCase) Execute(ctx context.Context, req UpsertRelationRequest) (*UpsertRelationResponse, error) {
	// 1. 参数校验:非法评分在进入事务之前就被拒绝
	changes := relation.Changes{
		Like:        req.Like,
		InBookmarks: req.InBookmarks,
		Rate:        req.Rate,
	}
	if err := changes.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	// 使用事务执行整个更新流程
	// 教学要点:重算必须和关系写入在同一事务里,
	// 要么都生效,要么都回滚,books.rating永远不会和关系表脱节
	var result *relation.UserBookRelation
	var created bool
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:锁定图书行(悲观锁,串行化同一本书的评分重算)
		// ========================================
		// LockByID执行:SELECT * FROM books WHERE id = ? FOR UPDATE
		// 顺带校验了图书存在——对不存在的图书操作返回ErrBookNotFound
		if _, err := uc.bookRepo.LockByID(txCtx, req.BookID); err != nil {
			return err
		}

		// ========================================
		// 步骤2:查询或懒创建关系
		// ========================================
		rel, wasCreated, err := uc.relationRepo.GetOrCreate(txCtx, req.UserID, req.BookID)
		if err != nil {
			return err
		}
		created = wasCreated

		// ========================================
		// 步骤3:应用更新
		// ========================================
		// Apply对比的是刚从数据库读出的值:
		// rate从NULL→4、3→5算变化,4→4不算
		rateChanged := rel.Apply(changes)
		if err := uc.relationRepo.Update(txCtx, rel); err != nil {
			return err
		}

		// ========================================
		// 步骤4:按需重算平均评分
		// ========================================
		// 触发条件:关系是本次新建的,或rate发生了变化
		// 新建也要算——新关系改变了"读者集合",rating语义上
		// 依赖的是全部关系行的rate列
		if created || rateChanged {
			rates, err := uc.relationRepo.ListRates(txCtx, req.BookID)
			if err != nil {
				return err
			}

			// 全部评分都在锁内读出,均值不会漏掉并发提交
			rating := relation.ComputeRating(rates)
			if err := uc.bookRepo.UpdateRating(txCtx, req.BookID, rating); err != nil {
				return err
			}

			metrics.IncCounter(metrics.RatingsRecomputedTotal)
		}

		// 事务自动COMMIT
		result = rel
		return nil
	})

	if err != nil {
		return nil, err
	}

	metrics.ObserveHistogram(metrics.RatingRecomputeDuration, time.Since(start).Seconds())

	// 事务提交后删除读视图缓存
	// 任何关系变更都会影响annotated_likes/readers/rating
	uc.cache.Invalidate(ctx, req.BookID)

	// 构建响应DTO
	return &UpsertRelationResponse{
		ID:          result.ID,
		UserID:      result.UserID,
		BookID:      result.BookID,
		Like:        result.Like,
		InBookmarks: result.InBookmarks,
		Rate:        result.Rate,
		Created:     created,
		UpdatedAt:   result.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
