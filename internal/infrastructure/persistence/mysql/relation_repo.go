package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookclub/internal/domain/relation"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// relationRepository 用户-图书关系仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/relation/repository.go定义的接口
// 2. 所有方法通过getDB(ctx)参与TxManager的事务——
//    评分重算要求GetOrCreate/Update/ListRates与行锁在同一事务内
type relationRepository struct {
	db *gorm.DB
}

// NewRelationRepository 创建关系仓储
func NewRelationRepository(db *gorm.DB) relation.Repository {
	return &relationRepository{db: db}
}

// GetOrCreate 查询或懒创建(用户,图书)关系
// 教学要点:并发下两个请求可能同时发现"不存在"并都尝试INSERT,
// 联合唯一索引让后来者报1062,此时重查一次拿到先到者插入的行
func (r *relationRepository) GetOrCreate(ctx context.Context, userID, bookID uint) (*relation.UserBookRelation, bool, error) {
	db := r.getDB(ctx)

	// 1. 先查
	var model UserBookRelationModel
	err := db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&model).Error
	if err == nil {
		return toRelationEntity(&model), false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(err, "查询用户图书关系失败")
	}

	// 2. 不存在,按默认值创建
	model = UserBookRelationModel{
		UserID: userID,
		BookID: bookID,
	}
	if err := db.Create(&model).Error; err != nil {
		if isDuplicateError(err) {
			// 3. 撞上并发创建,重查拿现有行
			var existing UserBookRelationModel
			if err := db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing).Error; err != nil {
				return nil, false, apperrors.Wrap(err, "查询用户图书关系失败")
			}
			return toRelationEntity(&existing), false, nil
		}
		return nil, false, apperrors.Wrap(err, "创建用户图书关系失败")
	}

	return toRelationEntity(&model), true, nil
}

// Update 更新关系字段
func (r *relationRepository) Update(ctx context.Context, rel *relation.UserBookRelation) error {
	result := r.getDB(ctx).Model(&UserBookRelationModel{}).
		Where("id = ?", rel.ID).
		Updates(map[string]interface{}{
			"like":         rel.Like,
			"in_bookmarks": rel.InBookmarks,
			"rate":         rel.Rate,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新用户图书关系失败")
	}

	return nil
}

// ListRates 查询某本图书全部非空评分
// 评分重算的输入;在评分事务内调用时走事务连接,
// 行锁保证读到的集合不会被并发评分穿插
func (r *relationRepository) ListRates(ctx context.Context, bookID uint) ([]int, error) {
	var rates []int
	err := r.getDB(ctx).Model(&UserBookRelationModel{}).
		Where("book_id = ? AND rate IS NOT NULL", bookID).
		Pluck("rate", &rates).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书评分失败")
	}

	return rates, nil
}

// toRelationEntity GORM模型 → 领域实体
func toRelationEntity(model *UserBookRelationModel) *relation.UserBookRelation {
	return &relation.UserBookRelation{
		ID:          model.ID,
		UserID:      model.UserID,
		BookID:      model.BookID,
		Like:        model.Like,
		InBookmarks: model.InBookmarks,
		Rate:        model.Rate,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *relationRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
