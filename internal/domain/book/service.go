package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装业务规则校验与权限检查
// 2. 当前操作者(actor)全部通过参数显式传入,
//    不从任何全局/环境状态读取
type Service interface {
	// CreateBook 创建图书
	// 业务规则:
	// - 书名/作者名非空
	// - 价格在1-9999999分之间
	// - owner强制为actor本人,客户端传入的owner被忽略
	CreateBook(ctx context.Context, actorID uint, name string, price int64, authorName string) (*Book, error)

	// GetBook 查询单本图书读视图
	// 公开接口,不需要权限校验
	GetBook(ctx context.Context, id uint) (*Projection, error)

	// ListBooks 查询图书读视图列表
	// 公开接口,不需要权限校验
	ListBooks(ctx context.Context, params QueryParams) ([]*Projection, int64, error)

	// UpdateBook 更新图书信息
	// 业务规则:只有owner本人或管理员可以修改
	UpdateBook(ctx context.Context, id uint, actorID uint, actorIsStaff bool, name string, price *int64, authorName string) (*Book, error)

	// DeleteBook 删除图书
	// 业务规则:只有owner本人或管理员可以删除
	DeleteBook(ctx context.Context, id uint, actorID uint, actorIsStaff bool) error
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, actorID uint, name string, price int64, authorName string) (*Book, error) {
	// 1. 基本字段校验
	if name == "" {
		return nil, ErrInvalidName
	}
	if authorName == "" {
		return nil, ErrInvalidAuthorName
	}
	if price < 1 || price > 9999999 {
		return nil, ErrInvalidPrice
	}

	// 2. 创建实体,owner强制为actor
	b := NewBook(name, price, authorName, actorID)

	// 3. 持久化
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// GetBook 查询单本图书
func (s *service) GetBook(ctx context.Context, id uint) (*Projection, error) {
	return s.repo.GetProjection(ctx, id)
}

// ListBooks 查询图书列表
func (s *service) ListBooks(ctx context.Context, params QueryParams) ([]*Projection, int64, error) {
	if !ValidOrderBy(params.OrderBy) {
		return nil, 0, ErrInvalidOrderBy
	}
	return s.repo.ListProjections(ctx, params)
}

// UpdateBook 更新图书信息
func (s *service) UpdateBook(ctx context.Context, id uint, actorID uint, actorIsStaff bool, name string, price *int64, authorName string) (*Book, error) {
	// 1. 查询图书
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 权限检查:owner或管理员
	if !b.MutableBy(actorID, actorIsStaff) {
		return nil, ErrForbidden
	}

	// 3. 更新信息(含价格校验)
	if err := b.UpdateInfo(name, price, authorName); err != nil {
		return nil, err
	}

	// 4. 持久化
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint, actorID uint, actorIsStaff bool) error {
	// 1. 查询图书
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. 权限检查
	if !b.MutableBy(actorID, actorIsStaff) {
		return ErrForbidden
	}

	// 3. 执行删除
	return s.repo.Delete(ctx, id)
}
