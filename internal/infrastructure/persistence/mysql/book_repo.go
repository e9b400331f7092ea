package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookclub/internal/domain/book"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 读视图(Projection)在这里用JOIN+GROUP BY聚合,
//    固定3次往返,不随图书数量增长(杜绝N+1)
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := &BookModel{
		Name:       b.Name,
		Price:      b.Price,
		AuthorName: b.AuthorName,
		OwnerID:    b.OwnerID,
	}

	// 2. 插入数据库(新书rating为NULL,还没有人评分)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// LockByID 悲观锁查询图书(SELECT FOR UPDATE)
// 评分重算在这里排队:同一本书的并发评分请求串行通过
// 教学要点:必须使用getDB(ctx)从context获取事务DB
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	db := r.getDB(ctx)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}

	return toBookEntity(&model), nil
}

// Update 更新图书信息
// 只覆盖可编辑字段,rating不在其中(它只归UpdateRating管)
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	result := r.getDB(ctx).Model(&BookModel{}).
		Where("id = ?", b.ID).
		Select("name", "price", "author_name").
		Updates(map[string]interface{}{
			"name":        b.Name,
			"price":       b.Price,
			"author_name": b.AuthorName,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// UpdateRating 写入反范式的平均评分
// rating为nil时置NULL
// 注意:不检查RowsAffected——新均值恰好等于旧值时MySQL报告0行,
// 这不是错误
func (r *bookRepository) UpdateRating(ctx context.Context, id uint, rating *int64) error {
	err := r.getDB(ctx).Model(&BookModel{}).
		Where("id = ?", id).
		Update("rating", rating).Error

	if err != nil {
		return apperrors.Wrap(err, "更新评分失败")
	}

	return nil
}

// Delete 删除图书
// 该图书的全部读者关系由外键CASCADE一并删除
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&BookModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// projectionRow 主查询的扫描目标
type projectionRow struct {
	ID             uint
	Name           string
	Price          int64
	AuthorName     string
	OwnerName      string
	AnnotatedLikes int64
	Rating         *int64
}

// readerRow 读者查询的扫描目标
type readerRow struct {
	BookID    uint
	FirstName string
	LastName  string
}

// projectionSelect 主查询的SELECT子句
// 教学要点:
// 1. annotated_likes用条件COUNT聚合:只数like=TRUE的关系行
// 2. owner_name取owner的username,无owner时COALESCE成空串
// 3. like是MySQL关键字,必须反引号
const projectionSelect = "books.id, books.name, books.price, books.author_name, " +
	"COALESCE(users.username, '') AS owner_name, " +
	"COUNT(CASE WHEN ubr.`like` = TRUE THEN 1 END) AS annotated_likes, " +
	"books.rating"

// projectionQuery 构建读视图主查询
// books LEFT JOIN owner LEFT JOIN relations + GROUP BY
// LEFT JOIN保证没有任何关系的图书也出现在结果里
func (r *bookRepository) projectionQuery(ctx context.Context) *gorm.DB {
	return r.getDB(ctx).Table("books").
		Select(projectionSelect).
		Joins("LEFT JOIN users ON users.id = books.owner_id").
		Joins("LEFT JOIN user_book_relations ubr ON ubr.book_id = books.id").
		Group("books.id, books.name, books.price, books.author_name, users.username, books.rating")
}

// GetProjection 查询单本图书的读视图(2次往返:主查询+读者查询)
func (r *bookRepository) GetProjection(ctx context.Context, id uint) (*book.Projection, error) {
	var row projectionRow
	err := r.projectionQuery(ctx).
		Where("books.id = ?", id).
		Take(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书视图失败")
	}

	readers, err := r.loadReaders(ctx, []uint{id})
	if err != nil {
		return nil, err
	}

	p := toProjection(&row)
	if rs, ok := readers[id]; ok {
		p.Readers = rs
	}
	return p, nil
}

// ListProjections 查询图书读视图列表
// 往返次数契约:固定3次(COUNT + 主查询 + 读者IN查询)
func (r *bookRepository) ListProjections(ctx context.Context, params book.QueryParams) ([]*book.Projection, int64, error) {
	// 1. COUNT总数
	// 过滤条件只涉及books自身的列,单表COUNT即可
	countQuery := r.getDB(ctx).Model(&BookModel{})
	countQuery = applyFilters(countQuery, params, "")

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	// 2. 主查询:JOIN+GROUP BY一次算出整页的聚合字段
	query := applyFilters(r.projectionQuery(ctx), params, "books.")

	// 排序(白名单在domain层校验过,这里直接映射)
	switch params.OrderBy {
	case "price":
		query = query.Order("books.price ASC, books.id ASC")
	case "-price":
		query = query.Order("books.price DESC, books.id ASC")
	case "author_name":
		query = query.Order("books.author_name ASC, books.id ASC")
	case "-author_name":
		query = query.Order("books.author_name DESC, books.id ASC")
	default:
		query = query.Order("books.id ASC")
	}

	// 分页
	offset := (params.Page - 1) * params.PageSize
	query = query.Limit(params.PageSize).Offset(offset)

	var rows []projectionRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	projections := make([]*book.Projection, len(rows))
	ids := make([]uint, len(rows))
	byID := make(map[uint]*book.Projection, len(rows))
	for i := range rows {
		p := toProjection(&rows[i])
		projections[i] = p
		ids[i] = p.ID
		byID[p.ID] = p
	}

	if len(ids) == 0 {
		return projections, total, nil
	}

	// 3. 读者列表:对本页全部book_id一次IN查询
	readers, err := r.loadReaders(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for id, rs := range readers {
		if p, ok := byID[id]; ok {
			p.Readers = rs
		}
	}

	return projections, total, nil
}

// applyFilters 给查询加上价格过滤和子串搜索
// prefix是列名前缀:主查询JOIN了多张表需要"books.",COUNT单表查询不需要
func applyFilters(query *gorm.DB, params book.QueryParams, prefix string) *gorm.DB {
	if params.Price != nil {
		query = query.Where(prefix+"price = ?", *params.Price)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("("+prefix+"name LIKE ? OR "+prefix+"author_name LIKE ?)", pattern, pattern)
	}
	return query
}

// loadReaders 查询一批图书的读者姓名
// 按(book_id, 关系id)排序:同一本书的读者按关系创建顺序返回
func (r *bookRepository) loadReaders(ctx context.Context, bookIDs []uint) (map[uint][]book.Reader, error) {
	var rows []readerRow
	err := r.getDB(ctx).Table("user_book_relations ubr").
		Select("ubr.book_id, users.first_name, users.last_name").
		Joins("JOIN users ON users.id = ubr.user_id").
		Where("ubr.book_id IN ?", bookIDs).
		Order("ubr.book_id ASC, ubr.id ASC").
		Scan(&rows).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询读者列表失败")
	}

	readers := make(map[uint][]book.Reader, len(bookIDs))
	for _, row := range rows {
		readers[row.BookID] = append(readers[row.BookID], book.Reader{
			FirstName: row.FirstName,
			LastName:  row.LastName,
		})
	}
	return readers, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:         model.ID,
		Name:       model.Name,
		Price:      model.Price,
		AuthorName: model.AuthorName,
		OwnerID:    model.OwnerID,
		Rating:     model.Rating,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// toProjection 查询行 → 读视图
// Readers初始化为空切片,序列化成[]而不是null
func toProjection(row *projectionRow) *book.Projection {
	return &book.Projection{
		ID:             row.ID,
		Name:           row.Name,
		Price:          row.Price,
		AuthorName:     row.AuthorName,
		OwnerName:      row.OwnerName,
		AnnotatedLikes: row.AnnotatedLikes,
		Rating:         row.Rating,
		Readers:        []book.Reader{},
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
