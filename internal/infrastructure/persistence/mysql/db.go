package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookclub/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 外键级联行为(CASCADE/SET NULL)通过关联字段的constraint tag声明
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&UserBookRelationModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
// 4. 不使用软删除：用户删除必须真正触发
//    图书owner置NULL与读者关系CASCADE,软删除会绕过外键
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Username  string    `gorm:"uniqueIndex;size:30;not null;comment:用户名"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	FirstName string    `gorm:"size:50;comment:名"`
	LastName  string    `gorm:"size:50;comment:姓"`
	IsStaff   bool      `gorm:"default:false;comment:是否管理员"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. Rating是反范式的平均评分×100,无评分为NULL;
//    只由评分聚合逻辑写入
// 3. OwnerID可为NULL,owner注销时由外键SET NULL
// 4. 书名/作者名加索引支撑子串搜索与排序
type BookModel struct {
	ID         uint       `gorm:"primaryKey"`
	Name       string     `gorm:"index:idx_search;size:255;not null;comment:书名"`
	Price      int64      `gorm:"index;not null;comment:价格(分)"`
	AuthorName string     `gorm:"index:idx_search;size:255;not null;comment:作者名"`
	OwnerID    *uint      `gorm:"index;comment:录入者用户ID"`
	Owner      *UserModel `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
	Rating     *int64     `gorm:"comment:平均评分×100,NULL表示无评分"`
	CreatedAt  time.Time  `gorm:"comment:创建时间"`
	UpdatedAt  time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// UserBookRelationModel GORM用户-图书关系模型
// 设计说明:
// 1. (user_id, book_id)联合唯一索引:每对用户-图书最多一行,
//    并发懒创建时数据库兜底
// 2. like是MySQL关键字,凡是手写SQL引用此列都要反引号
// 3. Rate为NULL表示未评分,合法取值1-5
// 4. 用户或图书删除时本行CASCADE删除
type UserBookRelationModel struct {
	ID          uint       `gorm:"primaryKey"`
	UserID      uint       `gorm:"uniqueIndex:idx_user_book;not null;comment:用户ID"`
	User        *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BookID      uint       `gorm:"uniqueIndex:idx_user_book;index;not null;comment:图书ID"`
	Book        *BookModel `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	Like        bool       `gorm:"column:like;default:false;comment:是否点赞"`
	InBookmarks bool       `gorm:"default:false;comment:是否收藏"`
	Rate        *int       `gorm:"type:tinyint;comment:评分1-5,NULL未评分"`
	CreatedAt   time.Time  `gorm:"comment:创建时间"`
	UpdatedAt   time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserBookRelationModel) TableName() string {
	return "user_book_relations"
}
