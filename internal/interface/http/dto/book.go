package dto

// CreateBookRequest HTTP创建图书请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围校验
type CreateBookRequest struct {
	Name       string `json:"name" binding:"required,max=255" example:"深入理解计算机系统"`
	Price      int64  `json:"price" binding:"required,min=1,max=9999999" example:"13900"` // 价格(分),139.00元
	AuthorName string `json:"author_name" binding:"required,max=255" example:"Randal E. Bryant"`
}

// UpdateBookRequest HTTP更新图书请求
// 所有字段可选:空/nil表示不修改
type UpdateBookRequest struct {
	Name       string `json:"name" binding:"omitempty,max=255" example:"深入理解计算机系统(第3版)"`
	Price      *int64 `json:"price" binding:"omitempty,min=1,max=9999999" example:"15900"`
	AuthorName string `json:"author_name" binding:"omitempty,max=255" example:"Randal E. Bryant"`
}

// ListBooksRequest HTTP图书列表请求
// 过滤/搜索/排序都是可选的查询参数
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Price    *int64 `form:"price" binding:"omitempty,min=1" example:"13900"`
	Search   string `form:"search" binding:"omitempty,max=100" example:"计算机"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=price -price author_name -author_name" example:"-price"`
}

// UpsertRelationRequest HTTP关系更新请求
// 三个字段都可选:缺省表示不修改对应字段
// rate范围校验交给领域层,保证错误码统一(40001)
type UpsertRelationRequest struct {
	Like        *bool `json:"like" example:"true"`
	InBookmarks *bool `json:"in_bookmarks" example:"false"`
	Rate        *int  `json:"rate" example:"5"`
}
