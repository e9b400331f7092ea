package book

import (
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须在0.01-99999.99元之间")

	// ErrInvalidName 书名不能为空
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")

	// ErrInvalidAuthorName 作者名不能为空
	ErrInvalidAuthorName = apperrors.New(apperrors.ErrCodeInvalidParams, "作者名不能为空")

	// ErrForbidden 无权操作此图书(非owner且非管理员)
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权操作此图书")

	// ErrInvalidOrderBy 非法的排序字段
	ErrInvalidOrderBy = apperrors.New(apperrors.ErrCodeInvalidParams, "排序字段只支持price/author_name(前缀-表示倒序)")
)
