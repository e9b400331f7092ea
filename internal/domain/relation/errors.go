package relation

import (
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// 用户-图书关系领域错误定义
var (
	// ErrInvalidRate 评分超出1-5范围
	ErrInvalidRate = apperrors.ErrInvalidRate

	// ErrRelationNotFound 关系不存在
	ErrRelationNotFound = apperrors.ErrRelationNotFound
)
