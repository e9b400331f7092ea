package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为MySQL唯一索引冲突错误(错误码1062)
// 两处依赖这个判断:
// - users的email/username唯一索引 → 译成"邮箱/用户名已存在"
// - user_book_relations的(user_id,book_id)唯一索引 → 并发懒创建时重查现有行
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	// GORM v2的错误判断
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 兼容检查:错误信息包含"Duplicate entry"
	return strings.Contains(err.Error(), "Duplicate entry")
}
