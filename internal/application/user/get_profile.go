package user

import (
	"context"

	"github.com/xiebiao/bookclub/internal/domain/user"
)

// GetProfileUseCase 查询个人信息用例
type GetProfileUseCase struct {
	userRepo user.Repository
}

// NewGetProfileUseCase 创建查询个人信息用例
func NewGetProfileUseCase(userRepo user.Repository) *GetProfileUseCase {
	return &GetProfileUseCase{userRepo: userRepo}
}

// Execute 执行查询
// Token里的信息可能过期(比如运维刚把用户标成管理员),
// 个人信息页以数据库为准
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*UserInfo, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserInfo{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
	}, nil
}
