package dto

// RegisterRequest HTTP注册请求
// 学习要点：binding tag由Gin自动校验（基于go-playground/validator）
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"reader@example.com"`
	Username  string `json:"username" binding:"required,min=3,max=30" example:"bookworm"`
	Password  string `json:"password" binding:"required,min=8,max=20" example:"password123"`
	FirstName string `json:"first_name" binding:"max=50" example:"三"`
	LastName  string `json:"last_name" binding:"max=50" example:"张"`
}

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"reader@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UserResponse HTTP用户响应
// 说明：永远不返回密码字段
type UserResponse struct {
	ID        uint   `json:"id" example:"1"`
	Email     string `json:"email" example:"reader@example.com"`
	Username  string `json:"username" example:"bookworm"`
	FirstName string `json:"first_name" example:"三"`
	LastName  string `json:"last_name" example:"张"`
}

// UserInfo 用户信息（登录响应/个人信息用）
type UserInfo struct {
	ID        uint   `json:"id" example:"1"`
	Email     string `json:"email" example:"reader@example.com"`
	Username  string `json:"username" example:"bookworm"`
	FirstName string `json:"first_name" example:"三"`
	LastName  string `json:"last_name" example:"张"`
	IsStaff   bool   `json:"is_staff" example:"false"`
}

// LoginResponse HTTP登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in" example:"7200"` // Access Token过期时间（秒）
}
