package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserRegister 测试用户注册
func TestUserRegister(t *testing.T) {
	t.Run("注册成功", func(t *testing.T) {
		email := GenerateTestEmail("register")
		username := GenerateTestUsername("reg")

		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"email":      email,
			"username":   username,
			"password":   "Test12345",
			"first_name": "San",
			"last_name":  "Zhang",
		}, "")
		require.Equal(t, 0, resp.Code, "注册失败: %s", resp.Message)

		var data RegisterData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotZero(t, data.ID)
		assert.Equal(t, email, data.Email)
		assert.Equal(t, username, data.Username)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		u := RegisterTestUser(t, "dupemail")

		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"email":    u.Email, // 已注册的邮箱
			"username": GenerateTestUsername("other"),
			"password": "Test12345",
		}, "")
		assert.Equal(t, 40003, resp.Code, "期望邮箱重复错误: %s", resp.Message)
	})

	t.Run("用户名重复", func(t *testing.T) {
		u := RegisterTestUser(t, "dupname")

		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"email":    GenerateTestEmail("other"),
			"username": u.Username, // 已占用的用户名
			"password": "Test12345",
		}, "")
		assert.Equal(t, 40004, resp.Code, "期望用户名重复错误: %s", resp.Message)
	})

	t.Run("密码太短被拒", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"email":    GenerateTestEmail("weak"),
			"username": GenerateTestUsername("weak"),
			"password": "short",
		}, "")
		assert.NotEqual(t, 0, resp.Code, "短密码不应注册成功")
	})
}

// TestUserLogin 测试用户登录
func TestUserLogin(t *testing.T) {
	u := RegisterTestUser(t, "login")

	t.Run("登录成功", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"email":    u.Email,
			"password": "Test12345",
		}, "")
		require.Equal(t, 0, resp.Code, "登录失败: %s", resp.Message)

		var data LoginData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotEmpty(t, data.AccessToken)
		assert.NotEmpty(t, data.RefreshToken)
	})

	t.Run("密码错误", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"email":    u.Email,
			"password": "WrongPass123",
		}, "")
		assert.Equal(t, 40103, resp.Code, "期望密码错误: %s", resp.Message)
	})

	t.Run("用户不存在", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"email":    GenerateTestEmail("nobody"),
			"password": "Test12345",
		}, "")
		assert.NotEqual(t, 0, resp.Code, "不存在的用户不应登录成功")
	})
}

// TestUserProfile 测试个人信息查询
func TestUserProfile(t *testing.T) {
	u := RegisterTestUser(t, "profile")

	t.Run("登录后查询成功", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/users/profile", u.Token)
		require.Equal(t, 0, resp.Code, "查询失败: %s", resp.Message)

		var data struct {
			ID       uint   `json:"id"`
			Email    string `json:"email"`
			Username string `json:"username"`
			IsStaff  bool   `json:"is_staff"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, u.ID, data.ID)
		assert.Equal(t, u.Email, data.Email)
		assert.False(t, data.IsStaff, "新注册用户不应是管理员")
	})

	t.Run("未登录被拒", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/users/profile", "")
		assert.Equal(t, 40100, resp.Code, "期望未登录错误: %s", resp.Message)
	})
}

// TestUserLogout 测试登出与Token黑名单
func TestUserLogout(t *testing.T) {
	u := RegisterTestUser(t, "logout")

	// 登出成功
	resp := PostJSON(t, BaseURL+"/users/logout", nil, u.Token)
	require.Equal(t, 0, resp.Code, "登出失败: %s", resp.Message)

	// 登出后原Token进入黑名单,再访问受保护接口应被拒
	resp = GetJSON(t, BaseURL+"/users/profile", u.Token)
	assert.NotEqual(t, 0, resp.Code, "黑名单Token不应继续可用")
}
