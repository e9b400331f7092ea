package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：集成测试辅助工具
// 这些测试需要一个跑起来的服务（go run ./cmd/api）和配套的MySQL/Redis，
// 通过真实HTTP请求验证整条链路：路由 → 中间件 → 用例 → 数据库。
// 重复的代码（HTTP请求、JSON解析、注册登录流程）封装成可复用的函数。

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// seq 进程内自增序号,和时间戳一起保证测试数据唯一
var seq uint64

func nextSeq() uint64 {
	return atomic.AddUint64(&seq, 1)
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// BookData 图书创建/更新响应数据
type BookData struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	AuthorName string `json:"author_name"`
	OwnerID    *uint  `json:"owner_id"`
}

// ReaderData 读视图中的读者
type ReaderData struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// BookViewData 图书读视图
type BookViewData struct {
	ID             uint         `json:"id"`
	Name           string       `json:"name"`
	Price          int64        `json:"price"`
	AuthorName     string       `json:"author_name"`
	OwnerName      string       `json:"owner_name"`
	AnnotatedLikes int64        `json:"annotated_likes"`
	Rating         *string      `json:"rating"`
	Readers        []ReaderData `json:"readers"`
}

// BookListData 图书列表响应数据
type BookListData struct {
	List       []BookViewData `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// RelationData 用户-图书关系响应数据
type RelationData struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	BookID      uint   `json:"book_id"`
	Like        bool   `json:"like"`
	InBookmarks bool   `json:"in_bookmarks"`
	Rate        *int   `json:"rate"`
	Created     bool   `json:"created"`
}

// doJSON 发送携带JSON body的请求并解析统一响应
//
// 教学说明：
// - 使用*testing.T参数，可以在失败时立即终止测试
// - 使用require包进行断言，失败会立即停止（不继续执行）
// - 返回*Response而非error，简化调用方代码
func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(respBody, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(respBody))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	return doJSON(t, http.MethodPost, url, data, token)
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	return doJSON(t, http.MethodPut, url, data, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	return doJSON(t, http.MethodDelete, url, nil, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	return doJSON(t, http.MethodGet, url, nil, token)
}

// GenerateTestEmail 生成唯一的测试邮箱
//
// 时间戳+自增序号确保唯一性，避免测试重复运行时邮箱冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d_%d@test.com", prefix, time.Now().Unix(), nextSeq())
}

// GenerateTestUsername 生成唯一的测试用户名（3-30字符）
func GenerateTestUsername(prefix string) string {
	return fmt.Sprintf("%s%d%d", prefix, time.Now().Unix()%1000000, nextSeq())
}

// TestUser 注册好的测试用户
type TestUser struct {
	ID       uint
	Email    string
	Username string
	Token    string
}

// RegisterTestUser 注册测试用户并返回Token
//
// 教学说明：
// 这是一个"高阶"辅助函数，封装了注册+登录的完整流程，
// 让测试代码更关注业务逻辑而非基础设施
func RegisterTestUser(t *testing.T, prefix string) *TestUser {
	t.Helper()

	email := GenerateTestEmail(prefix)
	username := GenerateTestUsername(prefix)

	registerResp := PostJSON(t, BaseURL+"/users/register", map[string]string{
		"email":      email,
		"username":   username,
		"password":   "Test12345",
		"first_name": "Test",
		"last_name":  "Reader",
	}, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	var registerData RegisterData
	err := json.Unmarshal(registerResp.Data, &registerData)
	require.NoError(t, err, "解析注册响应失败")

	loginResp := PostJSON(t, BaseURL+"/users/login", map[string]string{
		"email":    email,
		"password": "Test12345",
	}, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err = json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return &TestUser{
		ID:       registerData.ID,
		Email:    email,
		Username: username,
		Token:    loginData.AccessToken,
	}
}

// CreateTestBook 创建测试图书并返回图书ID
func CreateTestBook(t *testing.T, token string, name string, price int64, authorName string) uint {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
		"name":        name,
		"price":       price,
		"author_name": authorName,
	}, token)
	require.Equal(t, 0, resp.Code, "创建图书失败: %s", resp.Message)

	var bookData BookData
	err := json.Unmarshal(resp.Data, &bookData)
	require.NoError(t, err, "解析图书响应失败")

	return bookData.ID
}

// GetBookView 查询图书读视图
func GetBookView(t *testing.T, bookID uint) *BookViewData {
	t.Helper()

	resp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
	require.Equal(t, 0, resp.Code, "查询图书失败: %s", resp.Message)

	var view BookViewData
	err := json.Unmarshal(resp.Data, &view)
	require.NoError(t, err, "解析读视图失败")

	return &view
}

// PutRelation 更新当前用户与图书的关系
func PutRelation(t *testing.T, token string, bookID uint, fields map[string]interface{}) *Response {
	t.Helper()
	return PutJSON(t, fmt.Sprintf("%s/books/%d/relation", BaseURL, bookID), fields, token)
}
