package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBookCreate 测试图书创建
func TestBookCreate(t *testing.T) {
	u := RegisterTestUser(t, "bookowner")

	t.Run("创建成功且owner为当前用户", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
			"name":        "Go程序设计语言",
			"price":       7900,
			"author_name": "Donovan",
		}, u.Token)
		require.Equal(t, 0, resp.Code, "创建失败: %s", resp.Message)

		var data BookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotZero(t, data.ID)
		assert.Equal(t, "Go程序设计语言", data.Name)
		assert.Equal(t, int64(7900), data.Price)
		require.NotNil(t, data.OwnerID, "owner应自动设为创建者")
		assert.Equal(t, u.ID, *data.OwnerID)
	})

	t.Run("未登录被拒", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
			"name":        "匿名图书",
			"price":       100,
			"author_name": "Nobody",
		}, "")
		assert.Equal(t, 40100, resp.Code, "期望未登录错误: %s", resp.Message)
	})

	t.Run("缺少必填字段被拒", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
			"price": 100,
		}, u.Token)
		assert.Equal(t, 40900, resp.Code, "期望参数错误: %s", resp.Message)
	})
}

// TestBookGet 测试图书详情读视图
func TestBookGet(t *testing.T) {
	u := RegisterTestUser(t, "bookget")
	bookID := CreateTestBook(t, u.Token, "读视图测试", 4500, "TestAuthor")

	t.Run("新书的读视图", func(t *testing.T) {
		view := GetBookView(t, bookID)

		assert.Equal(t, bookID, view.ID)
		assert.Equal(t, "读视图测试", view.Name)
		assert.Equal(t, int64(4500), view.Price)
		assert.Equal(t, "TestAuthor", view.AuthorName)
		// owner_name取owner的username
		assert.Equal(t, u.Username, view.OwnerName)
		// 还没有任何关系
		assert.Equal(t, int64(0), view.AnnotatedLikes)
		assert.Nil(t, view.Rating, "无评分时rating应为null")
		assert.Empty(t, view.Readers)
	})

	t.Run("图书不存在", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books/99999999", "")
		assert.Equal(t, 40402, resp.Code, "期望图书不存在错误: %s", resp.Message)
	})

	t.Run("非法ID", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books/abc", "")
		assert.Equal(t, 40900, resp.Code, "期望参数错误: %s", resp.Message)
	})
}

// TestBookList 测试图书列表：过滤、搜索、排序、分页
func TestBookList(t *testing.T) {
	u := RegisterTestUser(t, "booklist")

	// 用唯一的作者名把本测试的数据和库里其他数据隔离开
	author := fmt.Sprintf("ListAuthor%d", nextSeq())
	b1 := CreateTestBook(t, u.Token, "列表甲", 1000, author)
	b2 := CreateTestBook(t, u.Token, "列表乙", 3000, author)
	b3 := CreateTestBook(t, u.Token, "列表丙", 2000, author)

	listBooks := func(t *testing.T, query string) *BookListData {
		t.Helper()
		resp := GetJSON(t, BaseURL+"/books?"+query, "")
		require.Equal(t, 0, resp.Code, "查询列表失败: %s", resp.Message)
		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		return &data
	}

	t.Run("按作者搜索", func(t *testing.T) {
		data := listBooks(t, "search="+author)
		assert.Equal(t, int64(3), data.Total)
		assert.Len(t, data.List, 3)
	})

	t.Run("按书名子串搜索", func(t *testing.T) {
		data := listBooks(t, "search=列表乙")
		require.NotZero(t, data.Total)
		assert.Equal(t, b2, data.List[0].ID)
	})

	t.Run("按价格精确过滤", func(t *testing.T) {
		data := listBooks(t, fmt.Sprintf("search=%s&price=2000", author))
		require.Equal(t, int64(1), data.Total)
		assert.Equal(t, b3, data.List[0].ID)
	})

	t.Run("按价格升序排序", func(t *testing.T) {
		data := listBooks(t, "search="+author+"&order_by=price")
		require.Len(t, data.List, 3)
		assert.Equal(t, []uint{b1, b3, b2},
			[]uint{data.List[0].ID, data.List[1].ID, data.List[2].ID})
	})

	t.Run("按价格降序排序", func(t *testing.T) {
		data := listBooks(t, "search="+author+"&order_by=-price")
		require.Len(t, data.List, 3)
		assert.Equal(t, b2, data.List[0].ID)
	})

	t.Run("分页", func(t *testing.T) {
		data := listBooks(t, "search="+author+"&order_by=price&page=2&page_size=2")
		assert.Equal(t, int64(3), data.Total)
		assert.Equal(t, 2, data.Page)
		assert.Equal(t, 2, data.PageSize)
		assert.Equal(t, 2, data.TotalPages)
		require.Len(t, data.List, 1)
		assert.Equal(t, b2, data.List[0].ID)
	})

	t.Run("非法排序字段被拒", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?order_by=id", "")
		assert.Equal(t, 40900, resp.Code, "期望参数错误: %s", resp.Message)
	})
}

// TestBookUpdate 测试图书更新权限：只有owner或管理员可改
func TestBookUpdate(t *testing.T) {
	owner := RegisterTestUser(t, "updowner")
	other := RegisterTestUser(t, "updother")
	bookID := CreateTestBook(t, owner.Token, "更新前", 5000, "Author")

	bookURL := fmt.Sprintf("%s/books/%d", BaseURL, bookID)

	t.Run("非owner被拒", func(t *testing.T) {
		resp := PutJSON(t, bookURL, map[string]interface{}{
			"name": "越权改名",
		}, other.Token)
		assert.Equal(t, 40104, resp.Code, "期望无权限错误: %s", resp.Message)

		// 确认没有被改掉
		view := GetBookView(t, bookID)
		assert.Equal(t, "更新前", view.Name)
	})

	t.Run("owner更新成功", func(t *testing.T) {
		resp := PutJSON(t, bookURL, map[string]interface{}{
			"name":  "更新后",
			"price": 5500,
		}, owner.Token)
		require.Equal(t, 0, resp.Code, "更新失败: %s", resp.Message)

		view := GetBookView(t, bookID)
		assert.Equal(t, "更新后", view.Name)
		assert.Equal(t, int64(5500), view.Price)
	})

	t.Run("未登录被拒", func(t *testing.T) {
		resp := PutJSON(t, bookURL, map[string]interface{}{
			"name": "匿名改名",
		}, "")
		assert.Equal(t, 40100, resp.Code)
	})

	t.Run("图书不存在", func(t *testing.T) {
		resp := PutJSON(t, BaseURL+"/books/99999999", map[string]interface{}{
			"name": "不存在",
		}, owner.Token)
		assert.Equal(t, 40402, resp.Code, "期望图书不存在错误: %s", resp.Message)
	})
}

// TestBookDelete 测试图书删除权限与级联
func TestBookDelete(t *testing.T) {
	owner := RegisterTestUser(t, "delowner")
	other := RegisterTestUser(t, "delother")
	bookID := CreateTestBook(t, owner.Token, "待删除", 1200, "Author")

	bookURL := fmt.Sprintf("%s/books/%d", BaseURL, bookID)

	t.Run("非owner被拒", func(t *testing.T) {
		resp := DeleteJSON(t, bookURL, other.Token)
		assert.Equal(t, 40104, resp.Code, "期望无权限错误: %s", resp.Message)
	})

	t.Run("owner删除成功", func(t *testing.T) {
		// 先建立一条读者关系,验证删除时级联清理
		relResp := PutRelation(t, other.Token, bookID, map[string]interface{}{"like": true})
		require.Equal(t, 0, relResp.Code, "建立关系失败: %s", relResp.Message)

		resp := DeleteJSON(t, bookURL, owner.Token)
		require.Equal(t, 0, resp.Code, "删除失败: %s", resp.Message)

		// 删除后查询404
		getResp := GetJSON(t, bookURL, "")
		assert.Equal(t, 40402, getResp.Code, "删除后应查不到图书")
	})

	t.Run("重复删除返回不存在", func(t *testing.T) {
		resp := DeleteJSON(t, bookURL, owner.Token)
		assert.Equal(t, 40402, resp.Code)
	})
}
