package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRelationUpsert 测试用户-图书关系的懒创建与部分更新
func TestRelationUpsert(t *testing.T) {
	owner := RegisterTestUser(t, "relowner")
	reader := RegisterTestUser(t, "relreader")
	bookID := CreateTestBook(t, owner.Token, "关系测试", 2500, "Author")

	t.Run("首次调用懒创建关系", func(t *testing.T) {
		resp := PutRelation(t, reader.Token, bookID, map[string]interface{}{
			"like": true,
		})
		require.Equal(t, 0, resp.Code, "更新关系失败: %s", resp.Message)

		var data RelationData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.True(t, data.Created, "首次调用应创建关系")
		assert.True(t, data.Like)
		assert.False(t, data.InBookmarks)
		assert.Nil(t, data.Rate)
	})

	t.Run("再次调用复用同一条关系", func(t *testing.T) {
		resp := PutRelation(t, reader.Token, bookID, map[string]interface{}{
			"in_bookmarks": true,
		})
		require.Equal(t, 0, resp.Code, "更新关系失败: %s", resp.Message)

		var data RelationData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.False(t, data.Created, "第二次调用不应再创建")
		// 只更新传入的字段,之前的like保留
		assert.True(t, data.Like)
		assert.True(t, data.InBookmarks)
	})

	t.Run("点赞后读视图的annotated_likes增加", func(t *testing.T) {
		view := GetBookView(t, bookID)
		assert.Equal(t, int64(1), view.AnnotatedLikes)
		require.Len(t, view.Readers, 1)
		assert.Equal(t, "Test", view.Readers[0].FirstName)
	})

	t.Run("取消点赞", func(t *testing.T) {
		resp := PutRelation(t, reader.Token, bookID, map[string]interface{}{
			"like": false,
		})
		require.Equal(t, 0, resp.Code)

		view := GetBookView(t, bookID)
		assert.Equal(t, int64(0), view.AnnotatedLikes)
		// 关系还在,读者列表不受like影响
		assert.Len(t, view.Readers, 1)
	})

	t.Run("未登录被拒", func(t *testing.T) {
		resp := PutRelation(t, "", bookID, map[string]interface{}{"like": true})
		assert.Equal(t, 40100, resp.Code)
	})

	t.Run("图书不存在", func(t *testing.T) {
		resp := PutRelation(t, reader.Token, 99999999, map[string]interface{}{"like": true})
		assert.Equal(t, 40402, resp.Code, "期望图书不存在错误: %s", resp.Message)
	})
}

// TestRelationRate 测试评分与平均分重算
func TestRelationRate(t *testing.T) {
	owner := RegisterTestUser(t, "rateowner")

	t.Run("单人评分", func(t *testing.T) {
		bookID := CreateTestBook(t, owner.Token, "单人评分", 1000, "Author")
		reader := RegisterTestUser(t, "rater1")

		resp := PutRelation(t, reader.Token, bookID, map[string]interface{}{"rate": 4})
		require.Equal(t, 0, resp.Code, "评分失败: %s", resp.Message)

		var data RelationData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.NotNil(t, data.Rate)
		assert.Equal(t, 4, *data.Rate)

		view := GetBookView(t, bookID)
		require.NotNil(t, view.Rating, "评分后rating不应为null")
		assert.Equal(t, "4.00", *view.Rating)
	})

	t.Run("多人评分取平均", func(t *testing.T) {
		bookID := CreateTestBook(t, owner.Token, "多人评分", 1000, "Author")

		// 三个读者分别评5、5、4 → 平均14/3=4.666... → "4.67"
		for i, rate := range []int{5, 5, 4} {
			reader := RegisterTestUser(t, fmt.Sprintf("rater%d", i))
			resp := PutRelation(t, reader.Token, bookID, map[string]interface{}{"rate": rate})
			require.Equal(t, 0, resp.Code, "评分失败: %s", resp.Message)
		}

		view := GetBookView(t, bookID)
		require.NotNil(t, view.Rating)
		assert.Equal(t, "4.67", *view.Rating)
	})

	t.Run("修改评分触发重算", func(t *testing.T) {
		bookID := CreateTestBook(t, owner.Token, "改分重算", 1000, "Author")
		reader := RegisterTestUser(t, "changer")

		resp := PutRelation(t, reader.Token, bookID, map[string]interface{}{"rate": 2})
		require.Equal(t, 0, resp.Code)
		view := GetBookView(t, bookID)
		require.NotNil(t, view.Rating)
		assert.Equal(t, "2.00", *view.Rating)

		resp = PutRelation(t, reader.Token, bookID, map[string]interface{}{"rate": 5})
		require.Equal(t, 0, resp.Code)
		view = GetBookView(t, bookID)
		require.NotNil(t, view.Rating)
		assert.Equal(t, "5.00", *view.Rating)
	})

	t.Run("重复提交相同评分幂等", func(t *testing.T) {
		bookID := CreateTestBook(t, owner.Token, "幂等评分", 1000, "Author")
		reader := RegisterTestUser(t, "idem")

		for i := 0; i < 2; i++ {
			resp := PutRelation(t, reader.Token, bookID, map[string]interface{}{"rate": 3})
			require.Equal(t, 0, resp.Code, "第%d次评分失败: %s", i+1, resp.Message)
		}

		view := GetBookView(t, bookID)
		require.NotNil(t, view.Rating)
		assert.Equal(t, "3.00", *view.Rating)
	})

	t.Run("评分超出范围被拒", func(t *testing.T) {
		bookID := CreateTestBook(t, owner.Token, "非法评分", 1000, "Author")
		reader := RegisterTestUser(t, "badrate")

		for _, rate := range []int{0, 6, -1} {
			resp := PutRelation(t, reader.Token, bookID, map[string]interface{}{"rate": rate})
			assert.Equal(t, 40001, resp.Code, "rate=%d应返回评分范围错误: %s", rate, resp.Message)
		}

		// 非法评分不应留下任何影响
		view := GetBookView(t, bookID)
		assert.Nil(t, view.Rating)
	})

	t.Run("只改like不动已有评分", func(t *testing.T) {
		bookID := CreateTestBook(t, owner.Token, "保留评分", 1000, "Author")
		reader := RegisterTestUser(t, "keeper")

		resp := PutRelation(t, reader.Token, bookID, map[string]interface{}{"rate": 4})
		require.Equal(t, 0, resp.Code)

		// 只更新like,rate字段不传
		resp = PutRelation(t, reader.Token, bookID, map[string]interface{}{"like": true})
		require.Equal(t, 0, resp.Code)

		var data RelationData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.NotNil(t, data.Rate, "未传rate时已有评分应保留")
		assert.Equal(t, 4, *data.Rate)

		view := GetBookView(t, bookID)
		require.NotNil(t, view.Rating)
		assert.Equal(t, "4.00", *view.Rating)
	})
}
