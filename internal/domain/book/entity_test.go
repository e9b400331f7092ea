package book

import (
	"testing"
)

// TestBook_MutableBy 测试图书修改权限矩阵
// 规则:管理员 或 owner本人;owner为NULL时只有管理员
func TestBook_MutableBy(t *testing.T) {
	owner := uint(1)

	tests := []struct {
		name    string
		ownerID *uint
		actorID uint
		isStaff bool
		want    bool
	}{
		{"owner本人可以修改", &owner, 1, false, true},
		{"其他用户不能修改", &owner, 2, false, false},
		{"管理员可以修改任何图书", &owner, 2, true, true},
		{"owner为空时普通用户不能修改", nil, 1, false, false},
		{"owner为空时管理员可以修改", nil, 1, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Book{ID: 10, Name: "测试图书", OwnerID: tt.ownerID}
			if got := b.MutableBy(tt.actorID, tt.isStaff); got != tt.want {
				t.Errorf("期望%v,实际%v", tt.want, got)
			}
		})
	}
}

// TestBook_UpdateInfo 测试字段更新规则
func TestBook_UpdateInfo(t *testing.T) {
	t.Run("空字段保持原值", func(t *testing.T) {
		b := NewBook("原书名", 2332, "原作者", 1)
		if err := b.UpdateInfo("", nil, ""); err != nil {
			t.Fatalf("更新失败: %v", err)
		}
		if b.Name != "原书名" || b.Price != 2332 || b.AuthorName != "原作者" {
			t.Error("空字段不应覆盖原值")
		}
	})

	t.Run("非法价格被拒绝", func(t *testing.T) {
		b := NewBook("书", 1000, "作者", 1)
		zero := int64(0)
		if err := b.UpdateInfo("", &zero, ""); err == nil {
			t.Error("价格0应该被拒绝")
		}
		tooBig := int64(10000000)
		if err := b.UpdateInfo("", &tooBig, ""); err == nil {
			t.Error("超过上限的价格应该被拒绝")
		}
	})

	t.Run("正常更新", func(t *testing.T) {
		b := NewBook("书", 1000, "作者", 1)
		price := int64(5900)
		if err := b.UpdateInfo("新书名", &price, "新作者"); err != nil {
			t.Fatalf("更新失败: %v", err)
		}
		if b.Name != "新书名" || b.Price != 5900 || b.AuthorName != "新作者" {
			t.Error("更新未生效")
		}
	})
}
