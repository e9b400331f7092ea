package relation

import (
	"testing"
)

// TestComputeRating_Empty 测试无评分的情况
// "没有评分"必须返回nil,不是0,也不是错误
func TestComputeRating_Empty(t *testing.T) {
	if got := ComputeRating(nil); got != nil {
		t.Errorf("期望nil,实际%d", *got)
	}
	if got := ComputeRating([]int{}); got != nil {
		t.Errorf("期望nil,实际%d", *got)
	}
}

// TestComputeRating_Rounding 测试平均值计算与四舍五入
func TestComputeRating_Rounding(t *testing.T) {
	tests := []struct {
		name  string
		rates []int
		want  int64
	}{
		{"单个评分", []int{5}, 500},
		{"整除", []int{5, 5}, 500},
		{"4.666...进位到4.67", []int{5, 5, 4}, 467},
		{"4.333...舍到4.33", []int{5, 4, 4}, 433},
		{"恰好0.5进位", []int{4, 5}, 450},
		{"3.5进位", []int{3, 4}, 350},
		{"全部最低分", []int{1, 1, 1}, 100},
		{"混合", []int{1, 2, 3, 4, 5}, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRating(tt.rates)
			if got == nil {
				t.Fatalf("期望%d,实际nil", tt.want)
			}
			if *got != tt.want {
				t.Errorf("期望%d,实际%d", tt.want, *got)
			}
		})
	}
}

// TestChanges_Validate 测试评分范围校验
// 0和6都必须在进入聚合逻辑之前被拒绝
func TestChanges_Validate(t *testing.T) {
	for _, rate := range []int{1, 2, 3, 4, 5} {
		r := rate
		if err := (Changes{Rate: &r}).Validate(); err != nil {
			t.Errorf("rate=%d应该合法,实际返回%v", rate, err)
		}
	}

	for _, rate := range []int{-1, 0, 6, 100} {
		r := rate
		if err := (Changes{Rate: &r}).Validate(); err == nil {
			t.Errorf("rate=%d应该被拒绝", rate)
		}
	}

	// 不含rate的更新集永远合法
	like := true
	if err := (Changes{Like: &like}).Validate(); err != nil {
		t.Errorf("只改like不应该报错,实际返回%v", err)
	}
}

// TestRelation_Apply 测试局部更新与rate变化检测
func TestRelation_Apply(t *testing.T) {
	t.Run("只改like不触发rate变化", func(t *testing.T) {
		rate := 5
		rel := NewRelation(1, 1)
		rel.Rate = &rate

		like := true
		if changed := rel.Apply(Changes{Like: &like}); changed {
			t.Error("没碰rate却报告rate变化")
		}
		if !rel.Like {
			t.Error("like未生效")
		}
		if rel.Rate == nil || *rel.Rate != 5 {
			t.Error("rate不应被修改")
		}
	})

	t.Run("首次评分触发变化", func(t *testing.T) {
		rel := NewRelation(1, 1)
		rate := 4
		if changed := rel.Apply(Changes{Rate: &rate}); !changed {
			t.Error("NULL→4应该报告rate变化")
		}
	})

	t.Run("评分改成不同值触发变化", func(t *testing.T) {
		old := 3
		rel := NewRelation(1, 1)
		rel.Rate = &old

		rate := 5
		if changed := rel.Apply(Changes{Rate: &rate}); !changed {
			t.Error("3→5应该报告rate变化")
		}
	})

	t.Run("评分改成相同值不触发变化", func(t *testing.T) {
		old := 4
		rel := NewRelation(1, 1)
		rel.Rate = &old

		rate := 4
		if changed := rel.Apply(Changes{Rate: &rate}); changed {
			t.Error("4→4不应该报告rate变化")
		}
	})

	t.Run("逐字段更新互不影响", func(t *testing.T) {
		rel := NewRelation(1, 1)
		like := true
		rel.Apply(Changes{Like: &like})

		rate := 2
		rel.Apply(Changes{Rate: &rate})

		if !rel.Like {
			t.Error("改rate把like冲掉了")
		}
		if rel.InBookmarks {
			t.Error("in_bookmarks不应被修改")
		}
	})
}
