package relation

// 评分聚合
//
// 设计说明:
// 1. 平均评分是books表上的反范式字段,这里是它唯一的计算入口
// 2. 结果以"百分之一分"为整数存储(467 == 4.67),
//    与价格存"分"同理:全程整数运算,没有浮点误差
// 3. 无评分返回nil而不是0——"没人评分"和"0分"是两种状态,
//    且0根本不是合法评分(取值域1-5)
// 4. 函数是全函数:任何输入都有定义,聚合本身没有错误路径

// ComputeRating 计算平均评分(×100,四舍五入)
// rates是某本图书全部非空评分;空切片返回nil
//
// 取整规则:0.5进位(half-up)
// 整数实现:round(sum*100/n) == (sum*200 + n) / (2n)  (各量均为正)
// 例:rates=[5,5,4] → sum=14 → (2800+3)/6 = 467 → 4.67
func ComputeRating(rates []int) *int64 {
	if len(rates) == 0 {
		return nil
	}

	var sum int64
	for _, r := range rates {
		sum += int64(r)
	}

	n := int64(len(rates))
	scaled := (sum*200 + n) / (2 * n)
	return &scaled
}
