package book

// 读路径的投影模型
//
// 设计说明:
// 1. Projection是面向调用方的"读视图",与Book实体分开:
//    列表/详情接口永远返回Projection,实体只在写路径流转
// 2. AnnotatedLikes在主查询里用条件COUNT聚合算出,不逐本书查询
// 3. Rating直接取books表存储的反范式值,读路径绝不重算
// 4. Readers是该图书所有产生过关系(点赞/收藏/评分任意一种)的用户,
//    按关系创建顺序排列

// Reader 图书的一位读者(姓名对)
type Reader struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Projection 图书读视图
type Projection struct {
	ID             uint
	Name           string
	Price          int64  // 价格(分)
	AuthorName     string
	OwnerName      string // owner的username,无owner时为空串
	AnnotatedLikes int64  // like=true的关系数
	Rating         *int64 // 平均评分×100,无评分为nil
	Readers        []Reader
}

// QueryParams 列表查询参数
// 过滤/搜索/排序只是透传的谓词,在聚合投影之前生效
type QueryParams struct {
	Price    *int64 // 按价格精确过滤(分)
	Search   string // 子串搜索(匹配书名或作者名)
	OrderBy  string // price | -price | author_name | -author_name,空则按id
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
}

// ValidOrderBy 校验排序字段
func ValidOrderBy(orderBy string) bool {
	switch orderBy {
	case "", "price", "-price", "author_name", "-author_name":
		return true
	default:
		return false
	}
}
