package book

import (
	"fmt"

	"github.com/xiebiao/bookclub/internal/domain/book"
)

// 图书读视图DTO
//
// 设计说明:
// 1. 列表和详情接口共用同一个视图结构
// 2. rating对外是"4.67"这样的字符串,无评分时为null——
//    存储层的整数表示(467)是内部细节,不出现在API里
// 3. readers按关系创建顺序排列,没有读者时是[]而不是null

// ReaderView 读者姓名对
type ReaderView struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// BookView 图书读视图DTO
type BookView struct {
	ID             uint         `json:"id"`
	Name           string       `json:"name"`
	Price          int64        `json:"price"`         // 价格(分)
	PriceDisplay   string       `json:"price_display"` // "89.00"
	AuthorName     string       `json:"author_name"`
	OwnerName      string       `json:"owner_name"` // 无owner时为空串
	AnnotatedLikes int64        `json:"annotated_likes"`
	Rating         *string      `json:"rating"` // "4.67",无评分为null
	Readers        []ReaderView `json:"readers"`
}

// toBookView 领域投影 → 视图DTO
func toBookView(p *book.Projection) *BookView {
	readers := make([]ReaderView, len(p.Readers))
	for i, r := range p.Readers {
		readers[i] = ReaderView{FirstName: r.FirstName, LastName: r.LastName}
	}

	return &BookView{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		PriceDisplay:   FormatPrice(p.Price),
		AuthorName:     p.AuthorName,
		OwnerName:      p.OwnerName,
		AnnotatedLikes: p.AnnotatedLikes,
		Rating:         FormatRating(p.Rating),
		Readers:        readers,
	}
}

// FormatRating 评分整数表示 → 两位小数字符串
// 467 → "4.67",500 → "5.00",nil → nil
func FormatRating(rating *int64) *string {
	if rating == nil {
		return nil
	}
	s := fmt.Sprintf("%d.%02d", *rating/100, *rating%100)
	return &s
}

// FormatPrice 分 → 两位小数字符串,8900 → "89.00"
func FormatPrice(price int64) string {
	return fmt.Sprintf("%d.%02d", price/100, price%100)
}
