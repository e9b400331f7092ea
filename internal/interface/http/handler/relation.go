package handler

import (
	"github.com/gin-gonic/gin"

	apprelation "github.com/xiebiao/bookclub/internal/application/relation"
	"github.com/xiebiao/bookclub/internal/interface/http/dto"
	"github.com/xiebiao/bookclub/internal/interface/http/middleware"
	"github.com/xiebiao/bookclub/pkg/response"
)

// RelationHandler 用户-图书关系HTTP处理器
type RelationHandler struct {
	upsertRelationUseCase *apprelation.UpsertRelationUseCase
}

// NewRelationHandler 创建关系处理器
func NewRelationHandler(upsertRelationUseCase *apprelation.UpsertRelationUseCase) *RelationHandler {
	return &RelationHandler{
		upsertRelationUseCase: upsertRelationUseCase,
	}
}

// UpsertRelation 更新当前用户与图书的关系(点赞/收藏/评分)
// @Summary      更新图书关系
// @Description  首次调用时懒创建关系;三个字段都可选,只更新传入的字段;
// @Description  评分变化时同步重算图书平均分
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpsertRelationRequest true "要修改的字段"
// @Success      200 {object} response.Response{data=apprelation.UpsertRelationResponse}
// @Failure      400 {object} response.Response "评分超出1-5范围"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id}/relation [put]
func (h *RelationHandler) UpsertRelation(c *gin.Context) {
	// 1. 解析图书ID
	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	// 2. 参数绑定(字段全部可选,rate范围在领域层校验)
	var req dto.UpsertRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 3. 关系归属当前登录用户,路径里没有user_id——
	// 用户只能改自己的关系
	result, err := h.upsertRelationUseCase.Execute(c.Request.Context(), apprelation.UpsertRelationRequest{
		UserID:      middleware.MustGetUserID(c),
		BookID:      bookID,
		Like:        req.Like,
		InBookmarks: req.InBookmarks,
		Rate:        req.Rate,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
