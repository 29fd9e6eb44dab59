package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"socialhub/internal/service"
)

type CommentHandler struct {
	svc          *service.CommentService
	postSvc      *service.PostService
	communitySvc *service.CommunityService
}

type CommentCreateReq struct {
	Content string `json:"content" binding:"required"`
}

func NewCommentHandler(svc *service.CommentService, postSvc *service.PostService, communitySvc *service.CommunityService) *CommentHandler {
	return &CommentHandler{svc: svc, postSvc: postSvc, communitySvc: communitySvc}
}

func (h *CommentHandler) Create(c *gin.Context) {
	userID := userIDFromCtx(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req CommentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	comment, err := h.svc.CreateComment(userID, postID, req.Content)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": comment.ID})
}

func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	post, err := h.postSvc.GetPost(postID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if !ensureCommunityView(c, h.communitySvc, post.CommunityID) {
		return
	}

	list, err := h.svc.ListByPost(postID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}
