package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"socialhub/internal/service"
)

type PostHandler struct {
	svc          *service.PostService
	commentSvc   *service.CommentService
	communitySvc *service.CommunityService
}

func NewPostHandler(svc *service.PostService, commentSvc *service.CommentService, communitySvc *service.CommunityService) *PostHandler {
	return &PostHandler{svc: svc, commentSvc: commentSvc, communitySvc: communitySvc}
}

// Create 接收 multipart 表单：community_id、template_id、title
// 加上模板定义的动态字段，图片字段走文件部分
func (h *PostHandler) Create(c *gin.Context) {
	userID := userIDFromCtx(c)

	sub, err := submissionFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid form"})
		return
	}
	communityID, _ := strconv.ParseUint(sub.Values["community_id"], 10, 64)
	templateID, _ := strconv.ParseUint(sub.Values["template_id"], 10, 64)
	title := sub.Values["title"]

	post, err := h.svc.CreatePost(userID, communityID, templateID, title, sub)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": post.ID, "title": post.Title})
}

func (h *PostHandler) Edit(c *gin.Context) {
	userID := userIDFromCtx(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	sub, err := submissionFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid form"})
		return
	}

	if err := h.svc.EditPost(userID, postID, sub.Values["title"], sub); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Detail 返回解码后的动态字段以及评论列表
func (h *PostHandler) Detail(c *gin.Context) {
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	post, record, err := h.svc.DecodePost(postID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if !ensureCommunityView(c, h.communitySvc, post.CommunityID) {
		return
	}
	comments, err := h.commentSvc.ListByPost(postID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"record":   record,
		"comments": comments,
	})
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID := userIDFromCtx(c)
	postID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.DeletePost(userID, postID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *PostHandler) ListByCommunity(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if !ensureCommunityView(c, h.communitySvc, communityID) {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListByCommunity(communityID, page, size)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}

// ListCursor 游标分页，last_id 与 last_ts 皆为 0 表示第一页
func (h *PostHandler) ListCursor(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if !ensureCommunityView(c, h.communitySvc, communityID) {
		return
	}
	lastID, _ := strconv.ParseUint(c.Query("last_id"), 10, 64)
	lastTS, _ := strconv.ParseInt(c.Query("last_ts"), 10, 64)
	size, _ := strconv.Atoi(c.Query("size"))

	list, nextID, nextTS, err := h.svc.ListByCommunityCursor(communityID, lastID, lastTS, size)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list, "next_id": nextID, "next_ts": nextTS})
}
