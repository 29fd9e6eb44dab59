package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"socialhub/internal/service"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

type CommunityCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

type InviteReq struct {
	UserIDs []uint64 `json:"user_ids" binding:"required,min=1"`
}

type ModeratorReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	userID := userIDFromCtx(c)

	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	community, err := h.svc.CreateCommunity(userID, req.Name, req.Description, req.IsPrivate)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          community.ID,
		"name":        community.Name,
		"description": community.Description,
		"is_private":  community.IsPrivate,
	})
}

func (h *CommunityHandler) Join(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.JoinCommunity(userID, communityID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.LeaveCommunity(userID, communityID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListCommunities(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Detail 社区详情；私有社区对非成员非受邀用户直接拒绝
func (h *CommunityHandler) Detail(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if !ensureCommunityView(c, h.svc, communityID) {
		return
	}

	community, err := h.svc.GetCommunity(communityID)
	if err != nil {
		respondErr(c, err)
		return
	}
	admins, moderators, err := h.svc.Roles(communityID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"community":  community,
		"admins":     admins,
		"moderators": moderators,
	})
}

// Invite 批量邀请（仅 admin）
func (h *CommunityHandler) Invite(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req InviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.Invite(communityID, userID, req.UserIDs); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// PromoteModerator 授予版主（仅 admin）
func (h *CommunityHandler) PromoteModerator(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req ModeratorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.PromoteModerator(communityID, userID, req.UserID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// DemoteModerator 撤销版主（仅 admin）
func (h *CommunityHandler) DemoteModerator(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req ModeratorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.DemoteModerator(communityID, userID, req.UserID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
