package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"socialhub/internal/schema"
	"socialhub/internal/service"
)

type TemplateHandler struct {
	svc          *service.TemplateService
	exportSvc    *service.ExportService
	communitySvc *service.CommunityService
}

type TemplateFieldReq struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

type TemplateCreateReq struct {
	CommunityID uint64             `json:"community_id" binding:"required"`
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Fields      []TemplateFieldReq `json:"fields"`
}

func NewTemplateHandler(svc *service.TemplateService, exportSvc *service.ExportService, communitySvc *service.CommunityService) *TemplateHandler {
	return &TemplateHandler{svc: svc, exportSvc: exportSvc, communitySvc: communitySvc}
}

func (h *TemplateHandler) Create(c *gin.Context) {
	userID := userIDFromCtx(c)

	var req TemplateCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	fields := make([]schema.Field, 0, len(req.Fields))
	for _, f := range req.Fields {
		fields = append(fields, schema.Field{Name: f.Name, Type: schema.FieldType(f.Type)})
	}

	tpl, err := h.svc.CreateTemplate(userID, req.CommunityID, req.Title, req.Description, fields)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": tpl.ID, "title": tpl.Title})
}

func (h *TemplateHandler) Detail(c *gin.Context) {
	templateID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	tpl, fields, err := h.svc.GetTemplate(templateID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if !ensureCommunityView(c, h.communitySvc, tpl.CommunityID) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": tpl, "fields": fields})
}

func (h *TemplateHandler) ListByCommunity(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if !ensureCommunityView(c, h.communitySvc, communityID) {
		return
	}

	list, err := h.svc.ListByCommunity(communityID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	userID := userIDFromCtx(c)
	templateID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.DeleteTemplate(userID, templateID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// ExportCSV 把该模板下全部帖子导出为 CSV 附件
func (h *TemplateHandler) ExportCSV(c *gin.Context) {
	templateID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	tpl, _, err := h.svc.GetTemplate(templateID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if !ensureCommunityView(c, h.communitySvc, tpl.CommunityID) {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="template_%d.csv"`, templateID))
	if err := h.exportSvc.ExportTemplateCSV(templateID, c.Writer); err != nil {
		respondErr(c, err)
		return
	}
}
