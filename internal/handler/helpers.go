package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"socialhub/internal/pkg"
	"socialhub/internal/schema"
	"socialhub/internal/service"
)

// userIDFromCtx 取 auth 中间件注入的 user_id
func userIDFromCtx(c *gin.Context) uint64 {
	v, _ := c.Get("user_id")
	id, _ := v.(uint64)
	return id
}

// respondErr 按错误类别映射状态码：
// 校验失败 422 带逐字段错误列表，越权 403，不存在 404，其余 400
func respondErr(c *gin.Context, err error) {
	var verrs schema.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"msg": "validation failed", "errors": verrs})
	case errors.Is(err, pkg.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"msg": "permission denied"})
	case errors.Is(err, pkg.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	}
}

// ensureCommunityView 私有社区可见性门，模板/帖子等所有读路径都要过；
// 不可见时已写好响应，调用方直接 return
func ensureCommunityView(c *gin.Context, svc *service.CommunityService, communityID uint64) bool {
	ok, err := svc.CanView(communityID, userIDFromCtx(c))
	if err != nil {
		respondErr(c, err)
		return false
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"msg": "community is private"})
		return false
	}
	return true
}

// submissionFromForm 把 multipart 表单整理成一次原始提交；
// 不在模板里的键由 codec 忽略，这里不做筛选
func submissionFromForm(c *gin.Context) (*schema.Submission, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return nil, err
	}
	sub := &schema.Submission{
		Values: map[string]string{},
		Files:  map[string]*schema.FileUpload{},
	}
	for key, vals := range c.Request.MultipartForm.Value {
		if len(vals) > 0 {
			sub.Values[key] = vals[0]
		}
	}
	for key, headers := range c.Request.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		sub.Files[key] = &schema.FileUpload{Filename: headers[0].Filename, Content: content}
	}
	return sub, nil
}
