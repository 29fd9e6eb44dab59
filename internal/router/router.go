package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"socialhub/internal/blob"
	"socialhub/internal/config"
	"socialhub/internal/handler"
	"socialhub/internal/middleware"
	"socialhub/internal/pkg"
	"socialhub/internal/schema"
	"socialhub/internal/service"
)

// Deps 路由层依赖，由 main 组装后传入
type Deps struct {
	DB    *gorm.DB
	Cfg   config.AppConfig
	Codec *schema.Codec
	Blobs blob.Store
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.Default()

	emailSvc := service.NewEmailService(pkg.SMTPConfig{
		Host:     d.Cfg.SMTPHost,
		Port:     d.Cfg.SMTPPort,
		Username: d.Cfg.SMTPUsername,
		Password: d.Cfg.SMTPPassword,
		From:     d.Cfg.SMTPFrom,
	})
	userSvc := service.NewUserService(d.DB, emailSvc)
	communitySvc := service.NewCommunityService(d.DB, emailSvc)
	templateSvc := service.NewTemplateService(d.DB)
	postSvc := service.NewPostService(d.DB, d.Codec, d.Cfg.PostRequireMembership)
	commentSvc := service.NewCommentService(d.DB)
	exportSvc := service.NewExportService(d.DB, d.Codec)
	followSvc := service.NewFollowService(d.DB)

	user := handler.NewUserHandler(userSvc)
	email := handler.NewEmailHandler(emailSvc)
	community := handler.NewCommunityHandler(communitySvc)
	template := handler.NewTemplateHandler(templateSvc, exportSvc, communitySvc)
	post := handler.NewPostHandler(postSvc, commentSvc, communitySvc)
	comment := handler.NewCommentHandler(commentSvc, postSvc, communitySvc)
	follow := handler.NewFollowHandler(followSvc)

	// 邮件相关接口
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/:scope/code", email.SendCode)
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/logout", user.Logout)
		userGroup.POST("/reset", user.ResetPassword)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/change-password", user.ChangePassword)
	}

	// 社区相关接口
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware())
	{
		communityGroup.POST("/create", community.Create)
		communityGroup.GET("/list", community.List)
		communityGroup.GET("/:id", community.Detail)
		communityGroup.POST("/:id/join", community.Join)
		communityGroup.POST("/:id/leave", community.Leave)
		communityGroup.POST("/:id/invite", community.Invite)
		communityGroup.POST("/:id/moderators", community.PromoteModerator)
		communityGroup.DELETE("/:id/moderators", community.DemoteModerator)
		communityGroup.GET("/:id/templates", template.ListByCommunity)
		communityGroup.GET("/:id/posts", post.ListByCommunity)
		communityGroup.GET("/:id/posts/cursor", post.ListCursor)
	}

	// 模板相关接口
	templateGroup := r.Group("/api/template")
	templateGroup.Use(middleware.AuthMiddleware())
	{
		templateGroup.POST("/create", template.Create)
		templateGroup.GET("/:id", template.Detail)
		templateGroup.DELETE("/:id", template.Delete)
		templateGroup.GET("/:id/export", template.ExportCSV)
	}

	// 帖子相关接口
	postGroup := r.Group("/api/post")
	postGroup.Use(middleware.AuthMiddleware())
	{
		postGroup.POST("/create", post.Create)
		postGroup.GET("/:id", post.Detail)
		postGroup.POST("/:id/edit", post.Edit)
		postGroup.DELETE("/:id", post.Delete)
		postGroup.POST("/:id/comment", comment.Create)
		postGroup.GET("/:id/comments", comment.ListByPost)
	}

	// 用户关注相关接口
	followGroup := r.Group("/api/follow")
	followGroup.Use(middleware.AuthMiddleware())
	{
		followGroup.POST("/", follow.Follow)
		followGroup.GET("/followings", follow.ListFollowings)
		followGroup.GET("/followers", follow.ListFollowers)
		followGroup.GET("/relation", follow.Relation)
	}

	// 上传文件直读
	r.Static("/media", d.Cfg.BlobRoot)

	return r
}
