package app

import (
	"circlemeet_backend/docs"
	"circlemeet_backend/internal/config"
	"circlemeet_backend/internal/middleware"
	"circlemeet_backend/internal/util"
	"circlemeet_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 错误的 HTTP 方法（比如 GET /api/account）返回 405 而不是 404
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(ctx *gin.Context) {
		util.MethodNotAllowed(ctx)
	})

	// 1. 公共路由（无需登录）
	a.registerPublicRoutes(router, c, repos, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerAccountRoutes(authGroup, c)
		a.registerCircleRoutes(authGroup, c)
		a.registerSocialRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/categories", c.circle.Categories)

		// 题目和实时预览匿名可用，正式提交要登录
		quiz := public.Group("/quiz")
		quiz.Use(middleware.TryAuthMiddleware(cfg))
		{
			quiz.GET("/questions", c.quiz.Questions)
			quiz.POST("/preview", c.quiz.Preview)
		}
	}
}

func (a *App) registerAccountRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.GET("/profile", c.user.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)
	rg.DELETE("/account", c.user.DeleteAccount)

	rg.POST("/quiz/submit", c.quiz.Submit)
	rg.GET("/quiz/results", c.quiz.History)

	rg.GET("/notifications", c.notification.List)
	rg.PUT("/notifications/:id/read", c.notification.MarkRead)
	rg.PUT("/notifications/read-all", c.notification.MarkAllRead)
	rg.GET("/notifications/unread-count", c.notification.UnreadCount)
}

func (a *App) registerCircleRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/circles", c.circle.Create)
	rg.GET("/circles", c.circle.List)
	rg.GET("/circles/:id", c.circle.Get)
	rg.POST("/circles/:id/join", c.circle.Join)
	rg.POST("/circles/:id/leave", c.circle.Leave)
	rg.GET("/circles/:id/members", c.circle.Members)
	rg.POST("/categories/requests", c.circle.RequestCategory)

	rg.POST("/circles/:id/invitations", c.circle.Invite)
	rg.GET("/invitations", c.circle.MyInvitations)
	rg.PUT("/invitations/:id", c.circle.RespondInvitation)

	rg.POST("/circles/:id/announcements", c.circle.PublishAnnouncement)
	rg.GET("/circles/:id/announcements", c.circle.Announcements)
	rg.PUT("/circles/:id/read", c.circle.MarkRead)
	rg.POST("/circles/:id/pings", c.circle.PingLocation)
	rg.GET("/circles/:id/pings", c.circle.RecentPings)

	// 活动
	rg.POST("/circles/:id/events", c.event.Create)
	rg.GET("/circles/:id/events", c.event.ListByCircle)
	rg.PUT("/events/:id/rsvp", c.event.RSVP)
	rg.GET("/events/:id/attendees", c.event.Attendees)

	// 投票
	rg.POST("/circles/:id/polls", c.poll.Create)
	rg.GET("/circles/:id/polls", c.poll.ListByCircle)
	rg.PUT("/polls/:id/vote", c.poll.Vote)
	rg.POST("/polls/:id/close", c.poll.Close)
	rg.GET("/polls/:id/results", c.poll.Results)

	// 圈子聊天
	rg.POST("/circles/:id/messages", c.message.Send)
	rg.GET("/circles/:id/messages", c.message.List)
	rg.POST("/circles/:id/attachments", c.message.UploadAttachment)
	rg.POST("/messages/:id/reactions", c.message.React)
	rg.DELETE("/messages/:id/reactions", c.message.RemoveReaction)
	rg.PUT("/messages/:id/read", c.message.MarkMessageRead)

	// 动态
	rg.POST("/circles/:id/moments", c.moment.Create)
	rg.GET("/circles/:id/moments", c.moment.ListByCircle)
	rg.DELETE("/moments/:id", c.moment.Delete)
}

func (a *App) registerSocialRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/friends", c.friendship.ListFriends)
	rg.DELETE("/friends/:id", c.friendship.Unfriend)
	rg.POST("/friends/requests", c.friendship.SendRequest)
	rg.GET("/friends/requests", c.friendship.PendingRequests)
	rg.PUT("/friends/requests/:id", c.friendship.Respond)
	rg.POST("/friends/reconnect", c.friendship.SendReconnect)
	rg.GET("/friends/reconnect", c.friendship.ListReconnects)
	rg.PUT("/friends/reconnect/:id", c.friendship.RespondReconnect)

	rg.POST("/dms", c.message.SendDM)
	rg.GET("/dms", c.message.ListDMs)

	rg.POST("/ratings", c.rating.Rate)
	rg.GET("/ratings/:id", c.rating.ListForUser)
	rg.POST("/reports", c.rating.Report)
	rg.GET("/reports", c.rating.MyReports)
}
