package router

import (
	"askboard/internal/handlers"
	"askboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Votes     *handlers.VoteHandler
	Comments  *handlers.CommentHandler
	Pins      *handlers.PinHandler
	Questions *handlers.QuestionHandler
	Events    *handlers.EventHandler
}

// RegisterRoutes expects LoadUser to be installed on r already.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	// 公共路由
	r.GET("/healthz", h.Events.Health)
	r.GET("/questions", h.Questions.List)
	r.GET("/questions/:id", h.Questions.Detail)
	r.GET("/questions/:id/comments", h.Comments.List)
	r.GET("/questions/:id/events", h.Events.Question)
	r.GET("/events", h.Events.All)

	// 受保护路由
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/vote", h.Votes.Toggle)       // 点赞/取消点赞
		authorized.POST("/comments", h.Comments.Create) // 发表评论
		authorized.POST("/pin", h.Pins.SetPinned)       // 置顶/取消置顶
		authorized.POST("/questions", h.Questions.Create)
		authorized.GET("/my-questions", h.Questions.Mine)
	}
}
