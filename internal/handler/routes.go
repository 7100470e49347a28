package handler

import "github.com/gin-gonic/gin"

// Routes groups the API handlers mounted under the API prefix.
type Routes struct {
	Roster      *RosterHandler
	Edit        *EditHandler
	Transcripts *TranscriptHandler
}

// Register mounts every configured handler on api. A nil Transcripts disables exports.
func (r Routes) Register(api *gin.RouterGroup) {
	api.GET("/roster", r.Roster.View)
	api.POST("/roster/load", r.Roster.Load)

	api.GET("/students", r.Roster.Students)
	api.GET("/students/:id", r.Roster.Student)
	api.POST("/students/:id/select", r.Roster.SelectStudent)
	if r.Transcripts != nil {
		api.GET("/students/:id/transcript", r.Transcripts.Download)
	}

	api.POST("/subjects/:id/select", r.Roster.SelectSubject)

	api.GET("/form/options", r.Edit.Options)
	edit := api.Group("/edit")
	edit.POST("", r.Edit.Open)
	edit.GET("", r.Edit.Get)
	edit.PATCH("", r.Edit.Update)
	edit.POST("/submit", r.Edit.Submit)
	edit.DELETE("", r.Edit.Cancel)
}
