package app

import (
	_ "edu_exam_backend/docs"
	"edu_exam_backend/internal/config"
	"edu_exam_backend/internal/middleware"
	"edu_exam_backend/internal/model"
	"edu_exam_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/classes", c.class.ListMyClasses)
		authGroup.GET("/exams/:id", c.exam.GetExam)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)

		// 学生作答接口
		a.registerStudentRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacherOnly := middleware.RoleMiddleware(model.Teacher)

	// 班级管理
	classes := rg.Group("/teacher/classes")
	classes.Use(teacherOnly)
	{
		classes.POST("", c.class.CreateClass)
		classes.POST("/:id/students", c.class.AddStudents)
	}

	// 笔记文件
	files := rg.Group("/notebook-files")
	files.Use(teacherOnly)
	{
		files.POST("", c.notebook.Upload)
		files.GET("", c.notebook.List)
		files.DELETE("/:id", c.notebook.Delete)
	}

	exams := rg.Group("/exams")
	exams.Use(teacherOnly)
	{
		exams.POST("", c.exam.CreateExam)
		exams.PUT("/:id", c.exam.UpdateExam)
		exams.DELETE("/:id", c.exam.DeleteExam)
		exams.GET("/mine", c.exam.ListMine)
		exams.GET("/class/:classId", c.exam.ListByClass)
		exams.GET("/:id/preview", c.exam.PreviewExam)

		// 题目管理
		exams.POST("/:id/questions", c.exam.AddQuestions)
		exams.DELETE("/:id/questions/:questionId", c.exam.DeleteQuestion)

		// AI 出题
		exams.POST("/:id/generate", c.exam.GenerateQuestions)
		exams.POST("/:id/generate/async", c.exam.EnqueueGeneration)
		exams.GET("/generation-tasks/:taskId", c.exam.GetGenerationTask)

		// 状态流转
		exams.PUT("/:id/publish", c.exam.PublishExam)
		exams.PUT("/:id/activate", c.exam.ActivateExam)
		exams.PUT("/:id/cancel", c.exam.CancelExam)

		// 成绩导出
		exams.POST("/:id/export", c.exam.ExportResults)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	student := rg.Group("/exams")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.GET("/available", c.attempt.ListAvailable)
		student.POST("/:id/start", c.attempt.StartExam)
		student.PUT("/attempts/:attemptId/answers", c.attempt.SaveAnswers)
		student.POST("/:id/submit", c.attempt.SubmitExam)
		student.GET("/:id/result", c.attempt.GetResult)
		student.GET("/:id/attempts", c.attempt.ListMyAttempts)
		student.GET("/attempts/:attemptId/review", c.attempt.GetReview)
	}
}
