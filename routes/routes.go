package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/MUGAIRWA/HACKATHON2/controllers"
	"github.com/MUGAIRWA/HACKATHON2/middlewares"
	"github.com/MUGAIRWA/HACKATHON2/models"
)

// Controllers carries the constructed handlers into the router.
type Controllers struct {
	Auth          *controllers.AuthController
	User          *controllers.UserController
	Assistant     *controllers.AssistantController
	Meals         *controllers.MealController
	Learning      *controllers.LearningController
	Health        *controllers.HealthController
	Admin         *controllers.AdminController
	Donations     *controllers.DonationController
	Notifications *controllers.NotificationController
	Realtime      *controllers.RealtimeController
	Devices       *controllers.DeviceController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", ctl.Auth.Register)
		auth.POST("/login", ctl.Auth.Login)
	}

	// Payment gateway redirects here after checkout; no session attached.
	r.GET("/payments/verify", ctl.Donations.Verify)

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", ctl.User.GetProfile)
		user.PUT("/profile", ctl.User.UpdateProfile)
		user.POST("/avatar", ctl.User.UploadAvatar)
		user.POST("/devices", ctl.Devices.Register)
		user.GET("/notifications", ctl.Notifications.List)
		user.POST("/notifications/:id/read", ctl.Notifications.MarkRead)
	}

	r.GET("/ws/events", middlewares.AuthMiddleware(), ctl.Realtime.EventsWS)

	// Student-facing AI and domain routes
	student := r.Group("/", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleStudent))
	{
		student.POST("/assistant/chat", ctl.Assistant.Chat)
		student.GET("/assistant/history", ctl.Assistant.History)
		student.DELETE("/assistant/history", ctl.Assistant.ClearHistory)
		student.PUT("/assistant/context", ctl.Assistant.SetContext)

		student.POST("/meals/requests", ctl.Meals.CreateRequest)
		student.GET("/meals/requests", ctl.Meals.MyRequests)
		student.POST("/meals/plan", ctl.Meals.GeneratePlan)
		student.GET("/meals/plan", ctl.Meals.CurrentPlan)
		student.GET("/meals/suggestions", ctl.Meals.Suggestions)
		student.GET("/meals/tips", ctl.Meals.Tips)

		student.POST("/learning/quiz", ctl.Learning.GenerateQuiz)
		student.POST("/learning/quiz/results", ctl.Learning.SubmitResult)
		student.GET("/learning/quiz/history", ctl.Learning.QuizHistory)
		student.GET("/learning/subjects", ctl.Learning.Subjects)
		student.POST("/learning/lesson", ctl.Learning.Lesson)
		student.POST("/learning/ask", ctl.Learning.Ask)

		student.POST("/health/assess", ctl.Health.AssessSymptoms)
		student.GET("/health/records", ctl.Health.History)
		student.POST("/health/emergency", ctl.Health.AssessEmergency)
		student.GET("/health/tips", ctl.Health.Tips)
		student.POST("/health/checkin", ctl.Health.WellnessCheckIn)
	}

	// Donor routes
	donor := r.Group("/donations", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleDonor))
	{
		donor.POST("", ctl.Donations.Initiate)
		donor.GET("/mine", ctl.Donations.MyDonations)
		donor.POST("/wallet/topup", ctl.Donations.TopUpWallet)
		donor.GET("/wallet/balance", ctl.Donations.Balance)
	}

	// Donors browse approved requests to fund; same listing handler the
	// admin console uses, scoped by the status filter.
	r.GET("/requests", middlewares.AuthMiddleware(), ctl.Admin.ListRequests)

	// Admin console
	admin := r.Group("/admin", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleAdmin))
	{
		admin.GET("/requests", ctl.Admin.ListRequests)
		admin.POST("/requests/:id/approve", ctl.Admin.ApproveRequest)
		admin.POST("/requests/:id/reject", ctl.Admin.RejectRequest)
		admin.POST("/requests/:id/complete", ctl.Admin.CompleteRequest)
		admin.GET("/donations", ctl.Admin.ListDonations)
		admin.GET("/stats", ctl.Admin.Stats)
	}

	return r
}
