package routes

import (
	"peer-review-api/controllers"
	"peer-review-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Peer Review API is running",
				})
			})

			// Public repository browsing
			repository := public.Group("/repository")
			{
				repository.GET("", controllers.GetRepository)
				repository.GET("/journals", controllers.GetRepositoryJournals)
				repository.GET("/articles", controllers.GetRepositoryArticles)
				repository.GET("/books", controllers.GetRepositoryBooks)
				repository.GET("/:id", controllers.GetPublication)
			}
			public.GET("/genres", controllers.GetGenres)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Manuscripts
			manuscripts := protected.Group("/manuscripts")
			{
				manuscripts.POST("", controllers.SubmitManuscript)
				manuscripts.GET("", controllers.GetManuscripts)
				manuscripts.GET("/:id", controllers.GetManuscript)

				// Only admin can assign reviewers and record decisions
				manuscripts.POST("/:id/reviewers", middleware.RequireAdmin(), controllers.AssignReviewer)
				manuscripts.POST("/:id/decision", middleware.RequireAdmin(), controllers.DecideManuscript)
			}

			// Reviews
			reviews := protected.Group("/reviews")
			{
				reviews.GET("", controllers.GetMyReviews)
				reviews.GET("/:id", controllers.GetReview)
				reviews.PATCH("/:id", controllers.RespondToAssignment)
				reviews.PATCH("/:id/update", controllers.UpdateReview)
				reviews.PATCH("/:id/submit", controllers.SubmitReview)
				reviews.GET("/:id/messages", controllers.GetReviewMessages)
				reviews.POST("/:id/messages", controllers.PostReviewMessage)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/count", controllers.GetNotificationCounter)
				notifications.PATCH("/:id/read", controllers.MarkNotificationRead)
				notifications.PATCH("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Wishlist
			wishlist := protected.Group("/wishlist")
			{
				wishlist.GET("", controllers.GetWishlist)
				wishlist.POST("", controllers.AddWishlistItem)
				wishlist.DELETE("/:id", controllers.RemoveWishlistItem)
			}

			// Reviewer applications
			protected.POST("/reviewer-applications", controllers.CreateReviewerApplication)
			protected.GET("/reviewer-applications/mine", controllers.GetMyReviewerApplications)

			// Admin console
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", controllers.GetUsers)
				admin.PUT("/users/:id/role", controllers.UpdateUserRole)
				admin.GET("/reviewer-applications", controllers.GetReviewerApplications)
				admin.PUT("/reviewer-applications/:id", controllers.DecideReviewerApplication)
			}
		}
	}
}
