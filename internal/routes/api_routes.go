package routes

import (
	"garant-backend/internal/deal"
	"garant-backend/internal/doctype"
	"garant-backend/internal/documents"
	"garant-backend/internal/files"
	"garant-backend/internal/handlers"
	"garant-backend/internal/notify"
	"garant-backend/internal/payment"
	"garant-backend/internal/users"

	"github.com/gin-gonic/gin"
)

// Services — зависимости обработчиков, собранные composition root.
type Services struct {
	Deals     *deal.Manager
	Documents *documents.Store
	Ledger    *payment.Ledger
	Directory *users.Directory
	Files     files.Store
	Hub       *notify.Hub
}

// RegisterAPIRoutes регистрирует все маршруты API.
func RegisterAPIRoutes(r *gin.Engine, s *Services) {
	api := r.Group("/api")
	{
		// --- СДЕЛКИ ---
		deals := api.Group("/deals")
		{
			deals.POST("", handlers.CreateDealHandler(s.Deals, s.Directory))
			deals.GET("/:id", handlers.GetDealHandler(s.Deals))
			deals.GET("/:id/current-iteration", handlers.CurrentIterationHandler(s.Deals))
			deals.POST("/:id/complete", handlers.CompleteDealHandler(s.Deals))
		}

		// --- ДОКУМЕНТЫ ---
		docs := api.Group("/documents")
		{
			docs.POST("/vendor", handlers.AttachContractDocumentHandler(doctype.Vendor, s.Documents, s.Files))
			docs.POST("/customer", handlers.AttachContractDocumentHandler(doctype.Customer, s.Documents, s.Files))
			docs.POST("/act", handlers.AttachActDocumentHandler(s.Documents, s.Files))
			docs.POST("/send", handlers.SendDocumentHandler(s.Documents))
			docs.POST("/vendor/approve", handlers.ApproveContractHandler(doctype.Vendor, s.Documents))
			docs.POST("/customer/approve", handlers.ApproveContractHandler(doctype.Customer, s.Documents))
			docs.POST("/act/approve", handlers.ApproveActHandler(s.Documents))
			docs.POST("/reject", handlers.RejectDocumentHandler(s.Documents))
			docs.GET("/deal", handlers.DealDocumentsHandler(s.Documents))
			docs.GET("/acts", handlers.ActsHandler(s.Documents))
			docs.GET("/acts/approved", handlers.ApprovedActsHandler(s.Documents))
			docs.GET("/attachment-name", handlers.AttachmentNameHandler(s.Documents))
		}

		// --- ПЛАТЕЖИ ---
		orders := api.Group("/orders")
		{
			orders.POST("/hold", handlers.HoldOrderHandler(s.Ledger, s.Directory))
			orders.POST("/:id/confirm", handlers.ConfirmPaymentHandler(s.Ledger))
			orders.GET("/report", handlers.OrdersReportHandler(s.Ledger))
		}

		// --- УВЕДОМЛЕНИЯ ---
		api.GET("/notifications/ws", notify.ServeWS(s.Hub))
	}
}
