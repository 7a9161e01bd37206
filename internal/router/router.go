package router

import (
	"github.com/brun04maral/agora-contabilidade-sub000/internal/config"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/handler"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// ====== API ======
	api := r.Group("/api")
	api.Use(middleware.AuditMiddleware(db))

	clientHandler := handler.NewClientHandler(db)
	api.POST("/clients", clientHandler.CreateClient)
	api.GET("/clients", clientHandler.ListClients)
	api.PUT("/clients/:id", clientHandler.UpdateClient)
	api.DELETE("/clients/:id", clientHandler.DeleteClient)
	api.POST("/suppliers", clientHandler.CreateSupplier)
	api.GET("/suppliers", clientHandler.ListSuppliers)
	api.PUT("/suppliers/:id", clientHandler.UpdateSupplier)
	api.DELETE("/suppliers/:id", clientHandler.DeleteSupplier)

	projectHandler := handler.NewProjectHandler(db)
	api.POST("/projects", projectHandler.CreateProject)
	api.GET("/projects", projectHandler.ListProjects)
	api.PUT("/projects/:id", projectHandler.UpdateProject)
	api.DELETE("/projects/:id", projectHandler.DeleteProject)

	expenseHandler := handler.NewExpenseHandler(db)
	api.POST("/expenses", expenseHandler.CreateExpense)
	api.GET("/expenses", expenseHandler.ListExpenses)
	api.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	api.PUT("/expenses/:id/state", expenseHandler.SetExpenseState)
	api.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

	reportHandler := handler.NewReportHandler(db)
	api.POST("/reports", reportHandler.CreateReport)
	api.GET("/reports", reportHandler.ListReports)
	api.GET("/reports/:id", reportHandler.GetReport)
	api.PUT("/reports/:id/rates", reportHandler.SetRates)
	api.POST("/reports/:id/pay", reportHandler.MarkPaid)
	api.DELETE("/reports/:id", reportHandler.DeleteReport)
	api.POST("/reports/:id/lines", reportHandler.AddLine)
	api.PUT("/reports/:id/lines/:lineId", reportHandler.UpdateLine)
	api.DELETE("/reports/:id/lines/:lineId", reportHandler.DeleteLine)
	api.PUT("/reports/:id/lines-order", reportHandler.ReorderLines)

	budgetHandler := handler.NewBudgetHandler(db)
	api.POST("/budgets", budgetHandler.CreateBudget)
	api.GET("/budgets", budgetHandler.ListBudgets)
	api.GET("/budgets/:id", budgetHandler.GetBudget)
	api.POST("/budgets/:id/items", budgetHandler.AddItem)
	api.PUT("/budgets/:id/items/:itemId", budgetHandler.UpdateItem)
	api.DELETE("/budgets/:id/items/:itemId", budgetHandler.DeleteItem)
	api.POST("/budgets/:id/allocations", budgetHandler.AddAllocation)
	api.PUT("/budgets/:id/allocations/:allocId", budgetHandler.UpdateAllocation)
	api.DELETE("/budgets/:id/allocations/:allocId", budgetHandler.DeleteAllocation)
	api.POST("/budgets/mirror", budgetHandler.MirrorExpense)
	api.POST("/budgets/mirror-split", budgetHandler.MirrorExpenseSplit)
	api.POST("/budgets/:id/recompute", budgetHandler.RecomputeTotals)
	api.GET("/budgets/:id/validate", budgetHandler.ValidateTotals)
	api.POST("/budgets/:id/commissions", budgetHandler.AutoGenerateCommissions)
	api.POST("/budgets/:id/approve", budgetHandler.Approve)
	api.POST("/budgets/:id/reject", budgetHandler.Reject)
	api.POST("/budgets/:id/reopen", budgetHandler.Reopen)

	balanceHandler := handler.NewBalanceHandler(db)
	api.GET("/balance/:partner", balanceHandler.GetBalance)

	return r
}
