package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restokitchen/pos/assistant"
	"github.com/restokitchen/pos/config"
	"github.com/restokitchen/pos/controllers"
	"github.com/restokitchen/pos/live"
	"github.com/restokitchen/pos/middlewares"
	"github.com/restokitchen/pos/services"
)

// SetupRouter wires services, controllers and middleware into the
// route table. The hub and generator come in from main so tests can
// substitute their own.
func SetupRouter(db *gorm.DB, hub *live.Hub, gen assistant.Generator, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	menuSvc := services.NewMenuService(db)
	orderSvc := services.NewOrderService(db, hub, cfg.TableCount, cfg.PaymentDelay)
	carts := services.NewCartManager()
	assistSvc := assistant.NewService(gen)

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(orderSvc)
	cartCtrl := controllers.NewCartController(carts, menuSvc, orderSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	menuCtrl := controllers.NewMenuController(menuSvc, assistSvc)
	assistCtrl := controllers.NewAssistantController(orderSvc, assistSvc)
	liveCtrl := controllers.NewLiveController(hub, menuSvc, orderSvc)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Login/register behind the strict limiter.
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Live push stream; token rides in the query string.
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("", liveCtrl.Handle)
	}

	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)

		// ORDER DESK
		auth.GET("/tables", tableCtrl.GetAllTables)
		auth.GET("/tables/:table_number/cart", cartCtrl.GetCart)
		auth.POST("/tables/:table_number/cart", cartCtrl.AddItem)
		auth.DELETE("/tables/:table_number/cart", cartCtrl.ClearCart)
		auth.DELETE("/tables/:table_number/cart/:menu_id", cartCtrl.RemoveItem)
		auth.POST("/tables/:table_number/confirm", cartCtrl.Confirm)

		// KITCHEN BOARD
		auth.GET("/kitchen/display", orderCtrl.GetKitchenDisplay)
		auth.POST("/orders/:order_id/items/:item_index/advance", orderCtrl.AdvanceItem)

		// BILLING
		auth.GET("/orders", orderCtrl.GetAllOrders)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.POST("/orders/:order_id/pay", orderCtrl.CollectPayment)
		auth.GET("/orders/:order_id/receipt", orderCtrl.GetReceipt)

		// MENU SETTINGS
		auth.GET("/menus", menuCtrl.GetAllMenus)
		auth.POST("/menus", menuCtrl.CreateMenu)
		auth.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
		auth.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
		auth.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)
		auth.POST("/menus/describe", menuCtrl.DescribeMenu)

		// STAFF ASSISTANT
		auth.POST("/assistant", assistCtrl.Ask)
	}

	return r
}
