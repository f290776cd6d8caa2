package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/restokitchen/pos/live"
	"github.com/restokitchen/pos/services"
	"github.com/restokitchen/pos/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveController upgrades terminals to the live push stream.
type LiveController struct {
	Hub    *live.Hub
	Menus  *services.MenuService
	Orders *services.OrderService
}

func NewLiveController(hub *live.Hub, menus *services.MenuService, orders *services.OrderService) *LiveController {
	return &LiveController{Hub: hub, Menus: menus, Orders: orders}
}

// Handle -> websocket endpoint. On connect the terminal immediately
// receives full menu and orders snapshots, then every broadcast until
// it disconnects.
func (lc *LiveController) Handle(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	// The initial snapshots go out before the hub knows about this
	// connection. Only one goroutine may write a websocket conn at a
	// time, and after RegisterClient that writer is the hub.
	lc.sendInitialSnapshots(ws)
	lc.Hub.RegisterClient(ws, role)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	lc.Hub.UnregisterClient(ws)
}

func (lc *LiveController) sendInitialSnapshots(ws *websocket.Conn) {
	if menus, err := lc.Menus.List("", ""); err == nil {
		lc.writeMessage(ws, live.Message{Event: live.EventMenuSnapshot, Data: menus})
	}
	if orders, err := lc.Orders.All(); err == nil {
		lc.writeMessage(ws, live.Message{Event: live.EventOrdersSnapshot, Data: orders})
	}
}

func (lc *LiveController) writeMessage(ws *websocket.Conn, msg live.Message) {
	if err := ws.WriteJSON(msg); err != nil {
		utils.ErrorLogger.Printf("live: initial snapshot: %v", err)
	}
}
