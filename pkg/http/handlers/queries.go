package handlers

import (
	"net/http"
	"strconv"

	"github.com/coneno/logger"
	"github.com/gin-gonic/gin"
	"github.com/pglab/traffic-sandbox/pkg/db"
	mw "github.com/pglab/traffic-sandbox/pkg/http/middlewares"
	"github.com/pkg/errors"
)

const recentOrdersLimit = 20

func (h *HttpEndpoints) AddQueryAPI(rg *gin.RouterGroup) {
	rg.GET("/users", h.fetchAllUsers)
	rg.GET("/products", h.fetchAllProducts)
	rg.GET("/orders/recent", h.fetchRecentOrders)
	rg.GET("/slow", h.runSlowQuery)
	rg.GET("/restricted", h.fetchRestrictedRecords)
	rg.GET("/generate-traffic", h.generateTraffic)

	userGroup := rg.Group("/users/:id")
	userGroup.Use(mw.HasNumericID())
	{
		userGroup.GET("", h.findUserByID)
		userGroup.GET("/orders", h.fetchOrdersForUser)
	}

	orderGroup := rg.Group("/orders/:id")
	orderGroup.Use(mw.HasNumericID())
	{
		orderGroup.GET("/locked", h.lockOrderByID)
	}
}

func (h *HttpEndpoints) fetchAllUsers(c *gin.Context) {
	users, err := h.dbService.FetchAllUsers()
	if err != nil {
		logger.Error.Printf("fetching users failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *HttpEndpoints) findUserByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.dbService.FindUserByID(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Error.Printf("fetching user %d failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *HttpEndpoints) fetchOrdersForUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.dbService.FetchOrdersForUser(id)
	if err != nil {
		logger.Error.Printf("fetching orders for user %d failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *HttpEndpoints) fetchAllProducts(c *gin.Context) {
	products, err := h.dbService.FetchAllProducts()
	if err != nil {
		logger.Error.Printf("fetching products failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *HttpEndpoints) fetchRecentOrders(c *gin.Context) {
	orders, err := h.dbService.FetchRecentOrders(recentOrdersLimit)
	if err != nil {
		logger.Error.Printf("fetching recent orders failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *HttpEndpoints) lockOrderByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.dbService.LockOrderByID(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		logger.Error.Printf("locking order %d failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *HttpEndpoints) runSlowQuery(c *gin.Context) {
	elapsed, err := h.dbService.RunSlowQuery()
	if err != nil {
		logger.Error.Printf("slow query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"elapsedMs": elapsed.Milliseconds()})
}

// fetchRestrictedRecords hits a table the service role normally has no
// access to. The resulting permission error is the expected outcome; it is
// returned to the caller like any other query error.
func (h *HttpEndpoints) fetchRestrictedRecords(c *gin.Context) {
	records, err := h.dbService.FetchRestrictedRecords()
	if err != nil {
		logger.Info.Printf("restricted query failed (expected in a provisioned sandbox): %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *HttpEndpoints) generateTraffic(c *gin.Context) {
	result, err := h.traffic.RunBatch()
	if err != nil {
		logger.Error.Printf("on-demand batch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"executed": result.Executed, "failed": result.Failed})
}

// HealthHandl reports process liveness and whether the background traffic
// generator is running.
func (h *HttpEndpoints) HealthHandl(c *gin.Context) {
	trafficState := "idle"
	if h.traffic.Active() {
		trafficState = "active"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "trafficGenerator": trafficState})
}
