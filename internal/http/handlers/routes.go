package handlers

import "github.com/gin-gonic/gin"

// Mount registers the list, detail, mutation, status and export routes of every entity.
func (h *Handlers) Mount(g *gin.RouterGroup, write gin.HandlerFunc) {
	h.departments().mount(g.Group("/departments"), write)
	h.roles().mount(g.Group("/roles"), write)
	h.users().mount(g.Group("/users"), write)

	inventory := g.Group("/inventory-items")
	h.inventory().mount(inventory, write)
	inventory.POST("/status", write, statusHandler(h.Svc.Inventory.UpdateStatus))

	supplies := g.Group("/supply-items")
	h.supplies().mount(supplies, write)
	supplies.POST("/status", write, statusHandler(h.Svc.Supplies.UpdateStatus))

	vehicles := g.Group("/vehicles")
	h.vehicles().mount(vehicles, write)
	vehicles.POST("/status", write, statusHandler(h.Svc.Vehicles.UpdateStatus))

	venues := g.Group("/venues")
	h.venues().mount(venues, write)
	venues.POST("/status", write, statusHandler(h.Svc.Venues.UpdateStatus))

	requests := g.Group("/requests")
	h.requests().mount(requests, write)
	requests.POST("/status", write, statusHandler(h.Svc.Requests.UpdateStatus))
	requests.GET("/:id/slip", h.GetRequestSlip)
}
