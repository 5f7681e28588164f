package api

import "github.com/gin-gonic/gin"

// API is a group of HTTP endpoints mounted under a router group.
type API interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Mount registers every API under rg.
func Mount(rg *gin.RouterGroup, apis ...API) {
	for _, a := range apis {
		a.RegisterRoutes(rg)
	}
}
