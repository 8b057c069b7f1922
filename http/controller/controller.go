package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exvulsec/rugscope/middleware"
	"github.com/exvulsec/rugscope/model"
)

// Controller registers its routes on the given group.
type Controller interface {
	Routers(routers gin.IRouter)
}

// respond writes the envelope and records its code for request metrics.
func respond(c *gin.Context, code int, msg string, data any) {
	middleware.SetCode(c, code)
	c.JSON(http.StatusOK, model.NewMessage(code, msg, data))
}
