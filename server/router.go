package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exvulsec/rugscope/http/controller"
	"github.com/exvulsec/rugscope/metrics"
	"github.com/exvulsec/rugscope/middleware"
	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

type healthResponse struct {
	Status string        `json:"status"`
	Uptime string        `json:"uptime"`
	Chains []utils.Chain `json:"chains"`
}

func addRouters(r *gin.Engine, apiKey string, controllers []controller.Controller) {
	r.Use(middleware.RequestMetrics())
	addHealthRouter(r, time.Now())
	r.GET("/metrics", metrics.Handler())

	apiV1 := r.Group("/api/v1", middleware.CheckAPIKEY(apiKey))
	for _, ctrl := range controllers {
		ctrl.Routers(apiV1)
	}
}

func addHealthRouter(r gin.IRouter, startedAt time.Time) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.NewMessage(http.StatusOK, "", healthResponse{
			Status: "ok",
			Uptime: utils.FormatElapsed(time.Since(startedAt)),
			Chains: utils.SupportedChains(),
		}))
	})
}
