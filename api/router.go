package api

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	ctx "github.com/pkgsel/pkgsel/context"
	"github.com/pkgsel/pkgsel/pkgsel"
	"github.com/pkgsel/pkgsel/utils"
)

var context *ctx.PkgselContext

func apiMetricsGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		countRecordsByRepo()
		promhttp.Handler().ServeHTTP(c.Writer, c.Request)
	}
}

// Router returns prebuilt with routes http.Handler
func Router(c *ctx.PkgselContext) http.Handler {
	if pkgsel.EnableDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	context = c

	router.UseRawPath = true

	if c.Config().LogFormat == "json" {
		utils.SetupJSONLogger(c.Config().LogLevel, os.Stdout)
		gin.DefaultWriter = utils.LogWriter{Logger: log.Logger}
		router.Use(JSONLogger())
	} else {
		router.Use(gin.Logger())
	}

	router.Use(gin.Recovery(), gin.ErrorLogger())

	if c.Config().EnableMetricsEndpoint {
		MetricsCollectorRegistrar.Register(router)
		router.GET("/metrics", apiMetricsGet())
	}

	api := router.Group("/api")

	{
		api.GET("/version", apiVersion)
	}

	{
		api.GET("/packages", apiPackages)
		api.GET("/packages/:name", apiPackagesShow)
		api.GET("/files/:name", apiFilesShow)
	}

	{
		api.GET("/graph.:ext", apiGraph)
	}

	return router
}
