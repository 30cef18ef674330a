package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shhhinnovations/cryptokit/version"
)

// Version reports build version information.
func Version(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.Get()
		c.JSON(http.StatusOK, gin.H{
			"service":    serviceName,
			"version":    v.Version,
			"git_commit": v.GitCommit,
			"build_time": v.BuildTime,
			"go_version": v.GoVersion,
			"dirty":      v.Dirty,
			"release":    v.Release,
		})
	}
}
