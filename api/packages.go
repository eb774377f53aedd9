package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/pkgsel/pkgsel/catalog"
	"github.com/pkgsel/pkgsel/query"
)

// selectRecords runs query from request parameters against the catalog
//
// Error is already attached to the request when returned.
func selectRecords(c *gin.Context) (*catalog.RecordList, error) {
	list, err := context.Catalog()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return nil, err
	}

	mode := context.MatchMode()
	if regex, ok := c.GetQuery("regex"); ok {
		mode = catalog.Exact
		if truthy(regex) {
			mode = catalog.RegexPrefix
		}
	}

	q := c.Query("q")
	result, err := catalog.Select(list, q, catalog.NewEvaluator(mode, context.FileIndex()), context.Workers())
	if err != nil {
		var syntaxErr *query.SyntaxError
		if errors.As(err, &syntaxErr) {
			queryEvaluations.WithLabelValues("syntax_error").Inc()
			c.AbortWithError(http.StatusBadRequest, err).SetMeta(gin.H{"column": syntaxErr.Column})
			return nil, err
		}
		queryEvaluations.WithLabelValues("invalid").Inc()
		c.AbortWithError(http.StatusBadRequest, err)
		return nil, err
	}

	queryEvaluations.WithLabelValues("ok").Inc()
	return result, nil
}

// GET /api/packages?q=<query>&regex=1&format=details
func apiPackages(c *gin.Context) {
	result, err := selectRecords(c)
	if err != nil {
		return
	}

	if c.Query("format") == "details" {
		c.JSON(200, result.Records())
		return
	}

	c.JSON(200, result.Names())
}

// GET /api/packages/:name
func apiPackagesShow(c *gin.Context) {
	list, err := context.Catalog()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	record := list.ByName(c.Params.ByName("name"))
	if record == nil {
		c.AbortWithError(http.StatusNotFound, errors.Errorf("package %s not found", c.Params.ByName("name")))
		return
	}

	c.JSON(200, record)
}

// GET /api/files/:name
func apiFilesShow(c *gin.Context) {
	name := c.Params.ByName("name")

	list, err := context.Catalog()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if list.ByName(name) == nil {
		c.AbortWithError(http.StatusNotFound, errors.Errorf("package %s not found", name))
		return
	}

	files := context.FileIndex().Files(name)
	if files == nil {
		files = []string{}
	}
	c.JSON(200, files)
}
