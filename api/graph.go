package api

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"os"
	"os/exec"

	"github.com/gin-gonic/gin"

	"github.com/pkgsel/pkgsel/catalog"
)

// GET /api/graph.:ext?q=<query>&layout=horizontal|vertical
func apiGraph(c *gin.Context) {
	var (
		err    error
		output []byte
	)

	ext := c.Params.ByName("ext")
	layout := c.Request.URL.Query().Get("layout")

	result, err := selectRecords(c)
	if err != nil {
		return
	}

	graph, err := catalog.BuildGraph(result, layout)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if ext == "dot" || ext == "gv" {
		c.Data(200, "text/vnd.graphviz", []byte(graph.String()))
		return
	}

	command := exec.Command("dot", "-T"+ext)
	command.Stdin = bytes.NewBufferString(graph.String())
	command.Stderr = os.Stderr

	output, err = command.Output()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, fmt.Errorf("unable to execute dot: %s (is graphviz package installed?)", err))
		return
	}

	mimeType := mime.TypeByExtension("." + ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	c.Data(200, mimeType, output)
}
