package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Only use base path as label value (e.g.: /api/packages) because of time series cardinality
// See https://prometheus.io/docs/practices/naming/#labels
func getBasePath(c *gin.Context) string {
	segment0, err := getURLSegment(c.Request.URL.Path, 0)
	if err != nil {
		return "/"
	}
	segment1, err := getURLSegment(c.Request.URL.Path, 1)
	if err != nil {
		return *segment0
	}

	return *segment0 + *segment1
}

func getURLSegment(url string, idx int) (*string, error) {
	urlSegments := strings.Split(url, "/")
	// Remove segment at index 0 because it's an empty string
	urlSegments = urlSegments[1:]

	if len(urlSegments) <= idx {
		return nil, fmt.Errorf("index %d out of range, only has %d url segments", idx, len(urlSegments))
	}

	s := fmt.Sprintf("/%s", urlSegments[idx])
	return &s, nil
}

func instrumentHandlerInFlight(g *prometheus.GaugeVec, pathFunc func(*gin.Context) string) func(*gin.Context) {
	return func(c *gin.Context) {
		g.WithLabelValues(c.Request.Method, pathFunc(c)).Inc()
		defer g.WithLabelValues(c.Request.Method, pathFunc(c)).Dec()
		c.Next()
	}
}

func instrumentHandlerCounter(counter *prometheus.CounterVec, pathFunc func(*gin.Context) string) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Next()
		counter.WithLabelValues(strconv.Itoa(c.Writer.Status()), c.Request.Method, pathFunc(c)).Inc()
	}
}

func instrumentHandlerResponseSize(obs prometheus.ObserverVec, pathFunc func(*gin.Context) string) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Next()
		var responseSize = math.Max(float64(c.Writer.Size()), 0)
		obs.WithLabelValues(strconv.Itoa(c.Writer.Status()), c.Request.Method, pathFunc(c)).Observe(responseSize)
	}
}

func instrumentHandlerDuration(obs prometheus.ObserverVec, pathFunc func(*gin.Context) string) func(*gin.Context) {
	return func(c *gin.Context) {
		now := time.Now()
		c.Next()
		obs.WithLabelValues(strconv.Itoa(c.Writer.Status()), c.Request.Method, pathFunc(c)).Observe(time.Since(now).Seconds())
	}
}

// JSONLogger is a gin middleware writing access logs via zerolog, including
// error messages if there are any.
func JSONLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		var event *zerolog.Event
		status := c.Writer.Status()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event.
			Str("remote", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("protocol", c.Request.Proto).
			Int("code", status).
			Dur("latency", time.Since(start)).
			Str("agent", c.Request.UserAgent()).
			Msg(strings.TrimSuffix(c.Errors.ByType(gin.ErrorTypePrivate).String(), "\n"))
	}
}
