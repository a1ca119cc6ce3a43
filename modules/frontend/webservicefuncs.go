package frontend

import (
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/uriscope/uriscope/modules/sparql"
	"github.com/uriscope/uriscope/modules/version"
	"github.com/uriscope/uriscope/modules/view"
)

// pageOrigin reconstructs the scheme+host the request arrived on; the
// dual-mode link rules compare it against the entity namespace.
func pageOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + c.Request.Host
}

// requestPath returns the resource path a handler should resolve: the
// explicit path query parameter.
func requestPath(c *gin.Context) string {
	return c.Query("path")
}

func AddUIEndpoints(ws *WebService) {
	ws.Router.GET("health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	ws.API.GET("prefixes", func(c *gin.Context) {
		c.JSON(200, ws.Viewer.Prefixes.Entries())
	})

	ws.API.GET("backend/statistics", func(c *gin.Context) {
		var result struct {
			Uriscope map[string]string `json:"uriscope"`
		}
		result.Uriscope = make(map[string]string)
		result.Uriscope["shortversion"] = version.VersionStringShort()
		result.Uriscope["program"] = version.Program
		result.Uriscope["version"] = version.Version
		result.Uriscope["commit"] = version.Commit
		result.Uriscope["endpoint"] = ws.Viewer.Client.Endpoint
		result.Uriscope["namespace"] = ws.Viewer.Namespace

		c.JSON(200, result)
	})
}

func AddResourceEndpoints(ws *WebService) {
	ws.API.GET("resource", func(c *gin.Context) {
		session := ws.Viewer.NewSession(pageOrigin(c), ws.progressNotifier(requestPath(c)))
		page, err := session.Load(c.Request.Context(), requestPath(c))
		if err != nil {
			c.String(view.StatusFor(err), err.Error())
			return
		}
		data, _ := qjson.Marshal(page)
		c.Data(200, "application/json; charset=utf-8", data)
	})

	ws.API.GET("geometry", func(c *gin.Context) {
		session := ws.Viewer.NewSession(pageOrigin(c), nil)
		page, err := session.Load(c.Request.Context(), requestPath(c))
		if err != nil {
			c.String(view.StatusFor(err), err.Error())
			return
		}
		if page.Geometry == nil {
			c.String(http.StatusNotFound, "resource has no geometry")
			return
		}
		data, _ := qjson.Marshal(page.Geometry)
		c.Data(200, "application/json; charset=utf-8", data)
	})

	ws.API.GET("related", func(c *gin.Context) {
		session := ws.Viewer.NewSession(pageOrigin(c), nil)
		page, err := session.Load(c.Request.Context(), requestPath(c))
		if err != nil {
			c.String(view.StatusFor(err), err.Error())
			return
		}
		data, _ := qjson.Marshal(page.Related)
		c.Data(200, "application/json; charset=utf-8", data)
	})

	ws.API.GET("graph", func(c *gin.Context) {
		session := ws.Viewer.NewSession(pageOrigin(c), nil)
		if _, err := session.Load(c.Request.Context(), requestPath(c)); err != nil {
			c.String(view.StatusFor(err), err.Error())
			return
		}
		data, _ := qjson.Marshal(session.GraphData())
		c.Data(200, "application/json; charset=utf-8", data)
	})

	ws.API.GET("raw", func(c *gin.Context) {
		format := c.DefaultQuery("format", "ntriples")
		accept, ok := sparql.RawFormats[format]
		if !ok {
			c.String(http.StatusBadRequest, "unknown format %v", format)
			return
		}

		session := ws.Viewer.NewSession(pageOrigin(c), nil)
		uri, err := session.Resolve(requestPath(c))
		if err != nil {
			c.String(view.StatusFor(err), err.Error())
			return
		}

		body, contenttype, err := ws.Viewer.Client.DescribeAs(c.Request.Context(), uri, accept)
		if err != nil {
			c.String(view.StatusFor(err), err.Error())
			return
		}
		if contenttype == "" {
			contenttype = accept
		}
		c.Header("Content-Disposition", `attachment; filename="resource.`+rawExtensions[format]+`"`)
		c.Data(200, contenttype, body)
	})
}

var rawExtensions = map[string]string{
	"ntriples": "nt",
	"turtle":   "ttl",
	"rdfxml":   "rdf",
	"jsonld":   "jsonld",
}

// debugfuncs exposes process internals when running at debug loglevel.
func debugfuncs(ws *WebService) {
	ws.Router.GET("/debug/statistics", func(c *gin.Context) {
		stats := gin.H{
			"goroutines": runtime.NumGoroutine(),
		}
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		stats["heap_alloc"] = ms.HeapAlloc
		stats["gc_runs"] = ms.NumGC

		if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
			if mem, err := proc.MemoryInfo(); err == nil {
				stats["rss"] = mem.RSS
			}
			if cpu, err := proc.CPUPercent(); err == nil {
				stats["cpu_percent"] = cpu
			}
		}
		c.JSON(200, stats)
	})

	ws.Router.GET("/debug/queries", func(c *gin.Context) {
		uri := strings.TrimSpace(c.Query("uri"))
		if uri == "" {
			c.String(http.StatusBadRequest, "need uri parameter")
			return
		}
		c.JSON(200, gin.H{
			"describe": sparql.DescribeQuery(uri),
		})
	})
}

