package frontend

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/uriscope/uriscope/modules/settings"
)

func AddPreferencesEndpoints(ws *WebService) {
	// Saved preferences
	preferences := ws.API.Group("preferences")

	preferences.GET("", func(c *gin.Context) {
		c.JSON(200, settings.All())
	})
	preferences.POST("", func(c *gin.Context) {
		var prefsmap = make(map[string]any)
		err := c.BindJSON(&prefsmap)
		if err != nil {
			c.String(500, err.Error())
			return
		}
		for key, value := range prefsmap {
			settings.Set(key, value)
		}
		settings.Save()
	})
	preferences.GET(":key", func(c *gin.Context) {
		key := c.Param("key")
		out, _ := json.Marshal(settings.Get(key))
		c.Writer.Write(out)
	})
	preferences.GET(":key/:value", func(c *gin.Context) {
		settings.Set(c.Param("key"), c.Param("value"))
		settings.Save()
	})
}
