package main

import (
	"lost_and_found_tool/app"
	"lost_and_found_tool/routes"
)

func main() {
	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	application.Log.Infof("listening on :%s", application.Config.Port)
	if err := r.Run(":" + application.Config.Port); err != nil {
		application.Log.Fatalw("server failed", "error", err)
	}
}
