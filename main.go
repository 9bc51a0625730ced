package main

import "muniplan/internal/app"

// @title           MuniPlan API
// @version         1.0
// @description     Municipal project planning: tasks, shared resources and cross-project conflict analysis.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
