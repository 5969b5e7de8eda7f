package main

import "eventmanagement/cmd/server/cmd"

// @title Event Management API
// @version 1.0
// @description Event lifecycle, registration and paid checkout for local events.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cmd.Execute()
}
