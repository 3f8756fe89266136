// Package docs DevLink API
//
// @title  DevLink API
// @version 0.1.0
// @description Developer profiles, posts and live feed updates.
// @host      localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package docs

import (
	_ "devlink/cmd/server/handlers/httperr"
	_ "devlink/internal/services/auth"
	_ "devlink/internal/services/posts"
	_ "devlink/internal/services/profiles"
)
