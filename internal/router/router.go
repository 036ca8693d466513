package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/property-rental/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/property-rental/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /auth, while
// the profile endpoint requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login,
	// refresh and logout.  Each handler generates or exchanges tokens.
	g := e.Group("/auth")
	// Register a POST endpoint to handle user registration at /auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to rotate refresh tokens at /auth/refresh.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a JSON body containing the refresh token and revokes it;
	// it does not require a JWT since the access token simply ages out.
	g.POST("/logout", a.Logout)

	// The profile endpoint requires a valid access token of either role.
	auth := e.Group("",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("guest", "host"),
	)
	// Register a GET endpoint at /me that returns the authenticated user's information.
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The browse list sits behind the Redis response cache when
// one is configured; cacheMW may be nil when caching is disabled.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheMW echo.MiddlewareFunc) {
	if cacheMW != nil {
		// Cache only the full browse list; detail and review reads stay live.
		e.GET("/properties", p.ListProperties, cacheMW)
	} else {
		e.GET("/properties", p.ListProperties)
	}
	// Fetch a single listing by ID.
	e.GET("/properties/:id", p.GetProperty)
	// List reviews left against a listing.
	e.GET("/properties/:id/reviews", p.ListPropertyReviews)
}
