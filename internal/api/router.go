package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aegisid/identity-service/internal/api/handler"
	"github.com/aegisid/identity-service/internal/api/middleware"
	"github.com/aegisid/identity-service/internal/core/ports"
)

// Permissions gating the administrative surface.
const (
	permUsersRead   = "users.read"
	permUsersManage = "users.manage"
	permRolesManage = "roles.manage"
)

// Dependencies carries everything the router needs; construction of the
// services happens in main.
type Dependencies struct {
	Auth      ports.AuthService
	Identity  ports.IdentityService
	Roles     ports.RoleService
	Validator ports.JwtValidator
	Blacklist ports.TokenBlacklist
	Mongo     *mongo.Database
	Redis     *redis.Client
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	accountHandler := handler.NewAccountHandler(deps.Identity)
	adminHandler := handler.NewAdminHandler(deps.Identity, deps.Roles)

	authn := middleware.Auth(deps.Validator, deps.Blacklist)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Self-service routes ---
	me := e.Group("/users/me", authn)
	me.GET("", accountHandler.Me)
	me.PUT("/password", accountHandler.ChangePassword)

	// --- Administrative routes ---
	admin := e.Group("/admin", authn)
	admin.GET("/users/:id", adminHandler.GetUser, middleware.RequirePermission(deps.Identity, permUsersRead))

	userAdmin := middleware.RequirePermission(deps.Identity, permUsersManage)
	admin.POST("/users/:id/roles", adminHandler.AssignRoles, userAdmin)
	admin.DELETE("/users/:id/roles", adminHandler.RemoveRoles, userAdmin)
	admin.PUT("/users/:id/activation", adminHandler.SetActivation, userAdmin)
	admin.POST("/users/:id/password-reset", adminHandler.ResetPassword, userAdmin)

	roleAdmin := middleware.RequirePermission(deps.Identity, permRolesManage)
	admin.POST("/roles", adminHandler.CreateRole, roleAdmin)
	admin.GET("/roles", adminHandler.ListRoles, roleAdmin)
	admin.POST("/roles/:id/permissions", adminHandler.AddPermissions, roleAdmin)
	admin.DELETE("/roles/:id/permissions", adminHandler.RemovePermissions, roleAdmin)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
