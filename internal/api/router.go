package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/leminhha/salespipe/internal/app"
	iauth "github.com/leminhha/salespipe/internal/auth"
	"github.com/leminhha/salespipe/internal/handlers"
	"github.com/leminhha/salespipe/internal/middleware"
	"github.com/leminhha/salespipe/internal/permissions"
	"github.com/leminhha/salespipe/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(db *gorm.DB, tokens *iauth.TokenService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	resolver := permissions.NewResolver(cfg.IdentityPolicy())

	principalResolver, err := iauth.NewPrincipalResolver(db, tokens)
	if err != nil {
		return nil, err
	}

	auditService, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	roleService, err := services.NewRoleService(db, auditService)
	if err != nil {
		return nil, err
	}
	userService, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}

	cookies := iauth.CookieConfig{
		Domain: cfg.Auth.Cookie.Domain,
		Secure: cfg.Auth.Cookie.Secure,
		MaxAge: cfg.Auth.SessionTTL,
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Public endpoints
	r.GET("/health", handlers.Health(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(userService, tokens, resolver, cookies)

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	requireAuth := middleware.RequireAuthenticated(principalResolver)

	api := r.Group("/api")
	api.Use(requireAuth)

	api.GET("/auth/me", authHandler.Me)

	// Permission catalog
	permHandler := handlers.NewPermissionHandler(db)
	api.GET("/permissions",
		middleware.RequirePermission(resolver, permissions.ResourceRoles, permissions.ActionView),
		permHandler.List)

	// Audit trail, reserved for SUPERADMIN regardless of identity policy
	auditHandler := handlers.NewAuditHandler(auditService)
	api.GET("/audit",
		middleware.RequireRole(permissions.RoleSuperAdmin),
		auditHandler.List)

	// Custom role management
	roleHandler := handlers.NewRoleHandler(roleService)
	roles := api.Group("/roles")
	{
		roles.GET("", middleware.RequirePermission(resolver, permissions.ResourceRoles, permissions.ActionView), roleHandler.List)
		roles.GET("/:id", middleware.RequirePermission(resolver, permissions.ResourceRoles, permissions.ActionView), roleHandler.Get)
		roles.POST("", middleware.RequirePermission(resolver, permissions.ResourceRoles, permissions.ActionCreate), roleHandler.Create)
		roles.PATCH("/:id", middleware.RequirePermission(resolver, permissions.ResourceRoles, permissions.ActionEdit), roleHandler.Update)
		roles.PUT("/:id/permissions", middleware.RequirePermission(resolver, permissions.ResourceRoles, permissions.ActionEdit), roleHandler.ReplacePermissions)
		roles.PATCH("/:id/active", middleware.RequirePermission(resolver, permissions.ResourceRoles, permissions.ActionEdit), roleHandler.SetActive)
		roles.DELETE("/:id", middleware.RequirePermission(resolver, permissions.ResourceRoles, permissions.ActionDelete), roleHandler.Delete)
	}

	return r, nil
}
