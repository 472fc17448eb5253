package router

import (
	"github.com/gin-gonic/gin"
	"github.com/propertyhub/backend/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers served by the API
type Handlers struct {
	Tenants  *handler.TenantHandler
	Presets  *handler.PresetHandler
	Sessions *handler.SessionHandler
	Access   *handler.AccessHandler
	System   *handler.SystemHandler
}

// Guards are the route-level middleware. Any of them may be nil.
type Guards struct {
	// Auth authenticates staff through a bearer token
	Auth gin.HandlerFunc
	// Admin restricts a route to the admin role; runs after Auth
	Admin gin.HandlerFunc
	// Idempotency rejects replays of destructive requests
	Idempotency gin.HandlerFunc
	// AccessLimit throttles the public onboarding access routes
	AccessLimit gin.HandlerFunc
}

// TenantRoutes mounts the tenant lifecycle endpoints
func TenantRoutes(h *handler.TenantHandler, g Guards) *DomainGroup {
	tenants := NewDomainGroup("/tenants").Use(g.Auth)
	tenants.GET("", h.List)
	tenants.GET("/:id", h.Get)
	tenants.GET("/:id/deletion-check", h.DeletionCheck)
	tenants.DELETE("/:id", g.Idempotency, h.Delete)
	tenants.POST("/:id/archive", h.Archive)
	tenants.POST("/:id/restore", h.Restore)
	return tenants
}

// OnboardingRoutes mounts presets and sessions for staff, and the access
// link endpoints for prospects
func OnboardingRoutes(presets *handler.PresetHandler, sessions *handler.SessionHandler, access *handler.AccessHandler, g Guards) *DomainGroup {
	onboarding := NewDomainGroup("/onboarding")

	p := onboarding.Group("/presets").Use(g.Auth)
	p.GET("", presets.List)
	p.POST("", presets.Create)
	p.POST("/seed", g.Admin, presets.Seed)
	p.GET("/:id", presets.Get)
	p.PUT("/:id", presets.Update)
	p.DELETE("/:id", g.Admin, presets.Delete)
	p.POST("/:id/duplicate", presets.Duplicate)

	s := onboarding.Group("/sessions").Use(g.Auth)
	s.POST("", sessions.Start)
	s.GET("/:id", sessions.Get)
	s.POST("/:id/steps/:step/complete", sessions.CompleteStep)
	s.POST("/:id/complete", sessions.Complete)
	s.POST("/:id/cancel", sessions.Cancel)
	s.POST("/:id/regenerate-link", sessions.RegenerateLink)
	s.POST("/:id/link-tenant", sessions.LinkTenant)
	s.POST("/:id/invite", sessions.Invite)
	s.GET("/:id/fees", sessions.Fees)

	a := onboarding.Group("/access").Use(g.AccessLimit)
	a.GET("/:token", access.Get)
	a.POST("/:token/otp", access.RequestOTP)
	a.POST("/:token/otp/verify", access.VerifyOTP)

	return onboarding
}

// SystemRoutes mounts the unauthenticated system endpoints
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	system := NewDomainGroup("/system")
	system.GET("/info", h.GetSystemInfo)
	return system
}

// Mount registers every API route on the engine. /health stays outside the
// versioned prefix for load balancers.
func Mount(engine *gin.Engine, h Handlers, g Guards, opts ...RouterOption) *Router {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, opts...)
	r.Register(
		TenantRoutes(h.Tenants, g),
		OnboardingRoutes(h.Presets, h.Sessions, h.Access, g),
		SystemRoutes(h.System),
	).Setup()
	return r
}
