package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/conservancy/internal/bootstrap"
	"github.com/alexisbeaulieu97/conservancy/internal/cachetags"
	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/events"
)

// HeaderRevalidateSecret authenticates revalidation calls.
const HeaderRevalidateSecret = "X-Revalidate-Secret"

// Revalidation outcomes, also used as metric labels.
const (
	revalidateAccepted     = "accepted"
	revalidateUnauthorized = "unauthorized"
	revalidateInvalid      = "invalid"
	revalidateDisabled     = "disabled"
)

var bindingsOnce sync.Once

// registerBindings teaches gin's validator the appearance enumerations.
func registerBindings() {
	bindingsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("theme_mode", func(fl validator.FieldLevel) bool {
			return appearance.ThemeMode(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("palette_mode", func(fl validator.FieldLevel) bool {
			return appearance.PaletteMode(fl.Field().String()).Valid()
		})
	})
}

type appearanceRequest struct {
	Theme   string `json:"theme" binding:"omitempty,theme_mode"`
	Palette string `json:"palette" binding:"omitempty,palette_mode"`
}

type revalidateRequest struct {
	Type string `json:"type" binding:"required"`
	Slug string `json:"slug"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) home(c *gin.Context) {
	actx := Appearance(c)
	state := actx.State()

	if c.GetBool(fallbackKey) {
		cookie.Write(c.Writer, state)
	}

	script := bootstrap.Script(state)
	c.Header("Content-Security-Policy", contentSecurityPolicy(bootstrap.Hash(script)))
	c.Header("Vary", "Cookie")
	c.Header(cachetags.HeaderName, cachetags.Header(append(cachetags.Tags(cachetags.ContentPage, "home"), cachetags.TagAll)...))
	c.Header("Cache-Control", cachetags.CacheControl(s.cachePolicy()))

	c.HTML(http.StatusOK, pageTemplateName, newPageData(s.cfg.Site.Name, state, script))
}

func (s *Server) tokens(c *gin.Context) {
	c.Header(cachetags.HeaderName, cachetags.Header(append(cachetags.Tags(cachetags.ContentSiteSettings, "tokens"), cachetags.TagAll)...))
	c.Header("Cache-Control", cachetags.CacheControl(s.cachePolicy()))
	c.Data(http.StatusOK, "text/css; charset=utf-8", s.stylesheet)
}

func (s *Server) getAppearance(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Vary", "Cookie")
	c.JSON(http.StatusOK, Appearance(c).State())
}

func (s *Server) putAppearance(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	var req appearanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Theme == "" && req.Palette == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "theme or palette is required"})
		return
	}

	ctx := c.Request.Context()
	actx := Appearance(c)
	if req.Theme != "" {
		if err := actx.Theme.Set(appearance.ThemeMode(req.Theme)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		_ = s.publisher.Publish(ctx, events.ThemeChanged(actx.Theme.Get(), actx.Theme.Resolved(), events.SourceAPI))
	}
	if req.Palette != "" {
		applied := actx.Palette.Set(appearance.PaletteMode(req.Palette))
		_ = s.publisher.Publish(ctx, events.PaletteChanged(applied, events.SourceAPI))
	}

	state := actx.State()
	s.logger.Info(ctx, "appearance updated",
		"theme", string(state.Theme),
		"resolved_theme", string(state.ResolvedTheme),
		"palette", string(state.Palette),
	)
	c.JSON(http.StatusOK, state)
}

func (s *Server) revalidate(c *gin.Context) {
	ctx := c.Request.Context()
	secret := s.cfg.Cache.RevalidateSecret
	if secret == "" {
		s.publishRevalidation(ctx, revalidateDisabled, nil)
		c.JSON(http.StatusNotFound, gin.H{"error": "revalidation is disabled"})
		return
	}

	given := c.GetHeader(HeaderRevalidateSecret)
	if subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
		s.publishRevalidation(ctx, revalidateUnauthorized, nil)
		s.logger.Warn(ctx, "revalidation rejected", "reason", "bad secret")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret"})
		return
	}

	var req revalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.publishRevalidation(ctx, revalidateInvalid, nil)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contentType, err := cachetags.ParseContentType(req.Type)
	if err != nil {
		s.publishRevalidation(ctx, revalidateInvalid, nil)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tags := cachetags.Tags(contentType, req.Slug)
	s.publishRevalidation(ctx, revalidateAccepted, tags)
	s.logger.Info(ctx, "revalidation accepted", "type", string(contentType), "slug", req.Slug, "tags", tags)
	c.JSON(http.StatusOK, gin.H{"revalidated": true, "tags": tags})
}

func (s *Server) publishRevalidation(ctx context.Context, result string, tags []string) {
	_ = s.publisher.Publish(ctx, events.CacheRevalidated(result, tags))
}
