package api

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mkamau/tender-radar/internal/auth"
	"github.com/mkamau/tender-radar/internal/db"
	"github.com/mkamau/tender-radar/internal/ingest"
	"github.com/mkamau/tender-radar/internal/match"
	"github.com/mkamau/tender-radar/internal/models"
)

const urgentWindow = 14 * 24 * time.Hour

type Server struct {
	Store       *db.Store
	AuthService *auth.Service
	Echo        *echo.Echo
	DB          *pgxpool.Pool
	Pipeline    *ingest.Pipeline
	Profile     *match.Profile
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(pool *pgxpool.Pool, registry *ingest.Registry, profile *match.Profile) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	store := db.NewStore(pool)

	s := &Server{
		DB:          pool,
		Store:       store,
		AuthService: auth.NewService(store),
		Echo:        e,
		Pipeline:    ingest.NewPipeline(pool, registry, profile),
		Profile:     profile,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")

	// Stateless scoring of a caller-supplied batch
	api.POST("/match", s.handleMatchBatch)

	// Stored corpus
	api.GET("/matches", s.handleListMatches)
	api.GET("/opportunities", s.handleListOpportunities)
	api.GET("/opportunities/:id", s.handleGetOpportunity)
	api.GET("/sources", s.handleGetSources)
	api.GET("/stats", s.handleGetStats)

	// Admin routes
	admin := api.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/ingest/source/:id", s.handleIngestSource)
	admin.POST("/ingest/all", s.handleIngestAll)
	admin.GET("/admin/runs", s.handleListRuns)

	// Auth routes
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	// Protected routes (tracked opportunities)
	tracked := api.Group("/tracked")
	tracked.Use(auth.Middleware)
	tracked.POST("/:id", s.handleTrackOpportunity)
	tracked.DELETE("/:id", s.handleUntrackOpportunity)
	tracked.GET("", s.handleListTracked)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// matchView decorates a scored opportunity with display fields so clients
// do not reimplement deadline math or currency formatting.
type matchView struct {
	match.MatchedOpportunity
	ValueDisplay      string `json:"value_display"`
	DaysUntilDeadline int    `json:"days_until_deadline"`
	Urgent            bool   `json:"urgent"`
}

type matchBatchRequest struct {
	Opportunities []match.RawOpportunity `json:"opportunities"`
}

type matchBatchResponse struct {
	Matches []matchView      `json:"matches"`
	Summary match.BatchStats `json:"summary"`
}

func (s *Server) handleMatchBatch(c echo.Context) error {
	var req matchBatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if len(req.Opportunities) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No opportunities provided"})
	}

	now := time.Now()
	deduped := match.Dedupe(req.Opportunities)
	ranked := match.RankBatch(deduped, s.Profile)
	summary := match.Summarize(ranked, len(req.Opportunities), now)

	views := make([]matchView, 0, len(ranked))
	for _, m := range ranked {
		views = append(views, newMatchView(m, now))
	}

	return c.JSON(http.StatusOK, matchBatchResponse{Matches: views, Summary: summary})
}

func newMatchView(m match.MatchedOpportunity, now time.Time) matchView {
	days := match.DaysUntilDeadline(m.Deadline, now)
	return matchView{
		MatchedOpportunity: m,
		ValueDisplay:       match.FormatValue(m.Value, m.Currency),
		DaysUntilDeadline:  days,
		Urgent:             days > 0 && days <= 14 && match.IsDeadlineValid(m.Deadline, now),
	}
}

// storedView mirrors matchView for opportunities read back from the store.
type storedView struct {
	models.Opportunity
	ValueDisplay      string `json:"value_display"`
	DaysUntilDeadline int    `json:"days_until_deadline"`
	Urgent            bool   `json:"urgent"`
}

func newStoredView(o models.Opportunity, now time.Time) storedView {
	days := match.DaysUntilDeadline(o.DeadlineRaw, now)
	return storedView{
		Opportunity:       o,
		ValueDisplay:      match.FormatValue(o.Value, o.Currency),
		DaysUntilDeadline: days,
		Urgent:            days > 0 && days <= 14 && match.IsDeadlineValid(o.DeadlineRaw, now),
	}
}

func (s *Server) handleListMatches(c echo.Context) error {
	params := s.listParams(c)
	params.MatchedOnly = true

	result, err := s.Store.ListOpportunities(c.Request().Context(), params)
	if err != nil {
		c.Logger().Errorf("Failed to list matches: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	now := time.Now()
	views := make([]storedView, 0, len(result.Opportunities))
	for _, o := range result.Opportunities {
		views = append(views, newStoredView(o, now))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"matches": views,
		"total":   result.Total,
		"limit":   result.Limit,
		"offset":  result.Offset,
	})
}

func (s *Server) listParams(c echo.Context) db.ListParams {
	params := db.ListParams{
		Query:    c.QueryParam("q"),
		Source:   c.QueryParam("source"),
		Priority: c.QueryParam("priority"),
		SortBy:   c.QueryParam("sort"),
		Limit:    20,
	}
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		params.Limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o >= 0 {
		params.Offset = o
	}
	if d, err := strconv.Atoi(c.QueryParam("deadline_days")); err == nil && d > 0 {
		params.DeadlineDays = d
	}
	return params
}

func (s *Server) handleListOpportunities(c echo.Context) error {
	result, err := s.Store.ListOpportunities(c.Request().Context(), s.listParams(c))
	if err != nil {
		c.Logger().Errorf("Failed to list opportunities: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetOpportunity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid opportunity ID"})
	}

	opp, err := s.Store.GetOpportunity(c.Request().Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, newStoredView(opp, time.Now()))
}

func (s *Server) handleGetSources(c echo.Context) error {
	type sourceView struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Strategy    string `json:"strategy"`
		Schedule    string `json:"schedule,omitempty"`
		Description string `json:"description,omitempty"`
	}

	sources := make([]sourceView, 0, len(s.Pipeline.Registry.Sources))
	for _, src := range s.Pipeline.Registry.Sources {
		sources = append(sources, sourceView{
			ID:          src.ID,
			Name:        src.Name,
			Strategy:    src.Strategy,
			Schedule:    src.Schedule,
			Description: src.Description,
		})
	}
	return c.JSON(http.StatusOK, sources)
}

func (s *Server) handleGetStats(c echo.Context) error {
	stats, err := s.Store.GetStats(c.Request().Context(), urgentWindow)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleIngestSource(c echo.Context) error {
	sourceID := c.Param("id")
	stats, err := s.Pipeline.IngestSource(c.Request().Context(), sourceID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
			"stats": stats,
		})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleIngestAll(c echo.Context) error {
	results := s.Pipeline.IngestAll(c.Request().Context())
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleListRuns(c echo.Context) error {
	limit := 20
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 {
		limit = l
	}

	runs, err := s.Store.ListIngestRuns(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, runs)
}

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCreds) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleTrackOpportunity(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	oppID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid opportunity ID"})
	}

	var body struct {
		Note string `json:"note"`
	}
	_ = c.Bind(&body)

	if err := s.Store.TrackOpportunity(c.Request().Context(), userID, oppID, body.Note); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleUntrackOpportunity(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	oppID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid opportunity ID"})
	}

	if err := s.Store.UntrackOpportunity(c.Request().Context(), userID, oppID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListTracked(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	opps, err := s.Store.ListTracked(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	now := time.Now()
	views := make([]storedView, 0, len(opps))
	for _, o := range opps {
		views = append(views, newStoredView(o, now))
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		// Check X-Admin-Secret header or Bearer token
		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
