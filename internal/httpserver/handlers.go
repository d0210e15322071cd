package httpserver

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kisaanlabs/kisaan-mitra/internal/agent"
	"github.com/kisaanlabs/kisaan-mitra/internal/bridge"
)

// advisoryTimeout bounds a single weather advisory run, tool rounds included.
const advisoryTimeout = 20 * time.Second

// AdvisoryRunner produces a one-shot answer from an agent definition.
type AdvisoryRunner interface {
	Run(ctx context.Context, def *agent.Agent, userText string) (string, error)
}

type Handlers struct {
	Bridge *bridge.Handler
	Runner AdvisoryRunner
	// KisaanInfo is the agent behind POST /kisaan_info/weather.
	KisaanInfo *agent.Agent
	StaticDir  string
}

func NewHandlers(b *bridge.Handler, runner AdvisoryRunner, kisaanInfo *agent.Agent, staticDir string) Handlers {
	return Handlers{Bridge: b, Runner: runner, KisaanInfo: kisaanInfo, StaticDir: staticDir}
}

func (h Handlers) Register(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/ws/:user_id", h.ws)
	e.POST("/kisaan_info/weather", h.weatherAdvisory)
	if h.StaticDir != "" {
		e.Static("/static", h.StaticDir)
		e.File("/", h.StaticDir+"/index.html")
	}
}

func (h Handlers) ws(c echo.Context) error {
	userID := c.Param("user_id")
	if userID == "" {
		return c.String(http.StatusBadRequest, "missing user id")
	}
	audio := c.QueryParam("is_audio") == "true"
	if err := h.Bridge.ServeWS(c.Response(), c.Request(), userID, audio); err != nil {
		// The socket is hijacked by now; nothing useful left to write.
		log.Printf("bridge session for %s ended with error: %v", userID, err)
	}
	return nil
}

type weatherAdvisoryRequest struct {
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
	Days int      `json:"days"`
}

type weatherAdvisoryResponse struct {
	Summary string `json:"summary"`
}

func (h Handlers) weatherAdvisory(c echo.Context) error {
	var req weatherAdvisoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if req.Lat == nil || req.Lon == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "lat and lon are required"})
	}
	days := req.Days
	if days <= 0 {
		days = 7
	}

	prompt := fmt.Sprintf(
		"Provide a farming weather advisory for the location at latitude %.4f, longitude %.4f covering the next %d days.",
		*req.Lat, *req.Lon, days)

	ctx, cancel := context.WithTimeout(c.Request().Context(), advisoryTimeout)
	defer cancel()
	summary, err := h.Runner.Run(ctx, h.KisaanInfo, prompt)
	if err != nil {
		log.Printf("weather advisory run failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "advisory generation failed"})
	}
	return c.JSON(http.StatusOK, weatherAdvisoryResponse{Summary: summary})
}
