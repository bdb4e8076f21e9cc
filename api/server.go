// Package api serves engine frames to renderer processes over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go-vj/debug"
	"go-vj/engine"
	"go-vj/surface"
)

// @title go-vj API
// @version 1.0
// @description Control surface values and rhythm clock for renderers
// @BasePath /api/v1

// Source is the engine side of the API.
type Source interface {
	Frame() engine.Frame
	TapTempo()
	Resync()
}

type ValueResponse struct {
	Key   string        `json:"key"`
	Type  string        `json:"type"`
	Value surface.Value `json:"value"`
}

type ValuesResponse struct {
	Seq    uint64                   `json:"seq"`
	Beat   float64                  `json:"beat"`
	Values map[string]surface.Value `json:"values"`
}

type FadersResponse struct {
	Faders [surface.NumFaders]float64 `json:"faders"`
	Gates  [surface.NumFaders]bool    `json:"gates"`
	Mode   string                     `json:"mode"`
}

// LEDsResponse lists the current page's pads by full address, plus the
// button rows.
type LEDsResponse struct {
	Page         int                              `json:"page"`
	Cells        []surface.LED                    `json:"cells"`
	PageSelect   [surface.NumPages]surface.Color  `json:"pageSelect"`
	FaderButtons [surface.NumFaders]surface.Color `json:"faderButtons"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

const shutdownTimeout = 3 * time.Second

// NewRouter builds the gin engine serving src.
func NewRouter(src Source) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), corsMiddleware())

	h := &handlers{src: src}

	// Health check
	r.GET("/health", h.health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.health)
		v1.GET("/frame", h.frame)
		v1.GET("/values", h.values)
		v1.GET("/values/:key", h.value)
		v1.GET("/faders", h.faders)
		v1.GET("/leds", h.leds)
		v1.POST("/tap", h.tap)
		v1.POST("/resync", h.resync)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// Serve runs the API on addr until ctx is done.
func Serve(ctx context.Context, addr string, src Source) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(src),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		debug.Log("api", "listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// requestLogger sends the access log to the debug log; gin's default logger
// would write over the monitor.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !debug.Enabled() {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		debug.LogEvery(100, "api", "%s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type handlers struct {
	src Source
}

// health godoc
// @Summary Health check endpoint
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "go-vj",
	})
}

// frame godoc
// @Summary Latest frame
// @Description Beat, tempo, values, faders and LEDs published by the last engine step
// @Tags frame
// @Produce json
// @Success 200 {object} engine.Frame
// @Router /frame [get]
func (h *handlers) frame(c *gin.Context) {
	c.JSON(http.StatusOK, h.src.Frame())
}

// values godoc
// @Summary All binding values
// @Tags values
// @Produce json
// @Success 200 {object} ValuesResponse
// @Router /values [get]
func (h *handlers) values(c *gin.Context) {
	f := h.src.Frame()
	c.JSON(http.StatusOK, ValuesResponse{Seq: f.Seq, Beat: f.Beat, Values: f.Values})
}

// value godoc
// @Summary One binding value
// @Tags values
// @Produce json
// @Param key path string true "Binding key"
// @Success 200 {object} ValueResponse
// @Failure 404 {object} ErrorResponse
// @Router /values/{key} [get]
func (h *handlers) value(c *gin.Context) {
	key := c.Param("key")
	v, ok := h.src.Frame().Values[key]
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown key " + key})
		return
	}
	c.JSON(http.StatusOK, ValueResponse{Key: key, Type: v.Type().String(), Value: v})
}

// faders godoc
// @Summary Fader outputs and gates
// @Tags faders
// @Produce json
// @Success 200 {object} FadersResponse
// @Router /faders [get]
func (h *handlers) faders(c *gin.Context) {
	f := h.src.Frame()
	c.JSON(http.StatusOK, FadersResponse{Faders: f.Faders, Gates: f.Gates, Mode: f.FaderMode})
}

// leds godoc
// @Summary Controller LED snapshot
// @Tags leds
// @Produce json
// @Success 200 {object} api.LEDsResponse
// @Router /leds [get]
func (h *handlers) leds(c *gin.Context) {
	s := h.src.Frame().LEDs
	c.JSON(http.StatusOK, LEDsResponse{
		Page:         s.Page,
		Cells:        s.Cells(),
		PageSelect:   s.PageSelect,
		FaderButtons: s.FaderButtons,
	})
}

// tap godoc
// @Summary Tap tempo
// @Description Queues a tempo tap; the new tempo shows up in the next frame
// @Tags clock
// @Produce json
// @Success 202 {object} map[string]string
// @Router /tap [post]
func (h *handlers) tap(c *gin.Context) {
	h.src.TapTempo()
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// resync godoc
// @Summary Jump to the next whole beat
// @Tags clock
// @Produce json
// @Success 202 {object} map[string]string
// @Router /resync [post]
func (h *handlers) resync(c *gin.Context) {
	h.src.Resync()
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
