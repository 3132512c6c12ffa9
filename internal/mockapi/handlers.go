package mockapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"menu-admin/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// createRequest covers both shapes accepted by POST /menus: a menu ({name}) or
// an item ({name, menuId, parentId, depth, order}).
type createRequest struct {
	Name     string  `json:"name"`
	MenuID   *string `json:"menuId"`
	ParentID *string `json:"parentId"`
	Depth    int     `json:"depth"`
	Order    int     `json:"order"`
}

type handlers struct {
	mem *Memory
	log *zap.Logger
}

// NewRouter wires the API routes plus /health and /metrics.
func NewRouter(mem *Memory, log *zap.Logger, reg *prometheus.Registry) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	requests := newRequestCounter(reg)

	h := &handlers{mem: mem, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log, requests))

	r.GET("/health", h.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/menus", h.handleList)
	r.POST("/menus", h.handleCreate)
	r.PUT("/menus/:id", h.handleRename)
	r.DELETE("/menus/:id", h.handleDelete)
	return r
}

func (h *handlers) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) handleList(c *gin.Context) {
	c.JSON(http.StatusOK, h.mem.Menus())
}

func (h *handlers) handleCreate(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid json: " + err.Error()})
		return
	}

	if req.MenuID == nil {
		in := model.NewMenu{Name: req.Name}
		if err := model.Validate(in); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusCreated, h.mem.CreateMenu(in))
		return
	}

	in := model.NewMenuItem{
		Name:     req.Name,
		MenuID:   *req.MenuID,
		ParentID: req.ParentID,
		Depth:    req.Depth,
		Order:    req.Order,
	}
	if err := model.Validate(in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	it, err := h.mem.AddItem(in)
	switch {
	case errors.Is(err, errMenuNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, errParentNotFound):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (h *handlers) handleRename(c *gin.Context) {
	var in model.ItemRename
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid json: " + err.Error()})
		return
	}
	if err := model.Validate(in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	it, err := h.mem.RenameItem(c.Param("id"), in.Name)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *handlers) handleDelete(c *gin.Context) {
	id := c.Param("id")
	if err := h.mem.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func newRequestCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "menu_admin_mock_api_requests_total",
		Help: "Requests served by the mock menus API.",
	}, []string{"method", "route", "status"})
	reg.MustRegister(vec)
	return vec
}

func requestLogger(log *zap.Logger, requests *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("took", time.Since(start)),
		)
	}
}
