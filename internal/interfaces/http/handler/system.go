package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves liveness and the API index
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	index     map[string]string
}

// NewSystemHandler creates a SystemHandler. index maps each domain to the
// path of its collection group.
func NewSystemHandler(name, version string, index map[string]string) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		index:     index,
	}
}

// LivenessResponse reports that the process serves requests
type LivenessResponse struct {
	Status    string `json:"status"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Health answers liveness probes without touching dependencies
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, LivenessResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Index lists the domain groups of the API
// GET /api/v1/
func (h *SystemHandler) Index(c *gin.Context) {
	h.Success(c, h.index)
}
