package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gbarbosa/visionplan/internal/models"
)

// atrasoEvent holds data for an overdue-constraint SSE event.
type atrasoEvent struct {
	ID            string `json:"id"`
	Titulo        string `json:"titulo"`
	Prioridade    string `json:"prioridade"`
	ParalisarObra bool   `json:"paralisar_obra"`
	Total         int64  `json:"total"`
}

// handleSSE creates an SSE handler that polls for constraints newly flipped
// to ATRASADA and pushes one event per flip.
func handleSSE(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		// Send connected event.
		writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
		c.Writer.Flush()

		// If no DB, just send connected and return — tests use nil DB.
		if db == nil {
			return
		}

		empresaID := c.Query("empresa_id")

		// Snapshot the already-overdue set so only NEW flips fire events.
		seen := map[string]bool{}
		var initial []models.Restricao
		if err := overdueQuery(db, empresaID).Find(&initial).Error; err == nil {
			for _, r := range initial {
				seen[r.ID] = true
			}
		}

		ctx := c.Request.Context()
		ticker := time.NewTicker(3 * time.Second)
		heartbeat := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "heartbeat", map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				c.Writer.Flush()
			case <-ticker.C:
				var overdue []models.Restricao
				if err := overdueQuery(db, empresaID).Find(&overdue).Error; err != nil {
					continue
				}

				total := int64(len(overdue))
				for _, r := range overdue {
					if seen[r.ID] {
						continue
					}
					seen[r.ID] = true
					writeSSE(c.Writer, "atraso", atrasoEvent{
						ID:            r.ID,
						Titulo:        r.Titulo,
						Prioridade:    r.Prioridade,
						ParalisarObra: r.ParalisarObra,
						Total:         total,
					})
					c.Writer.Flush()
				}
			}
		}
	}
}

func overdueQuery(db *gorm.DB, empresaID string) *gorm.DB {
	q := db.Model(&models.Restricao{}).Where("status = ?", models.StatusAtrasada)
	if empresaID != "" {
		q = q.Where("empresa_id = ?", empresaID)
	}
	return q
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
