package http

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"leetstats/internal/render"
	"leetstats/pkg/models"
)

//go:embed templates/widget.html
var templateFS embed.FS

var widgetTemplate = template.Must(template.ParseFS(templateFS, "templates/widget.html"))

type widgetRow struct {
	Name  string
	Label string
	Bar   models.BarSlot
	Width template.CSS
}

type widgetView struct {
	Username string
	Slots    models.Slots
	Gauge    template.CSS
	Rows     []widgetRow
}

func newWidgetView(username string, slots models.Slots) widgetView {
	row := func(name, label string, bar models.BarSlot) widgetRow {
		// Width is produced by render.FormatPercent, always "<number>%"
		return widgetRow{Name: name, Label: label, Bar: bar, Width: template.CSS(bar.Width)}
	}
	return widgetView{
		Username: username,
		Slots:    slots,
		Gauge:    template.CSS(slots.Gauge.Background),
		Rows: []widgetRow{
			row("easy", "Easy", slots.Easy),
			row("medium", "Medium", slots.Medium),
			row("hard", "Hard", slots.Hard),
		},
	}
}

// widgetPage renders the HTML widget. Without a username it shows the
// reset board; ?username= redirects to the canonical path.
func (s *Server) widgetPage(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		if q := strings.TrimSpace(c.Query("username")); q != "" {
			c.Redirect(http.StatusFound, "/widget/"+url.PathEscape(q))
			return
		}
		c.HTML(http.StatusOK, "widget.html", newWidgetView("", render.NewBoard().Snapshot()))
		return
	}

	res, slots := s.lookupAndRender(c.Request.Context(), username)
	status := http.StatusOK
	if !res.OK() {
		status = models.NewAppError(res.Err).StatusCode
	}
	c.HTML(status, "widget.html", newWidgetView(res.Username, slots))
}
