package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// DashboardPage renders the agent portal shell with the requested view:
// overview, inbox, tickets, clients, statistics or admin.
func (h *Handler) DashboardPage(c *gin.Context) {
	s := currentSession(c)
	view := c.DefaultQuery("view", "overview")

	data := gin.H{
		"User": s.User,
		"View": view,
	}

	switch view {
	case "overview":
		stats, err := h.Analytics.DashboardStats(c.Request.Context(), s.Token)
		if err != nil {
			h.Logger.Error().Err(err).Msg("failed to load dashboard stats")
			data["StatsError"] = true
		}
		data["Stats"] = stats
	case "inbox":
		tab := c.DefaultQuery("tab", "all")
		aiOnly := c.Query("ai") == "1"
		data["Tab"] = tab
		data["AIOnly"] = aiOnly
		data["Inbox"] = FilterInbox(InboxTickets(), tab, aiOnly)
	case "tickets":
		page, err := h.Tickets.List(c.Request.Context(), s.Token, 0, 100)
		if err != nil {
			h.Logger.Error().Err(err).Msg("failed to list tickets")
			data["LoadError"] = true
		}
		data["Tickets"] = page.Items
		data["Total"] = page.Total
	case "clients":
		term := c.Query("q")
		from := c.Query("from")
		to := c.Query("to")
		data["Search"] = term
		data["From"] = from
		data["To"] = to
		data["Clients"] = FilterClients(DemoClients(), term, from, to)
	case "statistics":
		data["Weekly"] = WeeklyVolume()
		data["Satisfaction"] = SatisfactionSplit()
	case "admin":
		data["Agents"] = h.Agents.List()
	default:
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", data)
}

// AddAgent handles the admin form. Validation mirrors the original: last
// and first name are required, everything else is optional.
func (h *Handler) AddAgent(c *gin.Context) {
	lastName := strings.TrimSpace(c.PostForm("last_name"))
	firstName := strings.TrimSpace(c.PostForm("first_name"))
	function := strings.TrimSpace(c.PostForm("function"))
	username := strings.TrimSpace(c.PostForm("username"))
	if lastName != "" && firstName != "" {
		if function == "" {
			function = "Support N1"
		}
		h.Agents.Add(lastName, firstName, function, username)
	}
	c.Redirect(http.StatusFound, "/dashboard?view=admin")
}

func (h *Handler) DeleteAgent(c *gin.Context) {
	if id, err := strconv.Atoi(c.Param("id")); err == nil {
		h.Agents.Delete(id)
	}
	c.Redirect(http.StatusFound, "/dashboard?view=admin")
}

// @Summary Aggregate dashboard metrics
// @Tags analytics
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Router /api/admin/stats [get]
func (h *Handler) DashboardStatsAPI(c *gin.Context) {
	s := currentSession(c)
	stats, err := h.Analytics.DashboardStats(c.Request.Context(), s.Token)
	if err != nil {
		writeError(c, backendStatus(err, http.StatusBadGateway), "STATS_FAILED", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, stats)
}
