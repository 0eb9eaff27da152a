package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/epghub/epghub/app/database"
	"github.com/epghub/epghub/app/epg"
)

const (
	defaultPerPage = 50
	maxPerPage     = 500
	maxUploadSize  = 32 << 20
)

func NewHandler(channelRepo database.ChannelStore, programRepo database.ProgramStore,
	reloader ReloaderInterface, defaultSourceURL string) *Handler {
	return &Handler{
		channelRepo:      channelRepo,
		programRepo:      programRepo,
		reloader:         reloader,
		defaultSourceURL: defaultSourceURL,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if channelCount, err := h.channelRepo.GetChannelCount(""); err == nil {
		health["channels"] = channelCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{}

	if channelCount, err := h.channelRepo.GetChannelCount(""); err == nil {
		stats["channels"] = channelCount
	}
	if programCount, err := h.programRepo.GetProgramCount(); err == nil {
		stats["programs"] = programCount
	}

	if result, ranAt := h.reloader.LastResult(); result != nil {
		stats["last_reload"] = result
		stats["last_reload_at"] = ranAt.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, stats)
}

// ListChannels returns a paginated channel listing. Channel names follow the
// "CC|Name" convention, so the country filter becomes a name prefix.
func (h *Handler) ListChannels(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	prefix := ""
	if country := strings.TrimSpace(c.Query("country")); country != "" {
		prefix = strings.ToUpper(country) + "|"
	}

	total, err := h.channelRepo.GetChannelCount(prefix)
	if err != nil {
		slog.Error("Database error", "operation", "count_channels", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count channels"})
		return
	}

	channels, err := h.channelRepo.ListChannels(prefix, perPage, (page-1)*perPage)
	if err != nil {
		slog.Error("Database error", "operation", "list_channels", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list channels"})
		return
	}

	items := make([]map[string]interface{}, 0, len(channels))
	for _, ch := range channels {
		items = append(items, map[string]interface{}{
			"id":            ch.ID,
			"name":          ch.Name,
			"channel_id":    ch.ChannelID,
			"icon_url":      ch.IconURL,
			"program_count": ch.ProgramCount,
		})
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	c.JSON(http.StatusOK, gin.H{
		"channels":    items,
		"total":       total,
		"page":        page,
		"per_page":    perPage,
		"total_pages": totalPages,
	})
}

// ListCountries extracts the distinct country prefixes from channel names.
func (h *Handler) ListCountries(c *gin.Context) {
	names, err := h.channelRepo.GetChannelNames()
	if err != nil {
		slog.Error("Database error", "operation", "list_channel_names", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list channels"})
		return
	}

	seen := make(map[string]bool)
	countries := make([]string, 0)
	for _, name := range names {
		prefix, _, found := strings.Cut(name, "|")
		if !found || len(prefix) != 2 {
			continue
		}
		prefix = strings.ToUpper(prefix)
		if !seen[prefix] {
			seen[prefix] = true
			countries = append(countries, prefix)
		}
	}
	sort.Strings(countries)

	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

func (h *Handler) GetSchedule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel id"})
		return
	}

	channel, err := h.channelRepo.GetChannel(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_channel", "channel", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load channel"})
		return
	}
	if channel == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
		return
	}

	programs, err := h.programRepo.GetProgramsByChannel(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_programs", "channel", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load programs"})
		return
	}

	items := make([]map[string]interface{}, 0, len(programs))
	for _, p := range programs {
		items = append(items, map[string]interface{}{
			"title":       p.Title,
			"description": p.Description,
			"category":    p.Category,
			"start_time":  p.StartTime.UTC().Format(time.RFC3339),
			"end_time":    p.EndTime.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"channel": map[string]interface{}{
			"id":         channel.ID,
			"name":       channel.Name,
			"channel_id": channel.ChannelID,
			"icon_url":   channel.IconURL,
		},
		"programs": items,
	})
}

type reloadRequest struct {
	URL string `json:"url"`
}

// Reload runs a synchronous guide reload. Fetch and parse failures leave the
// stored guide untouched, so they map to client-side errors; store failures
// roll back and surface as 500.
func (h *Handler) Reload(c *gin.Context) {
	var req reloadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		url = h.defaultSourceURL
	}
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no source URL provided and no default source configured"})
		return
	}

	result, err := h.reloader.Run(c.Request.Context(), url)
	if err != nil {
		var fetchErr *epg.FetchError
		var parseErr *epg.ParseError

		switch {
		case errors.As(err, &fetchErr):
			slog.Error("Guide fetch failed", "url", url, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		case errors.As(err, &parseErr):
			slog.Error("Guide parse failed", "url", url, "error", err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			slog.Error("Guide reload failed", "url", url, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store guide"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// Upload validates an uploaded guide file without persisting it.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xml" && ext != ".json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type, expected .xml or .json"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	parsed, err := h.reloader.Validate(data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename": fileHeader.Filename,
		"channels": len(parsed.Channels),
		"programs": len(parsed.Programs),
		"skipped":  parsed.Skipped,
	})
}
