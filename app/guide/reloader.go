package guide

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/epghub/epghub/app/database"
	"github.com/epghub/epghub/app/epg"
)

// Result summarizes one completed reload.
type Result struct {
	Channels         int `json:"channels"`
	Programs         int `json:"programs"`
	Merged           int `json:"merged"`
	Skipped          int `json:"skipped"`
	UnmappedChannels int `json:"unmapped_channels"`
}

// Reloader drives one full guide reload: fetch, parse, resolve, merge, and
// replace the persisted dataset as a single transaction. A reload either
// commits completely or leaves the store untouched. The internal mutex keeps
// at most one reload in flight, whether triggered by the scheduler or the API.
type Reloader struct {
	store      database.GuideStore
	parser     *epg.Parser
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration

	mu sync.Mutex

	statusMu   sync.RWMutex
	lastResult *Result
	lastRunAt  *time.Time
}

func NewReloader(store database.GuideStore, parser *epg.Parser, httpClient *http.Client,
	userAgent string, timeout time.Duration) *Reloader {
	return &Reloader{
		store:      store,
		parser:     parser,
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Run performs one full reload from the given URL and returns the summary
// counts. Fetch and parse failures abort before any store mutation; store
// failures roll the whole replacement back.
func (r *Reloader) Run(ctx context.Context, url string) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	started := time.Now()

	data, err := r.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	parsed, err := r.parser.Run(data)
	if err != nil {
		return nil, err
	}

	result := &Result{Skipped: parsed.Skipped}

	err = r.store.ReplaceGuide(ctx, func(tx database.GuideTx) error {
		if err := tx.DeleteAllPrograms(); err != nil {
			return err
		}
		if err := tx.DeleteAllChannels(); err != nil {
			return err
		}

		// Channel resolver: trimmed external id to internal identity,
		// rebuilt from empty on every reload.
		resolver := make(map[string]int64, len(parsed.Channels))
		for _, ch := range parsed.Channels {
			id, err := tx.InsertChannel(database.Channel{
				Name:      ch.Name,
				ChannelID: strings.TrimSpace(ch.ID),
				IconURL:   ch.IconURL,
			})
			if err != nil {
				return err
			}
			resolver[strings.TrimSpace(ch.ID)] = id
		}
		result.Channels = len(resolver)

		groups := make(map[int64][]epg.Program)
		unmapped := make(map[string]struct{})
		for _, p := range parsed.Programs {
			extID := strings.TrimSpace(p.ChannelID)
			internalID, ok := resolver[extID]
			if !ok {
				unmapped[extID] = struct{}{}
				result.Skipped++
				continue
			}
			groups[internalID] = append(groups[internalID], p)
		}
		result.UnmappedChannels = len(unmapped)

		for channelID, programs := range groups {
			merged, fused := epg.Merge(programs)
			result.Merged += fused

			for _, p := range merged {
				err := tx.InsertProgram(database.Program{
					Title:       p.Title,
					Description: p.Description,
					StartTime:   p.Start,
					EndTime:     p.End,
					Category:    p.Category,
					ChannelID:   channelID,
				})
				if err != nil {
					return err
				}
				result.Programs++
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	r.recordResult(result)

	slog.Info("Guide reload completed",
		"url", url,
		"duration", time.Since(started).Round(time.Millisecond),
		"channels", result.Channels,
		"programs", result.Programs,
		"merged", result.Merged,
		"skipped", result.Skipped,
		"unmapped_channels", result.UnmappedChannels)

	return result, nil
}

// Validate parses feed bytes without persisting anything.
func (r *Reloader) Validate(data []byte) (*epg.Guide, error) {
	return r.parser.Run(data)
}

// LastResult returns the summary and completion time of the most recent
// successful reload, or nils when none has completed yet.
func (r *Reloader) LastResult() (*Result, *time.Time) {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.lastResult, r.lastRunAt
}

func (r *Reloader) recordResult(result *Result) {
	now := time.Now().UTC()
	r.statusMu.Lock()
	r.lastResult = result
	r.lastRunAt = &now
	r.statusMu.Unlock()
}

func (r *Reloader) fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, &epg.FetchError{URL: url, Err: err}
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &epg.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &epg.FetchError{URL: url, Err: fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &epg.FetchError{URL: url, Err: err}
	}

	return data, nil
}
