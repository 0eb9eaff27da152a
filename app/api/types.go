package api

import (
	"context"
	"time"

	"github.com/epghub/epghub/app/database"
	"github.com/epghub/epghub/app/epg"
	"github.com/epghub/epghub/app/guide"
)

// ReloaderInterface covers the reload operations the HTTP layer triggers.
type ReloaderInterface interface {
	Run(ctx context.Context, url string) (*guide.Result, error)
	Validate(data []byte) (*epg.Guide, error)
	LastResult() (*guide.Result, *time.Time)
}

var _ ReloaderInterface = (*guide.Reloader)(nil)

type Handler struct {
	channelRepo      database.ChannelStore
	programRepo      database.ProgramStore
	reloader         ReloaderInterface
	defaultSourceURL string
}
