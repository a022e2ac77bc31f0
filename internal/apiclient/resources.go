package apiclient

import (
	"fmt"

	"github.com/pribylovaa/courtside/internal/models"
)

// Resources — типизированные клиенты всех ресурсов поверх одного Client.
type Resources struct {
	Runs          *Resource[models.Run, models.RunSummary]
	Games         *Resource[models.Game, models.Game]
	Users         *Resource[models.User, models.UserSummary]
	Products      *Resource[models.Product, models.Product]
	Videos        *Resource[models.Video, models.Video]
	Posts         *Resource[models.Post, models.Post]
	Requests      *Resource[models.Request, models.Request]
	Subscriptions *Resource[models.Subscription, models.Subscription]
	PrivateRuns   *Resource[models.PrivateRun, models.PrivateRun]
	JoinedRuns    *Resource[models.JoinedRun, models.JoinedRun]
	Clients       *Resource[models.Client, models.Client]
	Reports       *Resource[models.Report, models.Report]
}

// NewResources собирает клиентов всех ресурсов каталога.
func NewResources(c *Client) *Resources {
	return &Resources{
		Runs:          NewResource[models.Run, models.RunSummary](c, models.MustLookup(models.ResourceRun)),
		Games:         NewResource[models.Game, models.Game](c, models.MustLookup(models.ResourceGame)),
		Users:         NewResource[models.User, models.UserSummary](c, models.MustLookup(models.ResourceUser)),
		Products:      NewResource[models.Product, models.Product](c, models.MustLookup(models.ResourceProduct)),
		Videos:        NewResource[models.Video, models.Video](c, models.MustLookup(models.ResourceVideo)),
		Posts:         NewResource[models.Post, models.Post](c, models.MustLookup(models.ResourcePost)),
		Requests:      NewResource[models.Request, models.Request](c, models.MustLookup(models.ResourceRequest)),
		Subscriptions: NewResource[models.Subscription, models.Subscription](c, models.MustLookup(models.ResourceSubscription)),
		PrivateRuns:   NewResource[models.PrivateRun, models.PrivateRun](c, models.MustLookup(models.ResourcePrivateRun)),
		JoinedRuns:    NewResource[models.JoinedRun, models.JoinedRun](c, models.MustLookup(models.ResourceJoinedRun)),
		Clients:       NewResource[models.Client, models.Client](c, models.MustLookup(models.ResourceClient)),
		Reports:       NewResource[models.Report, models.Report](c, models.MustLookup(models.ResourceReport)),
	}
}

// Documents — нетипизированный клиент ресурса по имени (для CLI и отладки).
func Documents(c *Client, name string) (*Resource[models.Document, models.Document], error) {
	def, ok := models.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("apiclient.Documents: %w: unknown resource %q", ErrInvalidArgument, name)
	}

	return NewResource[models.Document, models.Document](c, def), nil
}
