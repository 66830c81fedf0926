package activity

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/tupine/lifegear/core"
	"github.com/tupine/lifegear/storage/session"
)

// thumbKeyPrefix namespaces the per-activity "last-seen thumbnail" session keys.
const thumbKeyPrefix = "lg:thumb:"

type (
	// Client fetches activity data from the campus API.
	Client interface {
		Thumbnails(ctx context.Context, token, status string) ([]Thumbnail, error)
		ActivityByID(ctx context.Context, token, id string) (Detail, error)
		ActivityBySlug(ctx context.Context, token, slug string) (Detail, error)
	}

	Service struct {
		client Client
		store  session.Store
	}
)

func NewService(client Client, store session.Store) *Service {
	return &Service{client: client, store: store}
}

// Upcoming returns upcoming activity thumbnails. If the status-filtered fetch
// fails it falls back to fetching everything and filtering locally, unless the
// caller already went away. Fetched thumbnails refresh the session's per-id
// preview cache.
func (svc *Service) Upcoming(ctx context.Context, sessionID, token string) ([]Thumbnail, error) {
	thumbs, err := svc.client.Thumbnails(ctx, token, StatusUpcoming)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		if thumbs, err = svc.client.Thumbnails(ctx, token, ""); err != nil {
			return nil, err
		}
	}

	upcoming := make([]Thumbnail, 0, len(thumbs))
	for _, th := range thumbs {
		if th.Status != StatusUpcoming {
			continue
		}
		upcoming = append(upcoming, th)
		svc.cacheThumb(sessionID, th)
	}
	return upcoming, nil
}

// Detail fetches one activity. UUID-shaped ids go through the by-id route,
// anything else through the by-slug route; a not-found on the primary route
// falls back to the other one (legacy links carry either form).
func (svc *Service) Detail(ctx context.Context, token, idOrSlug string) (Detail, error) {
	primary, secondary := svc.client.ActivityBySlug, svc.client.ActivityByID
	if _, err := uuid.Parse(idOrSlug); err == nil {
		primary, secondary = svc.client.ActivityByID, svc.client.ActivityBySlug
	}

	detail, err := primary(ctx, token, idOrSlug)
	if err == nil {
		return detail, nil
	}
	if ctx.Err() != nil || !core.IsNotFound(err) {
		return Detail{}, err
	}
	return secondary(ctx, token, idOrSlug)
}

// Preview returns the session's cached thumbnail for an activity, letting the
// detail view render before the network response arrives.
func (svc *Service) Preview(sessionID, id string) (Thumbnail, bool) {
	raw, ok := svc.store.Get(sessionID, thumbKeyPrefix+id)
	if !ok {
		return Thumbnail{}, false
	}
	var th Thumbnail
	if err := json.Unmarshal(raw, &th); err != nil {
		return Thumbnail{}, false
	}
	return th, true
}

func (svc *Service) cacheThumb(sessionID string, th Thumbnail) {
	raw, err := json.Marshal(th)
	if err != nil {
		return
	}
	svc.store.Set(sessionID, thumbKeyPrefix+th.ID, raw)
}
