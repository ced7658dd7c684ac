package notification

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/modules/realtime"
	"servicehub/internal/platform/push"
)

// Dispatcher is the realtime projection over the notifications queue: it
// consumes each queued Notification at most once for display, honoring the
// receiver's current preferences, and falls back to FCM push when the
// receiver has no live connection.
type Dispatcher struct {
	store    NotificationStore
	settings SettingsSource
	hub      Pusher
	push     push.Sender
	log      *zap.Logger
}

func NewDispatcher(store NotificationStore, settings SettingsSource, hub Pusher, sender push.Sender, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:    store,
		settings: settings,
		hub:      hub,
		push:     sender,
		log:      log,
	}
}

// Dispatch handles one observed notification. Safe to call repeatedly for
// the same record: the prompt flag is consumed at most once.
func (d *Dispatcher) Dispatch(ctx context.Context, n *domain.Notification) {
	// Admin ban signal: highest priority, short-circuits everything else.
	// The record is deleted, the session is terminated server-side, and the
	// client is told to route to login.
	if n.Screen == domain.ScreenLogin {
		if err := d.store.Delete(ctx, n.ID); err != nil {
			d.log.Error("deleting forced sign-out notification", zap.Error(err), zap.Int64("id", n.ID))
		}
		d.hub.SendToUser(n.ReceiverID, &realtime.Event{
			Type:    realtime.EventForceLogout,
			Payload: map[string]any{"reason": n.Body},
		})
		d.settings.Evict(n.ReceiverID)
		d.hub.CloseUser(n.ReceiverID)
		d.log.Info("forced sign-out dispatched", zap.Int64("receiver_id", n.ReceiverID))
		return
	}

	prompted, err := d.store.MarkPrompted(ctx, n.ID)
	if err != nil {
		d.log.Error("marking notification prompted", zap.Error(err), zap.Int64("id", n.ID))
		return
	}
	if !prompted {
		// Already surfaced by an earlier delivery of the same snapshot.
		return
	}

	prefs, err := d.settings.Get(ctx, n.ReceiverID)
	if err != nil {
		d.log.Error("reading receiver settings", zap.Error(err), zap.Int64("receiver_id", n.ReceiverID))
		return
	}
	if !prefs.AllowsScreen(n.Screen) {
		d.log.Debug("alert suppressed by preference",
			zap.Int64("receiver_id", n.ReceiverID), zap.String("screen", n.Screen))
		return
	}

	payload := map[string]any{
		"screen":          n.Screen,
		"notification_id": n.ID,
		"title":           n.Title,
		"body":            n.Body,
		"params":          n.GetParams(),
	}

	delivered := d.hub.SendToUser(n.ReceiverID, &realtime.Event{
		Type:    realtime.EventNotification,
		Payload: payload,
	})
	if delivered {
		return
	}

	d.pushToDevices(ctx, n)
}

func (d *Dispatcher) pushToDevices(ctx context.Context, n *domain.Notification) {
	tokens, err := d.store.DeviceTokensForUser(ctx, n.ReceiverID)
	if err != nil {
		d.log.Error("loading device tokens", zap.Error(err), zap.Int64("receiver_id", n.ReceiverID))
		return
	}

	data := map[string]string{
		"screen":          n.Screen,
		"notification_id": strconv.FormatInt(n.ID, 10),
	}
	for _, t := range tokens {
		if err := d.push.Send(ctx, t.Token, n.Title, n.Body, data); err != nil {
			d.log.Warn("push delivery failed", zap.Error(err), zap.Int64("token_id", t.ID))
		}
	}
}

// DispatchPending re-delivers every unprompted notification for a user.
// Wired to the hub's connect callback so alerts queued while the user was
// away surface as soon as they are back.
func (d *Dispatcher) DispatchPending(ctx context.Context, userID int64) {
	pending, err := d.store.ListUnprompted(ctx, userID)
	if err != nil {
		d.log.Error("loading pending notifications", zap.Error(err), zap.Int64("user_id", userID))
		return
	}
	for i := range pending {
		d.Dispatch(ctx, &pending[i])
	}
}
