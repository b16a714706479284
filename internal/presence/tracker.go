// Package presence maintient les drapeaux is_online/last_connection des
// identités connectées. Le navigateur envoie un battement toutes les 5s
// et un signal hors-ligne best-effort à la fermeture; comme ce signal se
// perd parfois, un reaper bascule hors-ligne toute identité silencieuse
// depuis deux battements.
package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/rs/zerolog/log"
)

// HeartbeatInterval est le rythme attendu des battements côté client.
const HeartbeatInterval = 5 * time.Second

type Tracker struct {
	repo       entity.PresenceRepositoryInterface
	lastSeen   *cache.Cache
	interval   time.Duration
	staleAfter time.Duration
	now        func() time.Time
}

func NewTracker(repo entity.PresenceRepositoryInterface) *Tracker {
	return NewTrackerWithInterval(repo, HeartbeatInterval)
}

func NewTrackerWithInterval(repo entity.PresenceRepositoryInterface, interval time.Duration) *Tracker {
	staleAfter := 2 * interval
	return &Tracker{
		repo:       repo,
		lastSeen:   cache.New(staleAfter, staleAfter),
		interval:   interval,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

func key(kind entity.IdentityKind, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// Heartbeat réécrit l'état en-ligne, même si l'identité l'était déjà:
// c'est un vrai battement, pas un one-shot. Les échecs sont loggés
// seulement, le prochain battement retentera naturellement.
func (t *Tracker) Heartbeat(ctx context.Context, kind entity.IdentityKind, id int64) {
	at := t.now()
	if err := t.repo.SetOnline(ctx, kind, id, at); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Int64("id", id).Msg("Presence: heartbeat write failed")
		return
	}
	t.lastSeen.Set(key(kind, id), at, t.staleAfter)
}

// Offline est le chemin du beacon de fermeture d'onglet. Fire-and-forget
// côté client; ici l'écriture est immédiate.
func (t *Tracker) Offline(ctx context.Context, kind entity.IdentityKind, id int64) {
	if err := t.repo.SetOffline(ctx, kind, id); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Int64("id", id).Msg("Presence: offline write failed")
		return
	}
	t.lastSeen.Delete(key(kind, id))
}

// IsOnline consulte le cache local, sans toucher au store.
func (t *Tracker) IsOnline(kind entity.IdentityKind, id int64) bool {
	_, found := t.lastSeen.Get(key(kind, id))
	return found
}

// StartReaper tourne jusqu'à annulation du contexte et bascule hors-ligne
// les identités dont le dernier battement date de plus de deux intervalles.
func (t *Tracker) StartReaper(ctx context.Context) {
	log.Info().Dur("interval", t.interval).Msg("Presence reaper démarré")

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Presence reaper arrêté")
			return
		case <-ticker.C:
			t.reapOnce(ctx)
		}
	}
}

func (t *Tracker) reapOnce(ctx context.Context) {
	cutoff := t.now().Add(-t.staleAfter)

	for _, kind := range []entity.IdentityKind{entity.KindAdmin, entity.KindSeller, entity.KindClient} {
		n, err := t.repo.MarkStaleOffline(ctx, kind, cutoff)
		if err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Msg("Presence: reap failed")
			continue
		}
		if n > 0 {
			log.Info().Str("kind", string(kind)).Int64("count", n).Msg("Presence: identités basculées hors-ligne")
		}
	}
}
