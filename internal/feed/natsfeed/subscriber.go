// Package natsfeed delivers change notifications over NATS. The score-entry
// backend publishes a small envelope per changed row; subjects for classes
// and entries are scoped by show key, result rows are published unscoped and
// filtered client-side against the scope's membership set.
package natsfeed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"ringboard-service/internal/feed"
	"ringboard-service/internal/logging"
)

const eventBuffer = 256

// Config controls the NATS connection.
type Config struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConfig returns the connection defaults.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		SubjectPrefix: "ringboard.changes",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// envelope is the published wire shape. Only row identity travels on the
// feed; the engine refetches the authoritative snapshot on every event.
type envelope struct {
	EventID    string    `json:"eventId"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entityId"`
	ScopeKey   string    `json:"scopeKey,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Subscriber opens per-entity-type NATS subscriptions for one scope at a
// time. A new Subscribe tears down the previous scope's subscriptions first.
type Subscriber struct {
	conn       *nats.Conn
	cfg        Config
	membership feed.MembershipFunc
	logger     *slog.Logger

	mu     sync.Mutex
	active *subscription
}

// New connects to NATS and returns a Subscriber. The membership func backs
// the client-side filter for unscoped entity types and may be nil.
func New(cfg Config, membership feed.MembershipFunc, logger *slog.Logger) (*Subscriber, error) {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = DefaultConfig().SubjectPrefix
	}

	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logging.Warn(logger, "nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logging.Info(logger, "nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logging.Error(logger, "nats error", err)
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	return &Subscriber{conn: nc, cfg: cfg, membership: membership, logger: logger}, nil
}

// Subscribe opens one subscription per watched entity type, scoped to the
// show where the subject layout allows it.
func (s *Subscriber) Subscribe(scopeKey string) (feed.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		_ = s.active.Close()
		s.active = nil
	}

	sub := &subscription{
		events: make(chan feed.ChangeEvent, eventBuffer),
		done:   make(chan struct{}),
	}

	for _, entity := range feed.WatchedEntities {
		subject := s.subjectFor(entity, scopeKey)
		scoped := subjectIsScoped(entity)
		natsSub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
			s.deliver(sub, scopeKey, scoped, msg.Data)
		})
		if err != nil {
			_ = sub.Close()
			return nil, fmt.Errorf("subscribe %s: %w", subject, err)
		}
		sub.subs = append(sub.subs, natsSub)
		logging.Info(s.logger, "change feed subscription opened", "subject", subject, logging.FieldScope, scopeKey)
	}

	s.active = sub
	return sub, nil
}

// subjectIsScoped reports whether the publisher can scope the entity type by
// show key on the subject itself.
func subjectIsScoped(entity feed.EntityType) bool {
	return entity != feed.EntityResult
}

func (s *Subscriber) subjectFor(entity feed.EntityType, scopeKey string) string {
	if subjectIsScoped(entity) {
		return fmt.Sprintf("%s.%s.%s", s.cfg.SubjectPrefix, scopeKey, entity)
	}
	return fmt.Sprintf("%s.%s", s.cfg.SubjectPrefix, entity)
}

func (s *Subscriber) deliver(sub *subscription, scopeKey string, scoped bool, data []byte) {
	ev, err := parseEvent(data)
	if err != nil {
		logging.Warn(s.logger, "malformed change event dropped", "error", err)
		return
	}
	if ev.ScopeKey == "" {
		ev.ScopeKey = scopeKey
	}
	if !scoped && !feed.ShouldForward(s.membership, ev) {
		return
	}
	logging.Debug(s.logger, "change event forwarded", "entity", string(ev.Entity), "entity_id", ev.EntityID)

	select {
	case <-sub.done:
	case sub.events <- ev:
	default:
		// Buffer full: the pending events already guarantee a refetch, so
		// dropping this one loses nothing.
		logging.Warn(s.logger, "change event buffer full, event dropped", "entity", string(ev.Entity))
	}
}

func parseEvent(data []byte) (feed.ChangeEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return feed.ChangeEvent{}, fmt.Errorf("unmarshal change envelope: %w", err)
	}
	if env.EventID == "" {
		env.EventID = uuid.NewString()
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = time.Now().UTC()
	}
	return feed.ChangeEvent{
		ID:       env.EventID,
		Entity:   feed.EntityType(env.Entity),
		EntityID: env.EntityID,
		ScopeKey: env.ScopeKey,
		At:       env.OccurredAt,
	}, nil
}

// Close drops the active subscriptions and the NATS connection.
func (s *Subscriber) Close() {
	s.mu.Lock()
	if s.active != nil {
		_ = s.active.Close()
		s.active = nil
	}
	s.mu.Unlock()

	if s.conn != nil {
		s.conn.Close()
	}
}

type subscription struct {
	subs   []*nats.Subscription
	events chan feed.ChangeEvent
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) Events() <-chan feed.ChangeEvent { return s.events }

func (s *subscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		for _, sub := range s.subs {
			if uerr := sub.Unsubscribe(); uerr != nil && err == nil {
				err = uerr
			}
		}
	})
	return err
}
