package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"configurator-service/internal/configurator"
	"configurator-service/internal/models"
	"configurator-service/internal/money"
	"configurator-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or expired session IDs
var ErrSessionNotFound = errors.New("session not found")

// CatalogProvider hands out the catalog new sessions are built on
type CatalogProvider interface {
	Catalog() *models.Catalog
}

type sessionEntry struct {
	mu       sync.Mutex
	session  *configurator.Session
	lastUsed time.Time
}

// ConfiguratorService keeps one configurator session per UI instance.
// Commands on a session are serialized by the session's own lock.
type ConfiguratorService struct {
	catalogs    CatalogProvider
	classifier  configurator.Classifier
	idleTimeout time.Duration
	now         func() time.Time
	logger      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewConfiguratorService creates a new session registry
func NewConfiguratorService(catalogs CatalogProvider, idleTimeout time.Duration) *ConfiguratorService {
	return &ConfiguratorService{
		catalogs:    catalogs,
		classifier:  configurator.DefaultClassifier,
		idleTimeout: idleTimeout,
		now:         time.Now,
		logger:      util.GetLogger(),
		sessions:    make(map[string]*sessionEntry),
	}
}

// Snapshot is the read model of a session as shown by a UI
type Snapshot struct {
	SessionID             string                    `json:"session_id"`
	Stage                 configurator.StageName    `json:"stage"`
	Tier                  string                    `json:"tier,omitempty"`
	TierTitle             string                    `json:"tier_title,omitempty"`
	Size                  configurator.Size         `json:"size,omitempty"`
	OvenType              configurator.OvenType     `json:"oven_type"`
	Base                  *configurator.Resolution  `json:"base,omitempty"`
	BaseImage             string                    `json:"base_image,omitempty"`
	Options               configurator.Options      `json:"options"`
	Unlocked              bool                      `json:"unlocked"`
	Ready                 bool                      `json:"ready"`
	MissingStep           configurator.Step         `json:"missing_step,omitempty"`
	InternalOvenAvailable bool                      `json:"internal_oven_available"`
	AvailableSizes        []configurator.SizeOption `json:"available_sizes,omitempty"`
	Quote                 configurator.Quote        `json:"quote"`
	TotalFormatted        string                    `json:"total_formatted"`
}

func newSnapshot(id string, s *configurator.Session) *Snapshot {
	sel := s.Selection()
	quote := s.Quote()

	snap := &Snapshot{
		SessionID:             id,
		Stage:                 sel.Stage.Name(),
		OvenType:              sel.OvenType,
		Base:                  sel.Base(),
		Options:               sel.Options,
		Unlocked:              s.Unlocked(),
		Ready:                 sel.Ready(),
		InternalOvenAvailable: s.InternalOvenAvailable(),
		Quote:                 quote,
		TotalFormatted:        money.Format(quote.Total),
	}
	if tier := sel.Tier(); tier != nil {
		snap.Tier = tier.Key
		snap.TierTitle = tier.Title
		snap.BaseImage = tier.Image
		snap.AvailableSizes = configurator.AvailableSizes(nil, tier)
	}
	if size, ok := sel.Size(); ok {
		snap.Size = size
	}
	if snap.Base != nil && snap.Base.Image != "" {
		snap.BaseImage = snap.Base.Image
	}
	if step, missing := sel.MissingStep(); missing {
		snap.MissingStep = step
	}
	return snap
}

// CreateSession starts an empty session on the current catalog
func (cs *ConfiguratorService) CreateSession(ctx context.Context) (*Snapshot, error) {
	_, span := util.StartSpan(ctx, "ConfiguratorService.CreateSession")
	defer span.End()

	catalog := cs.catalogs.Catalog()
	if catalog == nil {
		return nil, ErrCatalogNotLoaded
	}

	id := uuid.New().String()
	entry := &sessionEntry{
		session:  configurator.NewSession(catalog, cs.classifier),
		lastUsed: cs.now(),
	}

	cs.mu.Lock()
	cs.sessions[id] = entry
	active := len(cs.sessions)
	cs.mu.Unlock()

	util.SessionsCreatedTotal.Inc()
	util.ActiveSessions.Set(float64(active))
	cs.logger.Info("Session created", zap.String("session_id", id))

	return newSnapshot(id, entry.session), nil
}

// DeleteSession discards a session
func (cs *ConfiguratorService) DeleteSession(ctx context.Context, id string) error {
	cs.mu.Lock()
	_, ok := cs.sessions[id]
	delete(cs.sessions, id)
	active := len(cs.sessions)
	cs.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	util.ActiveSessions.Set(float64(active))
	cs.logger.Info("Session discarded", zap.String("session_id", id))
	return nil
}

// GetSnapshot returns the current state of a session
func (cs *ConfiguratorService) GetSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	var snap *Snapshot
	err := cs.WithSession(ctx, id, func(s *configurator.Session) error {
		snap = newSnapshot(id, s)
		return nil
	})
	return snap, err
}

// ApplyCommand applies one selection command and returns the resulting snapshot.
// A rejected command leaves the session unchanged.
func (cs *ConfiguratorService) ApplyCommand(ctx context.Context, id string, cmd configurator.Command) (*Snapshot, error) {
	ctx, span := util.StartSessionSpan(ctx, "ConfiguratorService.ApplyCommand", id)
	defer span.End()

	var snap *Snapshot
	err := cs.WithSession(ctx, id, func(s *configurator.Session) error {
		if err := s.Apply(cmd); err != nil {
			return err
		}
		snap = newSnapshot(id, s)
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			util.CommandsAppliedTotal.WithLabelValues(string(cmd.Type), "rejected").Inc()
			cs.logger.Debug("Command rejected",
				zap.String("session_id", id),
				zap.String("type", string(cmd.Type)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	util.CommandsAppliedTotal.WithLabelValues(string(cmd.Type), "applied").Inc()
	return snap, nil
}

// PreviewLineItems validates the session and builds its cart payload without submitting it
func (cs *ConfiguratorService) PreviewLineItems(ctx context.Context, id string) ([]models.LineItem, configurator.Quote, error) {
	var (
		items []models.LineItem
		quote configurator.Quote
	)
	err := cs.WithSession(ctx, id, func(s *configurator.Session) error {
		var err error
		items, err = s.LineItems()
		quote = s.Quote()
		return err
	})
	return items, quote, err
}

// WithSession runs fn while holding the session's lock
func (cs *ConfiguratorService) WithSession(ctx context.Context, id string, fn func(*configurator.Session) error) error {
	cs.mu.RLock()
	entry, ok := cs.sessions[id]
	cs.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.lastUsed = cs.now()
	return fn(entry.session)
}

// Sweep discards sessions idle for longer than the idle timeout and returns how many were removed
func (cs *ConfiguratorService) Sweep() int {
	if cs.idleTimeout <= 0 {
		return 0
	}
	cutoff := cs.now().Add(-cs.idleTimeout)

	cs.mu.Lock()
	removed := 0
	for id, entry := range cs.sessions {
		if !entry.mu.TryLock() {
			continue
		}
		idle := entry.lastUsed.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(cs.sessions, id)
			removed++
		}
	}
	active := len(cs.sessions)
	cs.mu.Unlock()

	if removed > 0 {
		util.SessionsExpiredTotal.Add(float64(removed))
		cs.logger.Info("Idle sessions swept", zap.Int("removed", removed), zap.Int("active", active))
	}
	util.ActiveSessions.Set(float64(active))
	return removed
}

// StartSweeper runs Sweep on every tick until ctx is done
func (cs *ConfiguratorService) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cs.Sweep()
		}
	}
}

// SessionCount returns the number of live sessions
func (cs *ConfiguratorService) SessionCount() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.sessions)
}
