// Package pgstore implements the remote-store contract over Postgres. The
// primary fetch path reads the denormalized board views; when those fail the
// store reassembles an equivalent record set from the base tables.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ringboard-service/internal/cache"
	"ringboard-service/internal/logging"
	"ringboard-service/internal/providers"
	"ringboard-service/internal/transform"
)

// Config controls the Postgres connection and cache behavior.
type Config struct {
	DSN           string
	ScopeTTL      time.Duration
	MembershipTTL time.Duration
}

// Store is a SnapshotProvider and MembershipProvider backed by Postgres.
type Store struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	scopes  *cache.Cache[string]
	members *cache.Cache[providers.MembershipSet]
}

// New connects a pool and returns the store.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &Store{
		pool:    pool,
		logger:  logger,
		scopes:  cache.New[string](64, cfg.ScopeTTL),
		members: cache.New[providers.MembershipSet](16, cfg.MembershipTTL),
	}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// FetchSnapshot runs the primary board-view query and falls back to the base
// tables on failure. Both paths return the same raw shape.
func (s *Store) FetchSnapshot(ctx context.Context, scopeKey string) (providers.RawSnapshot, error) {
	showID, err := s.resolveShow(ctx, scopeKey)
	if err != nil {
		return providers.RawSnapshot{}, err
	}

	snap, primaryErr := s.fetchPrimary(ctx, showID)
	if primaryErr == nil {
		return snap, nil
	}
	logging.Warn(s.logger, "primary snapshot query failed, using fallback",
		logging.FieldScope, scopeKey,
		"error", primaryErr,
	)

	snap, fallbackErr := s.fetchFallback(ctx, showID)
	if fallbackErr != nil {
		return providers.RawSnapshot{}, &providers.QueryError{Path: providers.PathFallback, Err: errors.Join(primaryErr, fallbackErr)}
	}
	return snap, nil
}

// resolveShow maps a license key to the show id, cached with a TTL.
func (s *Store) resolveShow(ctx context.Context, scopeKey string) (string, error) {
	if id, ok := s.scopes.Get(scopeKey); ok {
		return id, nil
	}

	var id string
	err := s.pool.QueryRow(ctx, queryResolveShow, scopeKey).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", &providers.ScopeNotFoundError{Key: scopeKey}
	}
	if err != nil {
		return "", &providers.QueryError{Path: providers.PathPrimary, Err: fmt.Errorf("resolve show: %w", err)}
	}

	s.scopes.Set(scopeKey, id)
	return id, nil
}

func (s *Store) fetchPrimary(ctx context.Context, showID string) (providers.RawSnapshot, error) {
	classRows, err := s.pool.Query(ctx, queryClassBoard, showID)
	if err != nil {
		return providers.RawSnapshot{}, fmt.Errorf("class board query: %w", err)
	}
	rawClasses, err := scanBoardClasses(classRows)
	if err != nil {
		return providers.RawSnapshot{}, err
	}

	entryRows, err := s.pool.Query(ctx, queryEntryBoard, showID)
	if err != nil {
		return providers.RawSnapshot{}, fmt.Errorf("entry board query: %w", err)
	}
	rawEntries, err := scanBoardEntries(entryRows)
	if err != nil {
		return providers.RawSnapshot{}, err
	}

	return providers.RawSnapshot{
		Classes:    rawClasses,
		Entries:    rawEntries,
		FetchedVia: providers.PathPrimary,
	}, nil
}

func scanBoardClasses(rows pgx.Rows) ([]transform.RawClassRecord, error) {
	defer rows.Close()
	out := make([]transform.RawClassRecord, 0)
	for rows.Next() {
		var r transform.RawClassRecord
		var total, completed, pending int
		if err := rows.Scan(
			&r.ID, &r.ElementType, &r.LevelName, &r.Section, &r.JudgeName,
			&r.TrialDate, &r.TrialNumber, &r.RunOrder, &r.StartTime,
			&total, &completed, &pending, &r.StatusText,
		); err != nil {
			return nil, fmt.Errorf("scan class board row: %w", err)
		}
		r.TotalCount = &total
		r.CompletedCount = &completed
		if pending >= 0 {
			r.PendingCount = &pending
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanBoardEntries(rows pgx.Rows) ([]transform.RawEntryRecord, error) {
	defer rows.Close()
	out := make([]transform.RawEntryRecord, 0)
	for rows.Next() {
		var r transform.RawEntryRecord
		var placement int
		if err := rows.Scan(
			&r.ID, &r.Armband, &r.CallName, &r.BreedName, &r.HandlerName,
			&r.HandlerLocation, &r.ElementType, &r.LevelName, &r.Section,
			&r.TrialDate, &r.TrialNumber, &r.RunOrder, &r.StatusText,
			&r.ResultText, &r.SearchTime, &placement, &r.CheckinStatus,
		); err != nil {
			return nil, fmt.Errorf("scan entry board row: %w", err)
		}
		r.Placement = &placement
		out = append(out, r)
	}
	return out, rows.Err()
}

// fetchFallback lists trials, then classes and entries per trial id, and
// reshapes the base rows into the primary path's raw shape.
func (s *Store) fetchFallback(ctx context.Context, showID string) (providers.RawSnapshot, error) {
	trials, err := s.listTrials(ctx, showID)
	if err != nil {
		return providers.RawSnapshot{}, err
	}
	if len(trials) == 0 {
		return providers.RawSnapshot{FetchedVia: providers.PathFallback}, nil
	}

	trialByID := make(map[string]trialRow, len(trials))
	trialIDs := make([]string, 0, len(trials))
	for _, t := range trials {
		trialByID[t.ID] = t
		trialIDs = append(trialIDs, t.ID)
	}

	classRows, err := s.pool.Query(ctx, queryClasses, trialIDs)
	if err != nil {
		return providers.RawSnapshot{}, fmt.Errorf("classes query: %w", err)
	}
	rawClasses, err := collectClasses(classRows, trialByID)
	if err != nil {
		return providers.RawSnapshot{}, err
	}

	entryRows, err := s.pool.Query(ctx, queryEntries, trialIDs)
	if err != nil {
		return providers.RawSnapshot{}, fmt.Errorf("entries query: %w", err)
	}
	rawEntries, err := collectEntries(entryRows, trialByID)
	if err != nil {
		return providers.RawSnapshot{}, err
	}

	return providers.RawSnapshot{
		Classes:    rawClasses,
		Entries:    rawEntries,
		FetchedVia: providers.PathFallback,
	}, nil
}

func (s *Store) listTrials(ctx context.Context, showID string) ([]trialRow, error) {
	rows, err := s.pool.Query(ctx, queryTrials, showID)
	if err != nil {
		return nil, fmt.Errorf("trials query: %w", err)
	}
	defer rows.Close()

	out := make([]trialRow, 0)
	for rows.Next() {
		var t trialRow
		if err := rows.Scan(&t.ID, &t.TrialDate, &t.TrialNumber); err != nil {
			return nil, fmt.Errorf("scan trial row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func collectClasses(rows pgx.Rows, trialByID map[string]trialRow) ([]transform.RawClassRecord, error) {
	defer rows.Close()
	out := make([]transform.RawClassRecord, 0)
	for rows.Next() {
		var r classRow
		if err := rows.Scan(
			&r.ID, &r.TrialID, &r.Element, &r.Level, &r.Section, &r.JudgeName,
			&r.RunOrder, &r.StartTime, &r.EntryTotal, &r.EntryCompleted, &r.InRing,
		); err != nil {
			return nil, fmt.Errorf("scan class row: %w", err)
		}
		out = append(out, classRawFromFallback(r, trialByID[r.TrialID]))
	}
	return out, rows.Err()
}

func collectEntries(rows pgx.Rows, trialByID map[string]trialRow) ([]transform.RawEntryRecord, error) {
	defer rows.Close()
	out := make([]transform.RawEntryRecord, 0)
	for rows.Next() {
		var r entryRow
		if err := rows.Scan(
			&r.ID, &r.TrialID, &r.Armband, &r.CallName, &r.Breed, &r.HandlerName,
			&r.HandlerCity, &r.Element, &r.Level, &r.Section, &r.RunOrder,
			&r.CheckinStatus, &r.InRing, &r.ResultText, &r.SearchTime,
			&r.Placement, &r.IsScored,
		); err != nil {
			return nil, fmt.Errorf("scan entry row: %w", err)
		}
		out = append(out, entryRawFromFallback(r, trialByID[r.TrialID]))
	}
	return out, rows.Err()
}

// MembershipIDs returns the scope's known class and entry ids, cached with a
// TTL so the change-feed filter does not hammer the database.
func (s *Store) MembershipIDs(ctx context.Context, scopeKey string) (providers.MembershipSet, error) {
	if set, ok := s.members.Get(scopeKey); ok {
		return set, nil
	}

	showID, err := s.resolveShow(ctx, scopeKey)
	if err != nil {
		return providers.MembershipSet{}, err
	}

	classIDs, err := s.listIDs(ctx, queryClassIDs, showID)
	if err != nil {
		return providers.MembershipSet{}, err
	}
	entryIDs, err := s.listIDs(ctx, queryEntryIDs, showID)
	if err != nil {
		return providers.MembershipSet{}, err
	}

	set := providers.MembershipSet{ClassIDs: classIDs, EntryIDs: entryIDs}
	s.members.Set(scopeKey, set)
	return set, nil
}

func (s *Store) listIDs(ctx context.Context, query, showID string) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, query, showID)
	if err != nil {
		return nil, &providers.QueryError{Path: providers.PathPrimary, Err: err}
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}
