package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quality-irrigation/mi-console/internal/db"
	"github.com/quality-irrigation/mi-console/internal/deck"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("runlog: not found")

// Store provides persistence for presentations, versions, runs and actions.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// EnsurePresentation resolves a presentation by title, creating it when it
// does not exist yet.
func (s *Store) EnsurePresentation(ctx context.Context, title, description string) (Presentation, error) {
	var p Presentation
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, created_at
		FROM presentations WHERE title = ?`, title).
		Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Presentation{}, fmt.Errorf("looking up presentation: %w", err)
	}

	p = Presentation{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presentations (id, title, description) VALUES (?, ?, ?)`,
		p.ID, p.Title, p.Description)
	if err != nil {
		return Presentation{}, fmt.Errorf("inserting presentation: %w", err)
	}
	return p, nil
}

// GetPresentation retrieves a presentation by id.
func (s *Store) GetPresentation(ctx context.Context, id string) (Presentation, error) {
	var p Presentation
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, created_at
		FROM presentations WHERE id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Presentation{}, ErrNotFound
	}
	if err != nil {
		return Presentation{}, fmt.Errorf("looking up presentation: %w", err)
	}
	return p, nil
}

// CreateVersion records a new version of a presentation.
func (s *Store) CreateVersion(ctx context.Context, presentationID, label, notes string) (Version, error) {
	p, err := s.GetPresentation(ctx, presentationID)
	if err != nil {
		return Version{}, err
	}

	v := Version{
		ID:                uuid.New().String(),
		PresentationID:    p.ID,
		PresentationTitle: p.Title,
		VersionLabel:      label,
		Notes:             notes,
		CreatedAt:         time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presentation_versions (id, presentation_id, version_label, notes)
		VALUES (?, ?, ?, ?)`,
		v.ID, v.PresentationID, v.VersionLabel, v.Notes)
	if err != nil {
		return Version{}, fmt.Errorf("inserting version: %w", err)
	}
	return v, nil
}

// ListVersions returns the most recent versions, newest first.
func (s *Store) ListVersions(ctx context.Context, limit int) ([]Version, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.presentation_id, p.title, v.version_label, v.notes, v.created_at
		FROM presentation_versions v
		JOIN presentations p ON p.id = v.presentation_id
		ORDER BY v.created_at DESC, v.id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	defer rows.Close()

	var versions []Version
	for rows.Next() {
		var v Version
		if err := rows.Scan(&v.ID, &v.PresentationID, &v.PresentationTitle,
			&v.VersionLabel, &v.Notes, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// CreateRun starts a run log for a presentation version.
func (s *Store) CreateRun(ctx context.Context, versionID, presenterName string) (Run, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM presentation_versions WHERE id = ?`, versionID).Scan(&exists)
	if err != nil {
		return Run{}, fmt.Errorf("looking up version: %w", err)
	}
	if exists == 0 {
		return Run{}, ErrNotFound
	}

	run := Run{
		ID:            uuid.New().String(),
		VersionID:     versionID,
		PresenterName: presenterName,
		StartedAt:     time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presentation_runs (id, presentation_version_id, presenter_name)
		VALUES (?, ?, ?)`,
		run.ID, run.VersionID, run.PresenterName)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// RecordAction appends a navigation event to a run. If action.ID is empty a
// UUID is generated.
func (s *Store) RecordAction(ctx context.Context, action Action) error {
	if action.ID == "" {
		action.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO presenter_actions (id, presentation_run_id, event_type, slide_id, slide_type, slide_index)
		VALUES (?, ?, ?, ?, ?, ?)`,
		action.ID, action.RunID, action.EventType, action.SlideID,
		action.SlideType, action.SlideIndex)
	if err != nil {
		return fmt.Errorf("inserting presenter action: %w", err)
	}
	return nil
}

// ListActions returns a run's actions in recorded order.
func (s *Store) ListActions(ctx context.Context, runID string) ([]Action, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, presentation_run_id, event_type, slide_id, slide_type, slide_index, created_at
		FROM presenter_actions
		WHERE presentation_run_id = ?
		ORDER BY created_at, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing presenter actions: %w", err)
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.ID, &a.RunID, &a.EventType, &a.SlideID,
			&a.SlideType, &a.SlideIndex, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning presenter action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// UpsertChart stores chart metadata for one slide of a deck, replacing any
// existing entry for the same slide index.
func (s *Store) UpsertChart(ctx context.Context, deckID string, meta deck.ChartMetadata) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slide_charts (id, deck_id, slide_index, chart_library, chart_type, chart_title, alt_text, data_spec, layout_spec, config_spec)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(deck_id, slide_index) DO UPDATE SET
			chart_library = excluded.chart_library,
			chart_type = excluded.chart_type,
			chart_title = excluded.chart_title,
			alt_text = excluded.alt_text,
			data_spec = excluded.data_spec,
			layout_spec = excluded.layout_spec,
			config_spec = excluded.config_spec`,
		uuid.New().String(), deckID, meta.SlideIndex, meta.ChartLibrary,
		meta.ChartType, meta.ChartTitle, meta.AltText,
		rawOrNull(meta.DataSpec), rawOrNull(meta.LayoutSpec), rawOrNull(meta.ConfigSpec))
	if err != nil {
		return fmt.Errorf("upserting slide chart: %w", err)
	}
	return nil
}

// ChartsForDeck returns the stored chart metadata for a deck ordered by
// slide index. It satisfies the deck chart source interface.
func (s *Store) ChartsForDeck(ctx context.Context, deckID string) ([]deck.ChartMetadata, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slide_index, chart_library, chart_type, chart_title, alt_text, data_spec, layout_spec, config_spec
		FROM slide_charts
		WHERE deck_id = ?
		ORDER BY slide_index`, deckID)
	if err != nil {
		return nil, fmt.Errorf("listing slide charts: %w", err)
	}
	defer rows.Close()

	var charts []deck.ChartMetadata
	for rows.Next() {
		var (
			meta                           deck.ChartMetadata
			dataSpec, layoutSpec, confSpec string
		)
		if err := rows.Scan(&meta.SlideIndex, &meta.ChartLibrary, &meta.ChartType,
			&meta.ChartTitle, &meta.AltText, &dataSpec, &layoutSpec, &confSpec); err != nil {
			return nil, fmt.Errorf("scanning slide chart: %w", err)
		}
		meta.DataSpec = rawFromColumn(dataSpec)
		meta.LayoutSpec = rawFromColumn(layoutSpec)
		meta.ConfigSpec = rawFromColumn(confSpec)
		charts = append(charts, meta)
	}
	return charts, rows.Err()
}

func rawOrNull(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}

func rawFromColumn(column string) json.RawMessage {
	if column == "" || column == "null" {
		return nil
	}
	return json.RawMessage(column)
}
