package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ofer2300/Financial-M2/internal/entity"
)

// RunMatching triggers the server-side matching procedure. No parameters:
// the procedure applies its own tolerance and scoring defaults.
func (s *pgStore) RunMatching(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `SELECT save_best_matches()`); err != nil {
		s.logger.Error("matching procedure failed", "error", err)
		return fmt.Errorf("save_best_matches: %w", err)
	}
	return nil
}

// MatchDetails fetches the current match set. The procedure output comes
// back as one JSON document that is validated against matchDetailsSchema
// before decoding, so a drifting procedure signature surfaces as a clear
// error instead of silently zeroed fields.
func (s *pgStore) MatchDetails(ctx context.Context) ([]entity.MatchRecord, error) {
	var payload []byte
	row := s.pool.QueryRow(ctx, `SELECT coalesce(jsonb_agg(m), '[]'::jsonb) FROM get_match_details() AS m`)
	if err := row.Scan(&payload); err != nil {
		s.logger.Error("fetching match details failed", "error", err)
		return nil, fmt.Errorf("get_match_details: %w", err)
	}

	if err := validateJSONAgainstSchema(matchDetailsSchema, payload); err != nil {
		return nil, fmt.Errorf("match details payload: %w", err)
	}

	var matches []entity.MatchRecord
	if err := json.Unmarshal(payload, &matches); err != nil {
		return nil, fmt.Errorf("decode match details: %w", err)
	}
	s.logger.Debug("fetched match details", "count", len(matches))
	return matches, nil
}
