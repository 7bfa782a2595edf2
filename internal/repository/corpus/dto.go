// Package corpus persists archived decision records. Four interchangeable
// backends share one wire format: a directory of JSON files, a key-value
// store, an embedded SQLite database, and an in-process map.
package corpus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/decision"
	"github.com/arbiterhq/arbiter/internal/domain/decision/scale"
	"github.com/arbiterhq/arbiter/internal/domain/fingerprint"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// fingerprintDTO is the stored form of a decision fingerprint.
type fingerprintDTO struct {
	Domain           string    `json:"domain"`
	Scale            string    `json:"scale"`
	StakeholderCount int       `json:"stakeholder_count"`
	ConstraintCount  int       `json:"constraint_count"`
	OptionCount      int       `json:"option_count"`
	Keywords         []string  `json:"keywords"`
	TradeOffTypes    []string  `json:"trade_off_types"`
	Hash             string    `json:"fingerprint_hash"`
	CreatedAt        time.Time `json:"created_at"`
}

// recordDTO is the stored form of a corpus record.
type recordDTO struct {
	ID           string         `json:"id"`
	Fingerprint  fingerprintDTO `json:"fingerprint"`
	Summary      string         `json:"decision_summary"`
	ChosenOption string         `json:"chosen_option"`
	Outcome      string         `json:"outcome"`
	Lessons      []string       `json:"lessons_learned,omitempty"`
	DecidedAt    time.Time      `json:"decided_at"`
}

func recordToDTO(rec record.Record) recordDTO {
	fp := rec.Fingerprint()

	tradeOffs := make([]string, len(fp.TradeOffs()))
	for i, t := range fp.TradeOffs() {
		tradeOffs[i] = string(t)
	}

	return recordDTO{
		ID: rec.ID(),
		Fingerprint: fingerprintDTO{
			Domain:           string(fp.Domain()),
			Scale:            string(fp.Scale()),
			StakeholderCount: fp.StakeholderCount(),
			ConstraintCount:  fp.ConstraintCount(),
			OptionCount:      fp.OptionCount(),
			Keywords:         fp.Keywords(),
			TradeOffTypes:    tradeOffs,
			Hash:             fp.Hash(),
			CreatedAt:        fp.CreatedAt(),
		},
		Summary:      rec.Summary(),
		ChosenOption: rec.ChosenOption(),
		Outcome:      string(rec.Outcome()),
		Lessons:      rec.Lessons(),
		DecidedAt:    rec.DecidedAt(),
	}
}

// dtoToRecord validates structural fields and hydrates a domain record.
// Unknown domain tags and scales are normalized so stored history from
// older taxonomies still scores sanely.
func dtoToRecord(dto recordDTO) (record.Record, error) {
	if dto.ID == "" {
		return record.Record{}, fmt.Errorf("record id is missing")
	}
	if dto.Fingerprint.Hash == "" {
		return record.Record{}, fmt.Errorf("record %s: fingerprint hash is missing", dto.ID)
	}
	if dto.Summary == "" {
		return record.Record{}, fmt.Errorf("record %s: summary is missing", dto.ID)
	}
	if dto.ChosenOption == "" {
		return record.Record{}, fmt.Errorf("record %s: chosen option is missing", dto.ID)
	}

	tradeOffs := make([]fingerprint.Type, len(dto.Fingerprint.TradeOffTypes))
	for i, t := range dto.Fingerprint.TradeOffTypes {
		tradeOffs[i] = fingerprint.Type(t)
	}

	fp := fingerprint.Reconstruct(
		decision.NormalizeDomain(decision.Domain(dto.Fingerprint.Domain)),
		scale.Normalize(scale.Scale(dto.Fingerprint.Scale)),
		dto.Fingerprint.StakeholderCount,
		dto.Fingerprint.ConstraintCount,
		dto.Fingerprint.OptionCount,
		dto.Fingerprint.Keywords,
		tradeOffs,
		dto.Fingerprint.Hash,
		dto.Fingerprint.CreatedAt,
	)

	outcome := record.Outcome(dto.Outcome)
	if !outcome.IsValid() {
		outcome = record.OutcomePending
	}

	return record.Reconstruct(
		dto.ID, fp, dto.Summary, dto.ChosenOption,
		outcome, dto.Lessons, dto.DecidedAt,
	), nil
}

func encodeRecord(rec record.Record) ([]byte, error) {
	data, err := json.Marshal(recordToDTO(rec))
	if err != nil {
		return nil, fmt.Errorf("marshal record %s: %w", rec.ID(), err)
	}
	return data, nil
}

func decodeRecord(data []byte) (record.Record, error) {
	var dto recordDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return record.Record{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return dtoToRecord(dto)
}
