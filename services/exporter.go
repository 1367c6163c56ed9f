package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Dosada05/team-league/storage"
)

const standingsContentType = "application/json"

// StandingsExport lists the objects written for one export.
type StandingsExport struct {
	LatestKey   string `json:"latest_key"`
	LatestURL   string `json:"latest_url"`
	RevisionKey string `json:"revision_key"`
	RevisionURL string `json:"revision_url"`
}

// StandingsExporter publishes standings documents to object storage: a
// per-week document that is overwritten on every export and an immutable
// revision named by a random id.
type StandingsExporter struct {
	uploader storage.FileUploader
	newID    func() uuid.UUID
}

func NewStandingsExporter(uploader storage.FileUploader) *StandingsExporter {
	return &StandingsExporter{uploader: uploader, newID: uuid.New}
}

func standingsKeys(leagueID, weekNumber int, revision uuid.UUID) (latest, rev string) {
	prefix := fmt.Sprintf("leagues/%d/standings", leagueID)
	return fmt.Sprintf("%s/week-%d.json", prefix, weekNumber),
		fmt.Sprintf("%s/revisions/%s.json", prefix, revision)
}

func (e *StandingsExporter) Export(ctx context.Context, view *StandingsView, weekNumber int) (*StandingsExport, error) {
	body, err := json.MarshalIndent(view, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to encode standings for league %d: %w", view.LeagueID, err)
	}

	latestKey, revisionKey := standingsKeys(view.LeagueID, weekNumber, e.newID())

	rev, err := e.uploader.Upload(ctx, revisionKey, standingsContentType, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	latest, err := e.uploader.Upload(ctx, latestKey, standingsContentType, bytes.NewReader(body))
	if err != nil {
		// Ревизия без актуального документа не нужна.
		if delErr := e.uploader.Delete(ctx, revisionKey); delErr != nil {
			return nil, fmt.Errorf("%w (cleanup of %s also failed: %v)", err, revisionKey, delErr)
		}
		return nil, err
	}

	return &StandingsExport{
		LatestKey:   latest.Key,
		LatestURL:   latest.Location,
		RevisionKey: rev.Key,
		RevisionURL: rev.Location,
	}, nil
}
