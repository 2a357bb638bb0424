// Package history records backend results in the local database.
package history

import (
	"context"

	"recworklist/internal/api"
	"recworklist/internal/infrastructure/sqlite"
	"recworklist/internal/log"
)

// Repository stores result records.
type Repository interface {
	Record(ctx context.Context, rec sqlite.ResultRecord) (int64, error)
}

// Recorder turns API responses into history rows. A nil or disabled
// Recorder only logs.
type Recorder struct {
	repo    Repository
	enabled bool
}

// New creates a recorder. enabled is normally the result-history flag.
func New(repo Repository, enabled bool) *Recorder {
	return &Recorder{repo: repo, enabled: enabled && repo != nil}
}

// Enabled reports whether results are stored.
func (r *Recorder) Enabled() bool {
	return r != nil && r.enabled
}

// Record stores the outcome of one call. Storage failures are logged and
// never returned; history must not fail the call it describes.
func (r *Recorder) Record(ctx context.Context, resp api.Response, callErr error) {
	if !r.Enabled() {
		return
	}
	rec := RecordOf(resp, callErr)
	if _, err := r.repo.Record(ctx, rec); err != nil {
		log.ErrorErr(log.CatDB, "Recording result failed", err, "endpoint", rec.Endpoint, "requestID", rec.RequestID)
	}
}

// RecordOf converts a response and its error into a history record.
func RecordOf(resp api.Response, callErr error) sqlite.ResultRecord {
	rec := sqlite.ResultRecord{
		RequestID: resp.RequestID,
		Endpoint:  resp.Endpoint,
		Status:    resp.Status,
		OK:        callErr == nil,
		Duration:  resp.Duration,
	}
	if callErr != nil {
		rec.Error = callErr.Error()
	}
	if resp.Result != nil {
		rec.Summary = resp.Result.Summary()
		if b, err := resp.Result.JSON(); err == nil {
			rec.Result = string(b)
		}
	}
	return rec
}
