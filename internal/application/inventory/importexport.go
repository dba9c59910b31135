package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sattrack/backend/internal/domain/satellite"
	"github.com/sattrack/backend/internal/domain/shared"
	"github.com/sattrack/backend/internal/infrastructure/bulk"
	"go.uber.org/zap"
)

// Import runs one bulk import of delimited text. Rows are parsed,
// validated and submitted strictly in input order; a row failure is
// recorded and skipped, never aborting the batch. A second import
// arriving while one runs is rejected.
func (s *Service) Import(ctx context.Context, text string) (ImportReport, error) {
	if !s.importBusy.CompareAndSwap(false, true) {
		return ImportReport{}, shared.ErrImportInFlight
	}
	defer s.importBusy.Store(false)

	batchID := uuid.NewString()
	parsed := bulk.Parse(text)

	report := ImportReport{
		BatchID:   batchID,
		Total:     parsed.Total,
		RowErrors: parsed.Rejected.Errors,
	}

	accepted := make([]satellite.Record, 0, len(parsed.Drafts))
	acceptedLines := make([]int, 0, len(parsed.Drafts))
	for i, draft := range parsed.Drafts {
		result := satellite.Validate(draft)
		if !result.Valid {
			first := result.Errors[0]
			report.RowErrors = append(report.RowErrors, bulk.RowError{
				Line:   parsed.Lines[i],
				Field:  first.Field,
				Reason: first.Message,
			})
			continue
		}
		accepted = append(accepted, result.Record)
		acceptedLines = append(acceptedLines, parsed.Lines[i])
	}

	created, bulkResult, err := s.store.BulkCreate(ctx, accepted)
	if err != nil {
		if isStorageDegraded(err) {
			// Local persistence failed after the rows were accepted into
			// the store's collection; the session keeps them.
			report.Imported = len(created)
			report.Skipped = report.Total - report.Imported
			report.Warning = "imported rows kept in memory only: " + err.Error()
			s.appendAll(created)
			s.notifier.Error(report.Warning)
			s.logImport(batchID, report)
			return report, nil
		}
		s.notifier.Error("import failed")
		return ImportReport{}, err
	}

	report.Imported = bulkResult.Accepted
	for _, failure := range bulkResult.Failures {
		report.RowErrors = append(report.RowErrors, bulk.RowError{
			Line:   acceptedLines[failure.Index],
			Reason: failure.Reason,
		})
	}

	if s.store.RefreshAfterWrite() {
		records, loadErr := s.store.Load(ctx)
		if loadErr != nil {
			report.Warning = "import completed but the list could not be refreshed"
			s.log.Warn("post-import refresh failed", zap.String("batch_id", batchID), zap.Error(loadErr))
		} else {
			s.mu.Lock()
			s.records = records
			s.mu.Unlock()
		}
	} else {
		s.appendAll(created)
	}

	report.Skipped = report.Total - report.Imported
	if report.Warning != "" || (len(report.RowErrors) > 0 && report.Imported == 0) {
		s.notifier.Error("import finished with problems")
	} else {
		s.notifier.Success("Import complete")
	}
	s.logImport(batchID, report)
	return report, nil
}

// isStorageDegraded reports whether the error means the in-memory rows
// are usable but not persisted.
func isStorageDegraded(err error) bool {
	return errors.Is(err, shared.ErrStorageQuota) || errors.Is(err, shared.ErrStorageSerialization)
}

// appendAll extends the in-memory collection with created rows.
func (s *Service) appendAll(recs []satellite.Record) {
	s.mu.Lock()
	s.records = append(s.records, recs...)
	s.mu.Unlock()
}

func (s *Service) logImport(batchID string, report ImportReport) {
	s.log.Info("bulk import finished",
		zap.String("batch_id", batchID),
		zap.Int("total", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("rejected", len(report.RowErrors)))
}

// Export renders the unfiltered collection as delimited text and returns
// it with the dated download filename.
func (s *Service) Export() (filename, content string) {
	return bulk.ExportFilename(time.Now()), bulk.Export(s.Records())
}
