package cleaner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"downsweep/internal/config"
	"downsweep/internal/fileutil"
	"downsweep/internal/history"
	"downsweep/internal/logging"
)

// UndoSummary reports the outcome of replaying the most recent session.
type UndoSummary struct {
	SessionID  string
	StartedAt  time.Time
	Operations int
	Reversed   int
	Failed     int
}

// Undo replays the most recent recorded session in reverse: moves are moved
// back, deletes are reported as non-reversible. Per-entry failures are counted
// and logged but never abort the pass. After a non-dry pass the session is
// removed from the history so a repeated undo cannot reapply stale state.
func Undo(ctx context.Context, cfg *config.Config, dryRun bool, logger *slog.Logger) (UndoSummary, error) {
	logger = logging.NewComponentLogger(logger, "undo")
	var summary UndoSummary

	hist, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return summary, Wrap(ErrConfiguration, "undo", "open history", "", err)
	}
	session, ok := hist.Latest()
	if !ok {
		return summary, Wrap(ErrConfiguration, "undo", "find session", "no cleanup history to undo", nil)
	}
	summary.SessionID = session.ID
	summary.StartedAt = session.StartedAt
	summary.Operations = len(session.Operations)

	if !dryRun {
		lock := flock.New(cfg.LockPath())
		ok, err := lock.TryLock()
		if err != nil {
			return summary, Wrap(ErrConfiguration, "undo", "acquire lock", cfg.LockPath(), err)
		}
		if !ok {
			return summary, Wrap(ErrConfiguration, "undo", "acquire lock", "another downsweep run owns this source directory", nil)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logger.Warn("failed to release run lock", logging.Error(err))
			}
		}()
	}

	logger.Info("undoing session",
		logging.String("session_id", session.ID),
		logging.Int("operations", len(session.Operations)),
		logging.Bool("dry_run", dryRun),
	)

	for i := len(session.Operations) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		op := session.Operations[i]
		switch op.Kind {
		case history.KindMove:
			if dryRun {
				logger.Info("would move back",
					logging.String("from", op.Destination),
					logging.String("to", op.Source),
				)
				summary.Reversed++
				continue
			}
			if err := undoMove(op); err != nil {
				logger.Warn("could not reverse move",
					logging.String("from", op.Destination),
					logging.String("to", op.Source),
					logging.Error(err),
				)
				summary.Failed++
				continue
			}
			summary.Reversed++
		case history.KindDelete:
			logger.Info("cannot restore deleted file", logging.String("source", op.Source))
			summary.Failed++
		default:
			logger.Warn("unknown history entry kind", logging.String("kind", string(op.Kind)))
			summary.Failed++
		}
	}

	if !dryRun {
		if err := hist.RemoveLatest(); err != nil {
			return summary, Wrap(ErrConfiguration, "undo", "update history", "", err)
		}
	}

	logger.Info("undo finished",
		logging.Int("reversed", summary.Reversed),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

func undoMove(op history.Entry) error {
	if _, err := os.Lstat(op.Destination); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Wrap(ErrUndoTargetMissing, "undo", "locate file", op.Destination, nil)
		}
		return classifyFileError("undo", "locate file", op.Destination, err)
	}
	// Never overwrite whatever now occupies the original location.
	if _, err := os.Lstat(op.Source); err == nil {
		return Wrap(ErrCollisionUnresolved, "undo", "restore", op.Source+" is occupied", nil)
	} else if !errors.Is(err, os.ErrNotExist) {
		return classifyFileError("undo", "restore", op.Source, err)
	}
	if err := os.MkdirAll(filepath.Dir(op.Source), 0o755); err != nil {
		return classifyFileError("undo", "restore", op.Source, err)
	}
	if err := fileutil.MoveFile(op.Destination, op.Source); err != nil {
		return classifyFileError("undo", "restore", op.Source, err)
	}
	return nil
}
