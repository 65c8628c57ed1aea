package publish

import (
	"context"
	"log/slog"
	"os"

	"lookpub/internal/config"
	"lookpub/internal/fileutil"
	"lookpub/internal/logging"
)

// Base is the default publisher a plugin delegates to. It creates the
// destination directory, copies the work file, and applies the configured
// file mode. Verification is optional per configuration.
type Base struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewBase returns the default publisher.
func NewBase(cfg *config.Config, logger *slog.Logger) *Base {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Base{cfg: cfg, logger: logger}
}

// PublishFile copies workPath to publishPath. The destination must not exist;
// validation guards that before publish runs, but a concurrent writer losing
// the race surfaces here as a copy error rather than silent truncation.
func (b *Base) PublishFile(ctx context.Context, node, workPath, publishPath string) error {
	if err := ctx.Err(); err != nil {
		return Wrap(ErrPublishFailed, node, "publish", "canceled", err)
	}

	if err := fileutil.EnsureParentDir(publishPath); err != nil {
		return Wrap(ErrPublishFailed, node, "publish", "create publish directory", err)
	}

	mode := os.FileMode(b.cfg.Publish.FileMode)
	if b.cfg.Publish.VerifyCopies {
		if err := fileutil.CopyFileVerified(workPath, publishPath); err != nil {
			return Wrap(ErrPublishFailed, node, "publish", "copy work file", err)
		}
		if err := os.Chmod(publishPath, mode); err != nil {
			return Wrap(ErrPublishFailed, node, "publish", "set file mode", err)
		}
	} else {
		if err := fileutil.CopyFileMode(workPath, publishPath, mode); err != nil {
			return Wrap(ErrPublishFailed, node, "publish", "copy work file", err)
		}
	}

	b.logger.Info("published work file",
		logging.Args(
			logging.String("node", node),
			logging.String("work_path", workPath),
			logging.String("publish_path", publishPath),
		)...)
	return nil
}
