package shell

import (
	"context"
	"time"
)

// waitForeground blocks until pid is no longer the foreground job: it was
// reaped, stopped or moved to the background. Each wake re-reads the table
// since several changes may have happened in between.
func (s *Shell) waitForeground(ctx context.Context, pid int) error {
	s.out.flush()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for s.registry.IsForeground(pid) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.registry.Changed():
		case <-ticker.C:
		}
	}

	s.logger.Debug("waitfg: process no longer the fg process", "pid", pid)

	return nil
}
