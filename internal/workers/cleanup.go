// Package workers holds the in-process background jobs.
package workers

import (
	"context"
	"log"
	"time"

	"github.com/workhive-id/workhive_be/internal/repository"
)

// StartOrphanCleanup periodically removes stored objects with no metadata
// row. Uploads that die between the object write and the insert leave these
// behind.
func StartOrphanCleanup(files *repository.FileRepo, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			removed, err := files.CleanupOrphans(ctx)
			cancel()
			if err != nil {
				log.Printf("[OrphanCleanup] scan failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("[OrphanCleanup] removed %d orphaned objects", removed)
			}
		}
	}()
}
