package jobs

import "context"

// ReconcileExpiredReservations completes reservations whose end date has
// passed so that their cars show up as available again without waiting for
// the next availability read.
func (jr *JobRunner) ReconcileExpiredReservations() {
	jr.runWithRecovery("ReconcileExpiredReservations", func(ctx context.Context) {
		jr.reservations.ReconcileExpiredReservations(ctx)
	})
}
