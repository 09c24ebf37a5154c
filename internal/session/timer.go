package session

import "time"

// The elapsed-seconds timer runs strictly while the execution sheet is
// in its running sub-state. Each start spawns one goroutine owning a
// ticker and a stop channel; stopping closes the channel and clears the
// running flag under the lock, so no tick can land after a stop even if
// one was already in flight. The counter does not persist and resets
// only on StartExercise.

// startTimerLocked begins ticking. Caller holds c.mu.
func (c *Controller) startTimerLocked() {
	c.stopTimerLocked()
	stop := make(chan struct{})
	c.timerStop = stop
	c.timerRunning = true

	go func() {
		ticker := time.NewTicker(c.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.tick(stop)
			}
		}
	}()
}

// tick increments the counter if the originating timer is still the
// live one. A tick racing a stop loses: the stop channel identity check
// runs under the lock.
func (c *Controller) tick(stop chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timerRunning && c.timerStop == stop {
		c.elapsed++
	}
}

// stopTimerLocked stops the timer without resetting the counter.
// Caller holds c.mu. Safe to call when no timer is running.
func (c *Controller) stopTimerLocked() {
	if c.timerStop != nil {
		close(c.timerStop)
		c.timerStop = nil
	}
	c.timerRunning = false
}
