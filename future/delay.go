package future

import "time"

// Delay returns a future that completes successfully after d elapses. A
// zero or negative duration completes immediately; the returned future
// supports cancellation by stopping the underlying timer.
func Delay(d time.Duration) *Future[struct{}] {
	if d <= 0 {
		return Completed(struct{}{})
	}

	var timer *time.Timer

	f, p := New[struct{}](func() error {
		if timer != nil {
			timer.Stop()
		}

		return nil
	})

	p.TrySetScheduled() //nolint:errcheck
	p.TrySetRunning()   //nolint:errcheck

	timer = time.AfterFunc(d, func() {
		p.TrySetResult(struct{}{})
	})

	return f
}
