package desktop

// Toast and reveal timers carry a generation. Anything that tears down the
// owning surface bumps it, so a callback already queued behind the lock
// finds a newer generation and leaves state alone.

func (d *Desktop) showToastLocked(msg string) {
	if d.closed {
		return
	}
	d.stopToastLocked()
	d.toast = msg
	gen := d.toastGen
	d.toastTimer = d.opts.Scheduler(d.opts.ToastDuration, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.toastGen != gen {
			return
		}
		d.toast = ""
		d.toastTimer = nil
		d.notifyLocked()
	})
}

func (d *Desktop) stopToastLocked() {
	d.toastGen++
	if d.toastTimer != nil {
		d.toastTimer.Stop()
		d.toastTimer = nil
	}
	d.toast = ""
}

// startRevealLocked types text out one rune per tick.
func (d *Desktop) startRevealLocked(text string) {
	d.stopRevealLocked()
	if d.closed || text == "" {
		return
	}
	d.revealTarget = []rune(text)
	d.scheduleRevealLocked(d.revealGen)
}

func (d *Desktop) scheduleRevealLocked(gen uint64) {
	d.revealTimer = d.opts.Scheduler(d.opts.TypingInterval, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.revealGen != gen {
			return
		}
		d.reveal = d.revealTarget[:len(d.reveal)+1]
		d.notifyLocked()
		if len(d.reveal) >= len(d.revealTarget) {
			d.revealTimer = nil
			return
		}
		d.scheduleRevealLocked(gen)
	})
}

func (d *Desktop) stopRevealLocked() {
	d.revealGen++
	if d.revealTimer != nil {
		d.revealTimer.Stop()
		d.revealTimer = nil
	}
	d.reveal = nil
	d.revealTarget = nil
}
