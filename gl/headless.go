package gl

import "log/slog"

// HeadlessDetector decides once whether the context has a default
// framebuffer. The answer never changes for the life of a context.
type HeadlessDetector struct {
	force    bool
	probed   bool
	headless bool
	logger   *slog.Logger
}

// NewHeadlessDetector returns a detector. With force set, detection is
// skipped and the context is treated as headless.
func NewHeadlessDetector(force bool, logger *slog.Logger) *HeadlessDetector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HeadlessDetector{force: force, logger: logger}
}

// Headless reports whether the context lacks a usable default framebuffer.
//
// The probe binds framebuffer 0, checks its status and restores the
// previous binding. Without framebuffer objects the probe cannot run and
// the context is assumed to have a window.
func (d *HeadlessDetector) Headless(funcs Funcs) bool {
	if d.probed {
		return d.headless
	}
	d.probed = true

	switch {
	case d.force:
		d.headless = true
		d.logger.Info("gl: headless mode forced by configuration")
	case !funcs.Capabilities().Has(CapFramebuffer):
		d.headless = false
		d.logger.Warn("gl: cannot probe for a default framebuffer, assuming one exists")
	default:
		prev := funcs.GetIntegerv(FramebufferBinding)
		funcs.BindFramebuffer(Framebuffer, 0)
		status := funcs.CheckFramebufferStatus(Framebuffer)
		funcs.BindFramebuffer(Framebuffer, uint32(prev))
		d.headless = status != FramebufferComplete
		d.logger.Info("gl: default framebuffer probed", "headless", d.headless, "status", uint32(status))
	}
	return d.headless
}
