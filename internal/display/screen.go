// Package display reports the size of the primary screen.
package display

import (
	"image"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

var fallback = domain.ScreenResolution{Width: 1920, Height: 1080}

// NewScreenResolution detects the primary screen resolution at startup
func NewScreenResolution(logger *zap.Logger) *domain.ScreenResolution {
	return resolve(logger, screenshot.NumActiveDisplays, screenshot.GetDisplayBounds)
}

func resolve(logger *zap.Logger, count func() int, bounds func(int) image.Rectangle) *domain.ScreenResolution {
	if count() <= 0 {
		logger.Warn("No active displays detected, falling back to 1920x1080")
		res := fallback
		return &res
	}

	// Use primary monitor (index 0)
	b := bounds(0)
	if b.Dx() <= 0 || b.Dy() <= 0 {
		logger.Warn("Primary display reports an empty area, falling back to 1920x1080")
		res := fallback
		return &res
	}

	res := &domain.ScreenResolution{
		Width:  b.Dx(),
		Height: b.Dy(),
	}

	logger.Info("Screen resolution detected",
		zap.Int("width", res.Width),
		zap.Int("height", res.Height))

	return res
}
