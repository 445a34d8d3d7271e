package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/weatherdesk/internal/config"
	"github.com/genricoloni/weatherdesk/internal/domain"
	"go.uber.org/zap"
)

const stagedPrefix = config.AppName + "-"

// OutputConfig is the part of the configuration the processor reads
type OutputConfig interface {
	GetOutputDir() string
}

// StageProcessor copies the chosen wallpaper into the output directory,
// optionally filling it to the screen resolution first
type StageProcessor struct {
	logger *zap.Logger
	res    *domain.ScreenResolution // Injected automatically by Fx
	appCfg OutputConfig
}

// NewStageProcessor creates a processor writing into appCfg's output directory
func NewStageProcessor(logger *zap.Logger, res *domain.ScreenResolution, appCfg OutputConfig) *StageProcessor {
	return &StageProcessor{
		logger: logger,
		res:    res,
		appCfg: appCfg,
	}
}

// Process scales and crops image data to cover the whole screen, keeping
// the source encoding
func (p *StageProcessor) Process(ctx context.Context, imageData []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dy() == 0 || bounds.Dx() == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	p.logger.Debug("Filling image to screen", zap.Int("w", p.res.Width), zap.Int("h", p.res.Height))
	filled := imaging.Fill(img, p.res.Width, p.res.Height, imaging.Center, imaging.Lanczos)

	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		f = imaging.JPEG
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, filled, f, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	p.logger.Debug("Image processed successfully", zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// Generate stages srcPath as weatherdesk-<name> in the output directory and
// returns the absolute path of the staged file.
// This method satisfies the domain.Processor interface
func (p *StageProcessor) Generate(srcPath string, mode string) (string, error) {
	outputDir := p.appCfg.GetOutputDir()
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, stagedPrefix+filepath.Base(srcPath))

	var err error
	switch mode {
	case config.ModeFill:
		err = p.fill(srcPath, outputPath)
	case config.ModeCopy, "":
		err = p.copy(srcPath, outputPath)
	default:
		return "", fmt.Errorf("unknown staging mode %q", mode)
	}
	if err != nil {
		return "", err
	}

	p.logger.Info("Wallpaper staged",
		zap.String("source", srcPath),
		zap.String("path", outputPath),
		zap.String("mode", mode))

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return outputPath, nil // Return relative path if abs fails
	}
	return absPath, nil
}

func (p *StageProcessor) fill(srcPath, outputPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read wallpaper: %w", err)
	}

	processed, err := p.Process(context.Background(), data)
	if err != nil {
		return fmt.Errorf("failed to process image: %w", err)
	}

	return writeAtomic(outputPath, bytes.NewReader(processed))
}

func (p *StageProcessor) copy(srcPath, outputPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open wallpaper: %w", err)
	}
	defer src.Close()

	return writeAtomic(outputPath, src)
}

// writeAtomic replaces path so a desktop reloading it never sees a partial file
func writeAtomic(path string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".stage-*")
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write wallpaper file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write wallpaper file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write wallpaper file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace wallpaper file: %w", err)
	}
	return nil
}
