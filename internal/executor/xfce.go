package executor

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/runner"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	xfceChannel         = "xfce4-desktop"
	xfceImageSuffix     = "/last-image"
	xfceDefaultProperty = "/backdrop/screen0/monitor0/workspace0/last-image"
)

// applyXfce4 sets last-image on every monitor/workspace backdrop and reloads xfdesktop
func applyXfce4(ctx context.Context, d *Dispatcher, env domain.DesktopEnvironment, imagePath string) error {
	out, err := d.runner.Output(ctx, runner.New("xfconf-query", "-c", xfceChannel, "-l"))
	if err != nil {
		return toolFailed(env, err)
	}

	props := xfceImageProperties(out)
	d.logger.Debug("xfce4 backdrop properties", zap.Strings("properties", props))

	var errs error
	if len(props) == 0 {
		// Fresh profile: nothing configured yet, create the primary backdrop
		errs = d.runner.Run(ctx, runner.New("xfconf-query", "-c", xfceChannel,
			"-p", xfceDefaultProperty, "-n", "-t", "string", "-s", imagePath))
	}
	for _, prop := range props {
		errs = multierr.Append(errs,
			d.runner.Run(ctx, runner.New("xfconf-query", "-c", xfceChannel, "-p", prop, "-s", imagePath)))
	}
	if errs != nil {
		return toolFailed(env, errs)
	}

	return d.run(ctx, env, runner.New("xfdesktop", "--reload"))
}

// xfceImageProperties picks the last-image properties out of an xfconf-query -l listing
func xfceImageProperties(listing []byte) []string {
	var props []string
	scanner := bufio.NewScanner(bytes.NewReader(listing))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "/backdrop/") && strings.HasSuffix(line, xfceImageSuffix) {
			props = append(props, line)
		}
	}
	return props
}
