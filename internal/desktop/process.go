package desktop

import (
	"context"

	"github.com/genricoloni/weatherdesk/internal/runner"
	"go.uber.org/zap"
)

var processListCommands = []runner.Command{
	runner.New("ps", "axw"),
	runner.New("tasklist", "/v"),
}

// processList returns the text of the first process listing command that
// works. A host without any of them yields "", i.e. nothing is running.
func (d *Detector) processList(ctx context.Context) string {
	for _, cmd := range processListCommands {
		out, err := d.runner.Output(ctx, cmd)
		if err != nil {
			d.logger.Debug("Process listing unavailable",
				zap.String("cmd", cmd.Name),
				zap.Error(err))
			continue
		}
		return string(out)
	}
	return ""
}
