package logwatch

import (
	"fmt"
	"io"
	"strings"

	"github.com/hpcloud/tail"
)

// Follow tails a log file and echoes installed-package lines until the
// stop channel closes. It is purely informational: a quiet multi-minute
// pacstrap would otherwise look hung.
func Follow(logPath string, stop <-chan struct{}) {
	t, err := tail.TailFile(logPath, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:   tail.DiscardingLogger,
	})
	if err != nil {
		// The log may not exist until pacstrap creates it; nothing to
		// report, the spinner is still running.
		return
	}
	defer t.Stop()

	for {
		select {
		case line, ok := <-t.Lines:
			if !ok || line.Err != nil {
				return
			}
			if strings.Contains(line.Text, "installed") {
				fmt.Printf("    %s\n", strings.TrimSpace(line.Text))
			}
		case <-stop:
			return
		}
	}
}
