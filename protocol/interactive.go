package protocol

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
)

// InteractiveLoop runs the same UMI dispatch as Loop, but reads commands
// through a readline.Instance instead of a bare bufio.Scanner, giving an
// operator typing at a terminal history and line-editing -- the same
// shape as the teacher's ShellController.Loop, adapted from a full
// tab-completing shell down to a plain UMI prompt.
func (e *Engine) InteractiveLoop(w io.Writer) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            "umi> ",
		HistoryFile:       historyFilePath(),
		EOFPrompt:         "quit",
		InterruptPrompt:   "^C",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("protocol: starting readline: %w", err)
	}
	defer l.Close()

	for !e.quit {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if line == "" {
				break
			}
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		if derr := e.dispatch(line, w); derr != nil {
			e.writeln(w, "info error %s", derr.Error())
		}
	}
	return nil
}

func historyFilePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + "/spooky_history"
	}
	return "/tmp/spooky_history"
}
