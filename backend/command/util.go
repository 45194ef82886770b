package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"feedback-board/backend/config"
	"feedback-board/backend/initialize"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type configKey struct{}

func configFrom(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}

func loadApp(ctx context.Context) (*initialize.App, error) {
	cfg, err := configFrom(ctx)
	if err != nil {
		return nil, err
	}
	return initialize.Build(cfg, *zerolog.Ctx(ctx))
}

// prompt reads one line from the command's stdin. The prompt is only shown
// and input only masked when stdin is a terminal.
func prompt(cmd *cobra.Command, msg string, mask bool) ([]byte, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if _, err := fmt.Fprint(cmd.ErrOrStderr(), msg); err != nil {
			return nil, err
		}
		if mask {
			line, err := term.ReadPassword(int(f.Fd()))
			_, _ = fmt.Fprintln(cmd.ErrOrStderr())
			return line, err
		}
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := info.Main.Version
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if ver == "" || ver == "(devel)" {
				ver = setting.Value
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if ver == "" {
		ver = "unknown"
	}
	if dirty {
		ver += "-dirty"
	}
	return ver
}
