package chat

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/llama-swappo/swappo/internal/ui"
	logutils "github.com/llama-swappo/swappo/internal/utils/logger"
)

const (
	promptYou       = "👤 You: "
	labelAssistant  = "🤖 Assistant:"
	interruptedHint = "Use /quit to exit"
	separatorWidth  = 60
)

// REPL drives a Session from a LineReader. Input is read only while no reply
// is streaming.
type REPL struct {
	session *Session
	reader  ui.LineReader
	out     io.Writer
}

func NewREPL(session *Session, reader ui.LineReader, out io.Writer) *REPL {
	return &REPL{
		session: session,
		reader:  reader,
		out:     out,
	}
}

// Run reads and handles lines until the user quits or the input ends.
func (r *REPL) Run(ctx context.Context) error {
	lgr := logutils.FromContext(ctx)
	r.printBanner()

	for {
		line, err := r.reader.ReadLine(promptYou)
		if errors.Is(err, ui.ErrInterrupted) {
			fmt.Fprintf(r.out, "\n\n%s\n\n", ui.WarningStyle.Render(interruptedHint))
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprint(r.out, "\n\n👋 Goodbye!\n\n")
			return nil
		}
		if err != nil {
			return err
		}

		action := Interpret(line)
		lgr.Tracef(ctx, "input interpreted as %s", action.Kind)

		switch action.Kind {
		case ActionNoop:
		case ActionQuit:
			fmt.Fprint(r.out, "\n👋 Goodbye!\n\n")
			return nil
		case ActionClear:
			r.session.Clear()
			fmt.Fprintf(r.out, "\n%s\n\n", ui.SuccessStyle.Render("✂️ Conversation cleared"))
		case ActionHelp:
			r.printCommands()
		case ActionSwitchModel:
			r.switchModel(ctx, action.Arg)
		case ActionMessage:
			r.sendMessage(ctx, action.Arg)
		}
	}
}

func (r *REPL) switchModel(ctx context.Context, alias string) {
	if err := r.session.SwitchModel(alias); err != nil {
		logutils.FromContext(ctx).Debugf(ctx, "model switch rejected: %s", err)
		known := strings.Join(r.session.Aliases().Names(), " or ")
		fmt.Fprintf(r.out, "\n%s\n\n", ui.ErrorStyle.Render("❌ Unknown model. Use: "+known))
		return
	}
	logutils.FromContext(ctx).Infof(ctx, "switched to %s", r.session.Model())
	fmt.Fprintf(r.out, "\n%s\n\n", ui.SuccessStyle.Render("✅ Switched to "+alias))
}

// sendMessage streams one reply to the output. Failures are reported and the
// loop carries on.
func (r *REPL) sendMessage(ctx context.Context, text string) {
	fmt.Fprintf(r.out, "\n%s ", ui.LabelStyle.Render(labelAssistant))
	if _, err := r.session.Send(ctx, text, r.out); err != nil {
		logutils.FromContext(ctx).Warnf(ctx, "completion failed: %s", err)
		fmt.Fprintf(r.out, "\n%s\n\n", ui.ErrorStyle.Render("❌ Error: "+err.Error()))
		return
	}
	fmt.Fprint(r.out, "\n\n")
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s\n", ui.TitleStyle.Render("🤖 Code Chat - Model: "+r.session.Model()))
	r.printCommands()
}

func (r *REPL) printCommands() {
	names := strings.Join(r.session.Aliases().Names(), "|")
	fmt.Fprintln(r.out, ui.Separator(separatorWidth))
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintf(r.out, "  /model <%s> - Switch model\n", names)
	fmt.Fprintln(r.out, "  /clear - Clear conversation history")
	fmt.Fprintln(r.out, "  /help - Show this list")
	fmt.Fprintln(r.out, "  /quit or Ctrl+D - Exit")
	fmt.Fprintf(r.out, "%s\n\n", ui.Separator(separatorWidth))
}
