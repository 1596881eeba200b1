package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nextlevel/nl-console-go/internal/event"
	"github.com/nextlevel/nl-console-go/internal/notify"
	"github.com/nextlevel/nl-console-go/internal/session"
	"github.com/nextlevel/nl-console-go/internal/ui"

	"go.uber.org/zap"
)

// repl is the interactive command loop. Each command maps to one view
// or session operation; errors are printed, never fatal.
type repl struct {
	console *ui.Console
	store   *session.Store
	bus     *event.Bus
	notify  *notify.Store
	logger  *zap.Logger
}

func newREPL(console *ui.Console, store *session.Store, bus *event.Bus, notifier *notify.Store, logger *zap.Logger) *repl {
	return &repl{
		console: console,
		store:   store,
		bus:     bus,
		notify:  notifier,
		logger:  logger,
	}
}

func (r *repl) run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Next Level console. Type 'help' for commands.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "nlc (%s)> ", r.console.Status())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := r.dispatch(ctx, out, cmd, args); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	}
}

func (r *repl) dispatch(ctx context.Context, out io.Writer, cmd string, args []string) error {
	switch cmd {
	case "help":
		printHelp(out)
		return nil

	case "login":
		if len(args) < 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		if err := r.store.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(out, "logged in")
		return nil

	case "token":
		if len(args) != 1 {
			return fmt.Errorf("usage: token <bearer-token>")
		}
		r.store.AdoptToken(args[0])
		fmt.Fprintln(out, "token adopted")
		return nil

	case "logout":
		r.store.Logout()
		fmt.Fprintln(out, "logged out")
		return nil

	case "companies":
		return r.console.Companies(ctx)

	case "company":
		if len(args) < 2 || args[0] != "add" {
			return fmt.Errorf("usage: company add <name> [sector]")
		}
		sector := ""
		if len(args) > 2 {
			sector = strings.Join(args[2:], " ")
		}
		return r.console.CreateCompany(ctx, args[1], sector)

	case "use":
		if len(args) != 1 {
			return fmt.Errorf("usage: use <company-id>")
		}
		r.console.SelectCompany(args[0])
		return nil

	case "tx":
		if len(args) == 0 {
			return r.console.Transactions(ctx)
		}
		if args[0] != "add" || len(args) < 4 {
			return fmt.Errorf("usage: tx add <revenue|expense> <amount> <description>")
		}
		amount, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("bad amount %q", args[2])
		}
		return r.console.AddTransaction(ctx, args[1], amount, strings.Join(args[3:], " "))

	case "summary", "dashboard":
		return r.console.Dashboard(ctx)

	case "chat":
		if len(args) == 0 {
			return fmt.Errorf("usage: chat <message>")
		}
		return r.console.Chat(ctx, strings.Join(args, " "))

	case "analyze":
		return r.console.Analyze(ctx)

	case "profile":
		return r.console.Profile(ctx)

	case "theme":
		if len(args) != 1 {
			return fmt.Errorf("usage: theme <dark|light>")
		}
		r.console.SetTheme(ctx, args[0])
		return nil

	case "detail":
		if len(args) != 1 {
			return fmt.Errorf("usage: detail <low|medium|high>")
		}
		r.console.SetDetailLevel(ctx, args[0])
		return nil

	case "password":
		if len(args) != 3 {
			return fmt.Errorf("usage: password <current> <new> <confirm>")
		}
		return r.console.ChangePassword(ctx, args[0], args[1], args[2])

	case "export":
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		path, err := r.console.Export(ctx, dir)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "saved", path)
		return nil

	case "stats":
		r.console.Stats()
		return nil

	case "toasts":
		r.console.Toasts()
		return nil

	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `Commands:
  login <email> <password>              authenticate
  token <bearer-token>                  adopt an existing token (offline)
  logout                                clear the session
  companies                             list companies (* marks active)
  company add <name> [sector]           create a company
  use <company-id>                      select the active company
  tx                                    list transactions with per-day totals
  tx add <revenue|expense> <amt> <desc> record a transaction
  summary                               dashboard KPIs
  chat <message>                        ask the assistant
  analyze                               AI analysis of the dashboard
  profile                               account details
  theme <dark|light>                    set theme
  detail <low|medium|high>              set AI detail level
  password <current> <new> <confirm>    change password
  export [dir]                          download the financial report
  stats                                 client request counters
  toasts                                show active notifications
  quit                                  exit
`)
}
