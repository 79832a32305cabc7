package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	TradesCmd(ctx context.Context, args []string) error
	LedgerCmd(ctx context.Context, args []string) error
	ChallengesCmd(ctx context.Context, args []string) error
	Exits(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	Calendar(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
	StatusCmd(ctx context.Context) error
	Reload(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: register, login, status, exit"
	helpSignedIn  = "Available commands: trades (t), ledger, challenges, exits, attach, calendar, " +
		"profile, page, theme, status, reload, logout, exit"
)

// runREPL reads commands line by line and dispatches them to a. It returns
// on EOF or "exit"/"quit". Handlers report their own errors to the user
// (directly or through notifications), so their return values only matter
// to tests.
//
// Commands other than help/register/login/status/exit need a signed-in
// session.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Print(promptFn())

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
			continue
		case "register":
			_ = a.Register(ctx)
			continue
		case "login":
			_ = a.Login(ctx)
			continue
		case "status":
			_ = a.StatusCmd(ctx)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			if isKnown(cmd) {
				printlnFn("Please sign in to continue")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "trades", "t":
			_ = a.TradesCmd(ctx, args)
		case "ledger":
			_ = a.LedgerCmd(ctx, args)
		case "challenges":
			_ = a.ChallengesCmd(ctx, args)
		case "exits":
			_ = a.Exits(ctx, args)
		case "attach":
			_ = a.Attach(ctx, args)
		case "calendar":
			_ = a.Calendar(ctx, args)
		case "profile":
			_ = a.Profile(ctx, args)
		case "page":
			_ = a.Page(ctx, args)
		case "theme":
			_ = a.Theme(ctx, args)
		case "reload":
			_ = a.Reload(ctx)
		case "logout":
			_ = a.Logout(ctx)
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

var signedInCommands = []string{"trades", "t", "ledger", "challenges", "exits", "attach", "calendar",
	"profile", "page", "theme", "reload", "logout"}

func isKnown(cmd string) bool {
	return contains(signedInCommands, cmd)
}
