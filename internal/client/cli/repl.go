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
	WhoAmI(ctx context.Context) error
	Go(ctx context.Context, path string) error
	Where(ctx context.Context) error
	Back(ctx context.Context) error
	History(ctx context.Context) error
	Pages(ctx context.Context) error
	Users(ctx context.Context, page string) error
	User(ctx context.Context, id string) error
	Members(ctx context.Context, kind, id string) error
	Subscribe(ctx context.Context, plan string) error
	Lang(ctx context.Context, tag string) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sc %s> ", statusFn()))

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
				printlnFn("Available commands: whoami, go <path>, where, back, history, pages, users [page], user <id>, members group|event <id>, subscribe <plan>, lang [tag], logout, exit")
			} else {
				printlnFn("Available commands: register, login, go <path>, where, back, history, pages, lang [tag], exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "go":
			if len(args) == 0 {
				printlnFn("Usage: go <path>")
				continue
			}
			_ = a.Go(ctx, args[0])

		case "where":
			_ = a.Where(ctx)

		case "back":
			_ = a.Back(ctx)

		case "history":
			_ = a.History(ctx)

		case "pages":
			_ = a.Pages(ctx)

		case "users":
			page := ""
			if len(args) > 0 {
				page = args[0]
			}
			_ = a.Users(ctx, page)

		case "user":
			if len(args) == 0 {
				printlnFn("Usage: user <id>")
				continue
			}
			_ = a.User(ctx, args[0])

		case "members":
			if len(args) < 2 {
				printlnFn("Usage: members group|event <id>")
				continue
			}
			_ = a.Members(ctx, args[0], args[1])

		case "subscribe":
			if len(args) == 0 {
				printlnFn("Usage: subscribe <plan>")
				continue
			}
			_ = a.Subscribe(ctx, args[0])

		case "lang":
			tag := ""
			if len(args) > 0 {
				tag = args[0]
			}
			_ = a.Lang(ctx, tag)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
