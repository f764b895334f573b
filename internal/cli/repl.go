package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for the prompt output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. *App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	NewChat(ctx context.Context, title string) error
	Select(ctx context.Context, ref string) error
	Send(ctx context.Context, text string) error
	Show(ctx context.Context) error
	Clear(ctx context.Context) error
	Delete(ctx context.Context, ref string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: (l)ist, new [title], select <id>, show, send <text>, clear, delete <id>, logout, exit\nAnything else you type is sent to the active chat."
)

// runREPL reads lines from reader and dispatches them to a until EOF or
// "exit"/"quit". While logged in, a line that is not a command is sent to
// the active chat. Handler errors are ignored here: handlers report to the
// user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("eq%s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue

		case "register":
			_ = a.Register(ctx)
			continue

		case "login":
			_ = a.Login(ctx)
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			printlnFn("Unknown command:", cmd, "(log in or register first)")
			continue
		}

		switch cmd {
		case "logout":
			_ = a.Logout(ctx)
		case "l", "list", "chats":
			_ = a.List(ctx)
		case "new":
			_ = a.NewChat(ctx, rest)
		case "select":
			_ = a.Select(ctx, rest)
		case "show":
			_ = a.Show(ctx)
		case "send":
			_ = a.Send(ctx, rest)
		case "clear":
			_ = a.Clear(ctx)
		case "delete":
			_ = a.Delete(ctx, rest)
		default:
			_ = a.Send(ctx, line)
		}
	}
}
