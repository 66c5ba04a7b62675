package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Fprintln

const defaultHistoryLimit = 20

// execIface is the command surface the REPL drives. *App satisfies it.
type execIface interface {
	SelectFile(ctx context.Context, path string) error
	Preview(ctx context.Context) error
	Upload(ctx context.Context) error
	Status(ctx context.Context)
	History(ctx context.Context, limit int) error
	ShowAttempt(ctx context.Context, id string) error
}

// runREPL reads commands from scanner until EOF, "exit" or "quit" and writes
// prompts and replies to out.
//
//	select <path>  pick a file (validates and previews it)
//	preview        show the current selection
//	upload         upload the current selection
//	status         show state and last error
//	history [n]    list recent attempts
//	show <id>      show one attempt from the history
//	help           list commands
//	exit | quit    leave
//
// Handlers report their own errors, so the loop ignores them.
func runREPL(ctx context.Context, out io.Writer, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(out, fmt.Sprintf("imgdrop %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(out, "Available commands: select <path>, preview, upload, status, history [n], show <attempt-id>, exit")

		case "select", "open":
			if len(args) == 0 {
				printlnFn(out, "Usage: select <path>")
				continue
			}
			_ = a.SelectFile(ctx, strings.Join(args, " "))

		case "preview":
			_ = a.Preview(ctx)

		case "upload", "start":
			_ = a.Upload(ctx)

		case "status":
			a.Status(ctx)

		case "history":
			limit := defaultHistoryLimit
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					printlnFn(out, "Usage: history [n]")
					continue
				}
				limit = n
			}
			_ = a.History(ctx, limit)

		case "show":
			if len(args) != 1 {
				printlnFn(out, "Usage: show <attempt-id>")
				continue
			}
			_ = a.ShowAttempt(ctx, args[0])

		case "exit", "quit":
			printlnFn(out, "Bye!")
			return

		default:
			printlnFn(out, "Unknown command:", cmd)
		}

		if ctx.Err() != nil {
			return
		}
	}
}
