package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// runREPL reads commands line by line and dispatches them. The loop exits on
// scanner EOF or when the user types "exit"/"quit".
func (a *App) runREPL(ctx context.Context, scanner *bufio.Scanner) {
	printlnFn("Welcome to Bikes-Shop CLI (type 'help' for commands)")

	for {
		fmt.Printf("bikes %s> ", a.statusLine())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: list, add <name> <condition> <warranty> <price>," +
				" update <id> <name> <condition> <warranty> <price>, delete <id>," +
				" login <token>, sync, status, exit")
		case "list":
			a.list(ctx)
		case "add":
			a.save(ctx, "", args)
		case "update":
			a.update(ctx, args)
		case "delete":
			a.delete(ctx, args)
		case "login":
			a.login(ctx, args)
		case "sync":
			a.reconciler.Trigger()
			printlnFn("sync requested")
		case "status":
			a.status()
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// statusLine renders the prompt decoration from the current snapshot.
func (a *App) statusLine() string {
	snap := a.store.Snapshot()
	mode := "offline"
	if snap.Connected {
		mode = "online"
	}
	if snap.PendingChanges {
		return fmt.Sprintf("(%s, pending sync)", mode)
	}
	return fmt.Sprintf("(%s)", mode)
}
