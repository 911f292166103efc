package cli

import (
	"bufio"
	"context"
	"fmt"
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
	List(ctx context.Context) error
	Search(ctx context.Context) error
	Show(ctx context.Context, id string) error
	AddStage(ctx context.Context, id string) error
	AddProduct(ctx context.Context) error
	EditProduct(ctx context.Context, id string) error
	DelProduct(ctx context.Context, id string) error
	Farms(ctx context.Context) error
	AddFarm(ctx context.Context) error
	DelFarm(ctx context.Context, id string) error
	Stats(ctx context.Context) error
	Export(ctx context.Context, path string) error
	Watch(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the AgriTrack CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - list           — list products (paged)
//	  - search         — search products (interactive filter prompt)
//	  - show <id>      — show one product with its tracking timeline
//	  - addstage <id>  — append a tracking stage to a product
//	  - farms          — list registered farms
//	  - addfarm        — register a farm
//	  - stats          — dashboard statistics
//
//	Admin (the backend rejects these for other accounts):
//	  - addproduct, editproduct <id>, delproduct <id>, delfarm <id>
//	  - export [file]  — export the product list as CSV
//	  - watch          — follow live product updates
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own user-facing messages. This keeps the REPL loop resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("agritrack %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, search, show <id>, addstage <id>, farms, addfarm, stats, export [file], watch, logout, exit")
				printlnFn("Admin commands: addproduct, editproduct <id>, delproduct <id>, delfarm <id>")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list", "products":
			_ = a.List(ctx)

		case "search":
			_ = a.Search(ctx)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "addstage":
			if len(args) == 0 {
				printlnFn("Usage: addstage <id>")
				continue
			}
			_ = a.AddStage(ctx, args[0])

		case "addproduct":
			_ = a.AddProduct(ctx)

		case "editproduct":
			if len(args) == 0 {
				printlnFn("Usage: editproduct <id>")
				continue
			}
			_ = a.EditProduct(ctx, args[0])

		case "delproduct":
			if len(args) == 0 {
				printlnFn("Usage: delproduct <id>")
				continue
			}
			_ = a.DelProduct(ctx, args[0])

		case "farms":
			_ = a.Farms(ctx)

		case "addfarm":
			_ = a.AddFarm(ctx)

		case "delfarm":
			if len(args) == 0 {
				printlnFn("Usage: delfarm <id>")
				continue
			}
			_ = a.DelFarm(ctx, args[0])

		case "stats":
			_ = a.Stats(ctx)

		case "export":
			path := "products.csv"
			if len(args) > 0 {
				path = args[0]
			}
			_ = a.Export(ctx, path)

		case "watch":
			_ = a.Watch(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
