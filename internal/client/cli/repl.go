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
	Whoami(ctx context.Context) error
	Users(ctx context.Context) error
	AddPost(ctx context.Context, body string) error
	ListPosts(ctx context.Context) error
	AddContact(ctx context.Context, username string) error
	ListContacts(ctx context.Context) error
	Favorite(ctx context.Context, postID string) error
	ListFavorites(ctx context.Context) error
	Say(ctx context.Context, to, body string) error
	History(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Chatter CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current session status (from statusFn) and accepts:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the server-confirmed profile
//	  - users          — list registered users
//	  - post <text>    — add a post to the local board
//	  - (p)osts        — list local posts
//	  - contact <user> — add a user to the local contact book
//	  - contacts       — list contacts
//	  - fav <post-id>  — mark a post as favorite
//	  - favs           — list favorites
//	  - say <user> <text> — append a message to the local history
//	  - history        — show local message history
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("chatter %s> ", statusFn()))
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
				printlnFn("Available commands: whoami, users, post, (p)osts, contact, contacts, fav, favs, say, history, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "users":
			_ = a.Users(ctx)

		case "post":
			if len(args) == 0 {
				printlnFn("Usage: post <text>")
				continue
			}
			_ = a.AddPost(ctx, strings.Join(args, " "))

		case "p", "posts":
			_ = a.ListPosts(ctx)

		case "contact":
			if len(args) == 0 {
				printlnFn("Usage: contact <username>")
				continue
			}
			_ = a.AddContact(ctx, args[0])

		case "contacts":
			_ = a.ListContacts(ctx)

		case "fav":
			if len(args) == 0 {
				printlnFn("Usage: fav <post-id>")
				continue
			}
			_ = a.Favorite(ctx, args[0])

		case "favs":
			_ = a.ListFavorites(ctx)

		case "say":
			if len(args) < 2 {
				printlnFn("Usage: say <username> <text>")
				continue
			}
			_ = a.Say(ctx, args[0], strings.Join(args[1:], " "))

		case "history":
			_ = a.History(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
