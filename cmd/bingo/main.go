package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/taskbingo/bingo/internal/bingo"
	"github.com/taskbingo/bingo/internal/roomsync"
)

type cliConfig struct {
	ServerURL string     `env:"BINGO_SERVER_URL" envDefault:"http://localhost:8000"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"WARN"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := env.ParseAs[cliConfig]()
	if err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	client := bingo.New(cfg.ServerURL, bingo.WithLogger(logger))

	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)

	// The directory polls while the lobby prompt has focus; it pauses
	// inside a room and resumes on leave.
	dir := roomsync.NewDirectory(client, logger)
	defer dir.Stop()

	fmt.Printf("bingo client, server %s\n", cfg.ServerURL)
	fmt.Println(`commands: register <email> <password> <username> | login <email> <password> | rooms | create <name> <category> [password] | join <id> [password] | quit`)

	for prompt("> "); in.Scan(); prompt("> ") {
		args := strings.Fields(in.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit":
			return nil

		case "register":
			if len(args) < 4 {
				fmt.Println("usage: register <email> <password> <username>")
				continue
			}
			acc, err := client.Register(ctx, args[1], args[2], args[3])
			if report(err) {
				continue
			}
			fmt.Printf("registered %s (id %d)\n", acc.Email, acc.ID)

		case "login":
			if len(args) < 3 {
				fmt.Println("usage: login <email> <password>")
				continue
			}
			id, err := client.Login(ctx, args[1], args[2])
			if report(err) {
				continue
			}
			fmt.Printf("logged in as user %d\n", id.UserID)
			dir.Start(ctx)

		case "rooms":
			if report(dir.Refresh(ctx)) {
				continue
			}
			for _, r := range dir.Rooms() {
				lock := ""
				if r.HasPassword {
					lock = " [password]"
				}
				fmt.Printf("  #%d %s (%s) %d/%d%s\n", r.ID, r.Name, r.Category, r.PlayersCount, r.MaxPlayers, lock)
			}

		case "create":
			if len(args) < 3 {
				fmt.Println("usage: create <name> <category> [password]")
				continue
			}
			password := ""
			if len(args) > 3 {
				password = args[3]
			}
			room, err := client.CreateRoom(ctx, args[1], password, args[2])
			if report(err) {
				continue
			}
			fmt.Printf("created room #%d %s\n", room.ID, room.Name)
			dir.Stop()
			if err := roomLoop(ctx, client, room, logger, in); err != nil {
				return err
			}
			dir.Start(ctx)

		case "join":
			if len(args) < 2 {
				fmt.Println("usage: join <id> [password]")
				continue
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Println("room id must be a number")
				continue
			}
			password := ""
			if len(args) > 2 {
				password = args[2]
			}
			room, err := client.JoinRoom(ctx, id, password)
			if report(err) {
				continue
			}
			fmt.Printf("joined room #%d %s (%d/%d players)\n", room.ID, room.Name, room.PlayersCount, room.MaxPlayers)
			dir.Stop()
			if err := roomLoop(ctx, client, room, logger, in); err != nil {
				return err
			}
			dir.Start(ctx)

		default:
			fmt.Printf("unknown command %q\n", args[0])
		}
	}
	return in.Err()
}

func roomLoop(ctx context.Context, client *bingo.Client, room bingo.RoomSummary, logger *slog.Logger, in *bufio.Scanner) error {
	self, ok := client.Identity()
	if !ok {
		fmt.Println("not logged in")
		return nil
	}

	session := roomsync.NewSession(client, room.ID, self, logger)
	session.Start(ctx)
	defer session.Stop()

	fmt.Println(`room commands: board | chat | claim <row> <col> | say <text> | leave`)

	for prompt("room> "); in.Scan(); prompt("room> ") {
		args := strings.Fields(in.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "leave":
			return nil

		case "board":
			printBoard(session.Board(), self)

		case "chat":
			for _, m := range session.Messages() {
				fmt.Printf("  [%s] %s: %s\n", m.CreatedAt, m.Username, m.Content)
			}

		case "claim":
			if len(args) < 3 {
				fmt.Println("usage: claim <row> <col>")
				continue
			}
			row, err1 := strconv.Atoi(args[1])
			col, err2 := strconv.Atoi(args[2])
			if err1 != nil || err2 != nil || row < 0 || row >= roomsync.BoardSize || col < 0 || col >= roomsync.BoardSize {
				fmt.Printf("row and col must be 0..%d\n", roomsync.BoardSize-1)
				continue
			}
			notice, err := session.FinishTask(ctx, roomsync.CellIndex(row, col))
			if report(err) {
				continue
			}
			if notice != nil {
				fmt.Println(notice.Text)
			}

		case "say":
			if report(session.Send(ctx, strings.Join(args[1:], " "))) {
				continue
			}

		default:
			fmt.Printf("unknown command %q\n", args[0])
		}
	}
	return in.Err()
}

func printBoard(cells []bingo.TaskAssignment, self bingo.UserID) {
	if len(cells) == 0 {
		fmt.Println("board not loaded yet")
		return
	}
	for row := 0; row < roomsync.BoardSize; row++ {
		for col := 0; col < roomsync.BoardSize; col++ {
			i := roomsync.CellIndex(row, col)
			switch {
			case i >= len(cells) || !cells[i].Finished():
				fmt.Print("[ ]")
			case *cells[i].FinishedBy == self:
				fmt.Print("[x]")
			default:
				fmt.Print("[o]")
			}
		}
		fmt.Println()
	}
	for i, cell := range cells {
		row, col := roomsync.CellPosition(i)
		fmt.Printf("  (%d,%d) %s\n", row, col, cell.Description)
	}
}

func prompt(p string) { fmt.Print(p) }

// report prints a failure and says whether there was one.
func report(err error) bool {
	if err == nil {
		return false
	}
	fmt.Printf("error: %v\n", err)
	return true
}
