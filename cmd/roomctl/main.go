/*
roomctl - command-line shell over the room inventory

USAGE:
  roomctl [-db path] [-config file] [-v] <command> [flags]

COMMANDS:
  add     -id -type -price -count -amenities -status
  update  -id -type -price -count -amenities -status
  delete  -id
  get     -id
  list
  export  <file.csv|file.xlsx>
  import  <file.csv|file.xlsx>

Every command prints one line per outcome. Expected outcomes (duplicate,
not found) print a warning and exit 0; storage and input errors exit 1.

EXAMPLES:
  roomctl add -id 101 -type Single -price 50 -count 1 -amenities WiFi -status available
  roomctl export rooms.csv
  roomctl -db ./data/hotel.sqlite import rooms.xlsx
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/warp/room-inventory/config"
	"github.com/warp/room-inventory/logger"
	"github.com/warp/room-inventory/rooms"
	"github.com/warp/room-inventory/store/sqlite"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("roomctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	dbPath := global.String("db", "", "SQLite database path")
	configPath := global.String("config", "", "TOML config file")
	verbose := global.Bool("v", false, "log to stderr")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: roomctl [-db path] <add|update|delete|get|list|export|import> [flags]")
		return 2
	}

	cfg := config.New()
	if *configPath != "" {
		if err := cfg.Load(*configPath); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
	}
	if err := cfg.ApplyEnv(""); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log := zap.NewNop()
	if *verbose {
		l, err := logger.New("debug", "console", "roomctl")
		if err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		log = l
		defer log.Sync()
	}

	store, err := sqlite.New(cfg.Database.Path, sqlite.WithLogger(log.Named("sqlite")))
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	inv := rooms.NewInventory(store, log)
	defer inv.Close()

	cmd, rest := global.Arg(0), global.Args()[1:]
	c := &shell{inv: inv, out: stdout, errOut: stderr}

	switch cmd {
	case "add":
		err = c.add(ctx, rest)
	case "update":
		err = c.update(ctx, rest)
	case "delete":
		err = c.delete(ctx, rest)
	case "get":
		err = c.get(ctx, rest)
	case "list":
		err = c.list(ctx)
	case "export":
		err = c.export(ctx, rest)
	case "import":
		err = c.importFile(ctx, rest)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// shell maps commands to inventory calls and results to messages.
type shell struct {
	inv    *rooms.Inventory
	out    io.Writer
	errOut io.Writer
}

func (c *shell) roomFlags(name string, args []string) (rooms.Room, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	var in rooms.RoomInput
	fs.StringVar(&in.RoomID, "id", "", "room ID")
	fs.StringVar(&in.RoomType, "type", "", "room type")
	fs.StringVar(&in.Price, "price", "", "price")
	fs.StringVar(&in.RoomCount, "count", "", "room count")
	fs.StringVar(&in.Amenities, "amenities", "", "amenities")
	fs.StringVar(&in.Status, "status", "", "status")
	if err := fs.Parse(args); err != nil {
		return rooms.Room{}, err
	}
	return rooms.ParseRoom(in)
}

func (c *shell) idFlag(name string, args []string) (rooms.RoomID, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	id := fs.String("id", "", "room ID")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if rooms.RoomID(*id).IsBlank() {
		return "", errors.New("-id is required")
	}
	return rooms.RoomID(strings.TrimSpace(*id)), nil
}

func (c *shell) add(ctx context.Context, args []string) error {
	room, err := c.roomFlags("add", args)
	if err != nil {
		return err
	}
	err = c.inv.Insert(ctx, room)
	if errors.Is(err, rooms.ErrDuplicateRoom) {
		fmt.Fprintln(c.out, "Warning: a record with this Room_ID already exists.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Record added successfully.")
	return nil
}

func (c *shell) update(ctx context.Context, args []string) error {
	room, err := c.roomFlags("update", args)
	if err != nil {
		return err
	}
	err = c.inv.Update(ctx, room)
	if rooms.IsNotFound(err) {
		fmt.Fprintln(c.out, "Warning: no record found with the given Room ID.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Record updated successfully.")
	return nil
}

func (c *shell) delete(ctx context.Context, args []string) error {
	id, err := c.idFlag("delete", args)
	if err != nil {
		return err
	}
	removed, err := c.inv.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(c.out, "Warning: no record found with the given Room ID.")
		return nil
	}
	fmt.Fprintln(c.out, "Record deleted successfully.")
	return nil
}

func (c *shell) get(ctx context.Context, args []string) error {
	id, err := c.idFlag("get", args)
	if err != nil {
		return err
	}
	room, err := c.inv.Lookup(ctx, id)
	if rooms.IsNotFound(err) {
		fmt.Fprintln(c.out, "No record found with the given Room ID.")
		return nil
	}
	if err != nil {
		return err
	}
	return c.table([]rooms.Room{room})
}

func (c *shell) list(ctx context.Context) error {
	list, err := c.inv.ListAll(ctx)
	if err != nil {
		return err
	}
	return c.table(list)
}

func (c *shell) table(list []rooms.Room) error {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(rooms.Header, "\t"))
	for _, room := range list {
		fmt.Fprintln(tw, strings.Join(room.Record(), "\t"))
	}
	return tw.Flush()
}

func (c *shell) export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: roomctl export <file.csv|file.xlsx>")
	}
	path := args[0]

	var err error
	if isXLSX(path) {
		err = c.inv.ExportXLSX(ctx, path)
	} else {
		err = c.inv.ExportCSV(ctx, path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Database exported to %s successfully.\n", path)
	return nil
}

func (c *shell) importFile(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: roomctl import <file.csv|file.xlsx>")
	}
	path := args[0]

	var (
		report rooms.ImportReport
		err    error
	)
	if isXLSX(path) {
		report, err = c.inv.ImportXLSX(ctx, path)
	} else {
		report, err = c.inv.ImportCSV(ctx, path)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Imported %d of %d rows from %s; skipped %d duplicate(s), rejected %d.\n",
		report.Inserted, report.Rows, path, len(report.Duplicates), len(report.Rejected))
	for _, r := range report.Rejected {
		fmt.Fprintln(c.out, "  rejected", r.String())
	}
	return nil
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
