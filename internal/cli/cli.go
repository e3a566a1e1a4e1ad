// Package cli is the command-line front end. It turns commands into task
// service calls and prints the full task list again after every change.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/GuilhermeKulkamp/tasklist/internal/config"
	"github.com/GuilhermeKulkamp/tasklist/internal/database"
	"github.com/GuilhermeKulkamp/tasklist/internal/logging"
	"github.com/GuilhermeKulkamp/tasklist/internal/models"
	"github.com/GuilhermeKulkamp/tasklist/internal/repository"
	"github.com/GuilhermeKulkamp/tasklist/internal/service"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var errUsage = errors.New("usage error")

type command struct {
	summary string
	run     func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"add":             {"add a task", (*App).add},
	"update":          {"replace a task's description and dates", (*App).update},
	"delete":          {"delete a task", (*App).delete},
	"list":            {"list tasks", (*App).list},
	"clear-completed": {"delete every completed task", (*App).clearCompleted},
}

var commandOrder = []string{"add", "update", "delete", "list", "clear-completed"}

// App binds the commands to a task service.
type App struct {
	svc    *service.TaskService
	out    io.Writer
	errOut io.Writer
}

func New(svc *service.TaskService, out, errOut io.Writer) *App {
	return &App{svc: svc, out: out, errOut: errOut}
}

// Run parses global flags, wires the store and executes one command. It
// returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs, stderr) }
	configPath := fs.String("config", "", "path to a TOML config file")
	dbPath := fs.String("db", "", "task store file (overrides config)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(fs, stderr)
		return ExitUsage
	}
	if rest[0] == "help" {
		printUsage(fs, stdout)
		return ExitOK
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		printUsage(fs, stderr)
		return ExitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return ExitFailure
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.ValidateConfig(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return ExitFailure
	}

	logger := logging.New(cfg.Log, stderr)

	db, err := database.Open(database.Config{
		Path:  cfg.Database.Path,
		Debug: cfg.Database.Debug || cfg.IsDevelopment(),
	}, logger)
	if err != nil {
		logger.Error("Failed to open task store", "err", err)
		return ExitFailure
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close task store", "err", err)
		}
	}()

	if err := db.Migrate(ctx); err != nil {
		logger.Error("Failed to prepare task store", "err", err)
		return ExitFailure
	}

	svc := service.NewTaskService(
		repository.NewTaskRepository(db),
		service.NewValidator(&service.ValidationConfig{DateLayout: cfg.Validation.DateLayout}),
		logger,
	)

	err = cmd.run(New(svc, stdout, stderr), ctx, rest[1:])
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, flag.ErrHelp):
		return ExitOK
	case errors.Is(err, errUsage):
		return ExitUsage
	default:
		return ExitFailure
	}
}

func (a *App) add(ctx context.Context, args []string) error {
	fs, req := a.taskFlags("add")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if req.Description == "" && fs.NArg() > 0 {
		req.Description = strings.Join(fs.Args(), " ")
	}

	_, err := a.svc.Add(ctx, *req)
	return a.report(ctx, err, service.MsgTaskAdded)
}

func (a *App) update(ctx context.Context, args []string) error {
	fs, req := a.taskFlags("update")
	id := fs.Int64("id", 0, "task id")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return a.usagef("update: -id is required")
	}
	if req.Description == "" && fs.NArg() > 0 {
		req.Description = strings.Join(fs.Args(), " ")
	}

	err := a.svc.Update(ctx, *id, *req)
	return a.report(ctx, err, service.MsgTaskUpdated)
}

func (a *App) delete(ctx context.Context, args []string) error {
	fs := a.flagSet("delete")
	id := fs.Int64("id", 0, "task id")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 && fs.NArg() == 1 {
		parsed, err := strconv.ParseInt(fs.Arg(0), 10, 64)
		if err != nil {
			return a.usagef("delete: invalid id %q", fs.Arg(0))
		}
		*id = parsed
	}
	if *id <= 0 {
		return a.usagef("delete: -id is required")
	}

	err := a.svc.Delete(ctx, *id)
	return a.report(ctx, err, service.MsgTaskDeleted)
}

func (a *App) list(ctx context.Context, args []string) error {
	fs := a.flagSet("list")
	viewName := fs.String("view", string(service.ViewAll), "all, active or completed")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	view, err := service.ParseView(*viewName)
	if err != nil {
		return a.usagef("list: %v", err)
	}
	return a.render(ctx, view)
}

func (a *App) clearCompleted(ctx context.Context, args []string) error {
	fs := a.flagSet("clear-completed")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	removed, err := a.svc.ClearCompleted(ctx)
	if err != nil {
		fmt.Fprintln(a.errOut, service.ToResult(err, "").Message)
		return err
	}
	fmt.Fprintf(a.out, "Removed %d completed task(s).\n", removed)
	return a.render(ctx, service.ViewAll)
}

// report prints the outcome of a mutation and, on success, reloads the list.
func (a *App) report(ctx context.Context, err error, successMessage string) error {
	res := service.ToResult(err, successMessage)
	if !res.Success {
		fmt.Fprintln(a.errOut, res.Message)
		return err
	}
	fmt.Fprintln(a.out, res.Message)
	return a.render(ctx, service.ViewAll)
}

func (a *App) render(ctx context.Context, view service.View) error {
	tasks, err := a.svc.ListView(ctx, view)
	if err != nil {
		fmt.Fprintln(a.errOut, service.ToResult(err, "").Message)
		return err
	}
	active, err := a.svc.ActiveCount(ctx)
	if err != nil {
		fmt.Fprintln(a.errOut, service.ToResult(err, "").Message)
		return err
	}

	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks.")
	} else {
		renderTable(a.out, tasks)
	}
	fmt.Fprintf(a.out, "%d active item(s) left\n", active)
	return nil
}

func renderTable(w io.Writer, tasks []*models.Task) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Description", "Start", "End", "Status"})
	table.SetAutoWrapText(false)
	for _, t := range tasks {
		table.Append([]string{
			strconv.FormatInt(t.ID, 10),
			t.Description,
			t.Start(),
			t.End(),
			string(t.Status),
		})
	}
	table.Render()
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *App) taskFlags(name string) (*flag.FlagSet, *service.TaskRequest) {
	fs := a.flagSet(name)
	req := &service.TaskRequest{}
	fs.StringVar(&req.Description, "d", "", "task description")
	fs.StringVar(&req.StartDate, "start", "", "start date")
	fs.StringVar(&req.EndDate, "end", "", "end date")
	return fs, req
}

func (a *App) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func (a *App) usagef(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(a.errOut, msg)
	return fmt.Errorf("%w: %s", errUsage, msg)
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: tasklist [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-16s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	out := fs.Output()
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(out)
}
