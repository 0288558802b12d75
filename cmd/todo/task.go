package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fentz26/todo/internal/api"
	"github.com/fentz26/todo/internal/logging"
	"github.com/fentz26/todo/internal/models"
	"github.com/fentz26/todo/internal/todo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List todos",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new todo",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit [todo-id]",
	Short: "Change a todo's title, description or progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var doneCmd = &cobra.Command{
	Use:   "done [todo-id]",
	Short: "Mark a todo complete (or incomplete with --undo)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var rmCmd = &cobra.Command{
	Use:     "rm [todo-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a todo",
	Args:    cobra.ExactArgs(1),
	RunE:    runRm,
}

var (
	listFilter string
	listOutput string
	todoTitle  string
	todoDesc   string
	todoProg   int
	undo       bool
)

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "all", "Filter by status (all, complete, incomplete)")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format (table, json, yaml)")

	addCmd.Flags().StringVar(&todoTitle, "title", "", "Todo title")
	addCmd.Flags().StringVar(&todoDesc, "desc", "", "Todo description")
	addCmd.Flags().IntVar(&todoProg, "progress", 0, "Progress from 0 to 100")

	editCmd.Flags().StringVar(&todoTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&todoDesc, "desc", "", "New description")
	editCmd.Flags().IntVar(&todoProg, "progress", 0, "New progress from 0 to 100")

	doneCmd.Flags().BoolVar(&undo, "undo", false, "Mark the todo incomplete instead")
}

// cliNotifier prints successes and keeps the last error for the command's
// return value.
type cliNotifier struct {
	out     io.Writer
	lastErr string
}

func (n *cliNotifier) Success(msg string) { fmt.Fprintln(n.out, msg) }

func (n *cliNotifier) Error(msg string) { n.lastErr = msg }

func (n *cliNotifier) err() error {
	if n.lastErr == "" {
		return errors.New("nothing was saved")
	}
	return errors.New(n.lastErr)
}

func newDeps(cmd *cobra.Command) (todo.Deps, *cliNotifier) {
	logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	n := &cliNotifier{out: cmd.OutOrStdout()}
	return todo.Deps{
		Store:    api.NewClient(cfg.BackendURL, api.WithLogger(logger)),
		Refresh:  todo.NewRefreshSignal(),
		Notifier: n,
		Logger:   logger,
	}, n
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := models.ParseFilter(listFilter)
	if err != nil {
		return err
	}
	deps, _ := newDeps(cmd)

	tasks, err := deps.Store.List(cmd.Context())
	if err != nil {
		return err
	}
	return writeTasks(cmd.OutOrStdout(), listOutput, todo.Visible(tasks, filter, time.Now()))
}

// writeTasks renders tasks in the requested format.
func writeTasks(w io.Writer, format string, tasks []models.ViewTask) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
	default:
		return fmt.Errorf("invalid output %q, must be: table, json, or yaml", format)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, todo.EmptyText)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPROGRESS\tDESCRIPTION")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\t%s\n", t.ID, t.Title, t.Status, t.Progress, truncate(t.Description, 40))
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := todoTitle
	if len(args) == 1 {
		title = args[0]
	}
	deps, n := newDeps(cmd)

	editor := todo.NewEditor(todo.ModeAdd, deps)
	editor.Open(nil)
	editor.SetTitle(title)
	editor.SetDescription(todoDesc)
	if !editor.SetProgress(todoProg) {
		return fmt.Errorf("progress must be between 0 and 100")
	}
	if !editor.Submit(cmd.Context()) {
		return n.err()
	}
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	deps, n := newDeps(cmd)

	task, err := deps.Store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	view := models.ToView(task, time.Now())

	editor := todo.NewEditor(todo.ModeUpdate, deps)
	editor.Open(&view)
	flags := cmd.Flags()
	if flags.Changed("title") {
		editor.SetTitle(todoTitle)
	}
	if flags.Changed("desc") {
		editor.SetDescription(todoDesc)
	}
	if flags.Changed("progress") && !editor.SetProgress(todoProg) {
		return fmt.Errorf("progress must be between 0 and 100")
	}
	if !editor.Submit(cmd.Context()) {
		return n.err()
	}
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	deps, _ := newDeps(cmd)

	task, err := deps.Store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	item := todo.NewItemPresenter(models.ToView(task, time.Now()), deps)

	out := cmd.OutOrStdout()
	if item.Checked() != undo {
		if undo {
			fmt.Fprintln(out, "Todo is already incomplete")
		} else {
			fmt.Fprintln(out, "Todo is already complete")
		}
		return nil
	}

	if err := item.Toggle(cmd.Context()); err != nil {
		return err
	}
	if item.Checked() {
		fmt.Fprintln(out, "Todo marked complete")
	} else {
		fmt.Fprintln(out, "Todo marked incomplete")
	}
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	deps, _ := newDeps(cmd)
	return todo.DeleteTask(cmd.Context(), deps, args[0])
}
