package cli

import (
	"errors"
	"strings"

	"scheduler-cli/internal/model"
	"scheduler-cli/internal/service"
	"scheduler-cli/internal/taskutil"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}

	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksSetFlagCmd(app, "done", "Mark a task completed", func(t *model.Task) { t.Completed = true }))
	cmd.AddCommand(newTasksSetFlagCmd(app, "undone", "Mark a task active again", func(t *model.Task) { t.Completed = false }))
	cmd.AddCommand(newTasksSetFlagCmd(app, "star", "Mark a task favorite", func(t *model.Task) { t.Favorite = true }))
	cmd.AddCommand(newTasksSetFlagCmd(app, "unstar", "Clear the favorite mark", func(t *model.Task) { t.Favorite = false }))
	cmd.AddCommand(newTasksRemoveCmd(app))
	cmd.AddCommand(newTasksCompleteAllCmd(app))

	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var filter string
	var completed bool
	var active bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks (favorites first, newest first)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			all, err := svc.FetchTasks(cmd.Context())
			if err != nil {
				return writeErr(cmd, friendlyError(err, ""))
			}

			tasks := taskutil.Filter(taskutil.SortByGroup(all), filter)
			if completed || active {
				out := tasks[:0]
				for _, t := range tasks {
					if t.Completed == completed {
						out = append(out, t)
					}
				}
				tasks = out
			}
			if tasks == nil {
				tasks = []model.Task{}
			}
			return writeData(cmd, app, tasks, map[string]any{
				"count":        len(tasks),
				"total":        len(all),
				"allCompleted": taskutil.AllCompleted(all),
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Case-insensitive substring match on the message")
	cmd.Flags().BoolVar(&completed, "completed", false, "Only completed tasks")
	cmd.Flags().BoolVar(&active, "active", false, "Only active tasks")
	cmd.MarkFlagsMutuallyExclusive("completed", "active")
	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	var favorite bool

	cmd := &cobra.Command{
		Use:     "add <message...>",
		Aliases: []string{"create"},
		Short:   "Create a task",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := taskutil.ValidateMessage(strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			svc, err := app.service(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := svc.CreateTask(cmd.Context(), msg)
			if err != nil {
				return writeErr(cmd, friendlyError(err, ""))
			}
			if favorite {
				id := t.ID
				t.Favorite = true
				if t, err = svc.UpdateTask(cmd.Context(), t); err != nil {
					return writeErr(cmd, friendlyError(err, id))
				}
			}
			app.log.Info("task created", "task_id", t.ID)
			return writeData(cmd, app, t, nil)
		},
	}

	cmd.Flags().BoolVar(&favorite, "star", false, "Also mark the new task favorite")
	return cmd
}

func newTasksEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <message...>",
		Short: "Replace a task's message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := taskutil.ValidateMessage(strings.Join(args[1:], " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			return updateTask(cmd, app, args[0], func(t *model.Task) { t.Message = msg })
		},
	}
}

func newTasksSetFlagCmd(app *App, use, short string, apply func(*model.Task)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateTask(cmd, app, args[0], apply)
		},
	}
}

// updateTask reads the current record, applies one change and sends the whole record back.
func updateTask(cmd *cobra.Command, app *App, id string, apply func(*model.Task)) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return writeErr(cmd, errors.New("missing task id"))
	}
	svc, err := app.service(cmd)
	if err != nil {
		return writeErr(cmd, err)
	}
	cur, err := findTask(cmd, svc, id)
	if err != nil {
		return writeErr(cmd, err)
	}
	next := cur
	apply(&next)
	if next == cur {
		return writeData(cmd, app, cur, map[string]any{"changed": false})
	}
	t, err := svc.UpdateTask(cmd.Context(), next)
	if err != nil {
		return writeErr(cmd, friendlyError(err, id))
	}
	app.log.Info("task updated", "task_id", id)
	return writeData(cmd, app, t, map[string]any{"changed": true})
}

func findTask(cmd *cobra.Command, svc service.Service, id string) (model.Task, error) {
	all, err := svc.FetchTasks(cmd.Context())
	if err != nil {
		return model.Task{}, friendlyError(err, "")
	}
	t, ok := taskutil.FindByID(all, id)
	if !ok {
		return model.Task{}, errNotFound("task", id)
	}
	return t, nil
}

func newTasksRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			svc, err := app.service(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := svc.RemoveTask(cmd.Context(), id); err != nil {
				return writeErr(cmd, friendlyError(err, id))
			}
			app.log.Info("task removed", "task_id", id)
			return writeData(cmd, app, map[string]any{"id": id, "removed": true}, nil)
		},
	}
}

func newTasksCompleteAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete-all",
		Short: "Mark every active task completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			all, err := svc.FetchTasks(cmd.Context())
			if err != nil {
				return writeErr(cmd, friendlyError(err, ""))
			}
			pending := taskutil.Incomplete(all)
			if len(pending) == 0 {
				return writeData(cmd, app, []model.Task{}, map[string]any{"completed": 0})
			}
			for i := range pending {
				pending[i].Completed = true
			}
			done, err := svc.CompleteAllTasks(cmd.Context(), pending)
			if err != nil {
				return writeErr(cmd, friendlyError(err, ""))
			}
			app.log.Info("tasks completed", "count", len(done))
			return writeData(cmd, app, done, map[string]any{"completed": len(done)})
		},
	}
}
