package cli

import (
	"strings"

	"scheduler-cli/internal/export"
	"scheduler-cli/internal/taskutil"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var as string
	var out string
	var title string
	var filter string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a task report (markdown, csv or pdf)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			tasks, err := svc.FetchTasks(cmd.Context())
			if err != nil {
				return writeErr(cmd, friendlyError(err, ""))
			}
			tasks = taskutil.Filter(tasks, filter)

			res, err := export.Write(tasks, out, export.WriteOptions{
				Format:        as,
				Overwrite:     overwrite,
				RenderOptions: export.RenderOptions{Title: title},
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info("exported tasks", "path", res.Path, "format", as, "count", res.Tasks)
			return writeData(cmd, app, res, nil)
		},
	}

	cmd.Flags().StringVar(&as, "as", export.Markdown, "Report format ("+strings.Join(export.Formats, "|")+")")
	cmd.Flags().StringVar(&out, "out", "", "Output file")
	cmd.Flags().StringVar(&title, "title", "Tasks", "Report title")
	cmd.Flags().StringVar(&filter, "filter", "", "Only tasks whose message contains this text")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
