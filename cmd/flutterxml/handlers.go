package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/cmd/flutterxml/internal/ui"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/compiler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/transform"
)

func newHandlersCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "handlers",
		Short: "List the registered attribute handlers and value transformers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			c := compiler.New(cfg.CompilerOptions(flags.logger()))
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderList("Handlers", handlerRows(c.Handlers())))
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderList("Transformers", transformerRows(c.Transforms())))
			return nil
		},
	}
}

func handlerRows(reg *handler.Registry) []ui.Row {
	var rows []ui.Row
	for _, r := range reg.GetAll() {
		row := ui.Row{
			Name:   r.Name,
			Detail: fmt.Sprintf("%-9s %7d", r.Handler.Family(), r.Handler.Priority()),
		}
		if r.HasValue {
			row.Note = "= " + r.Value
		}
		rows = append(rows, row)
	}
	return rows
}

func transformerRows(reg *transform.Registry) []ui.Row {
	var rows []ui.Row
	for _, e := range reg.GetAll() {
		rows = append(rows, ui.Row{Name: e.Name, Detail: fmt.Sprintf("%T", e.Transformer)})
	}
	return rows
}
