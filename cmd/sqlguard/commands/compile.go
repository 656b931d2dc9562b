package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlguard/internal/ui"
	"github.com/satishbabariya/sqlguard/pkg/client"
)

type compileOptions struct {
	requestFlags
	id          string
	data        string
	interactive bool
	explain     bool
	execute     bool
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(app *App) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:       "compile {select|count|insert|update|delete}",
		Short:     "Compile a request into policy-scoped SQL",
		Long:      "Compile a request into parameterized SQL with row-level security and tenancy applied. With --execute the statement is also run against database_url.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"select", "count", "insert", "update", "delete"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, app, opts, args[0])
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.id, "id", "", "Row id for update and delete")
	cmd.Flags().StringVar(&opts.data, "data", "", `Record as a JSON object for insert and update, e.g. '{"title":"x"}'`)
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for exposed condition values")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Render an explanation of the scoping")
	cmd.Flags().BoolVar(&opts.execute, "execute", false, "Run the statement against the configured database")

	return cmd
}

func runCompile(cmd *cobra.Command, app *App, opts *compileOptions, kind string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var engine client.Adapter
	if opts.execute {
		if app.Config.Database.URL == "" {
			return fmt.Errorf("--execute requires database_url")
		}
		a, err := client.Open(ctx, app.Config.Database)
		if err != nil {
			return err
		}
		defer a.Disconnect(ctx)
		engine = a
	}

	c, err := app.Client(engine, nil)
	if err != nil {
		return err
	}

	req, err := opts.request(cmd)
	if err != nil {
		return err
	}
	if opts.interactive {
		if err := promptExposed(c, &req); err != nil {
			return err
		}
	}

	record, err := opts.record(kind)
	if err != nil {
		return err
	}
	var id any
	if opts.id != "" {
		id = scalar(opts.id)
	}

	stmt, err := compileKind(c, kind, req, id, record)
	if err != nil {
		return err
	}
	ui.PrintStatement(stmt)

	if opts.explain {
		res, err := c.Resolve(req.Context, req.Inputs)
		if err != nil {
			return err
		}
		conds := append(client.Conditions(req.Filters...), res.Conditions()...)
		if err := ui.PrintMarkdown(ui.Explain(stmt, res.Role, conds)); err != nil {
			return err
		}
	}

	if engine == nil {
		return nil
	}
	return executeKind(ctx, c, kind, req, id, record)
}

func (o *compileOptions) record(kind string) (*client.Record, error) {
	if kind != "insert" && kind != "update" {
		return nil, nil
	}
	record := client.NewRecord()
	if o.data == "" {
		return record, nil
	}
	if err := record.UnmarshalJSON([]byte(o.data)); err != nil {
		return nil, err
	}
	return record, nil
}

func compileKind(c *client.Client, kind string, req client.Request, id any, record *client.Record) (client.Statement, error) {
	switch kind {
	case "select":
		return c.CompileFind(req)
	case "count":
		return c.CompileCount(req)
	case "insert":
		return c.CompileCreate(req, record)
	case "update":
		return c.CompileUpdate(req, id, record)
	case "delete":
		return c.CompileDelete(req, id)
	}
	return client.Statement{}, fmt.Errorf("%w: unknown statement kind %q", client.ErrInvalidInput, kind)
}

func executeKind(ctx context.Context, c *client.Client, kind string, req client.Request, id any, record *client.Record) error {
	switch kind {
	case "select":
		rows, err := c.Find(ctx, req)
		if err != nil {
			return err
		}
		return ui.PrintRows(rows)
	case "count":
		n, err := c.Count(ctx, req)
		if err != nil {
			return err
		}
		ui.PrintSuccess("%d rows", n)
	case "insert":
		res, err := c.Create(ctx, req, record)
		if err != nil {
			return err
		}
		if res.Row != nil {
			return ui.PrintRows([]client.Row{res.Row})
		}
		ui.PrintSuccess("%d rows inserted (last insert id %v)", res.Changes, res.LastInsertID)
	case "update":
		n, err := c.Update(ctx, req, id, record)
		if err != nil {
			return err
		}
		ui.PrintSuccess("%d rows updated", n)
	case "delete":
		n, err := c.Delete(ctx, req, id)
		if err != nil {
			return err
		}
		ui.PrintSuccess("%d rows deleted", n)
	}
	return nil
}
