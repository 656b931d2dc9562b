package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlguard/internal/core/query/dialect"
	"github.com/satishbabariya/sqlguard/internal/filterexpr"
	"github.com/satishbabariya/sqlguard/pkg/client"
)

// requestFlags describe the caller, the table and the caller's filters.
type requestFlags struct {
	table      string
	idColumn   string
	where      string
	columns    []string
	orderBy    []string
	limit      uint
	offset     uint
	tenant     string
	userID     string
	roles      []string
	department string
	attributes map[string]string
	inputs     map[string]string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.table, "table", "t", "", "Logical table name")
	fl.StringVar(&f.idColumn, "id-column", "", "Primary key column (default: id)")
	fl.StringVarP(&f.where, "where", "w", "", `Filter expression, e.g. 'status = "open" and age >= 18'`)
	fl.StringSliceVar(&f.columns, "columns", nil, "Columns to select")
	fl.StringSliceVar(&f.orderBy, "order", nil, "Sort keys as field or field:desc")
	fl.UintVar(&f.limit, "limit", 0, "Row limit")
	fl.UintVar(&f.offset, "offset", 0, "Rows to skip")
	fl.StringVar(&f.tenant, "tenant", "", "Tenant id")
	fl.StringVar(&f.userID, "user-id", "", "Current user id")
	fl.StringSliceVar(&f.roles, "role", nil, "Current user roles")
	fl.StringVar(&f.department, "department", "", "Current user department")
	fl.StringToStringVar(&f.attributes, "attr", nil, "Current user attributes as key=value")
	fl.StringToStringVar(&f.inputs, "input", nil, "Values for exposed conditions as field=value")
	_ = cmd.MarkFlagRequired("table")
}

func (f *requestFlags) context() client.Context {
	if f.userID == "" && len(f.roles) == 0 && f.department == "" && len(f.attributes) == 0 {
		return client.Context{}
	}
	attrs := make(map[string]any, len(f.attributes))
	for k, v := range f.attributes {
		attrs[k] = scalar(v)
	}
	var id, dept any
	if f.userID != "" {
		id = scalar(f.userID)
	}
	if f.department != "" {
		dept = f.department
	}
	return client.Context{User: &client.User{
		ID:         id,
		Roles:      f.roles,
		Department: dept,
		Attributes: attrs,
	}}
}

func (f *requestFlags) request(cmd *cobra.Command) (client.Request, error) {
	filters, err := filterexpr.ParseFilters(f.where)
	if err != nil {
		return client.Request{}, err
	}

	opts := client.QueryOptions{Columns: f.columns}
	for _, o := range f.orderBy {
		field, dir, _ := strings.Cut(o, ":")
		opts.OrderBy = append(opts.OrderBy, client.OrderBy{Field: field, Direction: dialect.NormalizeDirection(dir)})
	}
	if cmd.Flags().Changed("limit") {
		opts.Limit = client.Uint(f.limit)
	}
	if cmd.Flags().Changed("offset") {
		opts.Offset = client.Uint(f.offset)
	}

	var inputs map[string]any
	if len(f.inputs) > 0 {
		inputs = make(map[string]any, len(f.inputs))
		for k, v := range f.inputs {
			inputs[k] = scalar(v)
		}
	}

	return client.Request{
		Table:    f.table,
		IDColumn: f.idColumn,
		Filters:  filters,
		Options:  opts,
		TenantID: f.tenant,
		Context:  f.context(),
		Inputs:   inputs,
	}, nil
}

// promptExposed asks for a value for every exposed condition of the
// resolved role. Blank answers keep the policy value.
func promptExposed(c *client.Client, req *client.Request) error {
	exposed, err := c.ExposedConditions(req.Context)
	if err != nil {
		return err
	}
	for _, cond := range exposed {
		if _, ok := req.Inputs[cond.Field]; ok {
			continue
		}
		var answer string
		prompt := &survey.Input{
			Message: fmt.Sprintf("%s (%s)", cond.Field, cond.Operator.Normalize()),
			Default: fmt.Sprint(cond.Value),
		}
		if err := survey.AskOne(prompt, &answer); err != nil {
			return err
		}
		if answer == "" || answer == fmt.Sprint(cond.Value) {
			continue
		}
		if req.Inputs == nil {
			req.Inputs = map[string]any{}
		}
		req.Inputs[cond.Field] = scalar(answer)
	}
	return nil
}

// scalar interprets a flag value as an integer, float, bool or null before
// falling back to the string itself.
func scalar(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	return s
}
