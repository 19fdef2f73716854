package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/renderloop/genui/catalog"
	"github.com/renderloop/genui/uitree"
)

// DashboardServer is the generative-UI producer: its tools return serialized
// ui-trees instead of plain text, built from the component catalog so the
// consumer's validation always accepts them. The figures are fixture data.
type DashboardServer struct {
	catalog *catalog.Catalog
}

// NewDashboardServer creates the dashboard server over the given catalog.
func NewDashboardServer(cat *catalog.Catalog) *DashboardServer {
	return &DashboardServer{catalog: cat}
}

// Name implements Server.
func (s *DashboardServer) Name() string { return "dashboard" }

// Description implements Server.
func (s *DashboardServer) Description() string {
	return "Render interactive dashboards and documents as UI trees"
}

// Tools implements Server.
func (s *DashboardServer) Tools() []Tool {
	return []Tool{
		{
			Name:        "sales_dashboard",
			Description: "Show a sales dashboard with key metrics and a revenue chart",
			Params: catalog.ObjectSchema(map[string]catalog.PropertyDef{
				"period": {Type: "string", Description: "Reporting period",
					Enum: []string{"month", "quarter", "year"}},
			}),
		},
		{
			Name:        "customer_table",
			Description: "Show a filterable customer table with export controls",
			Params: catalog.ObjectSchema(map[string]catalog.PropertyDef{
				"status": {Type: "string", Description: "Filter customers by status",
					Enum: []string{"active", "inactive", "all"}},
			}),
		},
		{
			Name:        "invoice_preview",
			Description: "Show a generated invoice document",
			Params: catalog.ObjectSchema(map[string]catalog.PropertyDef{
				"customer": {Type: "string", Description: "Customer name on the invoice"},
			}, "customer"),
		},
	}
}

// Execute implements Server.
func (s *DashboardServer) Execute(ctx context.Context, toolName string, args json.RawMessage) (string, error) {
	var tree *uitree.Tree
	var err error

	switch toolName {
	case "sales_dashboard":
		var input struct {
			Period string `json:"period"`
		}
		if len(args) > 0 {
			if err := json.Unmarshal(args, &input); err != nil {
				return "", fmt.Errorf("sales_dashboard: %w", err)
			}
		}
		if input.Period == "" {
			input.Period = "quarter"
		}
		tree, err = s.salesDashboard(input.Period)

	case "customer_table":
		var input struct {
			Status string `json:"status"`
		}
		if len(args) > 0 {
			if err := json.Unmarshal(args, &input); err != nil {
				return "", fmt.Errorf("customer_table: %w", err)
			}
		}
		tree, err = s.customerTable(input.Status)

	case "invoice_preview":
		var input struct {
			Customer string `json:"customer"`
		}
		if err := json.Unmarshal(args, &input); err != nil {
			return "", fmt.Errorf("invoice_preview: %w", err)
		}
		tree, err = s.invoicePreview(input.Customer)

	default:
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, toolName)
	}

	if err != nil {
		return "", err
	}
	if verr := s.catalog.ValidateTree(tree, catalog.ValidateOptions{}); verr != nil {
		return "", fmt.Errorf("%s produced an invalid tree: %w", toolName, verr)
	}

	out, merr := json.Marshal(tree)
	if merr != nil {
		return "", merr
	}
	return string(out), nil
}

func (s *DashboardServer) salesDashboard(period string) (*uitree.Tree, error) {
	return uitree.Build(
		catalog.Card("dash", fmt.Sprintf("Sales overview (%s)", period), []string{"metrics", "chart", "actions"}),
		catalog.Grid("metrics", 3, []string{"revenue", "deals", "churn"}),
		catalog.Metric("revenue", "Revenue", 482500,
			catalog.P("format", "currency"), catalog.P("trend", "up"), catalog.P("trendValue", "+12.5%")),
		catalog.Metric("deals", "Closed deals", 37,
			catalog.P("format", "number"), catalog.P("trend", "up"), catalog.P("trendValue", "+4")),
		catalog.Metric("churn", "Churn", 2.1,
			catalog.P("format", "percent"), catalog.P("trend", "down"), catalog.P("trendValue", "-0.4%")),
		catalog.Chart("chart", "bar", []catalog.ChartPoint{
			{Label: "Jan", Value: 141000},
			{Label: "Feb", Value: 158500},
			{Label: "Mar", Value: 183000},
		}, catalog.P("title", "Revenue by month")),
		catalog.Stack("actions", "horizontal", []string{"export-csv", "refresh"}),
		catalog.Button("export-csv", "Export CSV", "export", map[string]any{"format": "csv"}),
		catalog.Button("refresh", "Refresh", "refresh", nil, catalog.P("variant", "secondary")),
	)
}

func (s *DashboardServer) customerTable(status string) (*uitree.Tree, error) {
	rows := []map[string]any{
		{"name": "Acme Corp", "plan": "enterprise", "mrr": 4200.0, "status": "active"},
		{"name": "Globex", "plan": "starter", "mrr": 190.0, "status": "active"},
		{"name": "Initech", "plan": "team", "mrr": 960.0, "status": "inactive"},
	}
	if status == "active" || status == "inactive" {
		filtered := rows[:0]
		for _, row := range rows {
			if row["status"] == status {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	return uitree.Build(
		catalog.Card("customers", "Customers", []string{"filters", "table", "export"}),
		catalog.FilterPanel("filters", []catalog.Filter{
			{ID: "name", Label: "Name", Type: "text", Placeholder: "Search by name..."},
			{ID: "status", Label: "Status", Type: "select", Options: []catalog.FilterOption{
				{Label: "Active", Value: "active"},
				{Label: "Inactive", Value: "inactive"},
			}},
		}),
		catalog.Table("table",
			[]catalog.TableColumn{
				{Key: "name", Label: "Name"},
				{Key: "plan", Label: "Plan"},
				{Key: "mrr", Label: "MRR", Format: "currency"},
				{Key: "status", Label: "Status"},
			},
			rows,
			catalog.P("striped", true)),
		catalog.Button("export", "Export JSON", "export", map[string]any{"format": "json"}),
	)
}

func (s *DashboardServer) invoicePreview(customer string) (*uitree.Tree, error) {
	return uitree.Build(
		catalog.DocumentPreview("invoice", "Invoice #2024-018", "invoice",
			[]catalog.DocumentSection{
				{Heading: "Bill To", Content: customer + "\n123 Main St"},
				{Heading: "Items", Content: "Platform subscription - $1,200\nSupport plan - $300", Type: "list"},
				{Content: "Authorized signature", Type: "signature"},
			},
			catalog.P("status", "final"),
			catalog.P("metadata", map[string]any{"Date": "2026-08-30", "Due": "2026-09-29"}),
		),
	)
}
