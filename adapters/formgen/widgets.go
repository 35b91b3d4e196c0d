package letterformgen

import (
	"fmt"
	"strings"
)

// Field defines a form field for formgen-style UIs.
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
	Hint     string   `json:"hint,omitempty"`
}

// Form defines the internship request form widget.
type Form struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Action      string   `json:"action"`
	Method      string   `json:"method"`
	SubmitLabel string   `json:"submit_label"`
	Fields      []Field  `json:"fields"`
	Headers     []string `json:"headers,omitempty"`
}

// TableColumn defines a column in the requests table.
type TableColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// TableAction defines a table action that maps to an HTTP endpoint.
type TableAction struct {
	Label       string `json:"label"`
	Method      string `json:"method"`
	URLTemplate string `json:"url_template"`
}

// Table defines a requests dashboard widget.
type Table struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	DataURL string        `json:"data_url"`
	Columns []TableColumn `json:"columns"`
	Actions []TableAction `json:"actions,omitempty"`
	Headers []string      `json:"headers,omitempty"`
}

// Theme captures optional theme tokens for admin UI styling.
type Theme struct {
	Name   string            `json:"name"`
	Tokens map[string]string `json:"tokens"`
}

// UI bundles the widgets needed for submission and review views.
type UI struct {
	SubmissionForm Form  `json:"submission_form"`
	Requests       Table `json:"requests"`
	Theme          Theme `json:"theme"`
}

// DefaultUI returns a minimal formgen-style UI contract for internship letters.
func DefaultUI(basePath string) UI {
	basePath = strings.TrimRight(basePath, "/")
	if basePath == "" {
		basePath = "/requests"
	}
	return UI{
		SubmissionForm: SubmissionForm(basePath),
		Requests:       RequestsTable(basePath),
		Theme:          DefaultTheme(),
	}
}

// SubmissionForm builds a form definition for new internship requests.
func SubmissionForm(basePath string) Form {
	return Form{
		ID:          "internship-request",
		Title:       "Internship Application",
		Action:      basePath,
		Method:      "POST",
		SubmitLabel: "Submit Application",
		Fields: []Field{
			{Name: "student_name", Label: "Student Name", Type: "text", Required: true},
			{Name: "email", Label: "Email", Type: "email", Hint: "Used for letter-ready notifications"},
			{Name: "college_name", Label: "College", Type: "text", Required: true},
			{Name: "course", Label: "Course / Branch", Type: "text", Required: true},
			{Name: "duration_start", Label: "Internship Start", Type: "date", Required: true},
			{Name: "duration_end", Label: "Internship End", Type: "date", Required: true},
			{Name: "reference_number", Label: "Reference Number", Type: "text", Required: true},
			{Name: "permission", Label: "College Permission Letter", Type: "file", Hint: "PDF only"},
		},
		Headers: DefaultAuthHeaders(),
	}
}

// RequestsTable builds a table definition for the admin review dashboard.
func RequestsTable(basePath string) Table {
	return Table{
		ID:      "internship-requests",
		Title:   "Internship Requests",
		DataURL: basePath,
		Columns: []TableColumn{
			{Key: "ID", Label: "ID"},
			{Key: "StudentName", Label: "Student"},
			{Key: "CollegeName", Label: "College"},
			{Key: "Course", Label: "Course"},
			{Key: "Status", Label: "Status"},
			{Key: "CreatedAt", Label: "Submitted"},
		},
		Actions: []TableAction{
			{Label: "Approve", Method: "POST", URLTemplate: fmt.Sprintf("%s/{id}/approve", basePath)},
			{Label: "Reject", Method: "POST", URLTemplate: fmt.Sprintf("%s/{id}/reject", basePath)},
			{Label: "Letter", Method: "GET", URLTemplate: fmt.Sprintf("%s/{id}/letter", basePath)},
			{Label: "Permission", Method: "GET", URLTemplate: fmt.Sprintf("%s/{id}/permission", basePath)},
		},
		Headers: DefaultAuthHeaders(),
	}
}

// DefaultTheme provides a small theme token set for admin widgets.
func DefaultTheme() Theme {
	return Theme{
		Name: "go-letters",
		Tokens: map[string]string{
			"primary":   "#1e3a8a",
			"surface":   "#ffffff",
			"text":      "#1f2937",
			"muted":     "#6b7280",
			"accent":    "#1d4ed8",
			"danger":    "#b91c1c",
			"success":   "#15803d",
			"border":    "#e5e7eb",
			"highlight": "#dbeafe",
		},
	}
}

// DefaultAuthHeaders lists headers forwarded with admin widget requests.
func DefaultAuthHeaders() []string {
	return []string{"Authorization", "Idempotency-Key"}
}
