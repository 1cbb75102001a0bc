package hierarchy

import (
	"fmt"
	"html"
	"strings"

	"panchayath_go/models"
	"panchayath_go/utils"
)

// SheetName is the worksheet the import strictly requires and the
// export always writes.
const SheetName = "Hierarchy"

// SummarySheetName holds the per-role counts in Excel exports.
const SummarySheetName = "Summary"

// ExportHeader is the fixed column set of the tabular round-trip
// format. Import requires the first six; Email is optional.
var ExportHeader = []string{
	"Level 1 (Coordinator)",
	"Level 2 (Supervisor)",
	"Level 3 (Group Leader)",
	"Level 4 (P.R.O)",
	"Phone",
	"Ward",
	"Email",
}

// ExportRows emits the stepped sparse table: a depth-first walk with one
// row per agent, where each level column is populated only on the row
// introducing that agent. Phone, Ward and Email belong to the agent
// introduced on the row. The header row is included. Agents not
// reachable from a coordinator cannot be expressed in this format
// (a row's superior is implied by the rows before it) and are omitted;
// the summary renderings report them as unassigned instead.
func (f *Forest) ExportRows() [][]string {
	rows := [][]string{append([]string(nil), ExportHeader...)}
	f.Walk(func(a models.Agent, level int) {
		row := make([]string, len(ExportHeader))
		if level >= 0 && level < 4 {
			row[level] = a.Name
		}
		row[4] = a.Phone
		row[5] = a.Ward
		row[6] = a.Email
		rows = append(rows, row)
	})
	return rows
}

// TextTree renders the forest as a plain indented-text tree, one tab
// per level, with the display role label after each name. Agents with a
// missing or dangling superior follow under an Unassigned heading.
func (f *Forest) TextTree() string {
	var b strings.Builder
	f.Walk(func(a models.Agent, level int) {
		b.WriteString(strings.Repeat("\t", level))
		b.WriteString(a.Name)
		b.WriteString(" (")
		b.WriteString(utils.DisplayRole(a.Role))
		b.WriteString(")\n")
	})
	if orphans := f.Orphans(); len(orphans) > 0 {
		b.WriteString("\nUnassigned:\n")
		for _, a := range orphans {
			b.WriteString("\t")
			b.WriteString(a.Name)
			b.WriteString(" (")
			b.WriteString(utils.DisplayRole(a.Role))
			b.WriteString(")\n")
		}
	}
	return b.String()
}

// HTMLTree renders the forest as a standalone HTML document with nested
// lists, suitable for direct download.
func (f *Forest) HTMLTree(title string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("<style>body{font-family:sans-serif}ul{list-style:none}li{margin:4px 0}.role{color:#666;font-size:0.85em}</style>\n")
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))

	var writeNode func(n *Node)
	writeNode = func(n *Node) {
		fmt.Fprintf(&b, "<li>%s <span class=\"role\">(%s)</span>",
			html.EscapeString(n.Agent.Name),
			html.EscapeString(utils.DisplayRole(n.Agent.Role)))
		if len(n.Children) > 0 {
			b.WriteString("\n<ul>\n")
			for _, c := range n.Children {
				writeNode(c)
			}
			b.WriteString("</ul>\n")
		}
		b.WriteString("</li>\n")
	}

	b.WriteString("<ul>\n")
	for _, root := range f.Tree() {
		writeNode(root)
	}
	b.WriteString("</ul>\n")

	if orphans := f.Orphans(); len(orphans) > 0 {
		b.WriteString("<h2>Unassigned</h2>\n<ul>\n")
		for _, a := range orphans {
			fmt.Fprintf(&b, "<li>%s <span class=\"role\">(%s)</span></li>\n",
				html.EscapeString(a.Name),
				html.EscapeString(utils.DisplayRole(a.Role)))
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("<h2>Summary</h2>\n<ul>\n")
	for _, rc := range f.Summary() {
		fmt.Fprintf(&b, "<li>%s: %d</li>\n", html.EscapeString(rc.Label), rc.Count)
	}
	b.WriteString("</ul>\n</body>\n</html>\n")
	return b.String()
}
