package renderer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"anoa.com/eventtech/internal/entity"
	"anoa.com/eventtech/internal/modules/export/dto"
)

const CSVHeader = "ID,Name,Email,College,Event,Registration Date,Winner Status"

// WriteCSV writes every text column quoted, with embedded quotes doubled.
func WriteCSV(w io.Writer, rows []entity.Registration) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, CSVHeader)
	for _, r := range rows {
		fmt.Fprintf(bw, "%d,\"%s\",\"%s\",\"%s\",\"%s\",\"%s\",%s\n",
			r.ID,
			escapeCSV(r.Name),
			escapeCSV(r.Email),
			escapeCSV(r.College),
			escapeCSV(r.Event),
			r.RegistrationDate.Format(dto.DateLayout),
			r.StatusLabel(),
		)
	}
	return bw.Flush()
}

func escapeCSV(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// WriteJSON pretty prints the export with two space indentation.
func WriteJSON(w io.Writer, doc dto.JSONExport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Report feeds the full participants report.
type Report struct {
	EventTitle   string
	Subtitle     string
	GeneratedAt  time.Time
	Participants []entity.Registration
}

func (r Report) Winners() int {
	n := 0
	for _, p := range r.Participants {
		if p.WinnerStatus {
			n++
		}
	}
	return n
}

func (r Report) NonWinners() int {
	return len(r.Participants) - r.Winners()
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format(dto.DateLayout) },
	"badge": func(winner bool) string {
		if winner {
			return "🏆 Winner"
		}
		return "✅ Participant"
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.EventTitle}} - Participants Report</title>
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 20px; background: #f5f5f5; }
.container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
h1 { color: #1e3a8a; text-align: center; margin-bottom: 10px; }
.subtitle { text-align: center; color: #666; margin-bottom: 30px; }
table { border-collapse: collapse; width: 100%; margin-top: 20px; }
th, td { border: 1px solid #ddd; padding: 12px; text-align: left; }
th { background: linear-gradient(135deg, #3b82f6, #1e3a8a); color: white; font-weight: bold; }
tr:nth-child(even) { background-color: #f8fafc; }
tr:hover { background-color: #e2e8f0; }
.winner { background-color: #fef3c7 !important; font-weight: bold; }
.stats { display: flex; justify-content: space-around; margin-bottom: 20px; }
.stat-box { background: linear-gradient(135deg, #3b82f6, #8b5cf6); color: white; padding: 20px; border-radius: 10px; text-align: center; min-width: 150px; }
.stat-number { font-size: 2em; font-weight: bold; }
.stat-label { font-size: 0.9em; opacity: 0.9; }
</style>
</head>
<body>
<div class="container">
<h1>{{.EventTitle}}</h1>
<div class="subtitle">Participants Report{{.Subtitle}}</div>
<div class="subtitle">Generated on: {{date .GeneratedAt}}</div>
<div class="stats">
<div class="stat-box"><div class="stat-number">{{len .Participants}}</div><div class="stat-label">Total Participants</div></div>
<div class="stat-box"><div class="stat-number">{{.Winners}}</div><div class="stat-label">Winners</div></div>
<div class="stat-box"><div class="stat-number">{{.NonWinners}}</div><div class="stat-label">Participants</div></div>
</div>
<table>
<thead>
<tr><th>ID</th><th>Name</th><th>Email</th><th>College</th><th>Event</th><th>Registration Date</th><th>Status</th></tr>
</thead>
<tbody>
{{range .Participants}}<tr{{if .WinnerStatus}} class="winner"{{end}}><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Email}}</td><td>{{.College}}</td><td>{{.Event}}</td><td>{{date .RegistrationDate}}</td><td>{{badge .WinnerStatus}}</td></tr>
{{end}}</tbody>
</table>
</div>
</body>
</html>
`))

var listTmpl = template.Must(template.New("list").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.EventTitle}} - Participants List</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; }
</style>
</head>
<body>
<h1>{{.EventTitle}} - Participants List</h1>
<table>
<tr><th>ID</th><th>Name</th><th>Email</th><th>College</th><th>Event</th><th>Registration Date</th><th>Status</th></tr>
{{range .Participants}}<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Email}}</td><td>{{.College}}</td><td>{{.Event}}</td><td>{{date .RegistrationDate}}</td><td>{{.StatusLabel}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// WriteHTMLReport renders the styled report with summary statistics.
func WriteHTMLReport(w io.Writer, report Report) error {
	return reportTmpl.Execute(w, report)
}

// WriteHTMLList renders the plain participant table used by the dashboard.
func WriteHTMLList(w io.Writer, eventTitle string, rows []entity.Registration) error {
	return listTmpl.Execute(w, Report{EventTitle: eventTitle, Participants: rows})
}
