package report

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"github.com/ja7ad/procrec/pkg/sampler"
	"github.com/ja7ad/procrec/pkg/usage"
)

// Meta describes the run for the HTML header.
type Meta struct {
	PID      int
	Command  []string
	Source   string
	Interval string
	Reason   string
}

// WriteHTML renders a standalone HTML page with a summary and per-tick table.
func WriteHTML(w io.Writer, rec sampler.Recording, meta Meta) error {
	acc := usage.FromRecording(rec)
	data := struct {
		Rows    sampler.Recording
		Meta    Meta
		Command string
		Avg     usage.Result
		Peak    usage.Result
	}{
		Rows:    rec,
		Meta:    meta,
		Command: strings.Join(meta.Command, " "),
		Avg:     acc.Averages(),
		Peak:    acc.Peaks(),
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

var tpl = template.Must(template.New("rep").Parse(`<!doctype html>
<html lang="en"><meta charset="utf-8">
<title>procrec report</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Helvetica,Arial,sans-serif;margin:20px}
h1,h2{margin:0 0 8px}
table{border-collapse:collapse;width:100%;font-size:14px}
th,td{border:1px solid #ddd;padding:6px 8px;text-align:right}
th:first-child,td:first-child{text-align:left}
ul{margin:6px 0 14px;padding-left:20px}
.small{color:#555}
.badge{display:inline-block;background:#eef;border:1px solid #ccd;padding:2px 6px;border-radius:6px;margin-right:6px;}
</style>

<h1>procrec report</h1>

<p class="small">
<span class="badge">PID {{.Meta.PID}}</span>{{if .Command}} <code>{{.Command}}</code>{{end}}
&nbsp;|&nbsp; Samples: {{len .Rows}}
&nbsp;|&nbsp; Interval: {{.Meta.Interval}}
&nbsp;|&nbsp; Source: {{.Meta.Source}}
{{if .Meta.Reason}}&nbsp;|&nbsp; Stopped: {{.Meta.Reason}}{{end}}
</p>

<h2>Summary</h2>
<ul>
<li>Avg CPU: {{printf "%.2f" .Avg.CPU}} % (peak {{printf "%.2f" .Peak.CPU}} %)</li>
<li>Avg RSS: {{.Avg.RSS.Humanized}} (peak {{.Peak.RSS.Humanized}})</li>
<li>Avg VSIZE: {{.Avg.VSize.Humanized}} (peak {{.Peak.VSize.Humanized}})</li>
</ul>

<h2>Per-tick</h2>
<table>
<thead>
<tr><th>t (s)</th><th>CPU %</th><th>RSS KiB</th><th>VSIZE KiB</th><th>threads</th></tr>
</thead>
<tbody>
{{range .Rows}}
<tr>
<td>{{printf "%.2f" .Elapsed}}</td>
<td>{{printf "%.2f" .CPU}}</td>
<td>{{.RSS.KiB}}</td>
<td>{{.VSize.KiB}}</td>
<td>{{.Threads}}</td>
</tr>
{{end}}
</tbody>
</table>
</html>`))
