package chart

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// DefaultPlotlyURL is the plotly.js bundle loaded by the page.
const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// HTMLOptions controls WriteHTML.
type HTMLOptions struct {
	PlotlyURL string
	// PageTitle is the <title> of the document; defaults to TitleText.
	PageTitle string
	// DivID is the plot container id; a random id is used when empty.
	DivID string
}

var pageTmpl = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8" />
<title>{{.Title}}</title>
<script src="{{.PlotlyURL}}" charset="utf-8"></script>
</head>
<body>
<div id="{{.DivID}}" class="plotly-graph-div" style="height:100%; width:100%;"></div>
<script type="text/javascript">
(function () {
  var fig = {{.Figure}};
  Plotly.newPlot({{.DivID}}, fig.data, fig.layout, {"responsive": true}).then(function () {
    Plotly.addFrames({{.DivID}}, fig.frames);
  });
})();
</script>
</body>
</html>
`))

// JSON encodes the figure as plotly expects it.
func (f *Figure) JSON() ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, eris.Wrap(err, "chart: marshal figure")
	}
	return b, nil
}

// WriteHTML writes a standalone page that loads plotly.js and embeds every
// frame of the figure.
func (f *Figure) WriteHTML(w io.Writer, opts HTMLOptions) error {
	if opts.PlotlyURL == "" {
		opts.PlotlyURL = DefaultPlotlyURL
	}
	if opts.PageTitle == "" {
		opts.PageTitle = TitleText
	}
	if opts.DivID == "" {
		opts.DivID = uuid.NewString()
	}
	fig, err := f.JSON()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, struct {
		Title     string
		PlotlyURL string
		DivID     string
		Figure    template.JS
	}{
		Title:     opts.PageTitle,
		PlotlyURL: opts.PlotlyURL,
		DivID:     opts.DivID,
		Figure:    template.JS(fig),
	})
	if err != nil {
		return eris.Wrap(err, "chart: render html")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return eris.Wrap(err, "chart: write html")
	}
	return nil
}
