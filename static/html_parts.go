// Package static holds the demo page served at the root of the HTTP server.
package static

import (
	"html/template"
	"io"
)

// FormValues are the current inputs echoed back into the page form.
type FormValues struct {
	Width  int
	Height int
	Sites  int
	Random bool
	Seed   int64
	// Steps limits the sweep, zero draws the finished diagram.
	Steps int
}

// WriteForm writes the parameter form of the left pane.
func WriteForm(w io.Writer, v FormValues) error {
	return form.Execute(w, v)
}

var form = template.Must(template.New("form").Parse(`
                <h1>Voronoi diagram parameters</h1>
                <form id="diagram-form" method="POST">
                    <label for="width">Width (W):</label>
                    <input type="number" id="width" name="width" value="{{.Width}}" min="100" max="5000"><br><br>
                    <label for="height">Height (H):</label>
                    <input type="number" id="height" name="height" value="{{.Height}}" min="100" max="5000"><br><br>
                    <label for="sites">Sites (n):</label>
                    <input type="number" id="sites" name="sites" value="{{.Sites}}" min="2" max="2000"><br><br>
                    <label for="steps">Stop after steps (0 runs to the end):</label>
                    <input type="number" id="steps" name="steps" value="{{.Steps}}" min="0"><br><br>
                    <label for="seed">Seed:</label>
                    <input type="number" id="seed" name="seed" value="{{.Seed}}"><br><br>
                    <label for="random">Random sites:</label>
                    <input type="checkbox" id="random" name="random" value="true"{{if .Random}} checked{{end}}><br><br>
                    <input type="submit" value="Build">
                </form>
`))

var (
	Head = `
    <!DOCTYPE html>
    <html>
    <head>
        <title>Voronoi diagram</title>
		<style>
			body {
				background-color: #1F1F1F;
				color: #d3d3d3;
				font-family: Consolas, monospace;
				overflow: hidden;
			}

			#container {
				display: flex;
				width: 100%;
				height: 100vh;
				box-sizing: border-box;
			}

			#left-container {
				width: 50%;
				padding: 10px;
				box-sizing: border-box;
				overflow-y: auto;
			}

			#right-container {
				width: 50%;
				padding: 10px;
				box-sizing: border-box;
				border-left: 5px solid #757575;
				overflow-y: auto;
				overflow-x: auto;
				background-color: #1e1e1e;
			}

			#logs {
				white-space: pre-wrap;
				word-wrap: break-word;
				color: #d3d3d3;
				font-family: Consolas, monospace;
			}

			.error {
				color: #ff6b6b;
			}

			input[type="number"],
			input[type="submit"] {
				background-color: #2b2b2b;
				color: #d3d3d3;
				border: 1px solid #444;
				padding: 5px;
				margin: 5px 0;
				border-radius: 4px;
			}

			label, h1 {
				color: #d3d3d3;
			}

			input[type="submit"]:hover {
				background-color: #444;
				cursor: pointer;
			}

			::-webkit-scrollbar {
				width: 8px;
			}

			::-webkit-scrollbar-thumb {
				background-color: #444;
				border-radius: 10px;
			}

			::-webkit-scrollbar-track {
				background-color: #2b2b2b;
			}
        </style>
    </head>
    <body>
        <div id="container">
            <div id="left-container">`

	Logs = `
            </div>
            <div id="right-container">
                <h1>Logs</h1>
                <div id="logs">`

	Foot = `
                </div>
            </div>
        </div>

        <script>
            document.getElementById('diagram-form').addEventListener('submit', function (e) {
                e.preventDefault();
                const params = new URLSearchParams(new FormData(this)).toString();

                fetch('/', {
                    method: 'POST',
                    body: params,
                    headers: {
                        'Content-Type': 'application/x-www-form-urlencoded'
                    }
                })
                .then(response => response.text())
                .then(html => {
                    document.open();
                    document.write(html);
                    document.close();
                })
                .catch(error => {
                    console.error('request failed:', error);
                });
            });
        </script>
    </body>
    </html>
    `
)
