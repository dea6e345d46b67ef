package httpserv

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Template holds the opening and closing HTML halves wrapped around every
// Page. The opening half carries a {title} placeholder. Deployments can
// substitute their own template as long as both halves are provided.
type Template struct {
	Opening string
	Closing string
}

// DefaultTemplate reproduces the stock page frame.
var DefaultTemplate = Template{
	Opening: "<html>\n    <head>\n      <title>{title}</title>\n    </head>\n    <body>\n",
	Closing: "\n    </body>\n</html>",
}

// Render wraps content in the template with the given title.
func (t Template) Render(title, content string) string {
	return strings.Replace(t.Opening, "{title}", title, 1) + content + t.Closing
}

// Page is a static HTML provider: a title and a body wrapped in a template.
type Page struct {
	Title string
	Text  string
	Type  string    // content type, defaults to text/html
	Tmpl  *Template // defaults to DefaultTemplate
}

func (p *Page) render() string {
	t := DefaultTemplate
	if p.Tmpl != nil {
		t = *p.Tmpl
	}
	return t.Render(p.Title, p.Text)
}

func (p *Page) ContentType() string {
	if p.Type == "" {
		return "text/html"
	}
	return p.Type
}

func (p *Page) Size(method, target string, body []byte) int64 {
	return int64(len(p.render()))
}

func (p *Page) Content(method, target string, body []byte) Body {
	return FixedBody([]byte(p.render()))
}

// HomePage is the stock landing page.
func HomePage() *Page {
	return &Page{Title: "Home", Text: "Hello, world!"}
}

// BadRequestPage is served when the request cannot be parsed.
func BadRequestPage() *Page {
	return &Page{
		Title: "400: Bad Request",
		Text: "Error: The server cannot or will not process the request due to " +
			"something that is perceived to be a client error (e.g., malformed " +
			"request syntax, invalid request message framing, or deceptive " +
			"request routing).",
	}
}

// NotFoundPage is served for targets matching no registered pattern.
func NotFoundPage() *Page {
	return &Page{
		Title: "404: Resource Not Found",
		Text:  "Error: The requested resource cannot be found.",
	}
}

// NotAllowedPage is served for methods outside the configured set.
func NotAllowedPage() *Page {
	return &Page{
		Title: "405: Method Not Allowed",
		Text: "Error: The request method is not supported by the server and " +
			"cannot be handled.",
	}
}

// FilePage serves a file's full contents as a fixed-length body.
type FilePage struct {
	Path string
	Type string
}

func (f *FilePage) ContentType() string {
	if f.Type == "" {
		return "text/plain"
	}
	return f.Type
}

func (f *FilePage) Size(method, target string, body []byte) int64 {
	fi, err := os.Stat(f.Path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func (f *FilePage) Content(method, target string, body []byte) Body {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return FixedBody(nil)
	}
	return FixedBody(data)
}

// StreamFile serves a file line by line as a chunked response. Its size is
// unknown up front and logged as "-".
type StreamFile struct {
	Path string
	Type string
}

func (s *StreamFile) ContentType() string {
	if s.Type == "" {
		return "text/plain"
	}
	return s.Type
}

func (s *StreamFile) Size(method, target string, body []byte) int64 {
	return SizeUnknown
}

func (s *StreamFile) Content(method, target string, body []byte) Body {
	f, err := os.Open(s.Path)
	if err != nil {
		return StreamedBody(func() ([]byte, bool) { return nil, false })
	}
	br := bufio.NewReader(f)
	done := false
	return StreamedBody(func() ([]byte, bool) {
		if done {
			return nil, false
		}
		line, err := br.ReadString('\n')
		if err == io.EOF {
			done = true
			f.Close()
			if line == "" {
				return nil, false
			}
			return []byte(line), true
		}
		if err != nil {
			done = true
			f.Close()
			return nil, false
		}
		return []byte(line), true
	})
}

// Echo streams the request body back to the client, or the string "error"
// when no body was supplied. Useful for POST testing.
type Echo struct{}

func (Echo) ContentType() string { return "text/plain" }

func (Echo) Size(method, target string, body []byte) int64 { return SizeUnknown }

func (Echo) Content(method, target string, body []byte) Body {
	out := body
	if len(out) == 0 {
		out = []byte("error")
	}
	sent := false
	return StreamedBody(func() ([]byte, bool) {
		if sent {
			return nil, false
		}
		sent = true
		return out, true
	})
}
