package render

import "strings"

// Markdown renders markdown content for terminal display using a pooled
// renderer for opts.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// Reply renders an assistant reply for display inside a bubble or viewport.
// Trailing newlines are trimmed. If rendering fails the raw content is
// returned together with the error, so callers can always show something.
func Reply(content string, opts Options) (string, error) {
	out, err := Markdown(content, opts)
	if err != nil {
		return content, err
	}
	return strings.TrimRight(out, "\n"), nil
}
