// Package mdtty renders streamed Markdown to ANSI-styled, width-wrapped
// terminal text.
//
// It is built for output that arrives a few tokens at a time, such as the
// reply of a text generation model. A Parser turns incoming bytes into
// structural events line by line and a Renderer lays each event out the
// moment it arrives: words are wrapped to the terminal width, code lines are
// wrapped at character boundaries and highlighted, lists keep their nesting
// across blank lines and tables are buffered until they end so their
// columns can be sized.
//
// Core properties:
//   - Events in, text out: producers other than Parser may drive a Renderer
//   - Escape-aware measuring: styling never counts toward line width
//   - Output is flushed after every event
//   - Styling through a swappable Styler capability
//
// Example:
//
//	reader := strings.NewReader("# Hello\n\nMarkdown in, ANSI out.\n")
//	err := mdtty.Render(mdtty.RenderRequest{
//		Reader: reader,
//		Writer: os.Stdout,
//		Width:  80,
//		Theme:  mdtty.DefaultTheme(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Events can also be rendered directly:
//
//	r := mdtty.NewRenderer(os.Stdout, 60)
//	_ = r.RenderEvent(mdtty.HeadingEvent(2, "Status"))
//	_ = r.RenderEvent(mdtty.ListItemEvent(0, mdtty.BulletDash, "all good"))
//	_ = r.Finish()
package mdtty
