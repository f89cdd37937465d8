// Command sced is an Emacs-style terminal text editor. Positional
// arguments are file paths: the first opens the initial frame, each
// additional path opens another frame beside it; a leading-dash
// argument that isn't a recognized flag is ignored rather than treated
// as a file name. With no file arguments, sced starts on a single
// empty "*scratch*" buffer.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shawnamir/sced/pkg/buffer"
	"github.com/shawnamir/sced/pkg/clipboard"
	"github.com/shawnamir/sced/pkg/commands"
	"github.com/shawnamir/sced/pkg/config"
	"github.com/shawnamir/sced/pkg/debughttp"
	"github.com/shawnamir/sced/pkg/dispatch"
	"github.com/shawnamir/sced/pkg/editor"
	"github.com/shawnamir/sced/pkg/editorerr"
	"github.com/shawnamir/sced/pkg/elog"
	"github.com/shawnamir/sced/pkg/env"
	"github.com/shawnamir/sced/pkg/envtest"
	"github.com/shawnamir/sced/pkg/fileops"
	"github.com/shawnamir/sced/pkg/frame"
	"github.com/shawnamir/sced/pkg/pane"
	"github.com/shawnamir/sced/pkg/screen"
	"github.com/spf13/cobra"
)

// blinkInterval is how often the event loop wakes on its own to redraw
// the cursor blink and check for a pending quit, absent any keypress.
const blinkInterval = 500 * time.Millisecond

// escGrace is how long the event loop waits for a second byte after a
// bare ESC before treating it as a standalone Meta-less Escape key,
// mirroring the ttimeout disambiguation terminal editors apply to the
// classic ESC-prefix Meta encoding.
const escGrace = 50 * time.Millisecond

var (
	flagConfig    string
	flagDebug     bool
	flagDebugHTTP string
)

func main() {
	root := &cobra.Command{
		Use:           "sced [files...]",
		Short:         "An Emacs-style terminal text editor",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(filePaths(args))
		},
	}
	root.FParseErrWhitelist.UnknownFlags = true

	root.Flags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.sced.yaml)")
	root.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	root.Flags().StringVar(&flagDebugHTTP, "debug-http", "", "address to serve read-only debug JSON on, e.g. :6060")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// filePaths drops any leading-dash argument cobra's UnknownFlags
// whitelisting let through unparsed, per spec §6.
func filePaths(args []string) []string {
	paths := make([]string, 0, len(args))
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			continue
		}
		paths = append(paths, a)
	}
	return paths
}

func run(paths []string) error {
	if flagDebug {
		os.Setenv("SCED_DEBUG", "1")
	}
	defer elog.Sync()

	cfgPath := flagConfig
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return editorerr.Wrap(editorerr.Fatal, "Cannot locate config path", err)
		}
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	rt, err := envtest.NewRealTerminal()
	if err != nil {
		return editorerr.Wrap(editorerr.Fatal, "Cannot start terminal", err)
	}
	defer rt.Restore()

	rows, cols, err := rt.Size()
	if err != nil || rows <= 0 || cols <= 0 {
		rows, cols = 24, 80
	}

	ctx := editor.New(cfg, rt)
	commands.Register(ctx)

	if err := openFrames(ctx, paths, cols, rows); err != nil {
		return err
	}

	if flagDebugHTTP != "" {
		mux := http.NewServeMux()
		mux.Handle("/clipboard", clipboard.NewServiceWindow(ctx.Clipboard))
		mux.Handle("/", debughttp.New(ctx))
		go func() {
			if err := http.ListenAndServe(flagDebugHTTP, mux); err != nil {
				elog.Warnf("debug-http: %v", err)
			}
		}()
	}

	if err := ctx.Env.CreateWindow("sced", rows, cols); err != nil {
		return editorerr.Wrap(editorerr.Fatal, "Cannot create window", err)
	}
	defer ctx.Env.CloseWindow()

	eventLoop(ctx)
	return nil
}

// openFrames loads each path into its own buffer and frame, or falls
// back to a single empty scratch buffer when paths is empty.
func openFrames(ctx *editor.Context, paths []string, cols, rows int) error {
	if len(paths) == 0 {
		bh, _ := ctx.Buffers.Alloc(*buffer.New("*scratch*"))
		ctx.NewFrame(bh, cols, rows)
		return nil
	}

	for _, path := range paths {
		res, err := fileops.Read(path)
		var text []byte
		filtered := false
		switch {
		case err != nil && errors.Is(err, os.ErrNotExist):
			// A nonexistent path opens as a new, unsaved file buffer
			// rather than a fatal error, matching find-file semantics.
		case err != nil:
			return editorerr.Wrap(editorerr.Fatal, "Cannot open "+path, err)
		default:
			text = res.Text
			if res.NeedsFilter {
				text = fileops.Filter(text)
				filtered = true
			}
		}
		name := path
		if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
			name = path[idx+1:]
		}
		buf := buffer.NewFromText(name, path, text)
		buf.Filtered = filtered
		bh, _ := ctx.Buffers.Alloc(*buf)
		ctx.NewFrame(bh, cols, rows)
	}
	return nil
}

// eventLoop drives keypresses from ctx.Env into the dispatcher, falling
// back to literal self-insertion for keys the registry has no binding
// for, and redraws after every key and on blink ticks until the last
// frame is closed or a quit command fires. Rendering goes through a
// screen.Grid so a frame's unchanged rows never reach ctx.Env again.
func eventLoop(ctx *editor.Context) {
	var grid *screen.Grid

	for {
		_, f, ok := ctx.CurrentFrame()
		if !ok {
			return
		}
		grid = syncGrid(grid, f)

		ev, ok := ctx.Env.NextEvent(blinkInterval)
		if !ok {
			render(ctx, f, grid)
			continue
		}

		switch ev.Kind {
		case frame.EventKey:
			handleKeyEvent(ctx, f, ev)
		case frame.EventResize:
			f.SetSize(ev.Col, ev.Row, ctx.LookupBuffer)
		default:
			f.Dispatch(ev, nil)
		}

		if ctx.Quit {
			return
		}
		_, f, ok = ctx.CurrentFrame()
		if !ok {
			return
		}
		grid = syncGrid(grid, f)
		render(ctx, f, grid)
	}
}

// syncGrid resizes (or allocates) grid to match f's current dimensions,
// which also forces every row to redraw once after a resize or frame
// switch.
func syncGrid(grid *screen.Grid, f *frame.Frame) *screen.Grid {
	width, height := f.Width, f.Height
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if grid == nil {
		return screen.New(width, height)
	}
	if grid.Cols() != width || grid.Rows() != height {
		grid.Resize(width, height)
	}
	return grid
}

func handleKeyEvent(ctx *editor.Context, f *frame.Frame, ev frame.Event) {
	raw := []byte{ev.Key}
	if ev.Key == dispatch.Esc {
		if ev2, ok := ctx.Env.NextEvent(escGrace); ok && ev2.Kind == frame.EventKey {
			raw = append(raw, ev2.Key)
		}
	}

	invoked, err := ctx.Dispatch.HandleKey(raw)
	if invoked {
		if err != nil {
			f.Echo.SetError(err.Error())
		} else {
			f.Echo.Clear()
		}
		return
	}
	if err == nil {
		return
	}
	if len(raw) == 1 && isSelfInsertable(raw[0]) {
		f.Dispatch(frame.Event{Window: frame.WindowTopLevel, Kind: frame.EventKey, Pane: f.Current, Key: raw[0]}, commands.SelfInsert(ctx))
		f.Echo.Clear()
		return
	}
	f.Echo.SetError(err.Error())
}

// isSelfInsertable reports whether a key with no command binding
// should be inserted into the buffer literally rather than reported as
// an undefined command: any printable or high-bit (UTF-8 continuation)
// byte, excluding the control range and DEL.
func isSelfInsertable(key byte) bool {
	return key >= 0x20 && key != 0x7f
}

// render redraws f's panes, mode lines, and echo line into grid, then
// flushes only the rows that actually changed to ctx.Env. It is a
// minimal line-oriented layout: enough to drive a real terminal, not a
// full incremental-repaint engine (cursor placement, overlong lines,
// and horizontal scrolling are out of scope).
func render(ctx *editor.Context, f *frame.Frame, grid *screen.Grid) {
	width := grid.Cols()

	row := 0
	for _, p := range f.Panes {
		buf := ctx.LookupBuffer(p.Buffer)
		if buf == nil {
			continue
		}
		p.Recompute(buf, width)
		drawPane(grid, p, buf, row, width)
		row += p.RowCount
	}

	grid.FillRow(f.Height-1, env.Style{Reverse: true})
	grid.SetText(f.Height-1, 0, f.Echo.Text, env.Style{Reverse: true})
	grid.Flush(ctx.Env)
}

func drawPane(g *screen.Grid, p *pane.Pane, buf interface {
	Bytes(start, end int) []byte
	Len() int
}, top, width int) {
	contentRows := p.RowCount
	if p.HasModeLine {
		contentRows--
	}

	pos := p.ViewportStart
	for r := 0; r < contentRows; r++ {
		g.FillRow(top+r, env.Style{})
		if pos >= buf.Len() {
			continue
		}
		end := pos
		for end < buf.Len() && buf.Bytes(end, end+1)[0] != '\n' && end-pos < width {
			end++
		}
		g.SetText(top+r, 0, string(buf.Bytes(pos, end)), env.Style{})
		if end < buf.Len() && buf.Bytes(end, end+1)[0] == '\n' {
			end++
		}
		pos = end
	}

	if p.HasModeLine {
		g.FillRow(top+p.RowCount-1, env.Style{Bold: true})
		g.SetText(top+p.RowCount-1, 0, "--", env.Style{Bold: true})
	}
}
