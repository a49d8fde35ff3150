// ABOUTME: Interactive edit command
// ABOUTME: Reads tap, undo, delete, and save commands from stdin to draw one feature

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/geoedit/internal/editing"
	"github.com/harper/geoedit/internal/geojson"
	"github.com/harper/geoedit/internal/models"
	"github.com/harper/geoedit/internal/render"
	"github.com/harper/geoedit/internal/session"
	"github.com/harper/geoedit/internal/ui"
	"github.com/harper/geoedit/internal/viewport"
	"github.com/spf13/cobra"
)

const editHelp = `Commands:
  tap <x> <y>       tap the screen at pixel (x, y)
  undo              undo the last step
  delete            delete the selected or last vertex
  status            show vertices, selection, and actions
  pan <dx> <dy>     move the view by a pixel offset
  zoom <factor>     zoom in (>1) or out (<1)
  fit               fit the view to the vertices
  render <f> [#hex] write the edit overlay as PNG
  geojson           print the working geometry as GeoJSON
  save              save the feature and exit
  discard           abandon the edit and exit
  help              show this help`

var editCmd = &cobra.Command{
	Use:     "edit <layer>",
	Aliases: []string{"e"},
	Short:   "Draw a new feature into a layer",
	Long: `Start an interactive edit that adds one feature to a layer.

Taps are screen pixels in a viewport of --width x --height pixels centered
on (--center-x, --center-y) at --resolution map units per pixel. A tap near
a vertex or midpoint selects it; the next tap moves the vertex or inserts a
new one at the midpoint.

Examples:
  geoedit edit parcels
  geoedit edit roads --width 1024 --height 768 --resolution 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		layer, err := repo.GetLayerByName(args[0])
		if err != nil {
			return fmt.Errorf("layer '%s' not found", args[0])
		}

		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		cx, _ := cmd.Flags().GetFloat64("center-x")
		cy, _ := cmd.Flags().GetFloat64("center-y")
		res, _ := cmd.Flags().GetFloat64("resolution")
		view, err := viewport.New(width, height, models.Point{X: cx, Y: cy}, res)
		if err != nil {
			return err
		}

		sess := session.New(repo, logger)
		if err := sess.Begin(layer); err != nil {
			return err
		}

		e := &editor{sess: sess, view: view, style: style, out: os.Stdout}
		color.Cyan("Editing %s (%s). Type 'help' for commands.", layer.Name, layer.Kind)
		return e.run(os.Stdin)
	},
}

func init() {
	editCmd.Flags().Int("width", 800, "viewport width in pixels")
	editCmd.Flags().Int("height", 600, "viewport height in pixels")
	editCmd.Flags().Float64("center-x", 0, "map X at the viewport center")
	editCmd.Flags().Float64("center-y", 0, "map Y at the viewport center")
	editCmd.Flags().Float64("resolution", 1, "map units per pixel")

	rootCmd.AddCommand(editCmd)
}

// errEditDone ends the command loop.
var errEditDone = errors.New("edit finished")

// editor runs the line-oriented edit loop.
type editor struct {
	sess  *session.Session
	view  *viewport.Viewport
	style editing.Style
	out   io.Writer
}

// run reads commands until save, discard, quit, or end of input. An edit
// still open at end of input is discarded.
func (e *editor) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(e.out, "> ")
		if !scanner.Scan() {
			break
		}
		err := e.exec(scanner.Text())
		if errors.Is(err, errEditDone) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(e.out, color.RedString("error: %v", err))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if e.sess.Editing() {
		e.sess.Discard()
		fmt.Fprintln(e.out, color.YellowString("Input ended, edit discarded."))
	}
	return nil
}

// exec runs one command line.
func (e *editor) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "tap", "t":
		nums, err := parseFloats(args, 2)
		if err != nil {
			return err
		}
		res, err := e.sess.Tap(nums[0], nums[1], e.view)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.out, color.GreenString("%s", ui.FormatTapResult(res)))
	case "undo", "u":
		if err := e.sess.Undo(); err != nil {
			return err
		}
		fmt.Fprintln(e.out, color.GreenString("undone"))
	case "delete", "d":
		if err := e.sess.DeletePoint(); err != nil {
			return err
		}
		fmt.Fprintln(e.out, color.GreenString("point deleted"))
	case "status", "s":
		fmt.Fprintln(e.out, ui.FormatStatus(e.sess.Status()))
	case "pan":
		nums, err := parseFloats(args, 2)
		if err != nil {
			return err
		}
		e.view.Pan(nums[0], nums[1])
		fmt.Fprintf(e.out, "center %s\n", e.view.Center)
	case "zoom":
		nums, err := parseFloats(args, 1)
		if err != nil {
			return err
		}
		if nums[0] <= 0 {
			return fmt.Errorf("zoom factor must be positive")
		}
		e.view.Zoom(nums[0])
		fmt.Fprintf(e.out, "resolution %g\n", e.view.Resolution)
	case "fit":
		e.view.Fit(e.sess.Status().Points, 40)
		fmt.Fprintf(e.out, "center %s resolution %g\n", e.view.Center, e.view.Resolution)
	case "render":
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("usage: render <file.png> [#RRGGBB]")
		}
		raster := render.NewRaster(e.view.Width, e.view.Height, e.view)
		defer func() { _ = raster.Close() }()
		if len(args) == 2 {
			raster.SetBackground(args[1])
			raster.Clear()
		}
		if err := e.sess.Draw(raster, e.style); err != nil {
			return err
		}
		if err := raster.SavePNG(args[0]); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
		fmt.Fprintln(e.out, color.GreenString("wrote %s", args[0]))
	case "geojson":
		g, ok := e.sess.Controller().CurrentGeometry()
		if !ok {
			return fmt.Errorf("no geometry yet")
		}
		data, err := geojson.FromGeometry(g).ToJSONIndent()
		if err != nil {
			return err
		}
		fmt.Fprintln(e.out, string(data))
	case "save":
		f, err := e.sess.Save()
		if err != nil {
			return err
		}
		fmt.Fprintln(e.out, color.GreenString("✓ Saved %s %s", f.Kind, f.ID.String()[:8]))
		return errEditDone
	case "discard", "quit", "exit", "q":
		e.sess.Discard()
		fmt.Fprintln(e.out, color.YellowString("Edit discarded."))
		return errEditDone
	case "help", "h", "?":
		fmt.Fprintln(e.out, editHelp)
	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
	return nil
}

// parseFloats parses exactly n numeric arguments.
func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}
