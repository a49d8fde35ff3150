// ABOUTME: Errors returned by the geometry editing core
// ABOUTME: Every misuse of the core surfaces as one of these sentinels

package editing

import "errors"

// ErrIndexOutOfRange is returned by index-based accessors given an invalid index.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrUndoUnderflow is returned by Undo when the history is empty.
var ErrUndoUnderflow = errors.New("undo history is empty")

// ErrNotEditing is returned when a tap arrives while the edit mode accepts no edits.
var ErrNotEditing = errors.New("not in an editing mode")

// ErrNoSelection is returned by MovePoint when neither a vertex nor a midpoint is selected.
var ErrNoSelection = errors.New("no vertex or midpoint selected")

// ErrInvalidTap is returned when a tap position is NaN or infinite.
var ErrInvalidTap = errors.New("tap position must be finite")
