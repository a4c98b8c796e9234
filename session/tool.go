// ABOUTME: Tool is the orthogonal selector supplied by the UI chrome.
// ABOUTME: The active tool decides which transition a pointer-down takes; it is not itself a state.
package session

// Tool identifies the active editing tool.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolPan       Tool = "pan"
	ToolEraser    Tool = "eraser"
	ToolPen       Tool = "pen"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolLine      Tool = "line"
	ToolArrow     Tool = "arrow"
	ToolText      Tool = "text"
)

// IsDrawing reports whether the tool creates new elements on pointer-down.
func (t Tool) IsDrawing() bool {
	switch t {
	case ToolPen, ToolRectangle, ToolEllipse, ToolLine, ToolArrow, ToolText:
		return true
	}
	return false
}
