package engine

import (
	"github.com/Aman-3O/Esha-Suprise/common"
	"github.com/Aman-3O/Esha-Suprise/engine/renderer"
)

// InputForKey maps a window key code to an Input.
//
// Parameters:
//   - keyCode: a GLFW key code
//
// Returns:
//   - renderer.Input: the command bound to the key
//   - bool: false if the key is unbound
func InputForKey(keyCode uint32) (renderer.Input, bool) {
	switch keyCode {
	case common.KeyLeft:
		return renderer.InputOrbitLeft, true
	case common.KeyRight:
		return renderer.InputOrbitRight, true
	case common.KeyUp:
		return renderer.InputOrbitUp, true
	case common.KeyDown:
		return renderer.InputOrbitDown, true
	case common.KeyEqual, common.KeyKPAdd:
		return renderer.InputZoomIn, true
	case common.KeyMinus, common.KeyKPSubtract:
		return renderer.InputZoomOut, true
	case common.KeyR:
		return renderer.InputRebuild, true
	case common.KeyQ, common.KeyEsc:
		return renderer.InputQuit, true
	}
	return renderer.InputNone, false
}
