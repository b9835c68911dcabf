package viewer

import "github.com/veandco/go-sdl2/sdl"

// pollResult summarizes one drain of the SDL event queue.
type pollResult struct {
	quit          bool
	resized       bool
	width, height int
}

// pollEvents drains pending SDL events. Quit is reported for a window close
// or the Escape key.
func pollEvents() pollResult {
	var r pollResult
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			r.quit = true
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				r.resized = true
				r.width, r.height = int(e.Data1), int(e.Data2)
			}
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				r.quit = true
			}
		}
	}
	return r
}
