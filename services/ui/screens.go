package ui

import (
	"displaycode-go/graphics"
	"displaycode-go/types"
	"displaycode-go/x/conv"

	"tinygo.org/x/drivers"
)

// Pupil offset table for the thinking orbit and the dizzy wobble, one
// revolution in eight frames. Values are quarter-eye offsets.
var (
	orbitX = [8]int{10, 7, 0, -7, -10, -7, 0, 7}
	orbitY = [8]int{0, 7, 10, 7, 0, -7, -10, -7}
)

// Renderer draws one frame for the current machine state. It owns the
// drawing primitives and the canned animations; the service decides
// when to call it.
type Renderer struct {
	p    *graphics.Primitives
	eyes *graphics.Eyes

	lastScreen Screen
}

func NewRenderer(d drivers.Displayer) *Renderer {
	p := graphics.NewPrimitives(d)
	return &Renderer{p: p, eyes: graphics.NewEyes(p)}
}

// Status is the ambient device state shown on the settings screen.
type Status struct {
	Wifi     types.WifiState
	WifiIP   string
	UptimeMs uint32
}

// Render draws the machine's screen. Animated screens derive their
// phase from nowMs so a dropped frame never desynchronises them.
func (r *Renderer) Render(m *Machine, st Status, nowMs uint32) error {
	full := r.lastScreen != m.Screen()
	r.lastScreen = m.Screen()
	if full {
		r.p.FillScreen(graphics.Black)
	}

	switch m.Screen() {
	case ScreenWelcome:
		r.welcome(nowMs - m.EnteredAt())
	case ScreenHome:
		r.home(nowMs)
	case ScreenSettings:
		if full {
			r.settings(st)
		}
	case ScreenThinking:
		r.thinking(nowMs)
	case ScreenDizziness:
		r.dizziness(nowMs)
	case ScreenTilting:
		r.tilting(m.TiltDeg())
	case ScreenError:
		if full {
			r.errorScreen(m.ErrorMessage())
		}
	}
	return r.p.Flush()
}

func (r *Renderer) welcome(sinceMs uint32) {
	// Eyes open over the first second of the dwell.
	openness := uint16(0xFFFF)
	if sinceMs < 1000 {
		openness = uint16(sinceMs * 65)
	}
	r.clearFace()
	r.eyes.DrawBlink(openness)
	r.p.DrawTextCentered(graphics.ScreenHeight-40, "hello", graphics.White)
}

func (r *Renderer) home(nowMs uint32) {
	r.clearFace()
	// Blink for ~200ms out of every 4s.
	cycle := nowMs % 4000
	if cycle < 100 {
		r.eyes.DrawBlink(uint16(0xFFFF - cycle*655))
	} else if cycle < 200 {
		r.eyes.DrawBlink(uint16((cycle - 100) * 655))
	} else {
		r.eyes.Draw()
	}
}

func (r *Renderer) settings(st Status) {
	r.p.DrawTextCentered(30, "settings", graphics.White)
	y := 80
	r.p.DrawText(graphics.MarginMedium, y, "wifi: "+string(st.Wifi), graphics.LightGray)
	y += 2 * graphics.TextLineHeight
	if st.WifiIP != "" {
		r.p.DrawText(graphics.MarginMedium, y, "ip: "+st.WifiIP, graphics.LightGray)
		y += 2 * graphics.TextLineHeight
	}
	r.p.DrawText(graphics.MarginMedium, y, "up: "+formatUptime(st.UptimeMs), graphics.LightGray)
	r.p.DrawTextCentered(graphics.ScreenHeight-40, "press: back", graphics.Gray)
}

func (r *Renderer) thinking(nowMs uint32) {
	r.clearFace()
	i := (nowMs / 120) % 8
	r.eyes.DrawOffset(orbitX[i], orbitY[i])
	dots := int(nowMs/400)%3 + 1
	r.p.DrawTextCentered(graphics.ScreenHeight-40, "thinking..."[:8+dots], graphics.White)
}

func (r *Renderer) dizziness(nowMs uint32) {
	r.clearFace()
	// Counter-rotating pupils sell the wobble.
	i := (nowMs / 60) % 8
	r.eyes.DrawOffset(orbitX[i], orbitY[(i+4)%8])
	r.p.DrawTextCentered(graphics.ScreenHeight-40, "whoa", graphics.Yellow)
}

func (r *Renderer) tilting(tiltDeg int16) {
	r.clearFace()
	// Pupils slide toward the low side, saturating at the eye edge.
	dx := int(tiltDeg) / 5
	if dx > 10 {
		dx = 10
	}
	r.eyes.DrawOffset(dx, 4)
	var buf [20]byte
	r.p.DrawTextCentered(graphics.ScreenHeight-40, "tilted "+string(conv.Itoa(buf[:], int64(tiltDeg))), graphics.Cyan)
}

func (r *Renderer) errorScreen(msg string) {
	r.p.FillScreen(graphics.Black)
	area := graphics.ContentArea()
	r.p.DrawRect(area, graphics.Red)
	r.p.DrawTextCentered(area.Y+30, "error", graphics.Red)
	if msg == "" {
		msg = "unknown"
	}
	r.p.DrawTextCentered(graphics.ScreenHeight/2, msg, graphics.White)
	r.p.DrawTextCentered(graphics.ScreenHeight-40, "press: dismiss", graphics.Gray)
}

// clearFace wipes the regions the face animations touch, leaving the
// rest of the frame alone so full-screen fills stay rare.
func (r *Renderer) clearFace() {
	cy := graphics.ScreenHeight / 2
	r.p.FillRect(graphics.Rect{X: 0, Y: cy - 60, W: graphics.ScreenWidth, H: 120}, graphics.Black)
	r.p.FillRect(graphics.Rect{X: 0, Y: graphics.ScreenHeight - 50, W: graphics.ScreenWidth, H: 20}, graphics.Black)
}

func formatUptime(ms uint32) string {
	var buf [20]byte
	u := func(n uint32) string { return string(conv.Utoa(buf[:], uint64(n))) }
	s := ms / 1000
	if s < 60 {
		return u(s) + "s"
	}
	if s < 3600 {
		return u(s/60) + "m" + u(s%60) + "s"
	}
	return u(s/3600) + "h" + u(s/60%60) + "m"
}
