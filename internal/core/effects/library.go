// Copyright 2025 Terry Labs, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file holds the built-in effect library. Effects within a category share
// one render strategy; everything that distinguishes two effects of the same
// category lives in the entry table below (timing bounds, trigger keywords,
// parameter defaults). Adding an effect is a table edit, not new code.
package effects

import "math"

// entry is the compact authoring form of a Definition.
type entry struct {
	id       string
	cat      Category
	timing   Timing
	trig     Trigger
	defaults map[string]any
	sound    bool
}

// Per-category timing envelopes. Individual entries override where they need
// tighter or looser bounds.
var (
	zoomTiming       = Timing{Default: 0.6, Min: 0.2, Max: 2.5, Attack: 0.05, Release: 0.1}
	textTiming       = Timing{Default: 2.0, Min: 0.5, Max: 6.0, Attack: 0.15, Release: 0.25}
	transitionTiming = Timing{Default: 0.5, Min: 0.15, Max: 1.5}
	overlayTiming    = Timing{Default: 3.0, Min: 0.5, Max: 12.0, Attack: 0.3, Release: 0.4}
	motionTiming     = Timing{Default: 1.0, Min: 0.2, Max: 4.0, Attack: 0.05, Release: 0.1}
	colorTiming      = Timing{Default: 8.0, Min: 1.0, Max: 3600.0, Attack: 0.4, Release: 0.4}
	brollTiming      = Timing{Default: 4.0, Min: 1.0, Max: 15.0, Attack: 0.25, Release: 0.25}
	audioTiming      = Timing{Default: 1.0, Min: 0.2, Max: 4.0, Attack: 0.1, Release: 0.1}
	cueTiming        = Timing{Default: 1.0, Min: 0.2, Max: 5.0}
)

// kw is shorthand for keyword triggers with the default weight.
func kw(weight float64, words ...string) Trigger {
	return Trigger{Keywords: words, Weight: weight, MinGap: 2.0}
}

// library is the full built-in effect table.
var library = []entry{
	// --- zoom -----------------------------------------------------------
	{id: "zoom_in_slow", cat: CategoryZoom, timing: Timing{Default: 4, Min: 1, Max: 10, Attack: 0.2, Release: 0.2},
		trig: kw(1.0, "look", "watch", "see", "detail"),
		defaults: map[string]any{"from": 1.0, "to": 1.15, "curve": "ease"}},
	{id: "zoom_out_slow", cat: CategoryZoom, timing: Timing{Default: 4, Min: 1, Max: 10, Attack: 0.2, Release: 0.2},
		defaults: map[string]any{"from": 1.15, "to": 1.0, "curve": "ease"}},
	{id: "zoom_pulse", cat: CategoryZoom, timing: zoomTiming,
		trig:     kw(1.2, "beat", "boom", "hit"),
		defaults: map[string]any{"from": 1.0, "to": 1.08, "pulse_hz": 2.0}},
	{id: "zoom_punch", cat: CategoryZoom, timing: Timing{Default: 0.5, Min: 0.2, Max: 1.2, Attack: 0.02, Release: 0.15},
		trig:     kw(2.0, "insane", "crazy", "unbelievable", "wow", "what"),
		defaults: map[string]any{"from": 1.0, "to": 1.3, "curve": "punch", "intensity": 1.3}},
	{id: "zoom_bounce", cat: CategoryZoom, timing: zoomTiming,
		defaults: map[string]any{"from": 1.0, "to": 1.2, "curve": "bounce"}},
	{id: "zoom_shake", cat: CategoryZoom, timing: zoomTiming,
		trig:     kw(1.5, "explosion", "crash", "impact"),
		defaults: map[string]any{"from": 1.0, "to": 1.2, "shake": 8.0}},
	{id: "zoom_focus", cat: CategoryZoom, timing: Timing{Default: 2, Min: 0.5, Max: 6, Attack: 0.1, Release: 0.2},
		trig:     kw(1.0, "focus", "important", "key", "remember"),
		defaults: map[string]any{"from": 1.0, "to": 1.25, "blur_edges": true}},
	{id: "zoom_rotate", cat: CategoryZoom, timing: zoomTiming,
		defaults: map[string]any{"from": 1.0, "to": 1.2, "rotate": 4.0}},
	{id: "zoom_glitch", cat: CategoryZoom, timing: Timing{Default: 0.4, Min: 0.2, Max: 1.0},
		trig:     kw(1.3, "error", "glitch", "broken", "wrong"),
		defaults: map[string]any{"from": 1.0, "to": 1.25, "glitch": 6.0}},
	{id: "dolly_zoom", cat: CategoryZoom, timing: Timing{Default: 2.5, Min: 1, Max: 6, Attack: 0.1, Release: 0.1},
		trig:     kw(1.4, "realize", "suddenly", "twist"),
		defaults: map[string]any{"from": 1.0, "to": 1.35, "counter_translate": true}},

	// --- text -----------------------------------------------------------
	{id: "text_pop", cat: CategoryText, timing: textTiming,
		trig:     kw(1.5, "number", "million", "thousand", "dollars", "percent"),
		defaults: map[string]any{"animation": "pop", "position": "center", "font_size": 96.0, "color": "#ffffff"}},
	{id: "text_slide_in", cat: CategoryText, timing: textTiming,
		defaults: map[string]any{"animation": "slide", "direction": "left", "position": "lower_third", "font_size": 64.0, "color": "#ffffff"}},
	{id: "text_typewriter", cat: CategoryText, timing: Timing{Default: 3, Min: 1, Max: 8, Attack: 0.1, Release: 0.3},
		trig:     kw(1.0, "quote", "said", "wrote"),
		defaults: map[string]any{"animation": "typewriter", "position": "center", "font_size": 56.0, "color": "#ffffff"}},
	{id: "text_bounce", cat: CategoryText, timing: textTiming,
		defaults: map[string]any{"animation": "bounce", "position": "center", "font_size": 88.0, "color": "#ffe14d"}},
	{id: "text_wave", cat: CategoryText, timing: textTiming,
		defaults: map[string]any{"animation": "wave", "position": "center", "font_size": 72.0, "color": "#ffffff"}},
	{id: "text_glitch", cat: CategoryText, timing: textTiming,
		defaults: map[string]any{"animation": "glitch", "position": "center", "font_size": 80.0, "color": "#00ffcc"}},
	{id: "text_gradient", cat: CategoryText, timing: textTiming,
		defaults: map[string]any{"animation": "fade", "position": "center", "font_size": 84.0, "color": "gradient:#ff5f6d,#ffc371"}},
	{id: "text_outline", cat: CategoryText, timing: textTiming,
		defaults: map[string]any{"animation": "fade", "position": "center", "font_size": 84.0, "color": "#ffffff", "outline": "#000000"}},
	{id: "text_neon", cat: CategoryText, timing: textTiming,
		defaults: map[string]any{"animation": "flicker", "position": "center", "font_size": 84.0, "color": "#39ff14", "glow": 12.0}},
	{id: "text_shadow", cat: CategoryText, timing: textTiming,
		defaults: map[string]any{"animation": "fade", "position": "center", "font_size": 84.0, "color": "#ffffff", "shadow": 8.0}},
	{id: "text_3d", cat: CategoryText, timing: textTiming,
		defaults: map[string]any{"animation": "rotate3d", "position": "center", "font_size": 92.0, "color": "#ffffff"}},
	{id: "text_explode", cat: CategoryText, timing: Timing{Default: 1.5, Min: 0.5, Max: 4, Attack: 0.05, Release: 0.5},
		trig:     kw(1.6, "boom", "explode", "huge"),
		defaults: map[string]any{"animation": "explode", "position": "center", "font_size": 100.0, "color": "#ff3b3b"}},
	{id: "text_countdown", cat: CategoryText, timing: Timing{Default: 3, Min: 3, Max: 10},
		trig:     kw(1.2, "three", "countdown", "seconds"),
		defaults: map[string]any{"animation": "countdown", "position": "center", "font_size": 120.0, "color": "#ffffff", "from": 3.0}},

	// --- transition -----------------------------------------------------
	{id: "fade_in", cat: CategoryTransition, timing: transitionTiming,
		defaults: map[string]any{"style": "fade", "color": "#000000"}},
	{id: "wipe_left", cat: CategoryTransition, timing: transitionTiming,
		defaults: map[string]any{"style": "wipe", "direction": "left"}},
	{id: "wipe_right", cat: CategoryTransition, timing: transitionTiming,
		defaults: map[string]any{"style": "wipe", "direction": "right"}},
	{id: "wipe_up", cat: CategoryTransition, timing: transitionTiming,
		defaults: map[string]any{"style": "wipe", "direction": "up"}},
	{id: "flash_black", cat: CategoryTransition, timing: Timing{Default: 0.25, Min: 0.1, Max: 0.6},
		defaults: map[string]any{"style": "flash", "color": "#000000"}},
	{id: "flash_white", cat: CategoryTransition, timing: Timing{Default: 0.25, Min: 0.1, Max: 0.6},
		trig:     kw(1.2, "flash", "bang", "snap"),
		defaults: map[string]any{"style": "flash", "color": "#ffffff"}},
	{id: "flash_color", cat: CategoryTransition, timing: Timing{Default: 0.25, Min: 0.1, Max: 0.6},
		defaults: map[string]any{"style": "flash", "color": "#ff3b3b"}},
	{id: "zoom_transition", cat: CategoryTransition, timing: transitionTiming,
		defaults: map[string]any{"style": "zoom", "to": 2.5}},
	{id: "spin_transition", cat: CategoryTransition, timing: transitionTiming,
		defaults: map[string]any{"style": "spin", "rotations": 1.0}},
	{id: "glitch_transition", cat: CategoryTransition, timing: transitionTiming,
		defaults: map[string]any{"style": "glitch", "intensity": 10.0}},
	{id: "pixel_transition", cat: CategoryTransition, timing: transitionTiming,
		defaults: map[string]any{"style": "pixelate", "block": 48.0}},
	{id: "circle_wipe", cat: CategoryTransition, timing: transitionTiming,
		defaults: map[string]any{"style": "circle", "color": "#000000"}},

	// --- overlay --------------------------------------------------------
	{id: "particles", cat: CategoryOverlay, timing: overlayTiming,
		defaults: map[string]any{"shape": "particles", "color": "#ffffff", "density": 40.0}},
	{id: "gradient_overlay", cat: CategoryOverlay, timing: overlayTiming,
		defaults: map[string]any{"shape": "gradient", "color": "gradient:#00000000,#000000aa", "opacity": 0.6}},
	{id: "light_leak", cat: CategoryOverlay, timing: overlayTiming,
		defaults: map[string]any{"shape": "light_leak", "color": "#ffb347", "opacity": 0.35}},
	{id: "border_frame", cat: CategoryOverlay, timing: overlayTiming,
		defaults: map[string]any{"shape": "border", "color": "#ffffff", "thickness": 12.0}},
	{id: "spotlight", cat: CategoryOverlay, timing: overlayTiming,
		trig:     kw(1.0, "this", "here", "spot"),
		defaults: map[string]any{"shape": "spotlight", "x": 0.5, "y": 0.5, "radius": 0.3}},
	{id: "timer", cat: CategoryOverlay, timing: Timing{Default: 5, Min: 2, Max: 12, Attack: 0.2, Release: 0.2},
		trig:     kw(1.0, "time", "minutes", "clock"),
		defaults: map[string]any{"shape": "timer", "position": "top_right", "color": "#ffffff"}},
	{id: "like_button", cat: CategoryOverlay, timing: Timing{Default: 3, Min: 1, Max: 6, Attack: 0.2, Release: 0.3},
		trig:     kw(1.5, "like", "thumbs"),
		defaults: map[string]any{"shape": "like_button", "position": "bottom_center"}},
	{id: "color_overlay", cat: CategoryOverlay, timing: overlayTiming,
		defaults: map[string]any{"shape": "fill", "color": "#2266ff", "opacity": 0.2}},
	{id: "film_grain", cat: CategoryOverlay, timing: overlayTiming,
		defaults: map[string]any{"shape": "grain", "opacity": 0.25, "size": 1.5}},
	{id: "scanlines", cat: CategoryOverlay, timing: overlayTiming,
		defaults: map[string]any{"shape": "scanlines", "opacity": 0.3, "spacing": 4.0}},
	{id: "rain", cat: CategoryOverlay, timing: overlayTiming,
		trig:     kw(1.2, "rain", "storm", "weather"),
		defaults: map[string]any{"shape": "rain", "density": 60.0, "opacity": 0.5}},
	{id: "progress_bar", cat: CategoryOverlay, timing: Timing{Default: 10, Min: 2, Max: 3600, Attack: 0.2, Release: 0.2},
		defaults: map[string]any{"shape": "progress", "position": "bottom", "color": "#ff0000", "thickness": 6.0}},
	{id: "fire_overlay", cat: CategoryOverlay, timing: overlayTiming,
		trig:     kw(1.5, "fire", "hot", "burn", "lit"),
		defaults: map[string]any{"shape": "fire", "opacity": 0.5}},
	{id: "subscribe_button", cat: CategoryOverlay, timing: Timing{Default: 4, Min: 2, Max: 8, Attack: 0.2, Release: 0.3},
		trig:     kw(1.8, "subscribe", "channel", "follow"),
		defaults: map[string]any{"shape": "subscribe_button", "position": "bottom_center"}},
	{id: "vignette", cat: CategoryOverlay, timing: overlayTiming,
		defaults: map[string]any{"shape": "vignette", "opacity": 0.45, "radius": 0.75}},
	{id: "letterbox", cat: CategoryOverlay, timing: Timing{Default: 10, Min: 2, Max: 3600, Attack: 0.3, Release: 0.3},
		defaults: map[string]any{"shape": "letterbox", "ratio": 2.35, "color": "#000000"}},
	{id: "confetti", cat: CategoryOverlay, timing: Timing{Default: 2.5, Min: 1, Max: 6, Attack: 0.1, Release: 0.4},
		trig:     kw(1.6, "congratulations", "winner", "celebrate", "party"),
		defaults: map[string]any{"shape": "confetti", "density": 80.0}},
	{id: "arrow_pointer", cat: CategoryOverlay, timing: Timing{Default: 2, Min: 0.5, Max: 6, Attack: 0.1, Release: 0.2},
		trig:     kw(1.2, "here", "this", "point", "click"),
		defaults: map[string]any{"shape": "arrow", "x": 0.5, "y": 0.5, "color": "#ff3b3b"}},
	{id: "emoji_rain", cat: CategoryOverlay, timing: Timing{Default: 2.5, Min: 1, Max: 6, Attack: 0.1, Release: 0.3},
		trig:     kw(1.3, "funny", "laugh", "lol"),
		defaults: map[string]any{"shape": "emoji_rain", "emoji": "😂", "density": 30.0}},
	{id: "snow", cat: CategoryOverlay, timing: overlayTiming,
		trig:     kw(1.2, "snow", "winter", "cold", "ice"),
		defaults: map[string]any{"shape": "snow", "density": 50.0, "opacity": 0.6}},

	// --- motion ---------------------------------------------------------
	{id: "float", cat: CategoryMotion, timing: Timing{Default: 4, Min: 1, Max: 12, Attack: 0.3, Release: 0.3},
		defaults: map[string]any{"kind": "float", "amp": 6.0, "hz": 0.25}},
	{id: "pan_left", cat: CategoryMotion, timing: Timing{Default: 3, Min: 1, Max: 10, Attack: 0.2, Release: 0.2},
		defaults: map[string]any{"kind": "pan", "direction": "left", "distance": 40.0}},
	{id: "pan_right", cat: CategoryMotion, timing: Timing{Default: 3, Min: 1, Max: 10, Attack: 0.2, Release: 0.2},
		defaults: map[string]any{"kind": "pan", "direction": "right", "distance": 40.0}},
	{id: "rotate_slow", cat: CategoryMotion, timing: Timing{Default: 4, Min: 1, Max: 12, Attack: 0.3, Release: 0.3},
		defaults: map[string]any{"kind": "rotate", "degrees": 3.0}},
	{id: "bounce_in", cat: CategoryMotion, timing: Timing{Default: 0.8, Min: 0.3, Max: 2},
		defaults: map[string]any{"kind": "bounce", "amp": 30.0}},
	{id: "tilt_up", cat: CategoryMotion, timing: Timing{Default: 3, Min: 1, Max: 8, Attack: 0.2, Release: 0.2},
		defaults: map[string]any{"kind": "pan", "direction": "up", "distance": 30.0}},
	{id: "shake_light", cat: CategoryMotion, timing: Timing{Default: 0.8, Min: 0.2, Max: 2},
		trig:     kw(1.2, "whoa", "shake", "bump"),
		defaults: map[string]any{"kind": "shake", "intensity": 4.0}},
	{id: "shake_heavy", cat: CategoryMotion, timing: Timing{Default: 0.8, Min: 0.2, Max: 2},
		trig:     kw(1.8, "earthquake", "massive", "destroy", "smash"),
		defaults: map[string]any{"kind": "shake", "intensity": 14.0}},
	{id: "jitter", cat: CategoryMotion, timing: motionTiming,
		defaults: map[string]any{"kind": "jitter", "intensity": 2.0}},
	{id: "wobble", cat: CategoryMotion, timing: motionTiming,
		defaults: map[string]any{"kind": "wobble", "degrees": 2.0, "hz": 1.5}},
	{id: "spin_fast", cat: CategoryMotion, timing: Timing{Default: 0.6, Min: 0.2, Max: 1.5},
		defaults: map[string]any{"kind": "spin", "rotations": 1.0}},
	{id: "swing", cat: CategoryMotion, timing: motionTiming,
		defaults: map[string]any{"kind": "swing", "degrees": 6.0, "hz": 0.8}},
	{id: "pulse", cat: CategoryMotion, timing: motionTiming,
		defaults: map[string]any{"kind": "pulse", "amount": 0.04, "hz": 2.0}},

	// --- color ----------------------------------------------------------
	{id: "cinematic", cat: CategoryColor, timing: colorTiming,
		defaults: map[string]any{"contrast": 1.15, "saturation": 0.9, "brightness": 0.97}},
	{id: "cold_grade", cat: CategoryColor, timing: colorTiming,
		trig:     kw(1.0, "cold", "winter", "night"),
		defaults: map[string]any{"hue": -15.0, "saturation": 0.95, "brightness": 0.98}},
	{id: "warm_grade", cat: CategoryColor, timing: colorTiming,
		trig:     kw(1.0, "warm", "summer", "sunset", "golden"),
		defaults: map[string]any{"hue": 12.0, "saturation": 1.1, "brightness": 1.03}},
	{id: "desaturate", cat: CategoryColor, timing: colorTiming,
		trig:     kw(1.0, "sad", "serious", "unfortunately"),
		defaults: map[string]any{"saturation": 0.4}},
	{id: "hue_rotate", cat: CategoryColor, timing: Timing{Default: 2, Min: 0.5, Max: 8, Attack: 0.2, Release: 0.2},
		defaults: map[string]any{"hue_spin": 360.0}},
	{id: "saturate_boost", cat: CategoryColor, timing: colorTiming,
		defaults: map[string]any{"saturation": 1.45}},
	{id: "retro", cat: CategoryColor, timing: colorTiming,
		trig:     kw(1.1, "retro", "old", "nostalgia", "back then"),
		defaults: map[string]any{"sepia": 0.35, "contrast": 1.1, "saturation": 0.85}},
	{id: "neon_glow", cat: CategoryColor, timing: colorTiming,
		defaults: map[string]any{"saturation": 1.6, "contrast": 1.2, "brightness": 1.05}},
	{id: "noir", cat: CategoryColor, timing: colorTiming,
		trig:     kw(1.2, "mystery", "crime", "dark"),
		defaults: map[string]any{"grayscale": 1.0, "contrast": 1.3}},
	{id: "brightness_flash", cat: CategoryColor, timing: Timing{Default: 0.4, Min: 0.1, Max: 1},
		defaults: map[string]any{"brightness": 1.8, "flash_hz": 6.0}},
	{id: "contrast_boost", cat: CategoryColor, timing: colorTiming,
		defaults: map[string]any{"contrast": 1.35}},
	{id: "sepia", cat: CategoryColor, timing: colorTiming,
		defaults: map[string]any{"sepia": 0.8}},
	{id: "vintage", cat: CategoryColor, timing: colorTiming,
		defaults: map[string]any{"sepia": 0.25, "saturation": 0.8, "brightness": 1.02, "contrast": 0.95}},
	{id: "invert", cat: CategoryColor, timing: Timing{Default: 0.4, Min: 0.1, Max: 1.5},
		defaults: map[string]any{"invert": 1.0}},
	{id: "blur_focus", cat: CategoryColor, timing: Timing{Default: 1.5, Min: 0.3, Max: 5, Attack: 0.3, Release: 0.5},
		defaults: map[string]any{"blur": 8.0}},
	{id: "dramatic", cat: CategoryColor, timing: colorTiming,
		trig:     kw(1.3, "dramatic", "shocking", "intense"),
		defaults: map[string]any{"contrast": 1.4, "saturation": 0.85, "brightness": 0.92}},

	// --- broll ----------------------------------------------------------
	{id: "split_screen", cat: CategoryBroll, timing: brollTiming,
		defaults: map[string]any{"layout": "split", "side": "right"}},
	{id: "pip_center", cat: CategoryBroll, timing: brollTiming,
		defaults: map[string]any{"layout": "pip", "x": 0.5, "y": 0.5, "scale": 0.4}},
	{id: "fullscreen_broll", cat: CategoryBroll, timing: brollTiming,
		defaults: map[string]any{"layout": "fullscreen"}},
	{id: "slide_in_broll", cat: CategoryBroll, timing: brollTiming,
		defaults: map[string]any{"layout": "slide", "direction": "right", "scale": 0.5}},
	{id: "corner_top_left", cat: CategoryBroll, timing: brollTiming,
		defaults: map[string]any{"layout": "corner", "corner": "top_left", "scale": 0.35}},
	{id: "zoom_broll", cat: CategoryBroll, timing: brollTiming,
		defaults: map[string]any{"layout": "fullscreen", "from": 1.0, "to": 1.2}},
	{id: "ken_burns_broll", cat: CategoryBroll, timing: Timing{Default: 6, Min: 2, Max: 15, Attack: 0.4, Release: 0.4},
		defaults: map[string]any{"layout": "fullscreen", "from": 1.05, "to": 1.2, "drift": 30.0}},

	// --- audio ----------------------------------------------------------
	{id: "audio_bars", cat: CategoryAudio, timing: Timing{Default: 5, Min: 1, Max: 30, Attack: 0.3, Release: 0.3},
		defaults: map[string]any{"shape": "bars", "position": "bottom", "color": "#ffffff", "bars": 32.0}},
	{id: "bass_pulse", cat: CategoryAudio, timing: audioTiming,
		defaults: map[string]any{"shape": "pulse", "amount": 0.05, "hz": 2.0}},
	{id: "circle_pulse", cat: CategoryAudio, timing: audioTiming,
		defaults: map[string]any{"shape": "circle", "x": 0.5, "y": 0.5, "color": "#ffffff"}},
	{id: "spectrum", cat: CategoryAudio, timing: Timing{Default: 5, Min: 1, Max: 30, Attack: 0.3, Release: 0.3},
		defaults: map[string]any{"shape": "spectrum", "position": "bottom", "color": "gradient:#ff5f6d,#ffc371"}},
	{id: "waveform", cat: CategoryAudio, timing: Timing{Default: 5, Min: 1, Max: 30, Attack: 0.3, Release: 0.3},
		defaults: map[string]any{"shape": "waveform", "position": "center", "color": "#ffffff", "opacity": 0.4}},
	{id: "sound_hit", cat: CategoryAudio, timing: cueTiming, sound: true,
		trig:     kw(1.4, "boom", "hit", "bang"),
		defaults: map[string]any{"file": "001_boom.mp3", "volume": 0.8}},
	{id: "sound_meme", cat: CategoryAudio, timing: cueTiming, sound: true,
		trig:     kw(1.1, "bruh", "fail", "oops"),
		defaults: map[string]any{"file": "002_vine_boom.mp3", "volume": 0.7}},
}

// colorGrades are the long-running grades that cannot stack. Short color
// accents (flashes, invert, blur) are allowed on top of a grade.
var colorGrades = []string{
	"cinematic", "cold_grade", "warm_grade", "desaturate", "saturate_boost",
	"retro", "neon_glow", "noir", "contrast_boost", "sepia", "vintage", "dramatic",
}

// transitions never overlap each other.
var transitionIDs = []string{
	"fade_in", "wipe_left", "wipe_right", "wipe_up", "flash_black", "flash_white",
	"flash_color", "zoom_transition", "spin_transition", "glitch_transition",
	"pixel_transition", "circle_wipe",
}

// BuiltIn constructs and validates the built-in catalog. It panics on a table
// error, which can only happen when the library above is edited incorrectly.
func BuiltIn() *Catalog {
	c := NewCatalog()
	for i := range library {
		e := &library[i]
		def := &Definition{
			ID:       e.id,
			Category: e.cat,
			Layer:    layerForCategory(e.cat),
			Triggers: e.trig,
			Timing:   e.timing,
			Defaults: e.defaults,
			Sound:    e.sound,
		}
		def.render = strategyFor(e.cat)
		if err := c.Register(def); err != nil {
			panic(err)
		}
	}
	c.markExclusiveGroup(colorGrades)
	c.markExclusiveGroup(transitionIDs)
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}

// strategyFor returns the shared render strategy for a category.
func strategyFor(cat Category) renderFunc {
	switch cat {
	case CategoryZoom:
		return renderZoom
	case CategoryText:
		return renderText
	case CategoryTransition:
		return renderTransition
	case CategoryOverlay:
		return renderOverlay
	case CategoryMotion:
		return renderMotion
	case CategoryColor:
		return renderColor
	case CategoryBroll:
		return renderBroll
	case CategoryAudio:
		return renderAudio
	default:
		return renderOverlay
	}
}

// ease applies the named easing curve to a progress value in [0,1].
func ease(curve string, p float64) float64 {
	switch curve {
	case "punch":
		// fast in, slow settle
		return 1 - math.Pow(1-p, 4)
	case "bounce":
		if p < 0.7 {
			return p / 0.7
		}
		return 1 + 0.15*math.Sin((p-0.7)/0.3*math.Pi)
	case "linear":
		return p
	default: // "ease"
		return p * p * (3 - 2*p)
	}
}

func renderZoom(d *Definition, in Input) VisualOp {
	from := Float(in.Params, "from", 1.0)
	to := Float(in.Params, "to", 1.2)
	p := ease(String(in.Params, "curve", "ease"), in.Progress)
	scale := from + (to-from)*p

	if hz := Float(in.Params, "pulse_hz", 0); hz > 0 {
		scale += (to - from) * 0.5 * math.Sin(2*math.Pi*hz*in.LocalTime)
	}

	tr := &Transform{Scale: scale, OriginX: 0.5, OriginY: 0.5}
	if amp := Float(in.Params, "shake", 0); amp > 0 {
		tr.TranslateX = amp * SignedNoise(d.ID, in.FrameIndex, 1)
		tr.TranslateY = amp * SignedNoise(d.ID, in.FrameIndex, 2)
	}
	if amp := Float(in.Params, "glitch", 0); amp > 0 {
		// displace only on a third of frames for a stutter feel
		if Noise(d.ID, in.FrameIndex) < 0.33 {
			tr.TranslateX = amp * SignedNoise(d.ID, in.FrameIndex, 3)
		}
	}
	if deg := Float(in.Params, "rotate", 0); deg != 0 {
		tr.Rotate = deg * p
	}
	if Bool(in.Params, "counter_translate", false) {
		// vertigo look: translate against the zoom direction
		tr.TranslateY = -20 * p
	}
	return VisualOp{Opacity: in.Envelope, Transform: tr}
}

func renderText(d *Definition, in Input) VisualOp {
	anim := String(in.Params, "animation", "fade")
	op := VisualOp{
		Opacity: in.Envelope,
		Text: &TextOp{
			Content:   String(in.Params, "text", ""),
			FontSize:  Float(in.Params, "font_size", 72),
			Color:     String(in.Params, "color", "#ffffff"),
			Position:  String(in.Params, "position", "center"),
			Animation: anim,
			Reveal:    1,
		},
	}
	switch anim {
	case "typewriter":
		op.Text.Reveal = math.Min(1, in.Progress*1.4)
	case "countdown":
		from := Float(in.Params, "from", 3)
		remaining := math.Ceil(from * (1 - in.Progress))
		op.Text.Reveal = remaining / math.Max(from, 1)
	case "pop":
		op.Transform = &Transform{Scale: 0.6 + 0.4*ease("punch", in.Progress), OriginX: 0.5, OriginY: 0.5}
	case "bounce":
		op.Transform = &Transform{Scale: ease("bounce", in.Progress), OriginX: 0.5, OriginY: 0.5}
	case "slide":
		dist := 1 - ease("ease", in.Progress)
		if String(in.Params, "direction", "left") == "left" {
			dist = -dist
		}
		op.Transform = &Transform{Scale: 1, TranslateX: dist * 200}
	case "glitch", "flicker":
		if Noise(d.ID, in.FrameIndex) < 0.15 {
			op.Opacity *= 0.3
		}
	case "explode":
		op.Transform = &Transform{Scale: 1 + 0.8*in.Progress, OriginX: 0.5, OriginY: 0.5}
		op.Opacity = in.Envelope * (1 - 0.6*in.Progress)
	}
	return op
}

func renderTransition(d *Definition, in Input) VisualOp {
	style := String(in.Params, "style", "fade")
	// coverage peaks mid-transition then falls off
	cover := 1 - math.Abs(2*in.Progress-1)
	op := VisualOp{Opacity: cover}
	switch style {
	case "wipe":
		g := &Geometry{Shape: "rect", Color: "#000000", Width: cover, Height: 1}
		switch String(in.Params, "direction", "left") {
		case "right":
			g.X = 1 - cover
		case "up":
			g.Width, g.Height = 1, cover
			g.Y = 1 - cover
		}
		op.Overlay = g
		op.Opacity = 1
	case "flash":
		op.Overlay = &Geometry{Shape: "fill", Color: String(in.Params, "color", "#ffffff"), Width: 1, Height: 1}
	case "zoom":
		op.Transform = &Transform{Scale: 1 + (Float(in.Params, "to", 2.5)-1)*cover, OriginX: 0.5, OriginY: 0.5}
		op.Opacity = 1
	case "spin":
		op.Transform = &Transform{Scale: 1, Rotate: 360 * Float(in.Params, "rotations", 1) * in.Progress, OriginX: 0.5, OriginY: 0.5}
		op.Opacity = 1
	case "glitch":
		amp := Float(in.Params, "intensity", 10)
		op.Transform = &Transform{Scale: 1, TranslateX: amp * cover * SignedNoise(d.ID, in.FrameIndex, 1)}
		op.Opacity = 1
	case "pixelate":
		op.Overlay = &Geometry{Shape: "pixelate", Width: 1, Height: 1}
		op.Overlay.X = Float(in.Params, "block", 48) * cover // block size scales with coverage
	case "circle":
		op.Overlay = &Geometry{Shape: "circle", Color: String(in.Params, "color", "#000000"), Width: cover, Height: cover, X: 0.5, Y: 0.5}
		op.Opacity = 1
	default: // fade
		op.Overlay = &Geometry{Shape: "fill", Color: String(in.Params, "color", "#000000"), Width: 1, Height: 1}
	}
	return op
}

func renderOverlay(d *Definition, in Input) VisualOp {
	g := &Geometry{
		Shape:  String(in.Params, "shape", "fill"),
		Color:  String(in.Params, "color", "#ffffff"),
		X:      Float(in.Params, "x", 0),
		Y:      Float(in.Params, "y", 0),
		Width:  Float(in.Params, "width", 1),
		Height: Float(in.Params, "height", 1),
	}
	opacity := Float(in.Params, "opacity", 1) * in.Envelope
	if g.Shape == "progress" {
		g.Width = in.Progress
	}
	return VisualOp{Opacity: opacity, Overlay: g}
}

func renderMotion(d *Definition, in Input) VisualOp {
	kind := String(in.Params, "kind", "float")
	tr := &Transform{Scale: 1, OriginX: 0.5, OriginY: 0.5}
	switch kind {
	case "float":
		tr.TranslateY = Float(in.Params, "amp", 6) * math.Sin(2*math.Pi*Float(in.Params, "hz", 0.25)*in.LocalTime)
	case "pan":
		dist := Float(in.Params, "distance", 40) * ease("ease", in.Progress)
		switch String(in.Params, "direction", "left") {
		case "left":
			tr.TranslateX = -dist
		case "right":
			tr.TranslateX = dist
		case "up":
			tr.TranslateY = -dist
		}
		tr.Scale = 1.08 // pan needs overscan to avoid exposing edges
	case "rotate":
		tr.Rotate = Float(in.Params, "degrees", 3) * ease("ease", in.Progress)
	case "bounce":
		tr.TranslateY = -Float(in.Params, "amp", 30) * (1 - ease("bounce", in.Progress))
	case "shake":
		amp := Float(in.Params, "intensity", 4)
		tr.TranslateX = amp * SignedNoise(d.ID, in.FrameIndex, 1)
		tr.TranslateY = amp * SignedNoise(d.ID, in.FrameIndex, 2)
	case "jitter":
		amp := Float(in.Params, "intensity", 2)
		if Noise(d.ID, in.FrameIndex) < 0.5 {
			tr.TranslateX = amp * SignedNoise(d.ID, in.FrameIndex, 1)
		}
	case "wobble", "swing":
		tr.Rotate = Float(in.Params, "degrees", 2) * math.Sin(2*math.Pi*Float(in.Params, "hz", 1.5)*in.LocalTime)
	case "spin":
		tr.Rotate = 360 * Float(in.Params, "rotations", 1) * in.Progress
	case "pulse":
		tr.Scale = 1 + Float(in.Params, "amount", 0.04)*math.Abs(math.Sin(2*math.Pi*Float(in.Params, "hz", 2)*in.LocalTime))
	}
	return VisualOp{Opacity: in.Envelope, Transform: tr}
}

func renderColor(d *Definition, in Input) VisualOp {
	f := &ColorFilter{
		Brightness: Float(in.Params, "brightness", 1),
		Contrast:   Float(in.Params, "contrast", 1),
		Saturation: Float(in.Params, "saturation", 1),
		HueRotate:  Float(in.Params, "hue", 0),
		Sepia:      Float(in.Params, "sepia", 0),
		Grayscale:  Float(in.Params, "grayscale", 0),
		Blur:       Float(in.Params, "blur", 0),
		Invert:     Float(in.Params, "invert", 0),
	}
	if spin := Float(in.Params, "hue_spin", 0); spin > 0 {
		f.HueRotate = spin * in.Progress
	}
	if hz := Float(in.Params, "flash_hz", 0); hz > 0 {
		on := math.Sin(2*math.Pi*hz*in.LocalTime) > 0
		if !on {
			f.Brightness = 1
		}
	}
	return VisualOp{Opacity: in.Envelope, Color: f}
}

func renderBroll(d *Definition, in Input) VisualOp {
	layout := String(in.Params, "layout", "fullscreen")
	op := VisualOp{
		Opacity:  in.Envelope,
		MediaRef: String(in.Params, "media", ""),
	}
	switch layout {
	case "split":
		g := &Geometry{Shape: "media", Width: 0.5, Height: 1}
		if String(in.Params, "side", "right") == "right" {
			g.X = 0.5
		}
		op.Overlay = g
	case "pip":
		s := Float(in.Params, "scale", 0.4)
		op.Overlay = &Geometry{Shape: "media", X: Float(in.Params, "x", 0.5) - s/2, Y: Float(in.Params, "y", 0.5) - s/2, Width: s, Height: s}
	case "slide":
		s := Float(in.Params, "scale", 0.5)
		x := 1 - s*ease("ease", in.Progress)
		op.Overlay = &Geometry{Shape: "media", X: x, Y: 1 - s, Width: s, Height: s}
	case "corner":
		s := Float(in.Params, "scale", 0.35)
		g := &Geometry{Shape: "media", Width: s, Height: s}
		switch String(in.Params, "corner", "top_left") {
		case "top_right":
			g.X = 1 - s
		case "bottom_left":
			g.Y = 1 - s
		case "bottom_right":
			g.X, g.Y = 1-s, 1-s
		}
		op.Overlay = g
	default: // fullscreen, optionally with a slow zoom/drift
		op.Overlay = &Geometry{Shape: "media", Width: 1, Height: 1}
		from, to := Float(in.Params, "from", 1), Float(in.Params, "to", 1)
		if to != from {
			op.Transform = &Transform{Scale: from + (to-from)*ease("ease", in.Progress), OriginX: 0.5, OriginY: 0.5}
		}
		if drift := Float(in.Params, "drift", 0); drift > 0 && op.Transform != nil {
			op.Transform.TranslateX = drift * (in.Progress - 0.5)
		}
	}
	return op
}

func renderAudio(d *Definition, in Input) VisualOp {
	if d.Sound {
		// cue-only effects are collected by the compositor, not drawn
		return VisualOp{Opacity: 0, MediaRef: String(in.Params, "file", "")}
	}
	g := &Geometry{
		Shape: String(in.Params, "shape", "bars"),
		Color: String(in.Params, "color", "#ffffff"),
		X:     Float(in.Params, "x", 0),
		Y:     Float(in.Params, "y", 0),
		Width: 1, Height: 0.2,
	}
	return VisualOp{Opacity: Float(in.Params, "opacity", 1) * in.Envelope, Overlay: g}
}
