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

package modes

// BuiltIn returns the table of shipped editing styles. Custom modes can be
// layered in from config; these are the baseline presets.
func BuiltIn() *Table {
	t, err := NewTable([]*Policy{
		{
			ID:          "lemmino",
			DisplayName: "Lemmino",
			Description: "Cinematic documentary style with slow zooms and letterbox",
			EditsPerMinute:   8,
			PreferredEffects: []string{"zoom_in_slow", "letterbox", "cinematic", "vignette", "ken_burns_broll"},
			AvoidEffects:     []string{"zoom_punch", "shake_heavy", "emoji_rain", "confetti"},
			ColorGrade:       "cinematic",
			Pacing:           PacingSlow,
			BrollFrequency:   0.4, TextOverlayFrequency: 0.1,
		},
		{
			ID:          "mrbeast",
			DisplayName: "MrBeast",
			Description: "High energy with fast cuts, zooms, and text pops",
			EditsPerMinute:   40,
			PreferredEffects: []string{"zoom_punch", "flash_white", "text_pop", "shake_heavy", "subscribe_button", "emoji_rain"},
			AvoidEffects:     []string{"zoom_in_slow", "letterbox", "noir"},
			ColorGrade:       "saturate_boost",
			Pacing:           PacingChaotic,
			BrollFrequency:   0.5, TextOverlayFrequency: 0.6,
		},
		{
			ID:          "tiktok",
			DisplayName: "TikTok",
			Description: "Trendy effects with bouncy animations and emojis",
			EditsPerMinute:   50,
			PreferredEffects: []string{"zoom_bounce", "text_bounce", "emoji_rain", "confetti", "neon_glow", "text_gradient"},
			AvoidEffects:     []string{"letterbox", "noir", "sepia"},
			ColorGrade:       "saturate_boost",
			Pacing:           PacingChaotic,
			BrollFrequency:   0.3, TextOverlayFrequency: 0.7,
		},
		{
			ID:          "documentary",
			DisplayName: "Documentary",
			Description: "Professional documentary with subtle effects",
			EditsPerMinute:   12,
			PreferredEffects: []string{"zoom_in_slow", "pan_left", "pan_right", "vignette", "warm_grade", "ken_burns_broll"},
			AvoidEffects:     []string{"glitch_transition", "emoji_rain", "neon_glow"},
			ColorGrade:       "cinematic",
			Pacing:           PacingSlow,
			BrollFrequency:   0.5, TextOverlayFrequency: 0.15,
		},
		{
			ID:          "tutorial",
			DisplayName: "Tutorial",
			Description: "Educational with clear text and highlights",
			EditsPerMinute:   15,
			PreferredEffects: []string{"zoom_focus", "spotlight", "arrow_pointer", "text_typewriter", "progress_bar"},
			AvoidEffects:     []string{"shake_heavy", "glitch_transition", "emoji_rain"},
			ColorGrade:       "contrast_boost",
			Pacing:           PacingMedium,
			BrollFrequency:   0.2, TextOverlayFrequency: 0.4,
		},
		{
			ID:          "vox",
			DisplayName: "Vox Explainer",
			Description: "Clean explainer style with data visualization",
			EditsPerMinute:   18,
			PreferredEffects: []string{"zoom_in_slow", "text_slide_in", "progress_bar", "spotlight", "cold_grade"},
			AvoidEffects:     []string{"emoji_rain", "confetti", "fire_overlay"},
			ColorGrade:       "cold_grade",
			Pacing:           PacingMedium,
			BrollFrequency:   0.4, TextOverlayFrequency: 0.5,
		},
		{
			ID:          "truecrime",
			DisplayName: "True Crime",
			Description: "Dark and suspenseful with dramatic effects",
			EditsPerMinute:   10,
			PreferredEffects: []string{"zoom_in_slow", "vignette", "noir", "dramatic", "shake_light", "spotlight"},
			AvoidEffects:     []string{"emoji_rain", "confetti", "saturate_boost", "subscribe_button"},
			ColorGrade:       "noir",
			Pacing:           PacingSlow,
			BrollFrequency:   0.3, TextOverlayFrequency: 0.2,
		},
		{
			ID:          "naturedoc",
			DisplayName: "Nature Doc",
			Description: "Beautiful nature footage with Ken Burns",
			EditsPerMinute:   6,
			PreferredEffects: []string{"ken_burns_broll", "zoom_in_slow", "zoom_out_slow", "warm_grade", "vignette"},
			AvoidEffects:     []string{"glitch_transition", "shake_heavy", "emoji_rain", "neon_glow"},
			ColorGrade:       "warm_grade",
			Pacing:           PacingSlow,
			BrollFrequency:   0.7, TextOverlayFrequency: 0.05,
		},
		{
			ID:          "shorts",
			DisplayName: "YouTube Shorts",
			Description: "Quick vertical content with fast effects",
			EditsPerMinute:   45,
			PreferredEffects: []string{"zoom_punch", "text_pop", "flash_white", "subscribe_button", "emoji_rain"},
			AvoidEffects:     []string{"letterbox", "zoom_in_slow"},
			ColorGrade:       "saturate_boost",
			Pacing:           PacingChaotic,
			BrollFrequency:   0.4, TextOverlayFrequency: 0.6,
		},
		{
			ID:          "gaming",
			DisplayName: "Gaming",
			Description: "Gaming content with energetic effects",
			EditsPerMinute:   35,
			PreferredEffects: []string{"zoom_punch", "shake_heavy", "neon_glow", "glitch_transition", "fire_overlay"},
			AvoidEffects:     []string{"letterbox", "sepia", "vintage"},
			ColorGrade:       "neon_glow",
			Pacing:           PacingFast,
			BrollFrequency:   0.2, TextOverlayFrequency: 0.4,
		},
		{
			ID:          "course",
			DisplayName: "Online Course",
			Description: "Professional educational content",
			EditsPerMinute:   10,
			PreferredEffects: []string{"zoom_focus", "spotlight", "text_typewriter", "progress_bar", "arrow_pointer"},
			AvoidEffects:     []string{"shake_heavy", "emoji_rain", "glitch_transition"},
			ColorGrade:       "contrast_boost",
			Pacing:           PacingSlow,
			BrollFrequency:   0.15, TextOverlayFrequency: 0.3,
		},
		{
			ID:          "cinematic",
			DisplayName: "Cinematic",
			Description: "Film-like quality with letterbox and grades",
			EditsPerMinute:   8,
			PreferredEffects: []string{"letterbox", "cinematic", "vignette", "zoom_in_slow", "dolly_zoom"},
			AvoidEffects:     []string{"emoji_rain", "subscribe_button", "neon_glow"},
			ColorGrade:       "cinematic",
			Pacing:           PacingSlow,
			BrollFrequency:   0.4, TextOverlayFrequency: 0.1,
		},
		{
			ID:          "trailer",
			DisplayName: "Movie Trailer",
			Description: "Epic trailer style with dramatic effects",
			EditsPerMinute:   25,
			PreferredEffects: []string{"flash_black", "zoom_punch", "text_pop", "dramatic", "letterbox", "bass_pulse"},
			AvoidEffects:     []string{"emoji_rain", "subscribe_button"},
			ColorGrade:       "dramatic",
			Pacing:           PacingFast,
			BrollFrequency:   0.3, TextOverlayFrequency: 0.4,
		},
		{
			ID:          "podcast",
			DisplayName: "Podcast",
			Description: "Clean podcast style with minimal effects",
			EditsPerMinute:   8,
			PreferredEffects: []string{"zoom_in_slow", "audio_bars", "waveform", "vignette"},
			AvoidEffects:     []string{"shake_heavy", "emoji_rain", "glitch_transition", "confetti"},
			ColorGrade:       "warm_grade",
			Pacing:           PacingSlow,
			BrollFrequency:   0.1, TextOverlayFrequency: 0.15,
		},
		{
			ID:          "aesthetic",
			DisplayName: "Aesthetic/ASMR",
			Description: "Soft aesthetic vibes with gentle effects",
			EditsPerMinute:   5,
			PreferredEffects: []string{"zoom_in_slow", "particles", "vintage", "blur_focus", "light_leak"},
			AvoidEffects:     []string{"shake_heavy", "zoom_punch", "glitch_transition", "flash_white"},
			ColorGrade:       "vintage",
			Pacing:           PacingSlow,
			BrollFrequency:   0.3, TextOverlayFrequency: 0.05,
		},
		{
			ID:          "vlog",
			DisplayName: "Vlog",
			Description: "Casual vlog style with fun effects",
			EditsPerMinute:   20,
			PreferredEffects: []string{"zoom_punch", "text_pop", "emoji_rain", "warm_grade", "pip_center"},
			AvoidEffects:     []string{"noir", "letterbox"},
			ColorGrade:       "warm_grade",
			Pacing:           PacingMedium,
			BrollFrequency:   0.3, TextOverlayFrequency: 0.3,
		},
	})
	if err != nil {
		panic(err)
	}
	return t
}
