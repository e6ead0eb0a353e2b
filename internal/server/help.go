package server

import "net/http"

// handleDSLHelp documents the command grammar and the fixed limits for
// API consumers.
func (s *Server) handleDSLHelp(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"description": "Mini-DSL Animation Language",
		"commands": map[string]string{
			"BACKGROUND":   "BACKGROUND #RRGGBB - Set background color",
			"TEXT":         `TEXT "content" AT x,y SIZE pixels COLOR #RRGGBB [MOVE TO x,y DUR seconds]`,
			"SHAPE_CIRCLE": "SHAPE CIRCLE ID name AT x,y RADIUS pixels COLOR #RRGGBB [MOVE TO x,y DUR seconds EASE type]",
			"SHAPE_RECT":   "SHAPE RECT ID name AT x,y WIDTH pixels HEIGHT pixels COLOR #RRGGBB [MOVE TO x,y DUR seconds EASE type]",
			"MOVE":         "MOVE object_id TO x,y DUR seconds EASE type",
			"FPS":          "FPS number (1-24)",
			"DURATION":     "DURATION seconds (0.5-6)",
		},
		"limits": map[string]any{
			"max_resolution": "1280x720",
			"max_duration":   "6 seconds",
			"max_fps":        24,
			"max_frames":     300,
			"max_objects":    50,
		},
		"ease_types": []string{"linear", "ease-in", "ease-out"},
		"example": `BACKGROUND #1a1a2e
FPS 24
DURATION 3
SHAPE CIRCLE ID ball AT 50,180 RADIUS 30 COLOR #FF4444 MOVE TO 550,180 DUR 3 EASE linear
TEXT "Hello" AT 280,50 SIZE 36 COLOR #FFFFFF`,
	})
}
