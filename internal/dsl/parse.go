package dsl

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse compiles a whole script into an AnimationSpec. Blank lines and
// #-comments are skipped, keywords are case-insensitive, one command per
// line. Limits are enforced incrementally; the frame cap is checked once
// after the last line, against the final FPS and DURATION values.
func Parse(script string) (*AnimationSpec, error) {
	spec := &AnimationSpec{
		Background: defaultBackground,
		FPS:        defaultFPS,
		Duration:   defaultDuration,
	}
	objectCount := 0

	lines := strings.Split(strings.TrimSpace(script), "\n")
	for i, raw := range lines {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens := tokenizeLine(line)
		if len(tokens) == 0 {
			continue
		}

		switch strings.ToUpper(tokens[0]) {
		case "BACKGROUND":
			color := defaultBackground
			if len(tokens) > 1 {
				color = tokens[1]
			}
			if !ValidColor(color) {
				return nil, &ValidationError{lineNum, fmt.Sprintf("invalid color %q, use hex format like #FF0000", color)}
			}
			spec.Background = color

		case "FPS":
			fps := defaultFPS
			if len(tokens) > 1 {
				v, err := strconv.Atoi(tokens[1])
				if err != nil {
					return nil, &ParseError{lineNum, fmt.Sprintf("invalid FPS value %q", tokens[1])}
				}
				fps = v
			}
			if fps < 1 || fps > MaxFPS {
				return nil, &ValidationError{lineNum, fmt.Sprintf("FPS must be between 1 and %d", MaxFPS)}
			}
			spec.FPS = fps

		case "DURATION":
			duration := defaultDuration
			if len(tokens) > 1 {
				v, err := strconv.ParseFloat(tokens[1], 64)
				if err != nil {
					return nil, &ParseError{lineNum, fmt.Sprintf("invalid DURATION value %q", tokens[1])}
				}
				duration = v
			}
			if duration <= 0 || duration > MaxDuration {
				return nil, &ValidationError{lineNum, fmt.Sprintf("duration must be between 0 and %g seconds", float64(MaxDuration))}
			}
			spec.Duration = duration

		case "TEXT":
			objectCount++
			if objectCount > MaxObjects {
				return nil, &ValidationError{lineNum, fmt.Sprintf("too many objects, maximum is %d", MaxObjects)}
			}
			cmd, err := parseText(tokens[1:], lineNum)
			if err != nil {
				return nil, err
			}
			spec.Objects = append(spec.Objects, cmd)

		case "SHAPE":
			objectCount++
			if objectCount > MaxObjects {
				return nil, &ValidationError{lineNum, fmt.Sprintf("too many objects, maximum is %d", MaxObjects)}
			}
			cmd, err := parseShape(tokens[1:], lineNum)
			if err != nil {
				return nil, err
			}
			spec.Objects = append(spec.Objects, cmd)

		case "MOVE":
			cmd, err := parseMove(tokens[1:], lineNum)
			if err != nil {
				return nil, err
			}
			spec.Moves = append(spec.Moves, cmd)

		default:
			return nil, &ParseError{lineNum, fmt.Sprintf("unknown command %q", strings.ToUpper(tokens[0]))}
		}
	}

	if frames := spec.TotalFrames(); frames > MaxFrames {
		return nil, &ValidationError{0, fmt.Sprintf("total frames (%d) exceeds maximum (%d), reduce duration or FPS", frames, MaxFrames)}
	}

	return spec, nil
}

// parseText reads the keyword grammar after TEXT. Unrecognized tokens are
// skipped, malformed coordinate lists leave the prior value in place.
func parseText(tokens []string, lineNum int) (TextCommand, error) {
	if len(tokens) == 0 {
		return TextCommand{}, &ParseError{lineNum, "TEXT requires text content"}
	}

	cmd := TextCommand{
		ID:    fmt.Sprintf("text_%d", lineNum),
		Text:  tokens[0],
		X:     100,
		Y:     100,
		Size:  32,
		Color: "#FFFFFF",
	}

	i := 1
	for i < len(tokens) {
		switch keyword := strings.ToUpper(tokens[i]); {
		case keyword == "AT" && i+1 < len(tokens):
			p, err := parseCoords(tokens[i+1], lineNum)
			if err != nil {
				return TextCommand{}, err
			}
			if p != nil {
				cmd.X, cmd.Y = p.X, p.Y
			}
			i += 2
		case keyword == "SIZE" && i+1 < len(tokens):
			v, err := parseInt(tokens[i+1], "SIZE", lineNum)
			if err != nil {
				return TextCommand{}, err
			}
			cmd.Size = clampInt(v, 8, 200)
			i += 2
		case keyword == "COLOR" && i+1 < len(tokens):
			if !ValidColor(tokens[i+1]) {
				return TextCommand{}, &ValidationError{lineNum, fmt.Sprintf("invalid color %q, use hex format like #FF0000", tokens[i+1])}
			}
			cmd.Color = tokens[i+1]
			i += 2
		case keyword == "ID" && i+1 < len(tokens):
			cmd.ID = tokens[i+1]
			i += 2
		case keyword == "MOVE" && i+2 < len(tokens) && strings.ToUpper(tokens[i+1]) == "TO":
			p, err := parseCoords(tokens[i+2], lineNum)
			if err != nil {
				return TextCommand{}, err
			}
			if p != nil {
				cmd.MoveTo = p
			}
			i += 3
		case keyword == "DUR" && i+1 < len(tokens):
			v, err := parseFloat(tokens[i+1], "DUR", lineNum)
			if err != nil {
				return TextCommand{}, err
			}
			cmd.MoveDur = clampFloat(v, 0, MaxDuration)
			i += 2
		default:
			i++
		}
	}

	return cmd, nil
}

func parseShape(tokens []string, lineNum int) (ShapeCommand, error) {
	if len(tokens) == 0 {
		return ShapeCommand{}, &ParseError{lineNum, "SHAPE requires a type (CIRCLE or RECT)"}
	}

	kind := ShapeKind(strings.ToUpper(tokens[0]))
	if kind != ShapeCircle && kind != ShapeRect {
		return ShapeCommand{}, &ValidationError{lineNum, fmt.Sprintf("unknown shape type %q, allowed: CIRCLE, RECT", tokens[0])}
	}

	cmd := ShapeCommand{
		ID:     fmt.Sprintf("shape_%d", lineNum),
		Kind:   kind,
		X:      50,
		Y:      50,
		Color:  "#FFFFFF",
		Radius: 20,
		Width:  50,
		Height: 50,
		Ease:   EaseLinear,
	}

	i := 1
	for i < len(tokens) {
		switch keyword := strings.ToUpper(tokens[i]); {
		case keyword == "ID" && i+1 < len(tokens):
			cmd.ID = tokens[i+1]
			i += 2
		case keyword == "AT" && i+1 < len(tokens):
			p, err := parseCoords(tokens[i+1], lineNum)
			if err != nil {
				return ShapeCommand{}, err
			}
			if p != nil {
				cmd.X, cmd.Y = p.X, p.Y
			}
			i += 2
		case keyword == "RADIUS" && i+1 < len(tokens):
			v, err := parseInt(tokens[i+1], "RADIUS", lineNum)
			if err != nil {
				return ShapeCommand{}, err
			}
			cmd.Radius = clampInt(v, 1, 500)
			i += 2
		case keyword == "WIDTH" && i+1 < len(tokens):
			v, err := parseInt(tokens[i+1], "WIDTH", lineNum)
			if err != nil {
				return ShapeCommand{}, err
			}
			cmd.Width = clampInt(v, 1, MaxWidth)
			i += 2
		case keyword == "HEIGHT" && i+1 < len(tokens):
			v, err := parseInt(tokens[i+1], "HEIGHT", lineNum)
			if err != nil {
				return ShapeCommand{}, err
			}
			cmd.Height = clampInt(v, 1, MaxHeight)
			i += 2
		case keyword == "COLOR" && i+1 < len(tokens):
			if !ValidColor(tokens[i+1]) {
				return ShapeCommand{}, &ValidationError{lineNum, fmt.Sprintf("invalid color %q, use hex format like #FF0000", tokens[i+1])}
			}
			cmd.Color = tokens[i+1]
			i += 2
		case keyword == "MOVE" && i+2 < len(tokens) && strings.ToUpper(tokens[i+1]) == "TO":
			p, err := parseCoords(tokens[i+2], lineNum)
			if err != nil {
				return ShapeCommand{}, err
			}
			if p != nil {
				cmd.MoveTo = p
			}
			i += 3
		case keyword == "DUR" && i+1 < len(tokens):
			v, err := parseFloat(tokens[i+1], "DUR", lineNum)
			if err != nil {
				return ShapeCommand{}, err
			}
			cmd.MoveDur = clampFloat(v, 0, MaxDuration)
			i += 2
		case keyword == "EASE" && i+1 < len(tokens):
			if ease := strings.ToLower(tokens[i+1]); isAllowedEase(ease) {
				cmd.Ease = ease
			}
			i += 2
		default:
			i++
		}
	}

	return cmd, nil
}

func parseMove(tokens []string, lineNum int) (MoveCommand, error) {
	if len(tokens) < 4 {
		return MoveCommand{}, &ParseError{lineNum, "MOVE requires: object_id TO x,y DUR seconds"}
	}

	cmd := MoveCommand{
		ObjectID: tokens[0],
		Duration: 1.0,
		Ease:     EaseLinear,
	}

	i := 1
	for i < len(tokens) {
		switch keyword := strings.ToUpper(tokens[i]); {
		case keyword == "TO" && i+1 < len(tokens):
			p, err := parseCoords(tokens[i+1], lineNum)
			if err != nil {
				return MoveCommand{}, err
			}
			if p != nil {
				cmd.To = *p
			}
			i += 2
		case keyword == "DUR" && i+1 < len(tokens):
			v, err := parseFloat(tokens[i+1], "DUR", lineNum)
			if err != nil {
				return MoveCommand{}, err
			}
			cmd.Duration = clampFloat(v, 0.1, MaxDuration)
			i += 2
		case keyword == "EASE" && i+1 < len(tokens):
			if ease := strings.ToLower(tokens[i+1]); isAllowedEase(ease) {
				cmd.Ease = ease
			}
			i += 2
		default:
			i++
		}
	}

	return cmd, nil
}

// parseCoords splits an "x,y" token and clamps both axes to the canvas
// bounds. A token that does not split into exactly two parts yields nil
// (the caller keeps its previous value), not an error.
func parseCoords(token string, lineNum int) (*Point, error) {
	parts := strings.Split(token, ",")
	if len(parts) != 2 {
		return nil, nil
	}
	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, &ParseError{lineNum, fmt.Sprintf("invalid coordinate %q", token)}
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, &ParseError{lineNum, fmt.Sprintf("invalid coordinate %q", token)}
	}
	return &Point{ClampCoord(x, MaxWidth), ClampCoord(y, MaxHeight)}, nil
}

func parseInt(token, keyword string, lineNum int) (int, error) {
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, &ParseError{lineNum, fmt.Sprintf("invalid %s value %q", keyword, token)}
	}
	return v, nil
}

func parseFloat(token, keyword string, lineNum int) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, &ParseError{lineNum, fmt.Sprintf("invalid %s value %q", keyword, token)}
	}
	return v, nil
}
