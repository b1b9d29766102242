package bfl

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
)

const (
	outputFormat    = "png"
	safetyTolerance = 2
)

// ImageSlot is one positional image input of a Flux request.
type ImageSlot struct {
	Name string
	Data []byte
}

// AssignSlots packs the supplied images, in the order base, reference, logo,
// into consecutive input_image slots. A nil or empty image is skipped and
// never leaves a gap: a logo without a reference lands in input_image_2.
func AssignSlots(base, reference, logo []byte) []ImageSlot {
	slots := make([]ImageSlot, 0, 3)
	for _, data := range [][]byte{base, reference, logo} {
		if len(data) == 0 {
			continue
		}
		slots = append(slots, ImageSlot{Name: slotName(len(slots)), Data: data})
	}
	return slots
}

func slotName(index int) string {
	if index == 0 {
		return "input_image"
	}
	return "input_image_" + strconv.Itoa(index+1)
}

// submitPayload is the JSON body accepted by the Flux model endpoints. Image
// slots become top-level keys, so the payload marshals through a map.
type submitPayload struct {
	Prompt string
	Width  int
	Height int
	Slots  []ImageSlot
}

func (p submitPayload) MarshalJSON() ([]byte, error) {
	body := map[string]any{
		"prompt":           p.Prompt,
		"width":            p.Width,
		"height":           p.Height,
		"output_format":    outputFormat,
		"safety_tolerance": safetyTolerance,
	}
	for _, slot := range p.Slots {
		body[slot.Name] = base64.StdEncoding.EncodeToString(slot.Data)
	}
	return json.Marshal(body)
}
