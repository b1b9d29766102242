package bfl

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignSlots(t *testing.T) {
	base := []byte("base")
	ref := []byte("reference")
	logo := []byte("logo")

	tests := []struct {
		name      string
		reference []byte
		logo      []byte
		want      []ImageSlot
	}{
		{
			name: "base only",
			want: []ImageSlot{{Name: "input_image", Data: base}},
		},
		{
			name:      "reference only",
			reference: ref,
			want:      []ImageSlot{{Name: "input_image", Data: base}, {Name: "input_image_2", Data: ref}},
		},
		{
			name: "logo compacts into slot two",
			logo: logo,
			want: []ImageSlot{{Name: "input_image", Data: base}, {Name: "input_image_2", Data: logo}},
		},
		{
			name:      "reference and logo",
			reference: ref,
			logo:      logo,
			want: []ImageSlot{
				{Name: "input_image", Data: base},
				{Name: "input_image_2", Data: ref},
				{Name: "input_image_3", Data: logo},
			},
		},
		{
			name:      "empty reference leaves no gap",
			reference: []byte{},
			logo:      logo,
			want:      []ImageSlot{{Name: "input_image", Data: base}, {Name: "input_image_2", Data: logo}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AssignSlots(base, tc.reference, tc.logo))
		})
	}
}

func TestSubmitPayloadMarshal(t *testing.T) {
	raw, err := json.Marshal(submitPayload{
		Prompt: "studio shot",
		Width:  768,
		Height: 512,
		Slots:  AssignSlots([]byte{1, 2, 3}, nil, []byte{4}),
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "studio shot", got["prompt"])
	assert.EqualValues(t, 768, got["width"])
	assert.EqualValues(t, 512, got["height"])
	assert.Equal(t, "png", got["output_format"])
	assert.EqualValues(t, 2, got["safety_tolerance"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{1, 2, 3}), got["input_image"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{4}), got["input_image_2"])
	assert.NotContains(t, got, "input_image_3")
}
