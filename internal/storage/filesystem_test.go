package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleStoreSave(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "out")
	store, err := NewSampleStore(root)
	require.NoError(t, err)
	assert.Equal(t, root, store.Root())

	path, err := store.Save(context.Background(), "job-42", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "job-42.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestSampleFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "abc-123", want: "abc-123.png"},
		{in: "../../etc/passwd", want: "______etc_passwd.png"},
		{in: "a/b", want: "a_b.png"},
		{in: "  ", wantErr: true},
		{in: "../", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := sampleFileName(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSampleStoreRejects(t *testing.T) {
	_, err := NewSampleStore("  ")
	require.Error(t, err)

	store, err := NewSampleStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Save(ctx, "x", nil)
	require.ErrorIs(t, err, context.Canceled)
}
