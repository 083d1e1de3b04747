package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInput(t *testing.T) {
	t.Run("标准输入", func(t *testing.T) {
		for _, path := range []string{"", "-"} {
			r, closeFn, err := openInput(path)
			require.NoError(t, err)
			assert.Equal(t, os.Stdin, r)
			closeFn()
		}
	})

	t.Run("文件", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "packets.txt")
		require.NoError(t, os.WriteFile(path, []byte("127.0.0.1:8001 AQID\n"), 0o600))

		r, closeFn, err := openInput(path)
		require.NoError(t, err)
		defer closeFn()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8001 AQID\n", string(data))
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, _, err := openInput(filepath.Join(t.TempDir(), "missing.txt"))
		assert.Error(t, err)
	})
}

func TestBuildOptions(t *testing.T) {
	saved := *lanes
	defer func() { *lanes = saved }()

	*lanes = -1
	_, err := buildOptions()
	assert.Error(t, err)

	*lanes = 8
	opts, err := buildOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 1)
}
