package main

import (
	"bytes"
	"encoding/json"
	"image"
	imagecolor "image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/bmp"
)

func init() {
	color.NoColor = true
	cli.OsExiter = func(int) {}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"codectool"}, args...))
	return stdout.String(), err
}

func TestCompressDecompress(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.txt")
	original := []byte(strings.Repeat("mississippi ", 100))
	require.NoError(t, os.WriteFile(input, original, 0o644))

	for _, algorithm := range []string{"rle", "huffman", "lzw"} {
		t.Run(algorithm, func(t *testing.T) {
			compressed := filepath.Join(dir, "notes."+algorithm)
			out, err := run(t, "compress", "-a", algorithm, "-o", compressed, input)
			require.NoError(t, err)
			assert.Contains(t, out, "1.17 KB")

			restored := filepath.Join(dir, "restored_"+algorithm)
			_, err = run(t, "decompress", "-a", algorithm, "-o", restored, compressed)
			require.NoError(t, err)

			content, err := os.ReadFile(restored)
			require.NoError(t, err)
			assert.Equal(t, original, content)
		})
	}
}

func TestCompress__DefaultOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(input, []byte{1, 1, 1, 2, 2, 3}, 0o644))

	_, err := run(t, "compress", "--algorithm", "huffman", input)
	require.NoError(t, err)
	assert.FileExists(t, input+".huff")

	require.NoError(t, os.Remove(input))
	_, err = run(t, "decompress", "-a", "huffman", input+".huff")
	require.NoError(t, err)
	content, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 1, 2, 2, 3}, content)
}

func TestCompress__Errors(t *testing.T) {
	_, err := run(t, "compress", "-a", "rle")
	assert.Error(t, err)

	_, err = run(t, "compress", "-a", "brotli", "whatever")
	assert.Error(t, err)

	_, err = run(t, "compress", "-a", "rle", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = run(t, "compress", "missing-algorithm-flag")
	assert.Error(t, err)
}

func TestRestoredPath(t *testing.T) {
	assert.Equal(t, "notes.txt", restoredPath("notes.txt.rle", "rle"))
	assert.Equal(t, "dir/a.huff.out", restoredPath("dir/a.huff", "lzw"))
	assert.Equal(t, ".lzw.out", restoredPath(".lzw", "lzw"))
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "runs.txt")
	second := filepath.Join(dir, "words.md")
	require.NoError(t, os.WriteFile(first, []byte(strings.Repeat("a", 500)+strings.Repeat("b", 500)), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(strings.Repeat("to be or not to be ", 40)), 0o644))
	csvPath := filepath.Join(dir, "out.csv")
	jsonPath := filepath.Join(dir, "out.json")
	pdfPath := filepath.Join(dir, "out.pdf")

	out, err := run(t, "compare", "-a", "rle", "-a", "lzw", "--baseline",
		"--csv", csvPath, "--json", jsonPath, "--pdf", pdfPath, first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "runs.txt (document, 1000 symbols)")
	assert.Contains(t, out, "best: rle")
	assert.Contains(t, out, "zstd (baseline)")
	assert.NotContains(t, out, "FAILED")

	csvContent, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvContent)), "\n")
	assert.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "file,algorithm,"))

	jsonContent, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonContent, &rows))
	require.Len(t, rows, 8)
	assert.Equal(t, first, rows[0]["file"])
	assert.Equal(t, "rle", rows[0]["algorithm"])

	pdfContent, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfContent, []byte("%PDF-")))
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "stripes.bmp")
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, imagecolor.NRGBA{R: uint8(40 * (y % 2)), G: 80, B: 120, A: 255})
		}
	}
	var encoded bytes.Buffer
	require.NoError(t, bmp.Encode(&encoded, img))
	require.NoError(t, os.WriteFile(input, encoded.Bytes(), 0o644))

	output := filepath.Join(dir, "preview.png")
	out, err := run(t, "preview", "-g", "--delta", "--resize", "50", "-o", output, input)
	require.NoError(t, err)
	assert.Contains(t, out, "4x3, 1 channels, 12 symbols")

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	restored, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), restored.Bounds())

	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("plain words"), 0o644))
	out, err = run(t, "preview", "-o", filepath.Join(dir, "notes.out"), text)
	require.NoError(t, err)
	assert.Contains(t, out, "document, 11 symbols")
	content, err := os.ReadFile(filepath.Join(dir, "notes.out"))
	require.NoError(t, err)
	assert.Equal(t, "plain words", string(content))

	_, err = run(t, "preview", "-o", output, filepath.Join(dir, "clip.mov"))
	assert.Error(t, err)
}

func TestCompare__BadInputs(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "ok.txt")
	require.NoError(t, os.WriteFile(good, []byte("abc"), 0o644))

	_, err := run(t, "compare")
	assert.Error(t, err)

	_, err = run(t, "compare", "-a", "bwt", good)
	assert.Error(t, err)

	out, err := run(t, "compare", good, filepath.Join(dir, "clip.mp4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clip.mp4")
	assert.Contains(t, out, "ok.txt")
}

func TestInfo(t *testing.T) {
	out, err := run(t, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "huffman")
	assert.Contains(t, out, ".huff")
	assert.Contains(t, out, "zstd, xz")
}
