package cmd_test

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Beastly713/whisper/cmd"
	"github.com/Beastly713/whisper/pkg/imageio"
	"github.com/Beastly713/whisper/pkg/stego"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCarrier(t *testing.T, dir string) string {
	t.Helper()
	rd := rand.New(rand.NewSource(1))
	img := image.NewNRGBA(image.Rect(0, 0, 80, 60))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = uint8(rd.Intn(256)), uint8(rd.Intn(256)), uint8(rd.Intn(256)), 255
	}
	path := filepath.Join(dir, "carrier.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// run executes the root command with fresh flag values and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cmd.GetRootCmd()
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(root.PersistentFlags())
	for _, c := range root.Commands() {
		reset(c.Flags())
	}

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHideRevealRoundTrip(t *testing.T) {
	t.Setenv("WHISPER_PASSWORD", "")
	tmpDir := t.TempDir()
	carrier := writeCarrier(t, tmpDir)
	hidden := filepath.Join(tmpDir, "hidden.png")

	// 1. Hide with a password
	_, err := run(t, "hide", carrier, "-m", "meet me at the old bridge", "-p", "hunter2", "-o", hidden)
	require.NoError(t, err, "Hide command failed")

	// 2. Reveal with the right password
	out, err := run(t, "reveal", hidden, "-p", "hunter2")
	require.NoError(t, err, "Reveal command failed")
	assert.Equal(t, "meet me at the old bridge\n", out)

	// 3. Wrong, missing and asserted-missing passwords
	_, err = run(t, "reveal", hidden, "-p", "wrong")
	assert.ErrorIs(t, err, stego.ErrPasswordMismatch)

	_, err = run(t, "reveal", hidden)
	assert.ErrorIs(t, err, stego.ErrProtectionMismatch)

	_, err = run(t, "reveal", hidden, "--protected")
	assert.ErrorIs(t, err, stego.ErrPasswordRequired)

	// 4. Detect
	out, err = run(t, "detect", hidden)
	require.NoError(t, err)
	assert.Equal(t, "protected\n", out)
}

func TestHidePlainDefaultOutput(t *testing.T) {
	t.Setenv("WHISPER_PASSWORD", "")
	tmpDir := t.TempDir()
	carrier := writeCarrier(t, tmpDir)

	msgFile := filepath.Join(tmpDir, "msg.txt")
	require.NoError(t, os.WriteFile(msgFile, []byte("written from a file"), 0644))

	_, err := run(t, "hide", carrier, "--message-file", msgFile, "--format", "bmp")
	require.NoError(t, err)

	hidden := filepath.Join(tmpDir, "carrier_hidden.bmp")
	_, err = os.Stat(hidden)
	require.NoError(t, err, "default output not created")

	out, err := run(t, "reveal", hidden)
	require.NoError(t, err)
	assert.Equal(t, "written from a file\n", out)

	out, err = run(t, "detect", hidden)
	require.NoError(t, err)
	assert.Equal(t, "plain\n", out)

	// Existing output is not replaced without --overwrite.
	_, err = run(t, "hide", carrier, "-m", "again", "--format", "bmp")
	assert.Error(t, err)
	_, err = run(t, "hide", carrier, "-m", "again", "--format", "bmp", "--overwrite")
	require.NoError(t, err)
}

func TestPasswordFromEnv(t *testing.T) {
	t.Setenv("WHISPER_PASSWORD", "from-env")
	tmpDir := t.TempDir()
	carrier := writeCarrier(t, tmpDir)
	hidden := filepath.Join(tmpDir, "env.png")

	_, err := run(t, "hide", carrier, "-m", "env secret", "-o", hidden)
	require.NoError(t, err)

	out, err := run(t, "reveal", hidden)
	require.NoError(t, err)
	assert.Equal(t, "env secret\n", out)

	_, err = run(t, "reveal", hidden, "-p", "other")
	assert.ErrorIs(t, err, stego.ErrPasswordMismatch)
}

func TestHideInPlaceKeepsCarrier(t *testing.T) {
	t.Setenv("WHISPER_PASSWORD", "")
	tmpDir := t.TempDir()
	carrier := writeCarrier(t, tmpDir)
	hidden := filepath.Join(tmpDir, "hidden.png")

	_, err := run(t, "hide", carrier, "-m", "first", "-o", hidden)
	require.NoError(t, err)

	// Writing over the input image is refused, even with --overwrite.
	_, err = run(t, "hide", hidden, "-m", "second", "-o", hidden, "--overwrite")
	assert.Error(t, err)

	out, err := run(t, "reveal", hidden)
	require.NoError(t, err)
	assert.Equal(t, "first\n", out)
}

func TestHideFailureKeepsExistingOutput(t *testing.T) {
	t.Setenv("WHISPER_PASSWORD", "")
	tmpDir := t.TempDir()
	carrier := writeCarrier(t, tmpDir)
	hidden := filepath.Join(tmpDir, "hidden.png")

	_, err := run(t, "hide", carrier, "-m", "keep me", "-o", hidden)
	require.NoError(t, err)

	_, err = run(t, "hide", carrier, "-m", strings.Repeat("x", 5000), "-o", hidden, "--overwrite")
	assert.ErrorIs(t, err, stego.ErrMessageTooLarge)

	out, err := run(t, "reveal", hidden)
	require.NoError(t, err)
	assert.Equal(t, "keep me\n", out)

	// No temporary files are left behind.
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestHideRejectsLossyOutput(t *testing.T) {
	tmpDir := t.TempDir()
	carrier := writeCarrier(t, tmpDir)

	_, err := run(t, "hide", carrier, "-m", "x", "-o", filepath.Join(tmpDir, "out.jpg"))
	assert.ErrorIs(t, err, imageio.ErrLossyFormat)

	_, err = run(t, "hide", carrier)
	assert.Error(t, err, "hide without a message must fail")
}

func TestCapacityAndInspect(t *testing.T) {
	t.Setenv("WHISPER_PASSWORD", "")
	tmpDir := t.TempDir()
	carrier := writeCarrier(t, tmpDir)

	out, err := run(t, "capacity", carrier, "-p", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "80x60 pixels")
	bits := (80*60 - stego.HeaderPixels) * 3
	assert.Contains(t, out, fmt.Sprint(bits))
	// Protected message room excludes "pw:".
	assert.Contains(t, out, fmt.Sprint(bits/8-3))

	out, err = run(t, "inspect", carrier)
	require.NoError(t, err)
	assert.Contains(t, out, "Verdict")
	assert.Contains(t, out, "Entropy")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range cmd.GetRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"hide", "reveal", "detect", "inspect", "capacity", "interactive"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
