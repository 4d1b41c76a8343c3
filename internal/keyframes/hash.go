package keyframes

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math/bits"
	"os"

	"github.com/corona10/goimagehash"

	"videodigest/internal/services"
)

// HashFunc computes a 64-bit perceptual hash of the image at path.
type HashFunc func(path string) (uint64, error)

// PerceptionHash decodes the image at path and returns its DCT-based
// perceptual hash.
func PerceptionHash(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "frames", "hash", "open frame", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "frames", "hash",
			fmt.Sprintf("decode frame %s", path), err)
	}
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "frames", "hash",
			fmt.Sprintf("hash frame %s", path), err)
	}
	return hash.GetHash(), nil
}

// HammingDistance counts differing bits between two perceptual hashes.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
