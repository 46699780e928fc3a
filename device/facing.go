package device

import (
	"strings"

	"github.com/soocke/frontcam-go/domain/capture"
)

var backFacingHints = []string{"back", "rear", "environment", "world"}

// InferFacing guesses a device's facing from its label. Devices without a
// hint are treated as front-facing: desktop and laptop webcams look at the
// user.
func InferFacing(label string) capture.Facing {
	l := strings.ToLower(label)
	for _, hint := range backFacingHints {
		if strings.Contains(l, hint) {
			return capture.FacingBack
		}
	}
	return capture.FacingFront
}
