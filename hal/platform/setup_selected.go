//go:build pico && (keyer_v1 || sk_proto)

package platform

import (
	"cwkeyer-go/hal/platform/setups"
	"cwkeyer-go/types"
)

func selectedSetup() types.KeyerSetup { return setups.Selected }
