package platform

import "cwkeyer-go/types"

// Setup returns the board setup chosen at build time.
func Setup() types.KeyerSetup { return selectedSetup() }
