package halcore

// PinKey drives a key line from a GPIO pin. With Invert set the pin is low
// while the key is down (open-collector or opto stages).
type PinKey struct {
	pin    GPIOPin
	invert bool
}

// NewPinKey configures pin as an output with the key up.
func NewPinKey(pin GPIOPin, invert bool) (*PinKey, error) {
	k := &PinKey{pin: pin, invert: invert}
	if err := pin.ConfigureOutput(invert); err != nil {
		return nil, err
	}
	return k, nil
}

func (k *PinKey) Set(down bool) { k.pin.Set(down != k.invert) }
func (k *PinKey) Get() bool     { return k.pin.Get() != k.invert }

func (k *PinKey) Inverted() bool { return k.invert }

// MultiKey fans one key line out to several outputs (key plus activity LED).
// Get reports the first output.
type MultiKey []Key

func (m MultiKey) Set(down bool) {
	for _, k := range m {
		k.Set(down)
	}
}

func (m MultiKey) Get() bool {
	if len(m) == 0 {
		return false
	}
	return m[0].Get()
}
