package component

type Health struct {
	Current int
	Max     int
}

func NewHealth(max int) Health {
	return Health{Current: max, Max: max}
}

// Damage subtracts amount, clamping at zero, and returns the amount actually
// removed.
func (h *Health) Damage(amount int) int {
	if amount <= 0 || h.Current <= 0 {
		return 0
	}
	before := h.Current
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	return before - h.Current
}

func (h *Health) Heal(amount int) {
	if amount <= 0 {
		return
	}
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

func (h *Health) Refill() {
	h.Current = h.Max
}

func (h Health) Dead() bool {
	return h.Current <= 0
}

var HealthComponent = NewComponent[Health]()
