package component

// DamageReceiver attributes received damage per attacker (by unique id) for
// the pro-rata experience split on kill.
type DamageReceiver struct {
	counts map[uint32]uint64
}

func NewDamageReceiver() *DamageReceiver {
	return &DamageReceiver{counts: make(map[uint32]uint64, 4)}
}

func (d *DamageReceiver) Record(source uint32, amount uint64) {
	d.counts[source] += amount
}

func (d *DamageReceiver) TotalOf(source uint32) uint64 {
	return d.counts[source]
}

func (d *DamageReceiver) Total() uint64 {
	var total uint64
	for _, amount := range d.counts {
		total += amount
	}
	return total
}

// Attackers returns all recorded damage sources.
func (d *DamageReceiver) Attackers() []uint32 {
	attackers := make([]uint32, 0, len(d.counts))
	for source := range d.counts {
		attackers = append(attackers, source)
	}
	return attackers
}
