package component

// ExpPerSP is the sp-exp cost of one skill point.
const ExpPerSP = 400

// ExperienceGained is one recorded gain, kept until the envelope reset.
type ExperienceGained struct {
	Exp            uint64
	SPExp          uint64
	TriggedLevelUp bool
	From           *EntityRef
}

// Experienced accumulates experience and sp-exp. The counters are monotonic
// except for the level-up subtraction in TryLevelUp.
type Experienced struct {
	experience uint64
	spExp      uint64
	received   []ExperienceGained
}

func NewExperienced(experience, spExp uint64) Experienced {
	return Experienced{experience: experience, spExp: spExp}
}

func (e *Experienced) Receive(exp, spExp uint64, from *EntityRef) {
	e.experience += exp
	e.spExp += spExp
	e.received = append(e.received, ExperienceGained{Exp: exp, SPExp: spExp, From: from})
}

func (e *Experienced) Experience() uint64 {
	return e.experience
}

// TryLevelUp subtracts the requirement and flags the latest gain when enough
// experience has accumulated.
func (e *Experienced) TryLevelUp(required uint64) bool {
	if required == 0 || e.experience < required {
		return false
	}
	e.experience -= required
	if len(e.received) > 0 {
		e.received[len(e.received)-1].TriggedLevelUp = true
	}
	return true
}

// ConvertSP turns accumulated sp-exp into whole skill points.
func (e *Experienced) ConvertSP() uint32 {
	result := uint32(e.spExp / ExpPerSP)
	e.spExp %= ExpPerSP
	return result
}

func (e *Experienced) Gains() []ExperienceGained {
	return e.received
}

// ResetGains drops the per-tick gain records after distribution.
func (e *Experienced) ResetGains() {
	e.received = e.received[:0]
}

// Leveled tracks the current level and whether a level change happened this
// tick.
type Leveled struct {
	level     uint8
	leveledUp int8
}

func NewLeveled(level uint8) Leveled {
	return Leveled{level: level}
}

func (l *Leveled) Current() uint8 {
	return l.level
}

func (l *Leveled) LevelUp() {
	if l.level < 255 {
		l.level++
	}
	l.leveledUp++
}

func (l *Leveled) DidLevel() bool {
	return l.leveledUp > 0
}

func (l *Leveled) ResetChange() {
	l.leveledUp = 0
}

// SP is the spendable skill point pool.
type SP struct {
	amount uint32
}

func NewSP(amount uint32) SP {
	return SP{amount: amount}
}

func (s *SP) Current() uint32 {
	return s.amount
}

func (s *SP) Gain(amount uint32) {
	s.amount += amount
}

func (s *SP) Spend(amount uint32) bool {
	if amount > s.amount {
		return false
	}
	s.amount -= amount
	return true
}

// MasteryKnowledge tracks mastery levels keyed by mastery ref id.
type MasteryKnowledge struct {
	masteries map[uint32]uint8
	leveled   []uint32
}

func NewMasteryKnowledge(values map[uint32]uint8) *MasteryKnowledge {
	m := &MasteryKnowledge{masteries: make(map[uint32]uint8, len(values))}
	for id, level := range values {
		m.masteries[id] = level
	}
	return m
}

func (m *MasteryKnowledge) LevelOf(refID uint32) uint8 {
	return m.masteries[refID]
}

func (m *MasteryKnowledge) LevelBy(refID uint32, amount uint8) {
	m.masteries[refID] += amount
	m.leveled = append(m.leveled, refID)
}

// All returns the full mastery map for persistence snapshots.
func (m *MasteryKnowledge) All() map[uint32]uint8 {
	snapshot := make(map[uint32]uint8, len(m.masteries))
	for id, level := range m.masteries {
		snapshot[id] = level
	}
	return snapshot
}

func (m *MasteryKnowledge) Updated() []uint32 {
	return m.leveled
}

func (m *MasteryKnowledge) ResetChange() {
	m.leveled = m.leveled[:0]
}
