package engine

// Level is one row of the fixed, ascending level table
type Level struct {
	Level      int
	XPRequired int
	Title      string
	Emoji      string
	Costume    string
}

// Levels is ordered by XPRequired. Each level unlocks the costume of the same number.
var Levels = []Level{
	{Level: 1, XPRequired: 0, Title: "Pemula", Emoji: "🥚", Costume: "Telur Mula"},
	{Level: 2, XPRequired: 100, Title: "Pejuang", Emoji: "🐣", Costume: "Bibit Tekad"},
	{Level: 3, XPRequired: 250, Title: "Penjelajah", Emoji: "🐥", Costume: "Jiwa Petualang"},
	{Level: 4, XPRequired: 500, Title: "Pendekar", Emoji: "🦅", Costume: "Elang Pengawas"},
	{Level: 5, XPRequired: 900, Title: "Maestro", Emoji: "🦁", Costume: "Singa Disiplin"},
	{Level: 6, XPRequired: 1500, Title: "Legenda", Emoji: "🐉", Costume: "Naga Evolusi"},
	{Level: 7, XPRequired: 2500, Title: "Abadi", Emoji: "✨", Costume: "Cahaya Sejati"},
}

// LevelFor returns the highest level whose threshold is at or below xp
func LevelFor(xp int) Level {
	current := Levels[0]
	for _, l := range Levels {
		if xp >= l.XPRequired {
			current = l
		}
	}
	return current
}

// LevelInfo describes progress within the current level
type LevelInfo struct {
	Current   Level
	Next      *Level
	XPInLevel int
	XPForNext int
	Pct       int
}

// ProgressFor computes level progress for an XP total. At the top level the
// bar is measured against a nominal 100 XP.
func ProgressFor(xp int) LevelInfo {
	current := LevelFor(xp)
	info := LevelInfo{Current: current, XPInLevel: xp - current.XPRequired, XPForNext: 100}
	for i, l := range Levels {
		if l.Level == current.Level && i+1 < len(Levels) {
			next := Levels[i+1]
			info.Next = &next
			info.XPForNext = next.XPRequired - current.XPRequired
		}
	}
	pct := info.XPInLevel * 100 / info.XPForNext
	if pct > 100 {
		pct = 100
	}
	info.Pct = pct
	return info
}

// LevelChange is reported by AddXP when the level increases
type LevelChange struct {
	From Level
	To   Level
}

// Level returns the level derived from the current XP
func (e *Engine) Level() Level {
	return LevelFor(e.profile.XP)
}

// AddXP adds amount to the profile. The level is compared before and after the
// mutation; an increase is emitted as EventLevelUp and returned.
// Non-positive amounts are ignored.
func (e *Engine) AddXP(amount int) (LevelChange, bool) {
	if amount <= 0 {
		return LevelChange{}, false
	}
	before := LevelFor(e.profile.XP)
	e.profile.XP += amount
	after := LevelFor(e.profile.XP)
	if after.Level <= before.Level {
		return LevelChange{}, false
	}
	e.emit(Event{Kind: EventLevelUp, Level: after})
	return LevelChange{From: before, To: after}, true
}
