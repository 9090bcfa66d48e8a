package lair

// explorerGrace is the number of lair explorers that deal no ravage damage.
const explorerGrace = 6

// ravage spends the lair's damage on the range-1 lands: towns and cities
// first land by land, then explorers. Military response is placed once
// both passes are done.
func (p *Planner) ravage() {
	p.ravagesLeft--

	r0 := p.state.Lair
	dmg := max(0, r0.Pieces[Explorer]-explorerGrace) + r0.Pieces[Town]*Town.Health() + r0.Pieces[City]*City.Health()
	fearBefore := p.state.Fear

	var targets []*Land
	for _, l := range p.r1 {
		if !p.conf.Ignored(l.Key) {
			targets = append(targets, l)
		}
	}
	targets = p.sortByLandOrder(targets)

	for _, land := range targets {
		dmg -= p.damage(land, Town, dmg)
		dmg -= p.damage(land, City, dmg)
	}
	for _, land := range targets {
		dmg -= p.damage(land, Explorer, dmg)
	}
	p.commit()

	p.state.Log.Commentf("unused damage left at end of ravage: %d", dmg)
	p.state.Log.Commentf("fear caused by ravage: %d", p.state.Fear-fearBefore)
	p.state.WastedDamage += dmg
	p.checkProtected(targets, dmg)

	r0.placePending()
	for _, l := range p.r1 {
		l.placePending()
	}
}

// checkProtected records a violation for every leave-behind piece that the
// unused damage could still have destroyed.
func (p *Planner) checkProtected(targets []*Land, dmg int) {
	if dmg <= 0 {
		return
	}
	for _, land := range targets {
		for _, t := range Invaders {
			protected := min(p.conf.LeaveFor(land.Key, t), land.Pieces[t])
			if protected <= 0 || t.Health() > dmg {
				continue
			}
			v := Violation{
				Land:         land.DisplayName,
				Piece:        t,
				Protected:    protected,
				UnusedDamage: dmg,
			}
			p.state.Violations = append(p.state.Violations, v)
			p.state.Log.Commentf("%s", v)
		}
	}
}
