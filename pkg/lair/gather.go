package lair

// xchg moves up to cnt pieces of type t out of src into *dst, honouring
// leave-behind pins. It returns the number moved.
func (p *Planner) xchg(src *Land, t PieceType, dst *int, cnt int) int {
	leave := p.conf.LeaveFor(src.Key, t)
	actual := min(max(src.Pieces[t]-leave, 0), cnt)
	if actual <= 0 {
		return 0
	}
	src.Pieces[t] -= actual
	*dst += actual
	return actual
}

// gather pulls pieces of type t from land toward the lair, spending cnt
// gathers. Pieces stop at their range-1 land unless force is set, the land
// is ignored, or they would survive the remaining ravages next to dahan.
// It returns the gathers spent.
func (p *Planner) gather(t PieceType, land *Land, cnt int, force bool) int {
	if p.conf.Ignored(land.Key) {
		return 0
	}
	cost, ok := p.gatherCost[land.Key]
	if !ok {
		return 0
	}

	var intermediate []string
	target := p.gathersTo[land.Key]
	for target != nil && p.state.Dist[target.Key] > 1 {
		intermediate = append(intermediate, target.DisplayName)
		target = p.gathersTo[target.Key]
	}
	if target == nil {
		return 0
	}

	if force || p.conf.Ignored(target.Key) || (t.Health() > p.ravagesLeft && target.Pieces[Dahan] > 0) {
		if cost > 0 {
			intermediate = append(intermediate, target.DisplayName)
		}
		target = p.state.Lair
		cost++
	}
	if cost == 0 {
		return 0
	}

	gathered := p.xchg(land, t, &target.Pieces[t], cnt/cost)
	spent := gathered * cost
	p.state.TotalGathers += spent
	if gathered > 0 {
		name := p.conf.PieceNames.Name(t)
		p.uncommitted = append(p.uncommitted, Entry{
			Kind:         Gather,
			SrcLand:      land.DisplayName,
			TgtLand:      target.DisplayName,
			Pieces:       []PieceCount{{Src: name, Tgt: name, Count: gathered}},
			Intermediate: intermediate,
			Mult:         cost,
		})
	}
	return spent
}

func (p *Planner) slurp(t PieceType, land *Land, cnt int) int {
	return p.gather(t, land, cnt, false)
}

// downgrade replaces pieces of type t with their response piece in place.
func (p *Planner) downgrade(t PieceType, land *Land, cnt int) int {
	resp, ok := t.Response()
	if !ok {
		return 0
	}
	actual := p.xchg(land, t, &land.Pieces[resp], cnt)
	if actual > 0 {
		p.uncommitted = append(p.uncommitted, Entry{
			Kind:    Downgrade,
			SrcLand: land.DisplayName,
			TgtLand: land.DisplayName,
			Pieces: []PieceCount{{
				Src:   p.conf.PieceNames.Name(t),
				Tgt:   p.conf.PieceNames.Name(resp),
				Count: actual,
			}},
		})
	}
	return actual
}

// damage destroys pieces of type t in land with up to dmg damage and queues
// their military response. It returns the damage used.
func (p *Planner) damage(land *Land, t PieceType, dmg int) int {
	var (
		respondTo *Land
		sink      int
		dst       = &sink
	)
	resp, hasResp := t.Response()
	if hasResp {
		switch {
		case land.Pieces[Dahan] > 0:
			respondTo = land
		case p.state.Dist[land.Key] == 1:
			respondTo = p.state.Lair
		default:
			respondTo = p.gathersTo[land.Key]
		}
		if respondTo == nil {
			respondTo = p.state.Lair
		}
		dst = &respondTo.pending[resp]
	}

	kill := p.xchg(land, t, dst, dmg/t.Health())
	if kill > 0 {
		pc := PieceCount{Src: p.conf.PieceNames.Name(t), Count: kill}
		e := Entry{Kind: Destroy, SrcLand: land.DisplayName}
		if hasResp {
			pc.Tgt = p.conf.PieceNames.Name(resp)
			e.TgtLand = respondTo.DisplayName
		}
		e.Pieces = []PieceCount{pc}
		p.uncommitted = append(p.uncommitted, e)
	}
	p.state.Fear += kill * t.Fear()
	return kill * t.Health()
}

func (p *Planner) add(land *Land, t PieceType, cnt int) {
	land.Pieces[t] += cnt
	p.state.Log.Add(Entry{
		Kind:    Add,
		TgtLand: land.DisplayName,
		Pieces:  []PieceCount{{Tgt: p.conf.PieceNames.Name(t), Count: cnt}},
	})
}

// build adds a city where towns outnumber cities, else a town. Lands
// without invaders do not build.
func (p *Planner) build(land *Land) {
	if land.TotalInvaders() == 0 {
		return
	}
	t := Town
	if land.Pieces[Town] > land.Pieces[City] {
		t = City
	}
	p.add(land, t, 1)
}
